package core

import (
	"strings"
	"unicode/utf16"
)

// pdfDocHigh maps PDFDocEncoding bytes 0x80..0xA0 to their Unicode values.
// Below 0x80 the encoding is ASCII; from 0xA1 up it matches Latin-1.
var pdfDocHigh = [33]rune{
	0x2022, 0x2020, 0x2021, 0x2026, 0x2014, 0x2013, 0x0192, 0x2044,
	0x2039, 0x203A, 0x2212, 0x2030, 0x201E, 0x201C, 0x201D, 0x2018,
	0x2019, 0x201A, 0x2122, 0xFB01, 0xFB02, 0x0141, 0x0152, 0x0160,
	0x0178, 0x017D, 0x0131, 0x0142, 0x0153, 0x0161, 0x017E, 0xFFFD,
	0x20AC,
}

// DecodeText interprets a PDF text string: UTF-16BE when it carries the
// FE FF byte-order mark, PDFDocEncoding otherwise. Used for metadata values
// and other human-readable strings outside content streams.
func DecodeText(s String) string {
	b := []byte(s)
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		units := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(units))
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		switch {
		case c < 0x80:
			sb.WriteByte(c)
		case c >= 0x80 && c <= 0xA0:
			sb.WriteRune(pdfDocHigh[c-0x80])
		default:
			sb.WriteRune(rune(c)) // Latin-1 region
		}
	}
	return sb.String()
}
