package font

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/tsawler/pagina/core"
)

// CMap maps character codes to Unicode text, built from a font's /ToUnicode
// stream. The stream is a PostScript-flavored program; only the
// codespacerange, bfchar, and bfrange sections carry mappings.
type CMap struct {
	single   map[uint32]string
	ranges   []cmapRange
	codeLens map[int]bool
}

// cmapRange maps the codes lo..hi to consecutive code points starting at dst.
type cmapRange struct {
	lo, hi uint32
	dst    rune
}

// ParseToUnicode decodes and parses a /ToUnicode stream.
func ParseToUnicode(stm *core.Stream) (*CMap, error) {
	data, err := stm.Decode()
	if err != nil {
		return nil, fmt.Errorf("tounicode: %w", err)
	}
	return parseCMap(data)
}

func parseCMap(data []byte) (*CMap, error) {
	cm := &CMap{
		single:   map[uint32]string{},
		codeLens: map[int]bool{},
	}
	tr := &tokenReader{lx: core.NewLexer(data), data: data}

	for {
		tok, ok := tr.next()
		if !ok {
			break
		}
		kw, isKw := tok.(keyword)
		if !isKw {
			continue
		}
		switch string(kw) {
		case "begincodespacerange":
			cm.readCodespace(tr)
		case "beginbfchar":
			cm.readBfChar(tr)
		case "beginbfrange":
			cm.readBfRange(tr)
		}
	}
	return cm, nil
}

// keyword is a bare CMap token that is not an object.
type keyword string

type tokenReader struct {
	lx   *core.Lexer
	data []byte
}

// next returns the next CMap token: core.String for hex and literal strings,
// core.Name, a numeric object, or keyword for anything bare. Malformed
// tokens end the stream.
func (tr *tokenReader) next() (any, bool) {
	tr.lx.SkipSpace()
	c, ok := tr.lx.Peek()
	if !ok {
		return nil, false
	}

	pos := tr.lx.Pos()
	switch {
	case c == '<' && pos+1 < len(tr.data) && tr.data[pos+1] == '<':
		tr.lx.Seek(pos + 2)
		return keyword("<<"), true
	case c == '>' && pos+1 < len(tr.data) && tr.data[pos+1] == '>':
		tr.lx.Seek(pos + 2)
		return keyword(">>"), true
	case c == '<':
		s, err := tr.lx.HexString()
		if err != nil {
			return nil, false
		}
		return s, true
	case c == '(':
		s, err := tr.lx.LiteralString()
		if err != nil {
			return nil, false
		}
		return s, true
	case c == '/':
		n, err := tr.lx.Name()
		if err != nil {
			return nil, false
		}
		return n, true
	case c == '[' || c == ']' || c == '{' || c == '}':
		tr.lx.Seek(pos + 1)
		return keyword(rune(c)), true
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		n, err := tr.lx.Number()
		if err != nil {
			return nil, false
		}
		return n, true
	default:
		kw := tr.lx.Keyword()
		if kw == "" {
			tr.lx.Seek(pos + 1)
			return keyword(""), true
		}
		return keyword(kw), true
	}
}

func (cm *CMap) readCodespace(tr *tokenReader) {
	for {
		tok, ok := tr.next()
		if !ok {
			return
		}
		if kw, is := tok.(keyword); is && kw == "endcodespacerange" {
			return
		}
		if s, is := tok.(core.String); is && len(s) > 0 {
			cm.codeLens[len(s)] = true
		}
	}
}

func (cm *CMap) readBfChar(tr *tokenReader) {
	var pending []core.String
	for {
		tok, ok := tr.next()
		if !ok {
			return
		}
		if kw, is := tok.(keyword); is && kw == "endbfchar" {
			return
		}
		s, is := tok.(core.String)
		if !is {
			pending = pending[:0]
			continue
		}

		pending = append(pending, s)
		if len(pending) == 2 {
			src, dst := pending[0], pending[1]
			cm.single[codeValue([]byte(src))] = utf16Text([]byte(dst))
			cm.codeLens[len(src)] = true
			pending = pending[:0]
		}
	}
}

func (cm *CMap) readBfRange(tr *tokenReader) {
	var lo, hi core.String
	have := 0
	inArray := false
	var arrayOffset uint32

	for {
		tok, ok := tr.next()
		if !ok {
			return
		}

		switch v := tok.(type) {
		case keyword:
			switch v {
			case "endbfrange":
				return
			case "[":
				if have == 2 {
					inArray = true
					arrayOffset = 0
				}
			case "]":
				if inArray {
					cm.codeLens[len(lo)] = true
				}
				inArray = false
				have = 0
			}

		case core.String:
			switch {
			case inArray:
				cm.single[codeValue([]byte(lo))+arrayOffset] = utf16Text([]byte(v))
				arrayOffset++
			case have == 0:
				lo = v
				have = 1
			case have == 1:
				hi = v
				have = 2
			default:
				cm.addRange(codeValue([]byte(lo)), codeValue([]byte(hi)), []byte(v))
				cm.codeLens[len(lo)] = true
				have = 0
			}
		}
	}
}

// maxExpandedRange bounds how many explicit entries a multi-character
// destination range may produce.
const maxExpandedRange = 256

// addRange records lo..hi mapping to consecutive values starting at the
// destination. Single-code-point destinations stay a compact range;
// multi-character destinations expand entry by entry with the last code
// point incremented.
func (cm *CMap) addRange(lo, hi uint32, dst []byte) {
	if hi < lo {
		return
	}
	runes := []rune(utf16Text(dst))
	switch {
	case len(runes) == 0:
		return
	case len(runes) == 1:
		cm.ranges = append(cm.ranges, cmapRange{lo: lo, hi: hi, dst: runes[0]})
	default:
		if hi-lo >= maxExpandedRange {
			hi = lo + maxExpandedRange - 1
		}
		for code := lo; code <= hi; code++ {
			expanded := make([]rune, len(runes))
			copy(expanded, runes)
			expanded[len(expanded)-1] += rune(code - lo)
			cm.single[code] = string(expanded)
		}
	}
}

// CodeLen returns the code byte length declared by the codespace ranges, or
// 0 when the stream declares none or mixes lengths.
func (cm *CMap) CodeLen() int {
	if len(cm.codeLens) != 1 {
		return 0
	}
	for n := range cm.codeLens {
		return n
	}
	return 0
}

// Decode converts show-string bytes to Unicode, consuming codeLen bytes per
// character code. Unmapped codes fall back to their numeric value as a code
// point.
func (cm *CMap) Decode(data []byte, codeLen int) string {
	if codeLen <= 0 || codeLen > 4 {
		codeLen = 1
	}

	var sb strings.Builder
	for i := 0; i < len(data); i += codeLen {
		end := i + codeLen
		if end > len(data) {
			end = len(data)
		}
		code := codeValue(data[i:end])
		if s, ok := cm.lookup(code); ok {
			sb.WriteString(s)
		} else if code < 0x110000 {
			sb.WriteRune(rune(code))
		}
	}
	return sb.String()
}

func (cm *CMap) lookup(code uint32) (string, bool) {
	if s, ok := cm.single[code]; ok {
		return s, true
	}
	for _, r := range cm.ranges {
		if code >= r.lo && code <= r.hi {
			return string(r.dst + rune(code-r.lo)), true
		}
	}
	return "", false
}

// codeValue folds big-endian code bytes into a number.
func codeValue(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

// utf16Text decodes UTF-16BE destination bytes, the encoding /ToUnicode
// destinations use. A single byte stands alone as a code point.
func utf16Text(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(units))
}
