package filters

import (
	"bytes"
	"fmt"
)

// ASCIIHexDecode decodes hexadecimal-encoded data. Whitespace is ignored, >
// ends the data, and an odd trailing digit is padded with zero.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	var hi byte
	pending := false

	for i, c := range data {
		switch {
		case c == '>':
			if pending {
				out.WriteByte(hi << 4)
			}
			return out.Bytes(), nil
		case isSpace(c):
			continue
		default:
			v, ok := hexValue(c)
			if !ok {
				return nil, fmt.Errorf("hex data: invalid character %q at %d", c, i)
			}
			if pending {
				out.WriteByte(hi<<4 | v)
				pending = false
			} else {
				hi = v
				pending = true
			}
		}
	}

	// Missing > is tolerated at end of data.
	if pending {
		out.WriteByte(hi << 4)
	}
	return out.Bytes(), nil
}

// ASCII85Decode decodes base-85 data: groups of five characters in !..u
// encode four bytes, z encodes four zero bytes, and ~> ends the data. A
// short final group of n characters yields n-1 bytes.
func ASCII85Decode(data []byte) ([]byte, error) {
	// Tolerate the <~ opener some producers emit.
	if bytes.HasPrefix(data, []byte("<~")) {
		data = data[2:]
	}

	var out bytes.Buffer
	var group [5]byte
	n := 0

	flush := func() {
		if n == 0 {
			return
		}
		// Pad short groups with u, then drop the padded bytes.
		for i := n; i < 5; i++ {
			group[i] = 84
		}
		var v uint32
		for _, d := range group {
			v = v*85 + uint32(d)
		}
		for i := 0; i < n-1; i++ {
			out.WriteByte(byte(v >> (24 - 8*i)))
		}
		n = 0
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case isSpace(c):
			continue
		case c == '~':
			if i+1 < len(data) && data[i+1] == '>' {
				flush()
				return out.Bytes(), nil
			}
			return nil, fmt.Errorf("base-85 data: stray ~ at %d", i)
		case c == 'z':
			if n != 0 {
				return nil, fmt.Errorf("base-85 data: z inside a group at %d", i)
			}
			out.Write([]byte{0, 0, 0, 0})
		case c >= '!' && c <= 'u':
			group[n] = c - '!'
			n++
			if n == 5 {
				var v uint32
				for _, d := range group {
					v = v*85 + uint32(d)
				}
				out.WriteByte(byte(v >> 24))
				out.WriteByte(byte(v >> 16))
				out.WriteByte(byte(v >> 8))
				out.WriteByte(byte(v))
				n = 0
			}
		default:
			return nil, fmt.Errorf("base-85 data: invalid character %q at %d", c, i)
		}
	}

	// Missing ~> is tolerated at end of data.
	flush()
	return out.Bytes(), nil
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
