package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// Lexer scans PDF syntax from a byte buffer. It exposes the low-level reads
// the object parser is built on: whitespace and comment skipping, names,
// numbers, strings, and bare keywords. The position is plain state, so
// callers may save it, probe ahead, and restore it.
type Lexer struct {
	buf []byte
	pos int
}

// NewLexer returns a lexer positioned at the start of buf.
func NewLexer(buf []byte) *Lexer {
	return &Lexer{buf: buf}
}

// Pos returns the current offset into the buffer.
func (lx *Lexer) Pos() int { return lx.pos }

// Seek repositions the lexer at offset.
func (lx *Lexer) Seek(offset int) { lx.pos = offset }

// Len returns the total buffer length.
func (lx *Lexer) Len() int { return len(lx.buf) }

// EOF reports whether the lexer has consumed the whole buffer.
func (lx *Lexer) EOF() bool { return lx.pos >= len(lx.buf) }

// Bytes returns n raw bytes from the current position, advancing past them.
// Used for stream payloads, which are not tokenized.
func (lx *Lexer) Bytes(n int) ([]byte, error) {
	if n < 0 || lx.pos+n > len(lx.buf) {
		return nil, fmt.Errorf("read %d bytes at offset %d: buffer has %d", n, lx.pos, len(lx.buf))
	}
	out := lx.buf[lx.pos : lx.pos+n]
	lx.pos += n
	return out, nil
}

// Peek returns the next byte without consuming it.
func (lx *Lexer) Peek() (byte, bool) {
	if lx.EOF() {
		return 0, false
	}
	return lx.buf[lx.pos], true
}

// SkipSpace advances past whitespace and %-comments.
func (lx *Lexer) SkipSpace() {
	for lx.pos < len(lx.buf) {
		c := lx.buf[lx.pos]
		switch {
		case isWhitespace(c):
			lx.pos++
		case c == '%':
			for lx.pos < len(lx.buf) && lx.buf[lx.pos] != '\n' && lx.buf[lx.pos] != '\r' {
				lx.pos++
			}
		default:
			return
		}
	}
}

// SkipEOL consumes a single CR, LF, or CRLF. The stream keyword is followed
// by exactly one end-of-line before the payload begins.
func (lx *Lexer) SkipEOL() {
	if lx.pos < len(lx.buf) && lx.buf[lx.pos] == '\r' {
		lx.pos++
	}
	if lx.pos < len(lx.buf) && lx.buf[lx.pos] == '\n' {
		lx.pos++
	}
}

// Keyword reads a bare regular-character run (obj, endobj, stream, true, R...).
// Returns the empty string when the next byte is not a regular character.
func (lx *Lexer) Keyword() string {
	start := lx.pos
	for lx.pos < len(lx.buf) && isRegular(lx.buf[lx.pos]) {
		lx.pos++
	}
	return string(lx.buf[start:lx.pos])
}

// Match consumes the keyword kw when it appears next (after whitespace) and
// reports whether it did. The position is unchanged on a failed match.
func (lx *Lexer) Match(kw string) bool {
	save := lx.pos
	lx.SkipSpace()
	if lx.Keyword() == kw {
		return true
	}
	lx.pos = save
	return false
}

// Name reads a name object. The leading slash must be the next byte.
// #xx sequences decode to single bytes.
func (lx *Lexer) Name() (Name, error) {
	if lx.EOF() || lx.buf[lx.pos] != '/' {
		return "", fmt.Errorf("name at offset %d: missing /", lx.pos)
	}
	lx.pos++

	var b bytes.Buffer
	for lx.pos < len(lx.buf) {
		c := lx.buf[lx.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && lx.pos+2 < len(lx.buf) && isHexDigit(lx.buf[lx.pos+1]) && isHexDigit(lx.buf[lx.pos+2]) {
			b.WriteByte(hexVal(lx.buf[lx.pos+1])<<4 | hexVal(lx.buf[lx.pos+2]))
			lx.pos += 3
			continue
		}
		b.WriteByte(c)
		lx.pos++
	}
	return Name(b.String()), nil
}

// Number reads an integer or real. PDF reals may start or end with the
// decimal point ("4." and ".5" are valid).
func (lx *Lexer) Number() (Object, error) {
	start := lx.pos
	if lx.pos < len(lx.buf) && (lx.buf[lx.pos] == '+' || lx.buf[lx.pos] == '-') {
		lx.pos++
	}
	real := false
	for lx.pos < len(lx.buf) {
		c := lx.buf[lx.pos]
		if c >= '0' && c <= '9' {
			lx.pos++
		} else if c == '.' && !real {
			real = true
			lx.pos++
		} else {
			break
		}
	}

	raw := string(lx.buf[start:lx.pos])
	if raw == "" || raw == "+" || raw == "-" || raw == "." {
		return nil, fmt.Errorf("number at offset %d: %q", start, raw)
	}
	if real {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("real at offset %d: %w", start, err)
		}
		return Real(f), nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("integer at offset %d: %w", start, err)
	}
	return Int(n), nil
}

// LiteralString reads a (...) string with escape sequences, octal codes, and
// balanced nested parentheses.
func (lx *Lexer) LiteralString() (String, error) {
	if lx.EOF() || lx.buf[lx.pos] != '(' {
		return "", fmt.Errorf("string at offset %d: missing (", lx.pos)
	}
	lx.pos++

	var b bytes.Buffer
	depth := 1
	for lx.pos < len(lx.buf) {
		c := lx.buf[lx.pos]
		lx.pos++

		switch c {
		case '\\':
			if lx.EOF() {
				return "", fmt.Errorf("string: escape at end of buffer")
			}
			e := lx.buf[lx.pos]
			lx.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '(', ')', '\\':
				b.WriteByte(e)
			case '\r':
				// Line continuation; swallow an optional LF.
				if lx.pos < len(lx.buf) && lx.buf[lx.pos] == '\n' {
					lx.pos++
				}
			case '\n':
				// Line continuation.
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && lx.pos < len(lx.buf); i++ {
						d := lx.buf[lx.pos]
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						lx.pos++
					}
					b.WriteByte(byte(v & 0xff))
				} else {
					// Unknown escape: the backslash is ignored.
					b.WriteByte(e)
				}
			}
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return String(b.String()), nil
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return "", fmt.Errorf("string: unbalanced parentheses")
}

// HexString reads a <...> string. Whitespace between digits is ignored and an
// odd final digit is padded with zero.
func (lx *Lexer) HexString() (String, error) {
	if lx.EOF() || lx.buf[lx.pos] != '<' {
		return "", fmt.Errorf("hex string at offset %d: missing <", lx.pos)
	}
	lx.pos++

	var b bytes.Buffer
	var hi byte
	have := false
	for lx.pos < len(lx.buf) {
		c := lx.buf[lx.pos]
		lx.pos++

		switch {
		case c == '>':
			if have {
				b.WriteByte(hi << 4)
			}
			return String(b.String()), nil
		case isWhitespace(c):
			continue
		case isHexDigit(c):
			if have {
				b.WriteByte(hi<<4 | hexVal(c))
				have = false
			} else {
				hi = hexVal(c)
				have = true
			}
		default:
			return "", fmt.Errorf("hex string: invalid digit %q", c)
		}
	}
	return "", fmt.Errorf("hex string: missing >")
}

// Find reports the next occurrence of needle at or after the current
// position, or -1. The position does not move.
func (lx *Lexer) Find(needle string) int {
	idx := bytes.Index(lx.buf[lx.pos:], []byte(needle))
	if idx < 0 {
		return -1
	}
	return lx.pos + idx
}

// Character classes from the PDF specification.

func isWhitespace(c byte) bool {
	return c == 0 || c == '\t' || c == '\n' || c == '\f' || c == '\r' || c == ' '
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelimiter(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
