package core

import (
	"fmt"
)

// Parser reads PDF objects from a byte buffer. Indirect references are
// recognized by probing ahead for the "num gen R" shape and rewinding when it
// does not materialize, which the flat buffer makes cheap.
//
// Resolve, when set, is used to chase indirect /Length values on streams. The
// reader wires it to its object loader; a nil Resolve treats indirect lengths
// as unknown and falls back to scanning for endstream.
type Parser struct {
	lx      *Lexer
	Resolve func(Ref) (Object, error)
}

// NewParser returns a parser over buf.
func NewParser(buf []byte) *Parser {
	return &Parser{lx: NewLexer(buf)}
}

// Seek repositions the parser at offset.
func (p *Parser) Seek(offset int) { p.lx.Seek(offset) }

// Pos returns the current offset.
func (p *Parser) Pos() int { return p.lx.Pos() }

// ParseObject reads the next object: null, boolean, number, string, name,
// array, dictionary, or indirect reference. Streams are handled by
// ParseIndirectObject since they only occur inside indirect objects.
func (p *Parser) ParseObject() (Object, error) {
	p.lx.SkipSpace()
	c, ok := p.lx.Peek()
	if !ok {
		return nil, fmt.Errorf("object at offset %d: unexpected end of buffer", p.lx.Pos())
	}

	switch {
	case c == '/':
		return p.lx.Name()
	case c == '(':
		return p.lx.LiteralString()
	case c == '<':
		if p.peekAt(1) == '<' {
			return p.parseDict()
		}
		return p.lx.HexString()
	case c == '[':
		return p.parseArray()
	case isDigit(c):
		return p.parseNumberOrRef()
	case c == '+' || c == '-' || c == '.':
		return p.lx.Number()
	default:
		return p.parseKeyword()
	}
}

func (p *Parser) peekAt(off int) byte {
	if p.lx.Pos()+off >= p.lx.Len() {
		return 0
	}
	return p.lx.buf[p.lx.Pos()+off]
}

func (p *Parser) parseKeyword() (Object, error) {
	at := p.lx.Pos()
	switch kw := p.lx.Keyword(); kw {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "null":
		return Null{}, nil
	case "":
		return nil, fmt.Errorf("object at offset %d: unexpected byte %q", at, p.peekAt(0))
	default:
		return nil, fmt.Errorf("object at offset %d: unexpected keyword %q", at, kw)
	}
}

// parseNumberOrRef reads a number, then probes for the "gen R" tail that
// turns it into an indirect reference.
func (p *Parser) parseNumberOrRef() (Object, error) {
	num, err := p.lx.Number()
	if err != nil {
		return nil, err
	}
	first, ok := num.(Int)
	if !ok || first < 0 {
		return num, nil
	}

	save := p.lx.Pos()
	p.lx.SkipSpace()
	c, ok := p.lx.Peek()
	if !ok || !isDigit(c) {
		p.lx.Seek(save)
		return num, nil
	}
	second, err := p.lx.Number()
	if err != nil {
		p.lx.Seek(save)
		return num, nil
	}
	gen, ok := second.(Int)
	if !ok || gen < 0 {
		p.lx.Seek(save)
		return num, nil
	}
	if !p.lx.Match("R") {
		p.lx.Seek(save)
		return num, nil
	}
	return Ref{Num: int(first), Gen: int(gen)}, nil
}

func (p *Parser) parseArray() (Array, error) {
	p.lx.pos++ // [
	arr := Array{}
	for {
		p.lx.SkipSpace()
		c, ok := p.lx.Peek()
		if !ok {
			return nil, fmt.Errorf("array: missing ]")
		}
		if c == ']' {
			p.lx.pos++
			return arr, nil
		}
		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", len(arr), err)
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) parseDict() (Dict, error) {
	p.lx.pos += 2 // <<
	dict := Dict{}
	for {
		p.lx.SkipSpace()
		c, ok := p.lx.Peek()
		if !ok {
			return nil, fmt.Errorf("dictionary: missing >>")
		}
		if c == '>' {
			if p.peekAt(1) != '>' {
				return nil, fmt.Errorf("dictionary at offset %d: lone >", p.lx.Pos())
			}
			p.lx.pos += 2
			return dict, nil
		}
		key, err := p.lx.Name()
		if err != nil {
			return nil, fmt.Errorf("dictionary key: %w", err)
		}
		val, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("dictionary value for /%s: %w", key, err)
		}
		// A null value is the same as an absent key.
		if _, isNull := val.(Null); !isNull {
			dict[string(key)] = val
		}
	}
}

// ParseIndirectObject reads "num gen obj ... endobj" at offset. When the body
// is a dictionary followed by the stream keyword, the raw payload is captured
// using /Length, falling back to an endstream scan when the length is
// indirect and unresolvable, missing, or provably wrong.
func (p *Parser) ParseIndirectObject(offset int) (*IndirectObject, error) {
	p.lx.Seek(offset)
	p.lx.SkipSpace()

	numObj, err := p.lx.Number()
	if err != nil {
		return nil, fmt.Errorf("indirect object at offset %d: %w", offset, err)
	}
	num, ok := numObj.(Int)
	if !ok {
		return nil, fmt.Errorf("indirect object at offset %d: object number is %s", offset, numObj)
	}
	p.lx.SkipSpace()
	genObj, err := p.lx.Number()
	if err != nil {
		return nil, fmt.Errorf("object %d: generation: %w", num, err)
	}
	gen, ok := genObj.(Int)
	if !ok {
		return nil, fmt.Errorf("object %d: generation is %s", num, genObj)
	}
	if !p.lx.Match("obj") {
		return nil, fmt.Errorf("object %d %d at offset %d: missing obj keyword", num, gen, offset)
	}

	body, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
	}

	ind := &IndirectObject{Num: int(num), Gen: int(gen), Obj: body}

	save := p.lx.Pos()
	p.lx.SkipSpace()
	kw := p.lx.Keyword()
	switch kw {
	case "endobj", "":
		return ind, nil
	case "stream":
		dict, ok := body.(Dict)
		if !ok {
			return nil, fmt.Errorf("object %d %d: stream without dictionary", num, gen)
		}
		raw, err := p.readStreamPayload(dict)
		if err != nil {
			return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
		}
		ind.Obj = &Stream{Dict: dict, Raw: raw}
		return ind, nil
	default:
		// Garbage between the body and endobj; tolerate it.
		p.lx.Seek(save)
		return ind, nil
	}
}

// readStreamPayload captures the raw bytes between stream and endstream. The
// lexer is positioned just after the stream keyword.
func (p *Parser) readStreamPayload(dict Dict) ([]byte, error) {
	p.lx.SkipEOL()
	start := p.lx.Pos()

	if n, ok := p.streamLength(dict); ok && start+n <= p.lx.Len() {
		raw, err := p.lx.Bytes(n)
		if err == nil && p.endstreamFollows() {
			return raw, nil
		}
		p.lx.Seek(start)
	}

	// Length missing or wrong: scan for the endstream keyword.
	end := p.lx.Find("endstream")
	if end < 0 {
		return nil, fmt.Errorf("stream: missing endstream")
	}
	n := end - start
	// Trim the EOL that precedes endstream.
	if n > 0 && p.lx.buf[start+n-1] == '\n' {
		n--
	}
	if n > 0 && p.lx.buf[start+n-1] == '\r' {
		n--
	}
	raw := p.lx.buf[start : start+n]
	p.lx.Seek(end)
	p.lx.Keyword() // endstream
	p.consumeEndobj()
	return raw, nil
}

func (p *Parser) streamLength(dict Dict) (int, bool) {
	switch v := dict.Get("Length").(type) {
	case Int:
		return int(v), true
	case Ref:
		if p.Resolve == nil {
			return 0, false
		}
		obj, err := p.Resolve(v)
		if err != nil {
			return 0, false
		}
		if n, ok := obj.(Int); ok {
			return int(n), true
		}
	}
	return 0, false
}

// endstreamFollows verifies the declared length landed on the endstream
// keyword, consuming it and the trailing endobj when it did.
func (p *Parser) endstreamFollows() bool {
	save := p.lx.Pos()
	p.lx.SkipSpace()
	if p.lx.Keyword() != "endstream" {
		p.lx.Seek(save)
		return false
	}
	p.consumeEndobj()
	return true
}

func (p *Parser) consumeEndobj() {
	save := p.lx.Pos()
	p.lx.SkipSpace()
	if p.lx.Keyword() != "endobj" {
		p.lx.Seek(save)
	}
}
