package contentstream

import (
	"fmt"

	"github.com/tsawler/pagina/core"
)

// Operation is a single content stream instruction: the operands that
// preceded an operator, and the operator itself.
type Operation struct {
	Operator string
	Operands []core.Object
}

// Number returns the operand at index i as a float64.
func (op Operation) Number(i int) (float64, bool) {
	if i < 0 || i >= len(op.Operands) {
		return 0, false
	}
	return core.Numeric(op.Operands[i])
}

// Numbers returns the first n operands as float64 values. It fails when the
// operation has fewer than n operands or a non-numeric one among them.
func (op Operation) Numbers(n int) ([]float64, bool) {
	if len(op.Operands) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := range out {
		v, ok := core.Numeric(op.Operands[i])
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// Name returns the operand at index i as a name.
func (op Operation) Name(i int) (string, bool) {
	if i < 0 || i >= len(op.Operands) {
		return "", false
	}
	n, ok := op.Operands[i].(core.Name)
	return string(n), ok
}

// Text returns the operand at index i as a string object.
func (op Operation) Text(i int) (core.String, bool) {
	if i < 0 || i >= len(op.Operands) {
		return "", false
	}
	s, ok := op.Operands[i].(core.String)
	return s, ok
}

// Array returns the operand at index i as an array.
func (op Operation) Array(i int) (core.Array, bool) {
	if i < 0 || i >= len(op.Operands) {
		return nil, false
	}
	a, ok := op.Operands[i].(core.Array)
	return a, ok
}

// Parser splits a content stream into operations. Operands accumulate on a
// stack that the next operator consumes.
type Parser struct {
	data  []byte
	lx    *core.Lexer
	stack []core.Object
	ops   []Operation
}

// NewParser returns a parser over the given stream data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data, lx: core.NewLexer(data)}
}

// Parse returns the stream's operations in order.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		p.lx.SkipSpace()
		c, ok := p.lx.Peek()
		if !ok {
			break
		}

		switch {
		case isOperandStart(c):
			obj, err := p.operand()
			if err != nil {
				return nil, fmt.Errorf("content stream offset %d: %w", p.lx.Pos(), err)
			}
			p.stack = append(p.stack, obj)

		case c == ')' || c == ']' || c == '>' || c == '{' || c == '}':
			return nil, fmt.Errorf("content stream offset %d: unexpected %q", p.lx.Pos(), c)

		default:
			if err := p.keyword(); err != nil {
				return nil, err
			}
		}
	}
	return p.ops, nil
}

func isOperandStart(c byte) bool {
	return c == '/' || c == '(' || c == '[' || c == '<' ||
		c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

// keyword handles a bare token: the boolean and null literals become
// operands, BI starts an inline image, and anything else is an operator that
// closes out the pending operands.
func (p *Parser) keyword() error {
	start := p.lx.Pos()
	kw := p.lx.Keyword()
	if kw == "" {
		c, _ := p.lx.Peek()
		return fmt.Errorf("content stream offset %d: unexpected %q", start, c)
	}

	switch kw {
	case "true":
		p.stack = append(p.stack, core.Bool(true))
	case "false":
		p.stack = append(p.stack, core.Bool(false))
	case "null":
		p.stack = append(p.stack, core.Null{})
	case "BI":
		return p.skipInlineImage(start)
	default:
		operands := make([]core.Object, len(p.stack))
		copy(operands, p.stack)
		p.stack = p.stack[:0]
		p.ops = append(p.ops, Operation{Operator: kw, Operands: operands})
	}
	return nil
}

// skipInlineImage advances past a BI .. ID .. EI sequence. The binary
// payload has no length marker, so EI is located by scanning for the keyword
// bounded by whitespace.
func (p *Parser) skipInlineImage(start int) error {
	p.stack = p.stack[:0]
	for {
		idx := p.lx.Find("EI")
		if idx < 0 {
			return fmt.Errorf("content stream offset %d: inline image without EI", start)
		}
		p.lx.Seek(idx + 2)

		boundedBefore := idx == 0 || isSpace(p.data[idx-1])
		boundedAfter := idx+2 >= len(p.data) || isSpace(p.data[idx+2]) || isDelim(p.data[idx+2])
		if boundedBefore && boundedAfter {
			return nil
		}
	}
}

func isSpace(c byte) bool {
	return c == 0 || c == '\t' || c == '\n' || c == '\f' || c == '\r' || c == ' '
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// operand parses one object: number, string, name, array, or dictionary.
func (p *Parser) operand() (core.Object, error) {
	c, ok := p.lx.Peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of stream")
	}

	switch c {
	case '/':
		return p.lx.Name()
	case '(':
		return p.lx.LiteralString()
	case '[':
		return p.array()
	case '<':
		if p.lx.Pos()+1 < len(p.data) && p.data[p.lx.Pos()+1] == '<' {
			return p.dict()
		}
		return p.lx.HexString()
	default:
		return p.lx.Number()
	}
}

func (p *Parser) array() (core.Array, error) {
	p.lx.Seek(p.lx.Pos() + 1)
	arr := core.Array{}
	for {
		p.lx.SkipSpace()
		c, ok := p.lx.Peek()
		if !ok {
			return nil, fmt.Errorf("unclosed array")
		}
		if c == ']' {
			p.lx.Seek(p.lx.Pos() + 1)
			return arr, nil
		}
		obj, err := p.operandOrLiteral()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// dict parses the property lists that marked-content operators carry.
func (p *Parser) dict() (core.Dict, error) {
	p.lx.Seek(p.lx.Pos() + 2)
	dict := core.Dict{}
	for {
		p.lx.SkipSpace()
		c, ok := p.lx.Peek()
		if !ok {
			return nil, fmt.Errorf("unclosed dictionary")
		}
		if c == '>' {
			if p.lx.Pos()+1 >= len(p.data) || p.data[p.lx.Pos()+1] != '>' {
				return nil, fmt.Errorf("dictionary: lone >")
			}
			p.lx.Seek(p.lx.Pos() + 2)
			return dict, nil
		}
		if c != '/' {
			return nil, fmt.Errorf("dictionary key must be a name, found %q", c)
		}
		key, err := p.lx.Name()
		if err != nil {
			return nil, err
		}
		p.lx.SkipSpace()
		value, err := p.operandOrLiteral()
		if err != nil {
			return nil, err
		}
		if _, isNull := value.(core.Null); !isNull {
			dict[string(key)] = value
		}
	}
}

// operandOrLiteral parses a container element, where the boolean and null
// keywords are values rather than operators.
func (p *Parser) operandOrLiteral() (core.Object, error) {
	c, ok := p.lx.Peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of stream")
	}
	if isOperandStart(c) {
		return p.operand()
	}

	start := p.lx.Pos()
	switch kw := p.lx.Keyword(); kw {
	case "true":
		return core.Bool(true), nil
	case "false":
		return core.Bool(false), nil
	case "null":
		return core.Null{}, nil
	default:
		return nil, fmt.Errorf("offset %d: unexpected token %q", start, kw)
	}
}
