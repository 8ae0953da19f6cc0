package core

import (
	"testing"
)

func TestLexerName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Name
	}{
		{"simple", "/Type", "Type"},
		{"empty name", "/ ", ""},
		{"stops at delimiter", "/Pages/Kids", "Pages"},
		{"stops at whitespace", "/Root 1 0 R", "Root"},
		{"hash escape", "/A#20B", "A B"},
		{"hash escape hex letters", "/Lime#47reen", "LimeGreen"},
		{"lone hash kept", "/A#", "A#"},
		{"digits and punctuation", "/F1.2", "F1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := NewLexer([]byte(tt.input))
			got, err := lx.Name()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("missing slash", func(t *testing.T) {
		lx := NewLexer([]byte("Type"))
		if _, err := lx.Name(); err == nil {
			t.Error("expected error for name without /")
		}
	})
}

func TestLexerNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Object
	}{
		{"integer", "42", Int(42)},
		{"negative integer", "-17", Int(-17)},
		{"plus sign", "+9", Int(9)},
		{"zero", "0", Int(0)},
		{"real", "3.14", Real(3.14)},
		{"negative real", "-0.5", Real(-0.5)},
		{"leading dot", ".5", Real(0.5)},
		{"trailing dot", "4.", Real(4)},
		{"stops at whitespace", "12 34", Int(12)},
		{"stops at delimiter", "7]", Int(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := NewLexer([]byte(tt.input))
			got, err := lx.Number()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	for _, bad := range []string{"", "+", "-", ".", "abc"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			lx := NewLexer([]byte(bad))
			if _, err := lx.Number(); err == nil {
				t.Errorf("expected error for %q", bad)
			}
		})
	}
}

// TestLexerLiteralString covers escapes, octal codes, nesting, and line
// continuations.
func TestLexerLiteralString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  String
	}{
		{"simple", "(hello)", "hello"},
		{"empty", "()", ""},
		{"nested parens", "(a (b) c)", "a (b) c"},
		{"escaped parens", `(a \( b \) c)`, "a ( b ) c"},
		{"newline escape", `(a\nb)`, "a\nb"},
		{"tab escape", `(a\tb)`, "a\tb"},
		{"backslash escape", `(a\\b)`, `a\b`},
		{"octal escape", `(\101\102)`, "AB"},
		{"short octal", `(\53)`, "+"},
		{"octal stops at three digits", `(\0531)`, "+1"},
		{"unknown escape drops backslash", `(\q)`, "q"},
		{"line continuation LF", "(a\\\nb)", "ab"},
		{"line continuation CRLF", "(a\\\r\nb)", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := NewLexer([]byte(tt.input))
			got, err := lx.LiteralString()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("unbalanced", func(t *testing.T) {
		lx := NewLexer([]byte("(a (b)"))
		if _, err := lx.LiteralString(); err == nil {
			t.Error("expected error for unbalanced parentheses")
		}
	})
}

func TestLexerHexString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  String
	}{
		{"simple", "<4142>", "AB"},
		{"lowercase", "<6869>", "hi"},
		{"whitespace ignored", "<41 42\n43>", "ABC"},
		{"odd digit padded", "<414>", "A@"},
		{"empty", "<>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := NewLexer([]byte(tt.input))
			got, err := lx.HexString()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("invalid digit", func(t *testing.T) {
		lx := NewLexer([]byte("<4g>"))
		if _, err := lx.HexString(); err == nil {
			t.Error("expected error for invalid hex digit")
		}
	})

	t.Run("unterminated", func(t *testing.T) {
		lx := NewLexer([]byte("<41"))
		if _, err := lx.HexString(); err == nil {
			t.Error("expected error for missing >")
		}
	})
}

func TestLexerSkipSpace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rest  byte
	}{
		{"spaces and tabs", "  \t x", 'x'},
		{"newlines", "\r\n\n y", 'y'},
		{"comment to EOL", "% a comment\nz", 'z'},
		{"comment at EOF", "% nothing after", 0},
		{"nul is whitespace", "\x00q", 'q'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := NewLexer([]byte(tt.input))
			lx.SkipSpace()
			c, ok := lx.Peek()
			if tt.rest == 0 {
				if ok {
					t.Errorf("expected EOF, got %q", c)
				}
				return
			}
			if !ok || c != tt.rest {
				t.Errorf("expected %q next, got %q", tt.rest, c)
			}
		})
	}
}

func TestLexerKeywordAndMatch(t *testing.T) {
	lx := NewLexer([]byte("obj 42"))
	if kw := lx.Keyword(); kw != "obj" {
		t.Errorf("expected obj, got %q", kw)
	}

	lx = NewLexer([]byte("  stream\r\ndata"))
	if !lx.Match("stream") {
		t.Fatal("expected to match stream")
	}
	lx.SkipEOL()
	c, _ := lx.Peek()
	if c != 'd' {
		t.Errorf("expected payload after EOL, got %q", c)
	}

	lx = NewLexer([]byte("endobj"))
	pos := lx.Pos()
	if lx.Match("stream") {
		t.Error("matched the wrong keyword")
	}
	if lx.Pos() != pos {
		t.Error("failed match moved the position")
	}
}

func TestLexerBytes(t *testing.T) {
	lx := NewLexer([]byte("0123456789"))
	lx.Seek(2)

	got, err := lx.Bytes(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "234" {
		t.Errorf("expected 234, got %q", got)
	}
	if lx.Pos() != 5 {
		t.Errorf("expected position 5, got %d", lx.Pos())
	}

	if _, err := lx.Bytes(100); err == nil {
		t.Error("expected error reading past the end")
	}
}

func TestLexerFind(t *testing.T) {
	lx := NewLexer([]byte("aaa endstream bbb"))
	if got := lx.Find("endstream"); got != 4 {
		t.Errorf("expected offset 4, got %d", got)
	}
	lx.Seek(10)
	if got := lx.Find("endstream"); got != -1 {
		t.Errorf("expected -1 past the keyword, got %d", got)
	}
}
