package core

import (
	"testing"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name  string
		input String
		want  string
	}{
		{"ascii", String("Technical Specifications"), "Technical Specifications"},
		{"empty", String(""), ""},
		{"utf16be", String("\xfe\xff\x00H\x00i\x00!"), "Hi!"},
		{"utf16be non-latin", String("\xfe\xff\x30\x42"), "あ"},
		{"utf16be surrogate pair", String("\xfe\xff\xd8\x3d\xde\x00"), "😀"},
		{"pdfdoc bullet", String("\x80 item"), "• item"},
		{"pdfdoc em dash", String("a\x84b"), "a—b"},
		{"pdfdoc euro", String("\xa0"), "€"},
		{"latin-1 region", String("caf\xe9"), "café"},
		{"utf16be odd trailing byte dropped", String("\xfe\xff\x00A\x00"), "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeText(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
