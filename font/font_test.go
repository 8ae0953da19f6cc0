package font

import (
	"testing"

	"github.com/tsawler/pagina/core"
)

type mapResolver map[core.Ref]core.Object

func (m mapResolver) Resolve(obj core.Object) (core.Object, error) {
	ref, ok := obj.(core.Ref)
	if !ok {
		return obj, nil
	}
	if v, ok := m[ref]; ok {
		return v, nil
	}
	return core.Null{}, nil
}

func TestLoadSimpleFont(t *testing.T) {
	dict := core.Dict{
		"Type":      core.Name("Font"),
		"Subtype":   core.Name("TrueType"),
		"BaseFont":  core.Name("ABCDEF+Calibri"),
		"FirstChar": core.Int(65),
		"Widths":    core.Array{core.Int(600), core.Int(700), core.Int(800)},
	}

	f, err := Load("F1", dict, mapResolver{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Name != "F1" || f.Subtype != "TrueType" {
		t.Errorf("unexpected identity %q %q", f.Name, f.Subtype)
	}
	if f.Composite() {
		t.Error("expected a simple font")
	}
	if f.Bold {
		t.Error("expected a regular weight")
	}
	if w := f.Width(65); w != 600 {
		t.Errorf("Width(65): expected 600, got %g", w)
	}
	if w := f.Width(67); w != 800 {
		t.Errorf("Width(67): expected 800, got %g", w)
	}
	if w := f.Width(32); w != 500 {
		t.Errorf("Width(32): expected default 500, got %g", w)
	}
	if got := f.Decode([]byte("Hi")); got != "Hi" {
		t.Errorf("expected Latin fallback Hi, got %q", got)
	}
}

func TestLoadBoldDetection(t *testing.T) {
	tests := []struct {
		name string
		dict core.Dict
		want bool
	}{
		{
			name: "bold base font name",
			dict: core.Dict{"BaseFont": core.Name("Arial-BoldMT")},
			want: true,
		},
		{
			name: "black weight name",
			dict: core.Dict{"BaseFont": core.Name("Roboto-Black")},
			want: true,
		},
		{
			name: "regular name",
			dict: core.Dict{"BaseFont": core.Name("Helvetica")},
			want: false,
		},
		{
			name: "force bold flag",
			dict: core.Dict{
				"BaseFont": core.Name("Mystery"),
				"FontDescriptor": core.Dict{
					"Flags": core.Int(1 << 18),
				},
			},
			want: true,
		},
		{
			name: "descriptor face name",
			dict: core.Dict{
				"BaseFont": core.Name("Subset"),
				"FontDescriptor": core.Dict{
					"Flags":    core.Int(32),
					"FontName": core.Name("XYZ+Lato-Heavy"),
				},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Load("F1", tt.dict, mapResolver{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Bold != tt.want {
				t.Errorf("expected bold=%v, got %v", tt.want, f.Bold)
			}
		})
	}
}

func TestLoadToUnicode(t *testing.T) {
	cmapRef := core.Ref{Num: 9}
	res := mapResolver{
		cmapRef: &core.Stream{Dict: core.Dict{}, Raw: []byte(singleByteCMap)},
	}
	dict := core.Dict{
		"Subtype":   core.Name("Type1"),
		"BaseFont":  core.Name("Custom"),
		"ToUnicode": cmapRef,
	}

	f, err := Load("F2", dict, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.Decode([]byte{0x01, 0x10}); got != "Aa" {
		t.Errorf("expected Aa, got %q", got)
	}
}

func TestLoadType0Font(t *testing.T) {
	descRef := core.Ref{Num: 4}
	res := mapResolver{
		descRef: core.Dict{
			"Subtype":  core.Name("CIDFontType2"),
			"BaseFont": core.Name("Noto"),
			"DW":       core.Int(750),
			"W": core.Array{
				core.Int(1), core.Array{core.Int(500), core.Int(600)},
				core.Int(10), core.Int(12), core.Int(250),
			},
		},
	}
	dict := core.Dict{
		"Subtype":         core.Name("Type0"),
		"BaseFont":        core.Name("Noto"),
		"Encoding":        core.Name("Identity-H"),
		"DescendantFonts": core.Array{descRef},
	}

	f, err := Load("F3", dict, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !f.Composite() {
		t.Fatal("expected a composite font")
	}
	if w := f.Width(1); w != 500 {
		t.Errorf("Width(1): expected 500, got %g", w)
	}
	if w := f.Width(2); w != 600 {
		t.Errorf("Width(2): expected 600, got %g", w)
	}
	for cid := uint32(10); cid <= 12; cid++ {
		if w := f.Width(cid); w != 250 {
			t.Errorf("Width(%d): expected 250, got %g", cid, w)
		}
	}
	if w := f.Width(99); w != 750 {
		t.Errorf("Width(99): expected DW 750, got %g", w)
	}

	// Without /ToUnicode the raw big-endian codes become code points.
	if got := f.Decode([]byte{0x00, 0x41, 0x00, 0x42}); got != "AB" {
		t.Errorf("expected AB, got %q", got)
	}

	codes := f.Codes([]byte{0x00, 0x41, 0x00, 0x42})
	if len(codes) != 2 || codes[0] != 0x41 || codes[1] != 0x42 {
		t.Errorf("unexpected codes %v", codes)
	}
}

func TestLoadMissingWidth(t *testing.T) {
	dict := core.Dict{
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Custom"),
		"FontDescriptor": core.Dict{
			"Flags":        core.Int(32),
			"MissingWidth": core.Int(320),
		},
	}
	f, err := Load("F4", dict, mapResolver{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w := f.Width(65); w != 320 {
		t.Errorf("expected missing width 320, got %g", w)
	}
}
