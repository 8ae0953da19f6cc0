package model

import (
	"math"
	"testing"
)

func TestNewRectNormalizes(t *testing.T) {
	r := NewRect(10, 20, 4, 6)
	if r.X0 != 4 || r.Y0 != 6 || r.X1 != 10 || r.Y1 != 20 {
		t.Errorf("NewRect did not normalize corners: %+v", r)
	}
}

func TestRectDimensions(t *testing.T) {
	r := Rect{X0: 10, Y0: 20, X1: 110, Y1: 70}

	if got := r.Width(); got != 100 {
		t.Errorf("Width() = %v, want 100", got)
	}
	if got := r.Height(); got != 50 {
		t.Errorf("Height() = %v, want 50", got)
	}
	if got := r.Area(); got != 5000 {
		t.Errorf("Area() = %v, want 5000", got)
	}
}

func TestRectEmpty(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want bool
	}{
		{"normal", Rect{0, 0, 10, 10}, false},
		{"zero width", Rect{5, 0, 5, 10}, true},
		{"zero height", Rect{0, 5, 10, 5}, true},
		{"inverted", Rect{10, 10, 0, 0}, true},
	}

	for _, tt := range tests {
		if got := tt.rect.Empty(); got != tt.want {
			t.Errorf("%s: Empty() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X0: 0, Y0: 0, X1: 100, Y1: 100}

	tests := []struct {
		x, y float64
		want bool
	}{
		{50, 50, true},
		{0, 0, true},
		{100, 100, true},
		{101, 50, false},
		{50, -1, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectIntersectsAndUnion(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 5, 15, 15}
	c := Rect{20, 20, 30, 30}

	if !a.Intersects(b) {
		t.Error("expected a and b to intersect")
	}
	if a.Intersects(c) {
		t.Error("expected a and c not to intersect")
	}

	u := a.Union(b)
	want := Rect{0, 0, 15, 15}
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}
}

func TestRectInset(t *testing.T) {
	r := Rect{X0: 10, Y0: 10, X1: 20, Y1: 20}
	in := r.Inset(1)
	want := Rect{X0: 11, Y0: 11, X1: 19, Y1: 19}
	if in != want {
		t.Errorf("Inset(1) = %+v, want %+v", in, want)
	}

	if !r.Inset(6).Empty() {
		t.Error("expected over-inset rectangle to be empty")
	}
}

func TestSegmentOrientation(t *testing.T) {
	tests := []struct {
		name       string
		seg        Segment
		horizontal bool
		vertical   bool
	}{
		{"horizontal rule", Segment{X0: 10, Y0: 100, X1: 200, Y1: 100.4}, true, false},
		{"vertical rule", Segment{X0: 50, Y0: 10, X1: 50.2, Y1: 300}, false, true},
		{"diagonal", Segment{X0: 0, Y0: 0, X1: 100, Y1: 100}, false, false},
		{"too short", Segment{X0: 10, Y0: 100, X1: 15, Y1: 100}, false, false},
	}

	for _, tt := range tests {
		if got := tt.seg.Horizontal(1, 10); got != tt.horizontal {
			t.Errorf("%s: Horizontal = %v, want %v", tt.name, got, tt.horizontal)
		}
		if got := tt.seg.Vertical(1, 10); got != tt.vertical {
			t.Errorf("%s: Vertical = %v, want %v", tt.name, got, tt.vertical)
		}
	}
}

func TestSegmentLength(t *testing.T) {
	s := Segment{X0: 0, Y0: 0, X1: 3, Y1: 4}
	if got := s.Length(); math.Abs(got-5) > 1e-9 {
		t.Errorf("Length() = %v, want 5", got)
	}
}

func TestMatrixApply(t *testing.T) {
	m := Translation(10, 20)
	x, y := m.Apply(1, 2)
	if x != 11 || y != 22 {
		t.Errorf("Apply = (%v, %v), want (11, 22)", x, y)
	}
}

func TestMatrixMul(t *testing.T) {
	scale := Matrix{2, 0, 0, 2, 0, 0}
	translate := Translation(5, 5)

	// Scale first, then translate.
	m := translate.Mul(scale)
	x, y := m.Apply(1, 1)
	if x != 7 || y != 7 {
		t.Errorf("scale-then-translate Apply(1,1) = (%v, %v), want (7, 7)", x, y)
	}
}

func TestMatrixScaleMagnitude(t *testing.T) {
	tests := []struct {
		m    Matrix
		want float64
	}{
		{Identity(), 1},
		{Matrix{3, 0, 0, 2, 0, 0}, 3},
		{Matrix{1, 0, 0, -14, 0, 0}, 14},
	}

	for _, tt := range tests {
		if got := tt.m.ScaleMagnitude(); got != tt.want {
			t.Errorf("ScaleMagnitude(%v) = %v, want %v", tt.m, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Paragraph, "paragraph"},
		{MainTitle, "main_title"},
		{SectionHeader, "section_header"},
		{SubsectionHeader, "subsection_header"},
		{BoldHeader, "bold_header"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindHeading(t *testing.T) {
	if Paragraph.Heading() {
		t.Error("paragraph should not be a heading")
	}
	for _, k := range []Kind{MainTitle, SectionHeader, SubsectionHeader, BoldHeader} {
		if !k.Heading() {
			t.Errorf("%s should be a heading", k)
		}
	}
}

func TestLineWith(t *testing.T) {
	l := Line{Text: "original", Page: 2, Kind: Paragraph}

	classified := l.WithKind(SectionHeader)
	if classified.Kind != SectionHeader || l.Kind != Paragraph {
		t.Error("WithKind must not modify the receiver")
	}

	merged := l.WithText("merged text")
	if merged.Text != "merged text" || l.Text != "original" {
		t.Error("WithText must not modify the receiver")
	}
}

func TestTableKindString(t *testing.T) {
	tests := []struct {
		kind TableKind
		want string
	}{
		{TableKeyword, "keyword"},
		{TableGridVector, "grid-vector"},
		{TableGridText, "grid-text"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("TableKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestTableRectangular(t *testing.T) {
	tbl := &Table{
		Header: []string{"A", "B", "C"},
		Rows:   [][]string{{"1", "2", "3"}, {"4", "5", "6"}},
	}
	if !tbl.Rectangular() {
		t.Error("expected rectangular table")
	}
	if tbl.Cols() != 3 {
		t.Errorf("Cols() = %d, want 3", tbl.Cols())
	}

	tbl.Rows = append(tbl.Rows, []string{"only one"})
	if tbl.Rectangular() {
		t.Error("expected ragged table to fail Rectangular")
	}
}

func TestImageTranslucent(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		want  bool
	}{
		{"translucent", 180, true},
		{"opaque", 255, false},
		{"at threshold", 220, false},
		{"unknown", AlphaUnknown, false},
	}

	for _, tt := range tests {
		im := &Image{Alpha: tt.alpha}
		if got := im.Translucent(220); got != tt.want {
			t.Errorf("%s: Translucent(220) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWarningString(t *testing.T) {
	w := Warning{Page: 2, Stage: "images", Message: "skipped Im1"}
	if got := w.String(); got != "page 3: images: skipped Im1" {
		t.Errorf("String() = %q", got)
	}

	doc := Warning{Page: -1, Stage: "reader", Message: "no Info dict"}
	if got := doc.String(); got != "reader: no Info dict" {
		t.Errorf("String() = %q", got)
	}
}

func TestDocumentContentImages(t *testing.T) {
	doc := &Document{
		Images: []*Image{
			{Index: 0, Watermark: true},
			{Index: 1},
			{Index: 2, Watermark: true},
			{Index: 3},
		},
	}

	got := doc.ContentImages()
	if len(got) != 2 {
		t.Fatalf("ContentImages() returned %d images, want 2", len(got))
	}
	if got[0].Index != 1 || got[1].Index != 3 {
		t.Errorf("ContentImages() kept wrong images: %d, %d", got[0].Index, got[1].Index)
	}
}
