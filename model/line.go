package model

// Span is a single shown-text run on a page: the text displayed by one text
// operator together with its geometry and style. Spans are the raw material
// for line assembly, table cell extraction, and the text-grid detector.
type Span struct {
	Text string
	Rect Rect
	Size float64 // effective font size in page units
	Bold bool
	Page int // 0-based page index
}

// Kind is the semantic role a classified line plays in the document.
type Kind int

const (
	Paragraph Kind = iota
	MainTitle
	SectionHeader
	SubsectionHeader
	BoldHeader
)

// String returns the role name used in logs and test output.
func (k Kind) String() string {
	switch k {
	case MainTitle:
		return "main_title"
	case SectionHeader:
		return "section_header"
	case SubsectionHeader:
		return "subsection_header"
	case BoldHeader:
		return "bold_header"
	default:
		return "paragraph"
	}
}

// Heading reports whether the kind renders as a heading element.
func (k Kind) Heading() bool {
	return k == MainTitle || k == SectionHeader || k == SubsectionHeader || k == BoldHeader
}

// Line is one assembled text line: the concatenated span text of a y-cluster,
// positioned at the first span's top-left corner, carrying the largest span
// size and a bold flag that is set when any contributing span was bold.
//
// A Line belongs to exactly one page. Stages derive new Line values instead
// of mutating: the classifier returns lines with Kind set, the reflow engine
// returns lines with merged text, and so on.
type Line struct {
	Text string
	Page int // 0-based page index
	X0   float64
	Y0   float64
	Size float64
	Bold bool
	Kind Kind
}

// WithKind returns a copy of the line with its role set.
func (l Line) WithKind(k Kind) Line {
	l.Kind = k
	return l
}

// WithText returns a copy of the line with its text replaced.
func (l Line) WithText(text string) Line {
	l.Text = text
	return l
}
