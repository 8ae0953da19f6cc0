package layout

import (
	"regexp"
	"strings"
)

// ListKind distinguishes bulleted from enumerated lists.
type ListKind int

const (
	Bulleted ListKind = iota
	Numbered
)

// Tag returns the HTML list container tag for the kind.
func (k ListKind) Tag() string {
	if k == Numbered {
		return "ol"
	}
	return "ul"
}

// ListItem is one recognized list entry: its kind, nesting level derived
// from indentation, and the text with the marker stripped.
type ListItem struct {
	Kind  ListKind
	Level int
	Text  string
}

var (
	bulletMarker = regexp.MustCompile(`^(•|-|–|—|\*|▪|◦)\s+(.*)$`)
	numberMarker = regexp.MustCompile(`(?i)^((\d+|[A-Za-z]|[ivxlcdm]+)[).])\s+(.*)$`)
)

const (
	// listBaseIndent is the left margin below which items sit at level 0.
	listBaseIndent = 36.0

	// listIndentStep is the horizontal distance per nesting level.
	listIndentStep = 24.0
)

// ParseListItem recognizes bullet and enumerated markers at the start of a
// paragraph line. Enumerated markers cover decimal, single-letter, and roman
// numbering with either ')' or '.' terminators.
func ParseListItem(text string, x0 float64) (ListItem, bool) {
	trimmed := strings.TrimSpace(text)
	if m := bulletMarker.FindStringSubmatch(trimmed); m != nil {
		return ListItem{Kind: Bulleted, Level: IndentLevel(x0), Text: strings.TrimSpace(m[2])}, true
	}
	if m := numberMarker.FindStringSubmatch(trimmed); m != nil {
		return ListItem{Kind: Numbered, Level: IndentLevel(x0), Text: strings.TrimSpace(m[3])}, true
	}
	return ListItem{}, false
}

// IndentLevel maps a left edge to a nesting level in coarse steps beyond
// the base margin.
func IndentLevel(x0 float64) int {
	if x0 <= listBaseIndent {
		return 0
	}
	return int((x0 - listBaseIndent) / listIndentStep)
}
