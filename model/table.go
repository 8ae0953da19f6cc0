package model

// TableKind identifies which detection strategy produced a table.
type TableKind int

const (
	// TableKeyword marks tables recognized from known header phrases and
	// row-shape heuristics.
	TableKeyword TableKind = iota
	// TableGridVector marks tables reconstructed from ruled line grids in the
	// page's drawing instructions.
	TableGridVector
	// TableGridText marks tables inferred from text alignment alone.
	TableGridText
)

// String returns the type tag used in logs, metadata, and affinity rules.
func (k TableKind) String() string {
	switch k {
	case TableGridVector:
		return "grid-vector"
	case TableGridText:
		return "grid-text"
	default:
		return "keyword"
	}
}

// Table is one detected table. It is created complete by a detector and never
// modified afterward; the assembler only reads it for placement and rendering.
type Table struct {
	Page   int    // 0-based page index
	Kind   TableKind
	Title  string // optional caption, set by keyword detection
	Header []string
	Rows   [][]string // every row has len(Header) cells
	Y      float64    // top position on the page, used for anchor proximity
}

// Cols returns the table width in cells.
func (t *Table) Cols() int { return len(t.Header) }

// Rectangular reports whether every row has exactly as many cells as the
// header. Grid detectors must only emit rectangular tables.
func (t *Table) Rectangular() bool {
	for _, row := range t.Rows {
		if len(row) != len(t.Header) {
			return false
		}
	}
	return true
}
