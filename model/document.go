package model

import "fmt"

// BlockKind discriminates the flat body blocks a section is built from.
type BlockKind int

const (
	// BlockParagraph is a reflowed body paragraph.
	BlockParagraph BlockKind = iota
	// BlockHeading is an intra-section heading; Level holds the HTML level
	// (2 for section headers, 3 for subsections, 4 for bold headers).
	BlockHeading
	// BlockItem is a single list item; Marker and Level describe the list
	// structure the renderer's stack machine rebuilds around runs of items.
	BlockItem
)

// ListMarker distinguishes bullet items from enumerated items.
type ListMarker int

const (
	MarkerNone ListMarker = iota
	MarkerBullet
	MarkerNumber
)

// Block is one element of a section body in document order. The hierarchy
// fold emits blocks; the HTML renderer turns heading blocks into <h2>..<h4>,
// paragraph blocks into <p>, and maximal runs of item blocks into nested
// <ul>/<ol> structures using an explicit (marker, level) stack.
type Block struct {
	Kind   BlockKind
	Text   string
	Level  int        // heading level or list nesting depth
	Marker ListMarker // set for BlockItem
	Page   int
	Y      float64
}

// Section is one top-level document division, opened by a main-title line and
// closed by the next one (or the end of the stream). Body holds the ordered
// content fold; Tables and Images are attached afterward by the placement
// pass and rendered behind the body.
type Section struct {
	Title  string
	Anchor string // stable fragment id of the form "section-<n>"
	Body   []Block
	Tables []*Table
	Images []*Image

	// AnchorPage and AnchorY locate the section for table proximity
	// ordering: the most recent heading position, or the first paragraph
	// when the section has no headings.
	AnchorPage int
	AnchorY    float64
	HasAnchor  bool
}

// TOCEntry is one table-of-contents row. Entries exist only for sections, so
// the TOC length always equals the number of main-title lines.
type TOCEntry struct {
	Title  string
	Anchor string
	Level  int
}

// Warning records a recovered extraction or detection problem. Warnings never
// abort a conversion; they surface skipped images and abandoned detection
// strategies to the caller.
type Warning struct {
	Page    int // 0-based page index, -1 for document-level warnings
	Stage   string
	Message string
}

// String formats the warning for logs.
func (w Warning) String() string {
	if w.Page < 0 {
		return fmt.Sprintf("%s: %s", w.Stage, w.Message)
	}
	return fmt.Sprintf("page %d: %s: %s", w.Page+1, w.Stage, w.Message)
}

// Document is the finished conversion result: everything the HTML renderer
// and the CLI need, owned by exactly one conversion.
type Document struct {
	Title     string
	Sections  []Section
	Preamble  []Block // content before the first main title, outside any section
	TOC       []TOCEntry
	Tables    []*Table
	Images    []*Image
	PageCount int
	Warnings  []Warning
}

// ContentImages returns the images that survive watermark filtering, in
// extraction order.
func (d *Document) ContentImages() []*Image {
	var out []*Image
	for _, im := range d.Images {
		if !im.Watermark {
			out = append(out, im)
		}
	}
	return out
}
