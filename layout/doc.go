// Package layout turns positioned text spans into the classified, ordered
// line stream the document assembler folds over.
//
// # Pipeline
//
// The stages run per page, in order, and every stage returns a fresh slice:
//
//	lines := layout.AssembleLines(spans, layout.DefaultLineConfig())
//	lines = layout.ClassifyLines(lines, cfg.Classifier)
//	lines = layout.ReorderColumns(lines)
//	lines = layout.Reflow(lines)
//
// # Line assembly
//
// [AssembleLines] clusters spans by vertical proximity, orders each cluster
// left to right, and joins the text with spaces across visible gaps. The
// line keeps the first span's position, the largest span size, and a bold
// flag if any span was bold.
//
// # Classification
//
// [Classify] assigns each line a role with an ordered rule list: main
// titles by size or bold title keywords, numbered section and subsection
// headers by shape, short bold lines as minor headers, everything else a
// paragraph. The size threshold and keyword set come from [vocab.Classifier].
//
// # Column reordering
//
// [ReorderColumns] detects a two-column page from the distinct left edges
// of its paragraphs and re-linearizes reading order: left column top to
// bottom, then right column.
//
// # Reflow
//
// [Reflow] repairs hyphenation and line wrapping: soft hyphens vanish,
// hyphen breaks rejoin, and adjacent paragraph lines merge while
// punctuation and capitalization say they continue one another.
//
// # Lists
//
// [ParseListItem] recognizes bullet and enumerated markers and derives a
// nesting level from indentation. The assembler owns the open-list stack;
// this package only parses.
package layout
