// Package contentstream tokenizes PDF content streams into operations.
//
// A content stream is the instruction list that paints a page: text runs,
// path construction, state changes, and XObject placement. Each instruction
// is an operator preceded by its operands:
//
//	parser := contentstream.NewParser(streamData)
//	ops, err := parser.Parse()
//	for _, op := range ops {
//	    fmt.Printf("%s %v\n", op.Operator, op.Operands)
//	}
//
// The parser assigns no meaning to operators; interpreting the stream
// against graphics and text state happens in the content package. Inline
// images (BI .. EI) are recognized and skipped, since raster content is
// consumed through image XObjects.
package contentstream
