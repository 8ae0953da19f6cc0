// Package font loads the parts of a PDF font dictionary that text extraction
// depends on: decoding show-string bytes to Unicode through the /ToUnicode
// character map, glyph advance widths, and whether the face renders bold.
//
// Simple fonts (Type1, TrueType, Type3) address glyphs with single-byte
// codes and carry widths in /FirstChar + /Widths. Composite Type0 fonts
// address glyphs with multi-byte codes and carry widths in the descendant
// CIDFont's /W array. Both shapes load into the same Font value.
package font
