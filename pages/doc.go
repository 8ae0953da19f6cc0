// Package pages flattens the PDF page tree into an ordered page list.
//
// Page tree nodes inherit /MediaBox, /CropBox, /Resources, and /Rotate from
// their ancestors; the traversal carries those attributes down so every
// [Page] comes out with its effective values already applied:
//
//	tree := pages.NewTree(pagesDict, resolver)
//	list, err := tree.Pages()
//
// Indirect references are chased through the [Resolver] interface, which the
// reader package implements. Malformed trees (reference cycles, missing
// /Type entries, absurd depth) are handled without walking forever.
package pages
