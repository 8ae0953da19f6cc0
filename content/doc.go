// Package content interprets page content streams against graphics and text
// state, turning paint instructions into positioned values: text spans,
// straight-line segments from path drawing, and image placement rectangles.
//
// Everything the package emits lives in top-left page coordinates: PDF user
// space is flipped so that Y grows downward and sorting by Y gives reading
// order. Downstream layout and table detection never see raw PDF space.
package content
