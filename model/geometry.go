package model

import "math"

// Rect is an axis-aligned rectangle in page space with the origin at the
// top-left corner of the page: X grows rightward, Y grows downward, so
// sorting by Y0 gives top-to-bottom reading order. PDF user space puts the
// origin at the bottom-left; the content extractor flips coordinates before
// anything downstream sees them.
type Rect struct {
	X0, Y0 float64 // top-left corner
	X1, Y1 float64 // bottom-right corner
}

// NewRect returns the rectangle spanning the two points in either order.
func NewRect(x0, y0, x1, y1 float64) Rect {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns the rectangle's area, or 0 for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Empty reports whether the rectangle has no positive extent.
func (r Rect) Empty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Contains reports whether the point (x, y) lies inside or on the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// ContainsRect reports whether other lies entirely within r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X0 >= r.X0 && other.X1 <= r.X1 && other.Y0 >= r.Y0 && other.Y1 <= r.Y1
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X0 < other.X1 && other.X0 < r.X1 && r.Y0 < other.Y1 && other.Y0 < r.Y1
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, other.X0),
		Y0: math.Min(r.Y0, other.Y0),
		X1: math.Max(r.X1, other.X1),
		Y1: math.Max(r.Y1, other.Y1),
	}
}

// Inset returns the rectangle shrunk by d on every side. Insetting past the
// midpoint yields an empty rectangle.
func (r Rect) Inset(d float64) Rect {
	return Rect{X0: r.X0 + d, Y0: r.Y0 + d, X1: r.X1 - d, Y1: r.Y1 - d}
}

// Segment is a straight stroke taken from the page's drawing instructions,
// already transformed into top-left page space.
type Segment struct {
	X0, Y0 float64
	X1, Y1 float64
	Width  float64
}

// Horizontal reports whether the segment is horizontal within tol: the
// endpoints' Y delta is below tol and the X delta exceeds minLen.
func (s Segment) Horizontal(tol, minLen float64) bool {
	return math.Abs(s.Y1-s.Y0) < tol && math.Abs(s.X1-s.X0) > minLen
}

// Vertical reports whether the segment is vertical within tol: the endpoints'
// X delta is below tol and the Y delta exceeds minLen.
func (s Segment) Vertical(tol, minLen float64) bool {
	return math.Abs(s.X1-s.X0) < tol && math.Abs(s.Y1-s.Y0) > minLen
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	dx := s.X1 - s.X0
	dy := s.Y1 - s.Y0
	return math.Sqrt(dx*dx + dy*dy)
}

// Matrix is a PDF transformation matrix [a b c d e f] mapping
// (x, y) -> (a·x + c·y + e, b·x + d·y + f).
type Matrix [6]float64

// Identity returns the identity matrix.
func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Translation returns a pure translation matrix.
func Translation(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

// Apply transforms the point (x, y) by m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Mul returns the product n·m: applying the result is equivalent to applying
// n first and then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		n[0]*m[0] + n[1]*m[2],
		n[0]*m[1] + n[1]*m[3],
		n[2]*m[0] + n[3]*m[2],
		n[2]*m[1] + n[3]*m[3],
		n[4]*m[0] + n[5]*m[2] + m[4],
		n[4]*m[1] + n[5]*m[3] + m[5],
	}
}

// ScaleMagnitude returns the larger of the matrix's horizontal and vertical
// scale factors. Used to derive an effective font size from a text matrix.
func (m Matrix) ScaleMagnitude() float64 {
	sx := math.Abs(m[0])
	sy := math.Abs(m[3])
	if sx > sy {
		return sx
	}
	return sy
}
