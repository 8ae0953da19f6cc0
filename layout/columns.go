package layout

import (
	"math"
	"sort"

	"github.com/tsawler/pagina/model"
)

const (
	// minColumnEdges is the smallest number of distinct left edges that can
	// indicate a two-column layout.
	minColumnEdges = 8

	// minColumnGap is the narrowest horizontal gap accepted as a column
	// divider.
	minColumnGap = 40.0
)

// ReorderColumns re-linearizes one page's lines for reading order. Lines are
// first ordered by (y, x). The distinct left edges of paragraph-like lines
// (paragraphs and bold headers, rounded to a tenth) are then examined: with
// fewer than eight distinct edges the page is assumed single-column and the
// (y, x) order stands. Otherwise the widest gap between adjacent edges, when
// at least minColumnGap wide, splits the page at its midpoint and the left
// column is emitted top to bottom followed by the right column.
//
// This is a single-split heuristic; it does not generalize to three or more
// columns. The input slice is never modified.
func ReorderColumns(lines []model.Line) []model.Line {
	if len(lines) == 0 {
		return nil
	}

	out := make([]model.Line, len(lines))
	copy(out, lines)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Y0 != out[j].Y0 {
			return out[i].Y0 < out[j].Y0
		}
		return out[i].X0 < out[j].X0
	})

	edges := paragraphEdges(out)
	if len(edges) < minColumnEdges {
		return out
	}

	gapAt, gapWidth := 0, 0.0
	for i := 1; i < len(edges); i++ {
		if w := edges[i] - edges[i-1]; w > gapWidth {
			gapWidth, gapAt = w, i
		}
	}
	if gapWidth < minColumnGap {
		return out
	}
	divider := (edges[gapAt-1] + edges[gapAt]) / 2

	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := columnOf(out[i], divider), columnOf(out[j], divider)
		if ci != cj {
			return ci < cj
		}
		if out[i].Y0 != out[j].Y0 {
			return out[i].Y0 < out[j].Y0
		}
		return out[i].X0 < out[j].X0
	})
	return out
}

// paragraphEdges collects the sorted distinct left edges of paragraph-like
// lines. Headings are excluded: centered titles sit at positions that say
// nothing about column structure.
func paragraphEdges(lines []model.Line) []float64 {
	seen := make(map[float64]bool)
	for _, line := range lines {
		if line.Kind == model.Paragraph || line.Kind == model.BoldHeader {
			seen[math.Round(line.X0*10)/10] = true
		}
	}
	edges := make([]float64, 0, len(seen))
	for x := range seen {
		edges = append(edges, x)
	}
	sort.Float64s(edges)
	return edges
}

func columnOf(line model.Line, divider float64) int {
	if line.X0 < divider {
		return 0
	}
	return 1
}
