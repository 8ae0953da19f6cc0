package tables

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/pagina/layout"
	"github.com/tsawler/pagina/model"
)

// VectorGridDetector reconstructs tables from ruled grids in the page's
// drawing segments. Horizontal and vertical rule lines are clustered into
// row and column boundaries and each resulting cell is filled with the text
// of the spans it contains.
type VectorGridDetector struct {
	config Config
}

// NewVectorGridDetector creates a vector grid detector with default
// configuration.
func NewVectorGridDetector() *VectorGridDetector {
	return &VectorGridDetector{config: DefaultConfig()}
}

// Name returns the detector's identifier ("vector-grid").
func (d *VectorGridDetector) Name() string {
	return "vector-grid"
}

// Configure sets the detector configuration.
func (d *VectorGridDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// Detect finds at most one ruled table per page. Pages need two or more
// horizontal and two or more vertical rule lines; their positions cluster
// into grid boundaries, and the grid needs at least two boundaries on each
// axis to enclose any cell.
func (d *VectorGridDetector) Detect(page PageData) ([]model.Table, error) {
	cfg := d.config
	var horizontals, verticals []model.Segment
	for _, seg := range page.Segments {
		switch {
		case seg.Horizontal(cfg.Straightness, cfg.MinRuleLength):
			horizontals = append(horizontals, seg)
		case seg.Vertical(cfg.Straightness, cfg.MinRuleLength):
			verticals = append(verticals, seg)
		}
	}
	if len(horizontals) < 2 || len(verticals) < 2 {
		return nil, nil
	}

	var xVals, yVals []float64
	for _, h := range horizontals {
		x0, x1 := h.X0, h.X1
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		xVals = append(xVals, x0, x1)
		yVals = append(yVals, h.Y0)
	}
	for _, v := range verticals {
		y0, y1 := v.Y0, v.Y1
		if y1 < y0 {
			y0, y1 = y1, y0
		}
		xVals = append(xVals, v.X0)
		yVals = append(yVals, y0, y1)
	}

	xs := cluster(xVals, cfg.ClusterTolerance)
	ys := cluster(yVals, cfg.ClusterTolerance)
	if len(xs) < 2 || len(ys) < 2 {
		return nil, nil
	}

	var header []string
	var rows [][]string
	for r := 0; r < len(ys)-1; r++ {
		cells := make([]string, 0, len(xs)-1)
		blank := true
		for c := 0; c < len(xs)-1; c++ {
			cell := model.Rect{X0: xs[c], Y0: ys[r], X1: xs[c+1], Y1: ys[r+1]}.Inset(cfg.CellInset)
			text := cellText(page.Spans, cell)
			if text != "" {
				blank = false
			}
			cells = append(cells, text)
		}
		switch {
		case header == nil && blank:
			// rows above the first text are grid decoration, not data
		case header == nil:
			header = make([]string, len(cells))
			for i, cell := range cells {
				if cell == "" {
					cell = fmt.Sprintf("Col %d", i+1)
				}
				header[i] = cell
			}
		default:
			rows = append(rows, cells)
		}
	}
	if header == nil || len(rows) == 0 {
		return nil, nil
	}

	return []model.Table{{
		Page:   page.Number,
		Kind:   model.TableGridVector,
		Title:  "Detected Table",
		Header: header,
		Rows:   rows,
		Y:      ys[0],
	}}, nil
}

// cellText joins the text of the spans whose center lies inside the cell, in
// reading order.
func cellText(spans []model.Span, cell model.Rect) string {
	var inside []model.Span
	for _, sp := range spans {
		cx := (sp.Rect.X0 + sp.Rect.X1) / 2
		cy := (sp.Rect.Y0 + sp.Rect.Y1) / 2
		if cell.Contains(cx, cy) {
			inside = append(inside, sp)
		}
	}
	sort.SliceStable(inside, func(i, j int) bool {
		if inside[i].Rect.Y0 != inside[j].Rect.Y0 {
			return inside[i].Rect.Y0 < inside[j].Rect.Y0
		}
		return inside[i].Rect.X0 < inside[j].Rect.X0
	})
	parts := make([]string, 0, len(inside))
	for _, sp := range inside {
		if t := strings.TrimSpace(sp.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return layout.CleanText(strings.Join(parts, " "))
}

// cluster merges positions lying within tol of a sorted running chain into
// one boundary at the chain's center.
func cluster(vals []float64, tol float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	var centers []float64
	start, end := sorted[0], sorted[0]
	for _, v := range sorted[1:] {
		if v-end > tol {
			centers = append(centers, (start+end)/2)
			start, end = v, v
			continue
		}
		end = v
	}
	return append(centers, (start+end)/2)
}
