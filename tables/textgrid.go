package tables

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/pagina/layout"
	"github.com/tsawler/pagina/model"
)

// TextGridDetector reconstructs tables from text alignment alone: spans
// cluster into rows by baseline, rows split into cells at wide horizontal
// gaps, and the page qualifies when enough rows share the same column count.
// It recovers tables typeset without rule lines but cannot tell a table from
// any other strongly aligned text, so DetectAll runs it only on pages where
// the vector grid found nothing.
type TextGridDetector struct {
	config Config
}

// NewTextGridDetector creates a text grid detector with default configuration.
func NewTextGridDetector() *TextGridDetector {
	return &TextGridDetector{config: DefaultConfig()}
}

// Name returns the detector's identifier ("text-grid").
func (d *TextGridDetector) Name() string {
	return "text-grid"
}

// Configure sets the detector configuration.
func (d *TextGridDetector) Configure(config Config) error {
	d.config = config
	return nil
}

type gridCell struct {
	x    float64
	text string
}

type gridRow struct {
	y     float64
	spans []gridCell
}

// Detect reconstructs at most one aligned-text table per page.
func (d *TextGridDetector) Detect(page PageData) ([]model.Table, error) {
	cfg := d.config

	gridRows := d.clusterRows(page.Spans)
	if len(gridRows) == 0 {
		return nil, nil
	}

	// Split each row into cells at wide horizontal gaps.
	built := make([][]string, 0, len(gridRows))
	ys := make([]float64, 0, len(gridRows))
	for _, row := range gridRows {
		cells := d.splitCells(row.spans)
		if len(cells) == 0 {
			continue
		}
		built = append(built, cells)
		ys = append(ys, row.y)
	}

	// The dominant column count must be wide enough and common enough for
	// the alignment to mean anything.
	colCount, freq := dominantWidth(built)
	if colCount < cfg.MinGridCols || freq < cfg.MinGridRows {
		return nil, nil
	}

	var header []string
	var rows [][]string
	var tableY float64
	for i, r := range built {
		cells := make([]string, colCount)
		for c := 0; c < colCount && c < len(r); c++ {
			cells[c] = layout.CleanText(r[c])
		}
		blank := true
		for _, cell := range cells {
			if cell != "" {
				blank = false
				break
			}
		}
		switch {
		case header == nil && blank:
		case header == nil:
			header = make([]string, len(cells))
			for c, cell := range cells {
				if cell == "" {
					cell = fmt.Sprintf("Col %d", c+1)
				}
				header[c] = cell
			}
			tableY = ys[i]
		default:
			rows = append(rows, cells)
		}
	}
	if header == nil || len(rows) == 0 {
		return nil, nil
	}

	return []model.Table{{
		Page:   page.Number,
		Kind:   model.TableGridText,
		Title:  "Detected Table",
		Header: header,
		Rows:   rows,
		Y:      tableY,
	}}, nil
}

// clusterRows groups nonblank spans into baseline rows. Rows grow while each
// span's top stays within the tolerance of the running row average, which
// follows slight baseline drift without splitting the row.
func (d *TextGridDetector) clusterRows(spans []model.Span) []gridRow {
	type position struct {
		y, x float64
		text string
	}
	positions := make([]position, 0, len(spans))
	for _, sp := range spans {
		text := strings.TrimSpace(sp.Text)
		if text == "" {
			continue
		}
		positions = append(positions, position{y: sp.Rect.Y0, x: sp.Rect.X0, text: text})
	}
	if len(positions) == 0 {
		return nil
	}
	sort.SliceStable(positions, func(i, j int) bool {
		if positions[i].y != positions[j].y {
			return positions[i].y < positions[j].y
		}
		return positions[i].x < positions[j].x
	})

	var rows []gridRow
	current := gridRow{y: positions[0].y, spans: []gridCell{{x: positions[0].x, text: positions[0].text}}}
	lastY := positions[0].y
	for _, p := range positions[1:] {
		if abs(p.y-lastY) <= d.config.ClusterTolerance {
			current.spans = append(current.spans, gridCell{x: p.x, text: p.text})
			lastY = (lastY + p.y) / 2
			continue
		}
		rows = append(rows, current)
		current = gridRow{y: p.y, spans: []gridCell{{x: p.x, text: p.text}}}
		lastY = p.y
	}
	return append(rows, current)
}

// splitCells orders one row's spans left to right and starts a new cell
// wherever the gap between adjacent span origins exceeds the threshold.
func (d *TextGridDetector) splitCells(spans []gridCell) []string {
	if len(spans) == 0 {
		return nil
	}
	ordered := append([]gridCell(nil), spans...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].x < ordered[j].x })

	var cells []string
	var buf []string
	prevX := ordered[0].x
	for i, sp := range ordered {
		if i > 0 && sp.x-prevX > d.config.GapThreshold && len(buf) > 0 {
			cells = append(cells, strings.TrimSpace(strings.Join(buf, " ")))
			buf = buf[:0]
		}
		buf = append(buf, sp.text)
		prevX = sp.x
	}
	if len(buf) > 0 {
		cells = append(cells, strings.TrimSpace(strings.Join(buf, " ")))
	}
	return cells
}

// dominantWidth returns the most frequent row width and its count, first
// seen winning ties.
func dominantWidth(rows [][]string) (width, freq int) {
	counts := make(map[int]int)
	var order []int
	for _, r := range rows {
		if counts[len(r)] == 0 {
			order = append(order, len(r))
		}
		counts[len(r)]++
	}
	for _, w := range order {
		if counts[w] > freq {
			width, freq = w, counts[w]
		}
	}
	return width, freq
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
