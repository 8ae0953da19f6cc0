package layout

import (
	"sort"
	"strings"

	"github.com/tsawler/pagina/model"
)

// LineConfig holds configuration for line assembly.
type LineConfig struct {
	// YTolerance is the vertical distance within which spans join an
	// existing line.
	YTolerance float64

	// SpaceFactor scales the font size into the horizontal gap beyond
	// which a space is inserted between adjacent spans.
	SpaceFactor float64
}

// DefaultLineConfig returns the assembly defaults.
func DefaultLineConfig() LineConfig {
	return LineConfig{
		YTolerance:  3.0,
		SpaceFactor: 0.1,
	}
}

// AssembleLines groups a page's spans into text lines. Spans are clustered
// by vertical proximity against the running average of the open line, each
// cluster is ordered left to right, and the cluster's text is concatenated
// with spaces inserted across visible gaps. The resulting lines carry the
// first span's top-left position, the largest span size, and a bold flag if
// any span is bold. Lines whose text is empty after trimming are dropped.
func AssembleLines(spans []model.Span, cfg LineConfig) []model.Line {
	if len(spans) == 0 {
		return nil
	}

	groups := groupSpans(spans, cfg.YTolerance)

	lines := make([]model.Line, 0, len(groups))
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Rect.X0 < group[j].Rect.X0
		})

		text := strings.TrimSpace(joinSpans(group, cfg.SpaceFactor))
		if text == "" {
			continue
		}

		line := model.Line{
			Text: text,
			Page: group[0].Page,
			X0:   group[0].Rect.X0,
			Y0:   group[0].Rect.Y0,
		}
		for _, sp := range group {
			if sp.Size > line.Size {
				line.Size = sp.Size
			}
			if sp.Bold {
				line.Bold = true
			}
		}
		lines = append(lines, line)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Y0 != lines[j].Y0 {
			return lines[i].Y0 < lines[j].Y0
		}
		return lines[i].X0 < lines[j].X0
	})
	return lines
}

// groupSpans clusters spans by top position. A span joins the open cluster
// when it sits within tolerance of the cluster's running average.
func groupSpans(spans []model.Span, tolerance float64) [][]model.Span {
	sorted := make([]model.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rect.Y0 < sorted[j].Rect.Y0
	})

	var groups [][]model.Span
	var current []model.Span
	var sumY float64

	for _, sp := range sorted {
		if len(current) > 0 {
			avg := sumY / float64(len(current))
			if abs(sp.Rect.Y0-avg) <= tolerance {
				current = append(current, sp)
				sumY += sp.Rect.Y0
				continue
			}
			groups = append(groups, current)
		}
		current = []model.Span{sp}
		sumY = sp.Rect.Y0
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// joinSpans concatenates span text left to right, inserting a single space
// where the horizontal gap between spans is wide enough to be visible.
func joinSpans(group []model.Span, spaceFactor float64) string {
	var b strings.Builder
	lastEnd := 0.0
	for i, sp := range group {
		if i > 0 {
			gap := sp.Rect.X0 - lastEnd
			if gap > spaceFactor*sp.Size &&
				!strings.HasSuffix(b.String(), " ") &&
				!strings.HasPrefix(sp.Text, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(sp.Text)
		if sp.Rect.X1 > lastEnd {
			lastEnd = sp.Rect.X1
		}
	}
	return b.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
