package tables

import (
	"fmt"

	"github.com/tsawler/pagina/model"
	"github.com/tsawler/pagina/vocab"
)

// PageData carries everything the detection strategies examine on one page:
// assembled text lines for keyword scanning, raw spans for cell text, and
// straight drawing segments for ruled grids. All coordinates are top-left
// page space.
type PageData struct {
	Number   int // 0-based page index
	Lines    []model.Line
	Spans    []model.Span
	Segments []model.Segment
}

// Detector is the interface for table detection strategies.
type Detector interface {
	// Detect finds tables on a page. Implementations never modify the page
	// data and return fresh tables on every call.
	Detect(page PageData) ([]model.Table, error)

	// Name returns the strategy name used in warnings.
	Name() string

	// Configure sets detector parameters.
	Configure(config Config) error
}

// Config holds detector configuration. One Config parameterizes all three
// strategies; each reads the fields it needs.
type Config struct {
	// Vocabulary drives the keyword detector's header and row matching.
	Vocabulary vocab.Tables

	// Straightness is the largest off-axis deviation for a drawing segment
	// to count as a rule line (points).
	Straightness float64

	// MinRuleLength is the shortest extent for a rule line (points).
	MinRuleLength float64

	// ClusterTolerance merges nearby rule positions or span baselines into
	// one grid boundary (points).
	ClusterTolerance float64

	// CellInset shrinks each grid cell before its text is collected (points).
	CellInset float64

	// GapThreshold is the horizontal gap that splits a text-grid row into
	// separate cells (points).
	GapThreshold float64

	// MinGridRows is the smallest number of rows sharing the dominant column
	// count for a text grid to be accepted.
	MinGridRows int

	// MinGridCols is the smallest dominant column count for a text grid to
	// be accepted.
	MinGridCols int
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Vocabulary:       vocab.Default().Tables,
		Straightness:     1.0,
		MinRuleLength:    10.0,
		ClusterTolerance: 3.0,
		CellInset:        1.0,
		GapThreshold:     25.0,
		MinGridRows:      3,
		MinGridCols:      3,
	}
}

// DetectAll runs the standard strategies over one page in order: keyword
// scanning, the ruled vector grid, and the text grid on pages where no ruled
// grid was found. A strategy that returns an error or panics contributes no
// tables for the page and is reported as a warning; the other strategies and
// pages are unaffected.
func DetectAll(page PageData, cfg Config) ([]model.Table, []model.Warning) {
	var tables []model.Table
	var warnings []model.Warning

	run := func(d Detector) []model.Table {
		if err := d.Configure(cfg); err != nil {
			warnings = append(warnings, model.Warning{Page: page.Number, Stage: d.Name(), Message: err.Error()})
			return nil
		}
		found, err := detect(d, page)
		if err != nil {
			warnings = append(warnings, model.Warning{Page: page.Number, Stage: d.Name(), Message: err.Error()})
			return nil
		}
		return found
	}

	tables = append(tables, run(NewKeywordDetector())...)
	ruled := run(NewVectorGridDetector())
	tables = append(tables, ruled...)
	if len(ruled) == 0 {
		tables = append(tables, run(NewTextGridDetector())...)
	}
	return tables, warnings
}

// detect invokes one strategy, converting a panic inside its heuristics into
// an error so a malformed page cannot take down the whole conversion.
func detect(d Detector, page PageData) (tables []model.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			tables = nil
			err = fmt.Errorf("%s detector: %v", d.Name(), r)
		}
	}()
	return d.Detect(page)
}
