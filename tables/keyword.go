package tables

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/tsawler/pagina/layout"
	"github.com/tsawler/pagina/model"
)

var (
	wideGap        = regexp.MustCompile(`\s{3,}`)
	cellDelims     = regexp.MustCompile(`[,;]\s*`)
	numberedPrefix = regexp.MustCompile(`^\d+\.`)
)

// KeywordDetector recognizes tables whose header phrases and row markers
// match the configured vocabulary. It is the only strategy that can recover
// tables typeset without rule lines or column alignment, at the price of
// being vocabulary-bound: it finds the table families its configuration
// names and nothing else.
type KeywordDetector struct {
	config     Config
	priorities *regexp.Regexp
}

// NewKeywordDetector creates a keyword detector with default configuration.
func NewKeywordDetector() *KeywordDetector {
	d := &KeywordDetector{}
	d.Configure(DefaultConfig())
	return d
}

// Name returns the detector's identifier ("keyword").
func (d *KeywordDetector) Name() string {
	return "keyword"
}

// Configure sets the detector configuration and rebuilds the priority
// splitting pattern from the vocabulary.
func (d *KeywordDetector) Configure(config Config) error {
	d.config = config
	d.priorities = nil
	if words := config.Vocabulary.Priorities; len(words) > 0 {
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(w)
		}
		d.priorities = regexp.MustCompile(strings.Join(quoted, "|"))
	}
	return nil
}

// Detect scans the page's lines for the stakeholder table and for the
// shape-driven families (dependencies, requirements, objectives).
func (d *KeywordDetector) Detect(page PageData) ([]model.Table, error) {
	var tables []model.Table
	if t, ok := d.scanStakeholder(page); ok {
		tables = append(tables, t)
	}
	return append(tables, d.scanShaped(page)...), nil
}

// scanStakeholder collects the stakeholder table. Its rows carry prose that
// defeats the shape heuristics, so membership is decided by the category
// keywords instead: lines naming a known category become rows, unrelated
// lines inside the region are passed over, and a stop word or blank ends the
// capture. A later header line reopens it, extending the same table, so at
// most one stakeholder table per page is produced.
func (d *KeywordDetector) scanStakeholder(page PageData) (model.Table, bool) {
	v := d.config.Vocabulary.Stakeholder
	var rows [][]string
	collecting := false
	var headerY float64

	for _, line := range page.Lines {
		text := strings.TrimSpace(line.Text)
		switch {
		case containsAny(text, v.Headers):
			collecting = true
			headerY = line.Y0
			if len(strings.Fields(text)) >= 2 {
				rows = append(rows, append([]string(nil), v.Columns...))
			}
		case collecting:
			if text == "" {
				collecting = false
			} else if containsAny(text, v.Categories) {
				if parts := d.splitRow(text); len(parts) >= 2 {
					rows = append(rows, parts)
				}
			} else if containsAnyFold(text, v.Stops) {
				collecting = false
			}
		}
	}

	if len(rows) < 2 {
		return model.Table{}, false
	}
	return model.Table{
		Page:   page.Number,
		Kind:   model.TableKeyword,
		Title:  v.Title,
		Header: rows[0],
		Rows:   rows[1:],
		Y:      headerY,
	}, true
}

// scanShaped collects the dependency, requirement, and objective tables.
// The three families share one capture: any family header opens it and
// appends that family's canonical header row, lines that look like rows are
// split into cells, and a blank or section break closes the accumulated
// table and resumes scanning. Two tables separated by a heading therefore
// come out separate, while a header directly following another extends the
// same capture.
func (d *KeywordDetector) scanShaped(page PageData) []model.Table {
	v := d.config.Vocabulary
	var tables []model.Table
	var rows [][]string
	var headerY float64
	var title string
	collecting := false

	flush := func() {
		if len(rows) > 1 {
			tables = append(tables, model.Table{
				Page:   page.Number,
				Kind:   model.TableKeyword,
				Title:  title,
				Header: rows[0],
				Rows:   rows[1:],
				Y:      headerY,
			})
		}
		rows = nil
		collecting = false
	}

	open := func(y float64, famTitle string, cols []string) {
		collecting = true
		headerY = y
		title = famTitle
		rows = append(rows, cols)
	}

	for _, line := range page.Lines {
		text := strings.TrimSpace(line.Text)
		switch {
		case containsAny(text, v.Dependency.Headers):
			open(line.Y0, v.Dependency.Title, append([]string(nil), v.Dependency.Columns...))
		case containsAny(text, v.Requirement.Headers):
			cols := append([]string(nil), v.Requirement.Columns...)
			if containsAll(text, v.Requirement.Extras) {
				cols = append(cols, v.Requirement.Extras...)
			}
			open(line.Y0, v.Requirement.Title, cols)
		case containsAny(text, v.Objective.Headers):
			open(line.Y0, v.Objective.Title, append([]string(nil), v.Objective.Columns...))
		case collecting:
			if text == "" {
				flush()
			} else if d.isTableRow(text) {
				if parts := d.splitRow(text); len(parts) >= 2 {
					rows = append(rows, parts)
				}
			} else if d.isSectionBreak(text) {
				flush()
			}
		}
	}
	flush()
	return tables
}

// splitRow splits one row line into cells. Requirement rows split on wide
// gaps, falling back to the priority words themselves as delimiters when the
// gaps were lost in extraction. Dependency rows split after the dependency
// type phrase. Everything else splits on wide gaps, then on commas and
// semicolons when no gap survived.
func (d *KeywordDetector) splitRow(text string) []string {
	v := d.config.Vocabulary
	var parts []string
	switch {
	case v.RowIDPrefix != "" && strings.Contains(text, v.RowIDPrefix) && containsAnyFold(text, v.Priorities):
		parts = wideGap.Split(text, -1)
		if len(parts) < 3 && d.priorities != nil {
			parts = splitKeeping(d.priorities, text)
		}
	case containsAny(text, v.RowKeywords):
		for _, depType := range v.DependencyTypes {
			if strings.Contains(text, depType) {
				parts = []string{depType, strings.TrimSpace(strings.ReplaceAll(text, depType, ""))}
				break
			}
		}
		if parts == nil {
			parts = wideGap.Split(text, -1)
		}
	default:
		parts = wideGap.Split(text, -1)
		if len(parts) == 1 {
			parts = cellDelims.Split(text, -1)
		}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(layout.CleanText(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// isTableRow reports whether a line inside a capture looks like a data row:
// it carries a requirement ID, a known row keyword or phrase, a priority
// word, or column-suggesting whitespace (multiple tabs or multiple wide
// space runs).
func (d *KeywordDetector) isTableRow(text string) bool {
	v := d.config.Vocabulary
	switch {
	case v.RowIDPrefix != "" && strings.Contains(text, v.RowIDPrefix):
		return true
	case containsAny(text, v.RowKeywords):
		return true
	case containsAny(text, v.Priorities):
		return true
	case containsAnyFold(text, v.RowPhrases):
		return true
	case strings.Count(text, "\t") > 1:
		return true
	}
	return len(wideGap.FindAllString(text, -1)) > 1
}

// isSectionBreak reports whether a line ends the current capture: a numbered
// heading, a configured break phrase or marker, or a long all-uppercase run.
func (d *KeywordDetector) isSectionBreak(text string) bool {
	v := d.config.Vocabulary
	switch {
	case numberedPrefix.MatchString(text):
		return true
	case containsAnyFold(text, v.BreakPhrases):
		return true
	case v.CapsBreakLen > 0 && len(text) > v.CapsBreakLen && isUpper(text):
		return true
	}
	return containsAny(text, v.BreakMarkers)
}

// splitKeeping splits text around every match of re, keeping the matches as
// parts of their own.
func splitKeeping(re *regexp.Regexp, text string) []string {
	var parts []string
	last := 0
	for _, m := range re.FindAllStringIndex(text, -1) {
		parts = append(parts, text[last:m[0]], text[m[0]:m[1]])
		last = m[1]
	}
	return append(parts, text[last:])
}

func containsAny(text string, subs []string) bool {
	for _, s := range subs {
		if s != "" && strings.Contains(text, s) {
			return true
		}
	}
	return false
}

func containsAnyFold(text string, subs []string) bool {
	lower := strings.ToLower(text)
	for _, s := range subs {
		if s != "" && strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

func containsAll(text string, subs []string) bool {
	for _, s := range subs {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return len(subs) > 0
}

// isUpper reports whether the text has at least one cased letter and no
// lowercase ones.
func isUpper(text string) bool {
	cased := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
