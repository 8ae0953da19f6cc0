package layout

import (
	"regexp"
	"strings"

	"github.com/tsawler/pagina/model"
	"github.com/tsawler/pagina/vocab"
)

// Numbered heading shapes. The two-part pattern admits mixed case, so
// "1.2 System Overview" and "3. INTRODUCTION" are both section headers;
// only three-part numbering reads as a subsection.
var (
	numberedUpper   = regexp.MustCompile(`^\d+\.?\d*\s+[A-Z\s]+$`)
	numberedSection = regexp.MustCompile(`^\d+\.\d+\s+[A-Za-z\s]+$`)
	numberedSub     = regexp.MustCompile(`^\d+\.\d+\.\d+\s+[A-Za-z\s]+$`)
)

// Classify assigns a role to one line. Rules are checked in order and the
// first match wins:
//
//  1. at or above the title size, or bold with a title keyword → MainTitle
//  2. numbered heading (uppercase or x.y form) → SectionHeader
//  3. x.y.z numbered heading → SubsectionHeader
//  4. short bold line without terminal period → BoldHeader
//  5. otherwise → Paragraph
//
// Identical input always classifies identically.
func Classify(line model.Line, cfg vocab.Classifier) model.Kind {
	if line.Size >= cfg.TitleSize || (line.Bold && containsAny(line.Text, cfg.TitleKeywords)) {
		return model.MainTitle
	}
	if numberedUpper.MatchString(line.Text) || numberedSection.MatchString(line.Text) {
		return model.SectionHeader
	}
	if numberedSub.MatchString(line.Text) {
		return model.SubsectionHeader
	}
	if line.Bold && len(line.Text) < cfg.BoldHeaderMax && !strings.HasSuffix(line.Text, ".") {
		return model.BoldHeader
	}
	return model.Paragraph
}

// ClassifyLines returns a new slice with every line's Kind assigned.
func ClassifyLines(lines []model.Line, cfg vocab.Classifier) []model.Line {
	out := make([]model.Line, len(lines))
	for i, line := range lines {
		out[i] = line.WithKind(Classify(line, cfg))
	}
	return out
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
