package layout

import (
	"regexp"
	"strings"

	"github.com/tsawler/pagina/model"
)

var (
	hyphenBreak = regexp.MustCompile(`(\w)-\s+([a-z])`)
	multiSpace  = regexp.MustCompile(`\s{2,}`)

	// markerStart recognizes bullet and enumerated markers for the purpose
	// of blocking merges; list reconstruction proper uses the stricter
	// patterns in list.go.
	markerStart = regexp.MustCompile(`(?i)^(•|-|–|—|\*|▪|◦|\d+[).]|[ivxlcdm]+\.|[A-Z]\))\s+`)

	sentenceEnd    = regexp.MustCompile(`[.!?]\s*$`)
	clauseEnd      = regexp.MustCompile(`[,:;]\s*$`)
	upperStart     = regexp.MustCompile(`^[A-Z]`)
	lowerStart     = regexp.MustCompile(`^[a-z]`)
	lowerContinues = regexp.MustCompile(`^[a-z]{2,}`)
)

// CleanText normalizes one line's text: soft hyphens are removed, hyphen
// breaks followed by a lowercase continuation are joined into one word, and
// whitespace runs collapse to a single space. The result is a fixed point,
// so cleaning already-clean text changes nothing.
func CleanText(text string) string {
	if text == "" {
		return text
	}
	text = strings.ReplaceAll(text, "­", "")
	for {
		joined := hyphenBreak.ReplaceAllString(text, "$1$2")
		if joined == text {
			break
		}
		text = joined
	}
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// shouldMerge decides whether two adjacent paragraph lines are one logical
// paragraph. Merging is blocked when the next line is a list marker, or when
// the previous line ends a sentence and the next starts a new one. Otherwise
// a trailing hyphen, a trailing clause separator, a lowercase continuation,
// or a stranded single letter joins the lines.
func shouldMerge(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}
	if markerStart.MatchString(next) {
		return false
	}
	if sentenceEnd.MatchString(prev) && upperStart.MatchString(next) {
		return false
	}
	if strings.HasSuffix(prev, "-") {
		return true
	}
	if clauseEnd.MatchString(prev) {
		return true
	}
	if lowerStart.MatchString(next) {
		return true
	}
	if endsStrandedLetter(prev) && lowerContinues.MatchString(next) {
		return true
	}
	return false
}

// endsStrandedLetter reports whether text ends in a single letter cut off a
// word, e.g. "c" left behind by "c ultural". The words "a" and "I" are real
// words and never stranded.
func endsStrandedLetter(text string) bool {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return false
	}
	last := runes[n-1]
	if !isLetter(last) || last == 'a' || last == 'I' {
		return false
	}
	return n == 1 || !isLetter(runes[n-2])
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// mergePair joins two paragraph texts. A trailing hyphen or a stranded
// letter joins without a space; anything else gets a single space.
func mergePair(prev, next string) string {
	var merged string
	switch {
	case strings.HasSuffix(prev, "-"):
		merged = strings.TrimSuffix(prev, "-") + next
	case endsStrandedLetter(prev) && lowerContinues.MatchString(next):
		merged = prev + next
	default:
		merged = prev + " " + next
	}
	return CleanText(merged)
}

// Reflow repairs line wrapping over the classified stream. The first pass
// cleans every line's text; the second merges adjacent paragraph lines on
// the same page while the merge heuristics hold, so a paragraph wrapped
// across many lines collapses in a single call. Running Reflow on its own
// output produces no further merges. The input is never modified.
func Reflow(lines []model.Line) []model.Line {
	if len(lines) == 0 {
		return nil
	}

	out := make([]model.Line, 0, len(lines))
	for _, line := range lines {
		line = line.WithText(CleanText(line.Text))
		if len(out) > 0 {
			prev := out[len(out)-1]
			if prev.Kind == model.Paragraph && line.Kind == model.Paragraph &&
				prev.Page == line.Page && shouldMerge(prev.Text, line.Text) {
				out[len(out)-1] = prev.WithText(mergePair(prev.Text, line.Text))
				continue
			}
		}
		out = append(out, line)
	}
	return out
}
