package layout

import (
	"testing"

	"github.com/tsawler/pagina/model"
	"github.com/tsawler/pagina/vocab"
)

func TestClassify(t *testing.T) {
	cfg := vocab.Default().Classifier

	tests := []struct {
		name string
		text string
		size float64
		bold bool
		want model.Kind
	}{
		{"large text is a main title", "Anything At All", 16, false, model.MainTitle},
		{"bold title keyword", "Technical Specifications", 11, true, model.MainTitle},
		{"keyword without bold is not a title", "Technical Specifications", 11, false, model.Paragraph},
		{"numbered uppercase section", "1. INTRODUCTION", 11, false, model.SectionHeader},
		{"two part number mixed case", "1.2 System Overview", 11, false, model.SectionHeader},
		{"three part number is a subsection", "1.1.2 Brief Overview", 11, false, model.SubsectionHeader},
		{"short bold line", "Key Benefits", 11, true, model.BoldHeader},
		{"bold sentence stays paragraph", "This entire sentence is bold for emphasis.", 11, true, model.Paragraph},
		{"plain text", "The system processes documents.", 11, false, model.Paragraph},
		{"numbered lowercase is not a section", "1. introduction to the system", 11, false, model.Paragraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := model.Line{Text: tt.text, Size: tt.size, Bold: tt.bold}
			if got := Classify(line, cfg); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	cfg := vocab.Default().Classifier

	// large and numbered: size rule runs first
	line := model.Line{Text: "1. INTRODUCTION", Size: 18}
	if got := Classify(line, cfg); got != model.MainTitle {
		t.Errorf("expected main title, got %v", got)
	}
}

func TestClassifyInjectedVocabulary(t *testing.T) {
	cfg := vocab.Classifier{
		TitleSize:     20,
		TitleKeywords: []string{"APPENDIX"},
		BoldHeaderMax: 30,
	}

	line := model.Line{Text: "APPENDIX B", Size: 10, Bold: true}
	if got := Classify(line, cfg); got != model.MainTitle {
		t.Errorf("expected main title from injected keyword, got %v", got)
	}

	// 16 is a title under defaults but not under the injected threshold
	line = model.Line{Text: "Plain big text here today", Size: 16}
	if got := Classify(line, cfg); got != model.Paragraph {
		t.Errorf("expected paragraph under raised threshold, got %v", got)
	}

	long := model.Line{Text: "This bold line is far too long for the limit", Size: 10, Bold: true}
	if got := Classify(long, cfg); got != model.Paragraph {
		t.Errorf("expected paragraph over bold header limit, got %v", got)
	}
}

func TestClassifyLines(t *testing.T) {
	cfg := vocab.Default().Classifier
	lines := []model.Line{
		{Text: "PROJECT PLAN", Size: 18},
		{Text: "1. INTRODUCTION", Size: 11},
		{Text: "Body text.", Size: 11},
	}

	got := ClassifyLines(lines, cfg)
	if len(got) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got))
	}
	want := []model.Kind{model.MainTitle, model.SectionHeader, model.Paragraph}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("line %d: expected %v, got %v", i, k, got[i].Kind)
		}
	}

	// input stays untouched
	for i, line := range lines {
		if line.Kind != model.Paragraph {
			t.Errorf("input line %d mutated to %v", i, line.Kind)
		}
	}
}
