// Package vocab holds the injected vocabulary that drives the heuristic
// stages: the title keyword set for line classification and the header
// phrases, row markers, and capture terminators for keyword table detection.
//
// The defaults reproduce the document family the heuristics were tuned on.
// Converting a different corpus means supplying different values, not
// different code:
//
//	cfg, err := vocab.Load("pagina.vocab.yaml")
//	conv := pagina.Open(path).Vocabulary(cfg)
//
// A loaded file overlays [Default]: absent keys keep their default values,
// present sequences replace the default wholesale.
package vocab

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Classifier parameterizes line classification.
type Classifier struct {
	// TitleSize is the effective font size at or above which any line is a
	// main title.
	TitleSize float64 `yaml:"title_size"`

	// TitleKeywords promote bold lines containing one of them to main
	// titles regardless of size.
	TitleKeywords []string `yaml:"title_keywords"`

	// BoldHeaderMax is the longest a bold line may be and still read as a
	// minor heading.
	BoldHeaderMax int `yaml:"bold_header_max"`
}

// Family describes one keyword-table family: the phrases that open capture,
// the canonical header row to emit, and for category-style families the row
// openers and capture terminators.
type Family struct {
	// Title labels tables of this family in the output.
	Title string `yaml:"title"`

	// Headers open capture when any of them appears in a line.
	Headers []string `yaml:"headers"`

	// Columns is the canonical header row. Header lines in the wild are
	// often re-split badly, so the canonical row is emitted instead.
	Columns []string `yaml:"columns"`

	// Extras extend Columns when every one of them appears in the header
	// line.
	Extras []string `yaml:"extras,omitempty"`

	// Categories accept a line as a data row when any of them appears.
	// Families without categories accept rows by shape instead.
	Categories []string `yaml:"categories,omitempty"`

	// Stops end capture when a line contains one of them (case-insensitive).
	Stops []string `yaml:"stops,omitempty"`
}

// Tables parameterizes the keyword table detector.
type Tables struct {
	Stakeholder Family `yaml:"stakeholder"`
	Dependency  Family `yaml:"dependency"`
	Requirement Family `yaml:"requirement"`
	Objective   Family `yaml:"objective"`

	// RowIDPrefix marks requirement rows, e.g. "F-101".
	RowIDPrefix string `yaml:"row_id_prefix"`

	// Priorities are rating words that both mark a row and split it into
	// cells when wide gaps are missing.
	Priorities []string `yaml:"priorities"`

	// RowKeywords mark dependency rows.
	RowKeywords []string `yaml:"row_keywords"`

	// RowPhrases are lowercase phrases that mark objective rows.
	RowPhrases []string `yaml:"row_phrases"`

	// DependencyTypes split a dependency row into type and requirements.
	DependencyTypes []string `yaml:"dependency_types"`

	// BreakPhrases end capture when a line contains one (case-insensitive).
	BreakPhrases []string `yaml:"break_phrases"`

	// BreakMarkers end capture when a line contains one verbatim.
	BreakMarkers []string `yaml:"break_markers"`

	// CapsBreakLen ends capture on all-uppercase lines longer than this.
	CapsBreakLen int `yaml:"caps_break_len"`
}

// Config is the complete injectable vocabulary.
type Config struct {
	Classifier Classifier `yaml:"classifier"`
	Tables     Tables     `yaml:"tables"`
}

// Default returns the built-in vocabulary.
func Default() Config {
	return Config{
		Classifier: Classifier{
			TitleSize: 16,
			TitleKeywords: []string{
				"Technical Specifications",
				"INTRODUCTION",
				"SYSTEM OVERVIEW",
				"PROCESS FLOWCHART",
			},
			BoldHeaderMax: 100,
		},
		Tables: Tables{
			Stakeholder: Family{
				Title:   "Key Stakeholders and Users",
				Headers: []string{"Stakeholder Category", "Primary Users", "Secondary Users"},
				Columns: []string{"Stakeholder Category", "Primary Users", "Secondary Users"},
				Categories: []string{
					"Cultural Producers",
					"Government Partners",
					"End Consumers",
					"Technology Partners",
				},
				Stops: []string{"expected", "business", "impact"},
			},
			Dependency: Family{
				Title:   "Technical Specifications",
				Headers: []string{"Dependency Type", "Requirements"},
				Columns: []string{"Dependency Type", "Requirements"},
			},
			Requirement: Family{
				Title:   "Technical Specifications",
				Headers: []string{"Requirement ID", "Description", "Acceptance Criteria"},
				Columns: []string{"Requirement ID", "Description", "Acceptance Criteria"},
				Extras:  []string{"Priority", "Complexity"},
			},
			Objective: Family{
				Title:   "Technical Specifications",
				Headers: []string{"Objective Category", "Target Metric", "Timeline"},
				Columns: []string{"Objective Category", "Target Metric", "Timeline"},
			},
			RowIDPrefix: "F-",
			Priorities:  []string{"Must-Have", "Should-Have", "High", "Medium", "Low"},
			RowKeywords: []string{"Prerequisite", "System", "External", "Integration"},
			RowPhrases:  []string{"user adoption", "economic impact", "cultural preservation"},
			DependencyTypes: []string{
				"Prerequisite Features",
				"System Dependencies",
				"External Dependencies",
				"Integration Requirements",
			},
			BreakPhrases: []string{"technical specifications", "functional requirements", "user benefits"},
			BreakMarkers: []string{"User Benefits:", "Technical Context:"},
			CapsBreakLen: 50,
		},
	}
}

// Parse overlays a YAML document onto the default vocabulary.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing vocabulary: %w", err)
	}
	return cfg, nil
}

// Load reads and parses a vocabulary file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loading vocabulary: %w", err)
	}
	return Parse(data)
}
