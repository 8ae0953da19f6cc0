package tables

import (
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/pagina/model"
)

func TestDetectAllRuledPage(t *testing.T) {
	// a ruled grid page: the vector detector wins and the text grid, which
	// would reconstruct the same cells from alignment, must stay silent
	found, warnings := DetectAll(ruledPage(), DefaultConfig())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 table, got %d", len(found))
	}
	if found[0].Kind != model.TableGridVector {
		t.Errorf("expected grid-vector kind, got %v", found[0].Kind)
	}
}

func TestDetectAllTextFallback(t *testing.T) {
	found, warnings := DetectAll(alignedPage(), DefaultConfig())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 table, got %d", len(found))
	}
	if found[0].Kind != model.TableGridText {
		t.Errorf("expected grid-text kind, got %v", found[0].Kind)
	}
}

func TestDetectAllKeywordAndGrid(t *testing.T) {
	page := ruledPage()
	page.Lines = textLines(page.Number,
		"Dependency Type   Requirements",
		"External Dependencies   Payment gateway API",
		"System Dependencies   Redis 7",
	)

	found, warnings := DetectAll(page, DefaultConfig())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(found))
	}
	if found[0].Kind != model.TableKeyword || found[1].Kind != model.TableGridVector {
		t.Errorf("unexpected kinds %v and %v", found[0].Kind, found[1].Kind)
	}
}

func TestDetectAllEmptyPage(t *testing.T) {
	found, warnings := DetectAll(PageData{Number: 7}, DefaultConfig())
	if len(found) != 0 {
		t.Errorf("expected no tables, got %d", len(found))
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

type explodingDetector struct{}

func (explodingDetector) Detect(PageData) ([]model.Table, error) { panic("index out of range") }
func (explodingDetector) Name() string                           { return "exploding" }
func (explodingDetector) Configure(Config) error                 { return nil }

type failingDetector struct{}

func (failingDetector) Detect(PageData) ([]model.Table, error) {
	return nil, errors.New("bad cells")
}
func (failingDetector) Name() string           { return "failing" }
func (failingDetector) Configure(Config) error { return nil }

func TestDetectRecoversPanic(t *testing.T) {
	found, err := detect(explodingDetector{}, PageData{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if found != nil {
		t.Errorf("expected no tables, got %v", found)
	}
	if !strings.Contains(err.Error(), "exploding detector") {
		t.Errorf("error should name the detector, got %q", err)
	}
	if !strings.Contains(err.Error(), "index out of range") {
		t.Errorf("error should carry the panic value, got %q", err)
	}
}

func TestDetectPassesErrorThrough(t *testing.T) {
	_, err := detect(failingDetector{}, PageData{})
	if err == nil || err.Error() != "bad cells" {
		t.Fatalf("expected the detector error, got %v", err)
	}
}
