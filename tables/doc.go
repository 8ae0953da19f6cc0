// Package tables provides table detection over extracted page content.
//
// This package reconstructs tabular data from three independent signals,
// since real documents carry tables in all three shapes: known header
// phrases, drawn rule grids, and bare text alignment.
//
// # Detectors
//
// Detection is performed by types implementing the [Detector] interface.
// The package provides:
//
//   - [KeywordDetector] - matches configured header phrases and row markers
//   - [VectorGridDetector] - rebuilds grids from drawn rule lines
//   - [TextGridDetector] - infers grids from text alignment alone
//
// [DetectAll] runs all three over one page with the standard sequencing:
// keyword scanning always, the vector grid always, and the text grid only
// when no ruled grid was found on the page. A detector that fails or panics
// contributes nothing for that page and is reported as a warning:
//
//	found, warnings := tables.DetectAll(page, tables.DefaultConfig())
//
// # Configuration
//
// Detector behavior is controlled by [Config]:
//
//	config := tables.DefaultConfig()
//	config.Vocabulary = cfg.Tables
//	config.GapThreshold = 30
//
// The keyword detector reads its header phrases, row markers, and capture
// terminators from [Config].Vocabulary, so unfamiliar document families are
// a vocabulary file away rather than a code change. The grid detectors read
// the geometric thresholds: rule straightness and minimum length, boundary
// clustering tolerance, cell inset, and the text-grid gap and shape minima.
//
// # Output
//
// Every detector produces [model.Table] values tagged with the strategy
// that found them. Grid tables are rectangular; keyword tables may be
// ragged, since their rows split on content rather than on boundaries, and
// are padded at render time.
package tables
