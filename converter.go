package pagina

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tsawler/pagina/content"
	"github.com/tsawler/pagina/images"
	"github.com/tsawler/pagina/layout"
	"github.com/tsawler/pagina/model"
	"github.com/tsawler/pagina/pages"
	"github.com/tsawler/pagina/reader"
	"github.com/tsawler/pagina/tables"
	"github.com/tsawler/pagina/vocab"
	"github.com/tsawler/pagina/web"
)

// Converter provides a fluent interface for converting a PDF into a
// structured HTML document. Each configuration method returns a new
// Converter instance, so a configured chain can be shared and reused; a
// single conversion, however, is synchronous and single-threaded, and
// concurrent conversions must use independent chains.
type Converter struct {
	// Source
	filename string
	reader   *reader.Reader

	// Lifecycle
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool

	// Configuration
	options convertOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []model.Warning
}

// clone creates a shallow copy of the Converter with a deep copy of options.
// Each chain method returns a new instance.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename:     c.filename,
		reader:       c.reader,
		ownsReader:   c.ownsReader,
		readerOpened: c.readerOpened,
		options:      c.options.clone(),
		err:          c.err,
		warnings:     append([]model.Warning(nil), c.warnings...),
	}
}

// Vocabulary replaces the heuristic vocabulary: classifier thresholds, title
// keywords, and the keyword table detector's header and row phrases.
func (c *Converter) Vocabulary(cfg vocab.Config) *Converter {
	nc := c.clone()
	nc.options.vocabulary = cfg
	return nc
}

// VocabularyFile loads a YAML vocabulary overlay from the given path. Keys
// absent from the file keep their built-in defaults.
func (c *Converter) VocabularyFile(path string) *Converter {
	nc := c.clone()
	if nc.err != nil {
		return nc
	}
	cfg, err := vocab.Load(path)
	if err != nil {
		nc.err = err
		return nc
	}
	nc.options.vocabulary = cfg
	return nc
}

// Title overrides the document title normally taken from the PDF metadata
// or the file name.
func (c *Converter) Title(title string) *Converter {
	nc := c.clone()
	nc.options.title = title
	return nc
}

// NoImages skips image extraction entirely; the output document contains no
// embedded figures.
func (c *Converter) NoImages() *Converter {
	nc := c.clone()
	nc.options.embedImages = false
	return nc
}

// TableAffinity overrides the section-number to table-kind routing used when
// detected tables are placed into sections.
func (c *Converter) TableAffinity(aff web.TableAffinity) *Converter {
	nc := c.clone()
	nc.options.affinity = aff
	return nc
}

// ImageRules overrides the section-number to image-chrome routing used when
// diagram images are placed into sections.
func (c *Converter) ImageRules(rules web.ImageRules) *Converter {
	nc := c.clone()
	nc.options.imageRules = rules
	return nc
}

// WithLogger emits each warning through the given logger as it is recorded,
// in addition to accumulating it on the result document.
func (c *Converter) WithLogger(logger *slog.Logger) *Converter {
	nc := c.clone()
	nc.options.logger = logger
	return nc
}

// ensureReader opens the reader if not already open.
func (c *Converter) ensureReader() error {
	if c.readerOpened {
		return nil
	}
	if c.filename == "" {
		return fmt.Errorf("no filename specified")
	}
	r, err := reader.Open(c.filename)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	c.reader = r
	c.ownsReader = true
	c.readerOpened = true
	return nil
}

// Close releases resources associated with the Converter. It is safe to call
// Close multiple times; readers supplied through FromReader are never closed.
func (c *Converter) Close() error {
	if c.ownsReader && c.reader != nil {
		err := c.reader.Close()
		c.reader = nil
		c.ownsReader = false
		c.readerOpened = false
		return err
	}
	return nil
}

// warn records a warning and forwards it to the configured logger.
func (c *Converter) warn(w model.Warning) {
	c.warnings = append(c.warnings, w)
	if c.options.logger == nil {
		return
	}
	if w.Page >= 0 {
		c.options.logger.Warn(w.Message, "stage", w.Stage, "page", w.Page+1)
	} else {
		c.options.logger.Warn(w.Message, "stage", w.Stage)
	}
}

// Document runs the conversion and returns the assembled document model:
// classified sections with their table of contents, detected tables, and the
// classified image population. The reader is closed afterward when the
// Converter opened it.
func (c *Converter) Document() (*model.Document, error) {
	if c.err != nil {
		return nil, c.err
	}
	if err := c.ensureReader(); err != nil {
		return nil, err
	}
	if c.ownsReader {
		defer c.Close()
	}
	return c.convert()
}

// HTML runs the conversion and renders the result as one self-contained
// page: embedded stylesheet, navigation, sections, inline images, and the
// smooth-scroll script.
func (c *Converter) HTML() (string, []model.Warning, error) {
	doc, err := c.Document()
	if err != nil {
		return "", nil, err
	}
	page := web.Render(doc, c.webOptions())
	return page, doc.Warnings, nil
}

// WriteHTML renders the conversion result to w.
func (c *Converter) WriteHTML(w io.Writer) ([]model.Warning, error) {
	page, warnings, err := c.HTML()
	if err != nil {
		return warnings, err
	}
	if _, err := io.WriteString(w, page); err != nil {
		return warnings, fmt.Errorf("writing output: %w", err)
	}
	return warnings, nil
}

// WriteFile renders the conversion result into the named file.
func (c *Converter) WriteFile(path string) ([]model.Warning, error) {
	page, warnings, err := c.HTML()
	if err != nil {
		return warnings, err
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return warnings, fmt.Errorf("writing output: %w", err)
	}
	return warnings, nil
}

// Sections runs the conversion and splits the rendered document into one
// standalone page per top-level section.
func (c *Converter) Sections() ([]web.SectionFile, []model.Warning, error) {
	page, warnings, err := c.HTML()
	if err != nil {
		return nil, warnings, err
	}
	files, err := web.SplitSections([]byte(page))
	if err != nil {
		return nil, warnings, err
	}
	return files, warnings, nil
}

// PageCount opens the document and reports its page count without running
// the conversion pipeline.
func (c *Converter) PageCount() (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if err := c.ensureReader(); err != nil {
		return 0, err
	}
	if c.ownsReader {
		defer c.Close()
	}
	return c.reader.PageCount(), nil
}

// Warnings returns the warnings recorded on this chain so far. Terminal
// operations also return them alongside their result.
func (c *Converter) Warnings() []model.Warning {
	return append([]model.Warning(nil), c.warnings...)
}

func (c *Converter) webOptions() web.Options {
	return web.Options{
		Affinity:   c.options.affinity,
		ImageRules: c.options.imageRules,
	}
}

// convert runs the pipeline: per-page content extraction, line assembly,
// classification, column reordering, table detection, and image collection;
// then the document-wide reflow and image-classification passes; then the
// assembly fold.
func (c *Converter) convert() (*model.Document, error) {
	pageList, err := c.reader.Pages()
	if err != nil {
		return nil, fmt.Errorf("reading page tree: %w", err)
	}

	tableCfg := tables.DefaultConfig()
	tableCfg.Vocabulary = c.options.vocabulary.Tables
	lineCfg := layout.DefaultLineConfig()

	var (
		allLines  []model.Line
		allTables []model.Table
		allImages []model.Image
	)

	for _, page := range pageList {
		pageNo := page.Number - 1

		res, err := content.Extract(page, c.reader)
		if err != nil {
			c.warn(model.Warning{Page: pageNo, Stage: "content", Message: err.Error()})
			continue
		}

		lines := layout.AssembleLines(res.Spans, lineCfg)
		lines = layout.ClassifyLines(lines, c.options.vocabulary.Classifier)
		lines = layout.ReorderColumns(lines)
		allLines = append(allLines, lines...)

		pageTables, warnings := tables.DetectAll(tables.PageData{
			Number:   pageNo,
			Lines:    lines,
			Spans:    res.Spans,
			Segments: res.Segments,
		}, tableCfg)
		allTables = append(allTables, pageTables...)
		for _, w := range warnings {
			c.warn(w)
		}

		if c.options.embedImages {
			allImages = append(allImages, c.extractImages(page, pageNo, res.Placements)...)
		}
	}

	allLines = layout.Reflow(allLines)
	allImages = images.Classify(allImages, len(pageList))

	doc := web.Assemble(web.Input{
		Title:     c.reader.Title(),
		Lines:     allLines,
		Tables:    allTables,
		Images:    allImages,
		PageCount: len(pageList),
		Warnings:  c.warnings,
	}, c.webOptions())

	if c.options.title != "" {
		doc.Title = c.options.title
	}
	return doc, nil
}

// extractImages pulls the page's image XObjects and pairs each with the
// rectangle its first painting placed it into. Images that never appear in
// the content stream keep a zero rectangle and a zero area ratio, which
// excludes them from watermark area tests but keeps them in the population.
func (c *Converter) extractImages(page *pages.Page, pageNo int, placements []content.Placement) []model.Image {
	ximgs, errs := c.reader.ExtractImages(page)
	for _, err := range errs {
		c.warn(model.Warning{Page: pageNo, Stage: "images", Message: err.Error()})
	}

	pageArea := page.Width() * page.Height()
	out := make([]model.Image, 0, len(ximgs))
	for i, x := range ximgs {
		img := model.Image{
			Page:   pageNo,
			Index:  i,
			Data:   x.Data,
			Format: x.Format,
			Width:  x.Width,
			Height: x.Height,
			Alpha:  float64(x.Alpha),
		}
		if x.Alpha < 0 {
			img.Alpha = model.AlphaUnknown
		}
		for _, p := range placements {
			if p.Name == x.Name {
				img.Rect = p.Rect
				if pageArea > 0 {
					img.AreaRatio = p.Rect.Area() / pageArea
				}
				break
			}
		}
		out = append(out, img)
	}
	return out
}
