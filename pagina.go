// Package pagina reconstructs structured, navigable HTML from PDF documents
// that carry no semantic markup. Headings, paragraphs, lists, tables, and
// figures are inferred from glyph geometry, font metrics, and drawing
// primitives alone.
//
// Basic usage:
//
//	html, warnings, err := pagina.Open("document.pdf").HTML()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagina.FormatWarnings(warnings))
//	}
//
// With options:
//
//	html, _, err := pagina.Open("report.pdf").
//	    Title("Quarterly Report").
//	    VocabularyFile("vocab.yaml").
//	    HTML()
//
// For advanced use cases, the lower-level reader, layout, tables, images,
// and web packages are also available.
package pagina

import (
	"strings"

	"github.com/tsawler/pagina/model"
	"github.com/tsawler/pagina/reader"
)

// Open prepares a conversion of the named PDF file and returns a Converter
// for fluent configuration. The file is opened lazily by the first terminal
// operation and closed when that operation finishes, so no explicit Close is
// needed:
//
//	html, warnings, err := pagina.Open("document.pdf").HTML()
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader creates a Converter from an already-opened reader.Reader. The
// caller keeps ownership of the reader and is responsible for closing it.
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	html, warnings, err := pagina.FromReader(r).HTML()
func FromReader(r *reader.Reader) *Converter {
	return &Converter{
		reader:       r,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error) and
// panics if the error is non-nil. It is intended for scripts and tests where
// error handling would be cumbersome.
//
//	count := pagina.Must(pagina.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustHTML wraps a call to a terminal returning (T, []model.Warning, error),
// panics on a non-nil error, and discards the warnings.
//
//	html := pagina.MustHTML(pagina.Open("document.pdf").HTML())
func MustHTML[T any](val T, _ []model.Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// FormatWarnings joins warnings into one newline-separated string for logs.
func FormatWarnings(warnings []model.Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}
