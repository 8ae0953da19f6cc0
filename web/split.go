package web

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// SectionFile is one standalone section page produced by SplitSections.
type SectionFile struct {
	Title string
	Name  string // file name derived from the title
	HTML  []byte
}

// SplitSections parses a rendered document and re-emits each top-level
// section as a standalone page that keeps the document stylesheet. Content
// outside section elements, including the navigation and the preamble, is
// dropped. Sections with identical titles produce identical file names; a
// caller writing them in order keeps the last one.
func SplitSections(blob []byte) ([]SectionFile, error) {
	root, err := html.Parse(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("split sections: %w", err)
	}

	var (
		files []SectionFile
		werr  error
	)
	walk(root, func(n *html.Node) {
		if werr != nil || n.Type != html.ElementNode || n.Data != "section" || !hasClass(n, "document-section") {
			return
		}
		title := sectionTitle(n)
		page, err := renderStandalone(title, n)
		if err != nil {
			werr = err
			return
		}
		files = append(files, SectionFile{
			Title: title,
			Name:  sanitizeName(title) + ".html",
			HTML:  page,
		})
	})
	if werr != nil {
		return nil, fmt.Errorf("split sections: %w", werr)
	}
	return files, nil
}

// sectionTitle returns the text of the section's title heading, falling back
// to the anchor id when the section has no heading.
func sectionTitle(sec *html.Node) string {
	var title string
	walk(sec, func(n *html.Node) {
		if title != "" || n.Type != html.ElementNode || n.Data != "h1" || !hasClass(n, "section-title") {
			return
		}
		title = strings.TrimSpace(nodeText(n))
	})
	if title != "" {
		return title
	}
	if id := getAttr(sec, "id"); id != "" {
		return id
	}
	return "Section"
}

// nodeText concatenates the text nodes under n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}

// sanitizeName turns a section title into a file-safe name: spaces and dots
// become underscores, as do path separators.
func sanitizeName(title string) string {
	return strings.NewReplacer(" ", "_", ".", "_", "/", "_", "\\", "_").Replace(title)
}

// renderStandalone wraps one section element in a minimal page that reuses
// the document stylesheet.
func renderStandalone(title string, sec *html.Node) ([]byte, error) {
	var body bytes.Buffer
	if err := html.Render(&body, sec); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", escapeHTML(title))
	fmt.Fprintf(&b, "<style>%s</style>\n", documentStyles)
	b.WriteString("</head>\n<body>\n<div class=\"container\">\n")
	b.Write(body.Bytes())
	b.WriteString("\n</div>\n</body>\n</html>\n")
	return b.Bytes(), nil
}
