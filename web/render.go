package web

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/tsawler/pagina/model"
)

// UntitledTitle names documents that carry no usable title.
const UntitledTitle = "Untitled Document"

// Render produces the complete standalone HTML page for a document: embedded
// stylesheet, table-of-contents navigation, sectioned body, inline images,
// and the smooth-scroll script. The options must be the ones the document
// was assembled with, since the image rules also pick the rendering chrome.
func Render(doc *model.Document, opts Options) string {
	opts = opts.withDefaults()

	title := doc.Title
	if title == "" {
		title = UntitledTitle
	}

	var b strings.Builder
	b.Grow(len(documentStyles) + 4096)

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", escapeHTML(title))
	fmt.Fprintf(&b, "<style>%s</style>\n", documentStyles)
	b.WriteString("</head>\n<body>\n")

	b.WriteString("<nav class=\"nav-container\">\n<h1 class=\"nav-title\">Table of Contents</h1>\n")
	renderNav(&b, doc.TOC)
	b.WriteString("</nav>\n")

	b.WriteString("<main class=\"main-content\">\n<div class=\"container\">\n")
	b.WriteString("<header class=\"document-header\">\n")
	fmt.Fprintf(&b, "<h1 class=\"main-title\">%s</h1>\n", escapeHTML(title))
	b.WriteString("</header>\n")

	renderBlocks(&b, doc.Preamble)
	for i := range doc.Sections {
		renderSection(&b, &doc.Sections[i], i+1, opts.ImageRules)
	}

	b.WriteString("</div>\n</main>\n")
	fmt.Fprintf(&b, "<script>%s</script>\n", navigationScript)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func renderNav(b *strings.Builder, toc []model.TOCEntry) {
	b.WriteString("<ul class=\"nav-list\">\n")
	for _, entry := range toc {
		b.WriteString("<li class=\"nav-item\">")
		fmt.Fprintf(b, "<a href=\"#%s\" class=\"nav-link\">%s</a>", entry.Anchor, escapeHTML(entry.Title))
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
}

// renderSection emits one document section: the header wrapper, the body
// blocks, then the placed images and tables at the end of the content div.
func renderSection(b *strings.Builder, sec *model.Section, n int, rules ImageRules) {
	fmt.Fprintf(b, "<section id=%q class=\"document-section\">\n", sec.Anchor)
	b.WriteString("<div class=\"section-header-wrapper\">\n")
	fmt.Fprintf(b, "<h1 class=\"section-title\">%s</h1>\n", escapeHTML(sec.Title))
	b.WriteString("</div>\n<div class=\"section-content\">\n")

	renderBlocks(b, sec.Body)
	if rule, ok := rules[n]; ok {
		for _, im := range sec.Images {
			renderImage(b, im, rule)
		}
	}
	for _, t := range sec.Tables {
		renderTable(b, t)
	}

	b.WriteString("</div>\n</section>\n")
}

// listFrame is one open list container. Levels are the nesting depths the
// indentation mapper produced, which need not be contiguous in the input.
type listFrame struct {
	tag   string
	level int
}

// renderBlocks writes body blocks in order, rebuilding nested lists from
// runs of item blocks. Any heading or paragraph closes every open list.
func renderBlocks(b *strings.Builder, blocks []model.Block) {
	var stack []listFrame
	closeAll := func() {
		for len(stack) > 0 {
			fmt.Fprintf(b, "</%s>\n", stack[len(stack)-1].tag)
			stack = stack[:len(stack)-1]
		}
	}

	for _, blk := range blocks {
		switch blk.Kind {
		case model.BlockHeading:
			closeAll()
			level, class := headingClass(blk.Level)
			fmt.Fprintf(b, "<h%d class=%q>%s</h%d>\n", level, class, escapeHTML(blk.Text), level)

		case model.BlockItem:
			writeItem(b, &stack, blk)

		default:
			closeAll()
			fmt.Fprintf(b, "<p class=\"content-paragraph\">%s</p>\n", escapeHTML(blk.Text))
		}
	}
	closeAll()
}

func headingClass(level int) (int, string) {
	switch level {
	case 3:
		return 3, "subsection-header"
	case 4:
		return 4, "bold-header"
	default:
		return 2, "section-header"
	}
}

// writeItem adjusts the open-list stack for one item and emits it. Deeper
// lists close first, then a same-level list of the other kind; missing
// levels open one container at a time until the item's level is reached.
func writeItem(b *strings.Builder, stack *[]listFrame, blk model.Block) {
	tag := "ul"
	if blk.Marker == model.MarkerNumber {
		tag = "ol"
	}

	s := *stack
	for len(s) > 0 && s[len(s)-1].level > blk.Level {
		fmt.Fprintf(b, "</%s>\n", s[len(s)-1].tag)
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1].level == blk.Level && s[len(s)-1].tag != tag {
		fmt.Fprintf(b, "</%s>\n", s[len(s)-1].tag)
		s = s[:len(s)-1]
	}
	for len(s) == 0 || s[len(s)-1].level < blk.Level || (s[len(s)-1].level == blk.Level && s[len(s)-1].tag != tag) {
		fmt.Fprintf(b, "<%s>\n", tag)
		level := 0
		if len(s) > 0 {
			level = s[len(s)-1].level + 1
		}
		s = append(s, listFrame{tag: tag, level: level})
		if level >= blk.Level {
			break
		}
	}
	fmt.Fprintf(b, "<li>%s</li>\n", escapeHTML(blk.Text))
	*stack = s
}

// renderTable writes one professional table. Tables without data rows are
// skipped; short rows are padded to the header width with empty cells.
func renderTable(b *strings.Builder, t *model.Table) {
	if len(t.Header) == 0 || len(t.Rows) == 0 {
		return
	}
	title := t.Title
	if title == "" {
		title = "Table"
	}

	b.WriteString("<div class=\"professional-table-container\">\n")
	fmt.Fprintf(b, "<h4 class=\"table-title\">%s</h4>\n", escapeHTML(title))
	b.WriteString("<div class=\"table-wrapper\">\n<table class=\"professional-table\">\n<thead>\n<tr>")
	for _, h := range t.Header {
		fmt.Fprintf(b, "<th class=\"table-header\">%s</th>", escapeHTML(h))
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")

	for _, row := range t.Rows {
		b.WriteString("<tr class=\"table-row\">")
		for i, cell := range row {
			class := "table-cell"
			if i == 0 {
				class += " first-column"
			}
			fmt.Fprintf(b, "<td class=%q>%s</td>", class, escapeHTML(cell))
		}
		for i := len(row); i < len(t.Header); i++ {
			b.WriteString("<td class=\"table-cell\"></td>")
		}
		b.WriteString("</tr>\n")
	}

	b.WriteString("</tbody>\n</table>\n</div>\n</div>\n")
}

// renderImage writes one placed image with the chrome its section rule asks
// for, embedding the payload as a base64 data URI.
func renderImage(b *strings.Builder, im *model.Image, rule ImageRule) {
	uri := fmt.Sprintf("data:image/%s;base64,%s", im.Format, base64.StdEncoding.EncodeToString(im.Data))
	if rule == RuleFlowchart {
		b.WriteString("<div class=\"flowchart-container\">\n<h4 class=\"flowchart-title\">Process Flowchart</h4>\n<div class=\"flowchart-wrapper\">\n")
		fmt.Fprintf(b, "<img src=%q alt=\"Process Flowchart\" class=\"process-flowchart\" />\n", uri)
		b.WriteString("</div>\n<p class=\"flowchart-caption\">Figure: System workflow and decision points</p>\n</div>\n")
		return
	}
	b.WriteString("<div class=\"diagram-container\">\n<h4 class=\"diagram-title\">System Architecture Diagram</h4>\n<div class=\"diagram-wrapper\">\n")
	fmt.Fprintf(b, "<img src=%q alt=\"System Diagram\" class=\"system-diagram\" />\n", uri)
	b.WriteString("</div>\n<p class=\"diagram-caption\">Figure: System components and their relationships</p>\n</div>\n")
}

// escapeHTML escapes HTML special characters.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
