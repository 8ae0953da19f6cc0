package web

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// DocumentTitle extracts the display title of a rendered document: the
// <title> text when present and nonblank, the main-title heading otherwise.
// Blobs carrying neither report "Untitled Document". The blob may be a
// truncated head of the document; the parser tolerates cut-off markup.
func DocumentTitle(blob []byte) string {
	root, err := html.Parse(bytes.NewReader(blob))
	if err != nil {
		return UntitledTitle
	}

	var title, heading string
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch {
		case n.Data == "title" && title == "":
			title = collapseSpace(nodeText(n))
		case n.Data == "h1" && heading == "" && hasClass(n, "main-title"):
			heading = collapseSpace(nodeText(n))
		}
	})

	if title != "" {
		return title
	}
	if heading != "" {
		return heading
	}
	return UntitledTitle
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RewriteTitle returns a copy of a rendered document with its <title> text
// and its main-title heading replaced. Documents missing either element keep
// the rest of their markup unchanged; the blob itself is never modified.
func RewriteTitle(blob []byte, title string) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("rewrite title: %w", err)
	}

	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if n.Data == "title" || (n.Data == "h1" && hasClass(n, "main-title")) {
			setText(n, title)
		}
	})

	var out bytes.Buffer
	if err := html.Render(&out, root); err != nil {
		return nil, fmt.Errorf("rewrite title: %w", err)
	}
	return out.Bytes(), nil
}

// walk applies fn to every node in depth-first document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// hasClass reports whether the node's class attribute contains name.
func hasClass(n *html.Node, name string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == name {
				return true
			}
		}
	}
	return false
}

// getAttr returns the value of an attribute on a node, or the empty string.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// setText replaces the children of n with a single text node.
func setText(n *html.Node, text string) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
