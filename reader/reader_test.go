package reader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/pagina/core"
)

// pdfFile assembles a document object by object and finishes it with a
// classic cross-reference table. Object numbers may be added in any order;
// gaps become free entries.
type pdfFile struct {
	buf     bytes.Buffer
	offsets map[int]int
	maxNum  int
}

func newPDFFile() *pdfFile {
	f := &pdfFile{offsets: map[int]int{}}
	f.buf.WriteString("%PDF-1.4\n")
	return f
}

func (f *pdfFile) add(num int, body string) {
	f.offsets[num] = f.buf.Len()
	fmt.Fprintf(&f.buf, "%d 0 obj\n%s\nendobj\n", num, body)
	if num > f.maxNum {
		f.maxNum = num
	}
}

// addStream writes a stream object with /Length filled in; extra holds any
// additional dictionary entries.
func (f *pdfFile) addStream(num int, extra string, data []byte) {
	f.offsets[num] = f.buf.Len()
	fmt.Fprintf(&f.buf, "%d 0 obj\n<< /Length %d %s >>\nstream\n", num, len(data), extra)
	f.buf.Write(data)
	f.buf.WriteString("\nendstream\nendobj\n")
	if num > f.maxNum {
		f.maxNum = num
	}
}

func (f *pdfFile) finish(trailerExtra string) []byte {
	xref := f.buf.Len()
	size := f.maxNum + 1
	fmt.Fprintf(&f.buf, "xref\n0 %d\n", size)
	f.buf.WriteString("0000000000 65535 f \n")
	for n := 1; n < size; n++ {
		if off, ok := f.offsets[n]; ok {
			fmt.Fprintf(&f.buf, "%010d 00000 n \n", off)
		} else {
			f.buf.WriteString("0000000000 65535 f \n")
		}
	}
	fmt.Fprintf(&f.buf, "trailer\n<< /Size %d %s >>\n", size, trailerExtra)
	fmt.Fprintf(&f.buf, "startxref\n%d\n%%%%EOF\n", xref)
	return f.buf.Bytes()
}

// buildSimplePDF returns a one-page document whose page carries the given
// content stream.
func buildSimplePDF(t *testing.T, content string) []byte {
	t.Helper()
	f := newPDFFile()
	f.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	f.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	f.add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R >>")
	f.addStream(4, "", []byte(content))
	return f.finish("/Root 1 0 R")
}

func TestFromBytes(t *testing.T) {
	buf := buildSimplePDF(t, "BT /F1 12 Tf (Hello) Tj ET")

	r, err := FromBytes(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Version() != "1.4" {
		t.Errorf("expected version 1.4, got %s", r.Version())
	}
	if r.Size() != len(buf) {
		t.Errorf("expected size %d, got %d", len(buf), r.Size())
	}
	if n := r.PageCount(); n != 1 {
		t.Fatalf("expected 1 page, got %d", n)
	}

	page, err := r.Page(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Width() != 612 || page.Height() != 792 {
		t.Errorf("expected 612x792, got %gx%g", page.Width(), page.Height())
	}

	content, err := page.Content()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(content) != "BT /F1 12 Tf (Hello) Tj ET" {
		t.Errorf("unexpected content %q", content)
	}
}

func TestFromBytesNotPDF(t *testing.T) {
	if _, err := FromBytes([]byte("plain text, no header")); err == nil {
		t.Error("expected error for missing header")
	}
}

func TestFromBytesEncrypted(t *testing.T) {
	f := newPDFFile()
	f.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	f.add(2, "<< /Type /Pages /Kids [] /Count 0 >>")
	f.add(5, "<< /Filter /Standard /V 2 >>")
	buf := f.finish("/Root 1 0 R /Encrypt 5 0 R")

	_, err := FromBytes(buf)
	if err == nil {
		t.Fatal("expected error for encrypted document")
	}
	if got := err.Error(); got != "encrypted documents are not supported" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestObjectFreeAndAbsent(t *testing.T) {
	r, err := FromBytes(buildSimplePDF(t, "x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, num := range []int{0, 99} {
		obj, err := r.Object(num)
		if err != nil {
			t.Fatalf("object %d: unexpected error: %v", num, err)
		}
		if _, ok := obj.(core.Null); !ok {
			t.Errorf("object %d: expected Null, got %T", num, obj)
		}
	}
}

func TestObjectCache(t *testing.T) {
	r, err := FromBytes(buildSimplePDF(t, "cached"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := r.Object(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Object(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s1, ok1 := first.(*core.Stream)
	s2, ok2 := second.(*core.Stream)
	if !ok1 || !ok2 {
		t.Fatalf("expected streams, got %T and %T", first, second)
	}
	if s1 != s2 {
		t.Error("expected the cached stream to be returned on the second load")
	}
}

// TestIndirectStreamLength wires /Length through an indirect reference, which
// the parser resolves via the reader.
func TestIndirectStreamLength(t *testing.T) {
	payload := "indirect length payload"

	f := newPDFFile()
	f.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	f.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	f.add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 100 100] /Contents 4 0 R >>")

	f.offsets[4] = f.buf.Len()
	fmt.Fprintf(&f.buf, "4 0 obj\n<< /Length 5 0 R >>\nstream\n%s\nendstream\nendobj\n", payload)
	if f.maxNum < 4 {
		f.maxNum = 4
	}
	f.add(5, fmt.Sprintf("%d", len(payload)))
	buf := f.finish("/Root 1 0 R")

	r, err := FromBytes(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page, err := r.Page(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := page.Content()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(content) != payload {
		t.Errorf("expected %q, got %q", payload, content)
	}
}

// TestObjectStreamDocument loads a PDF 1.5 style file whose catalog, page
// tree, and page live inside an object stream indexed by a cross-reference
// stream.
func TestObjectStreamDocument(t *testing.T) {
	inner := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 100] /Contents 4 0 R >>",
	}

	var header, body bytes.Buffer
	for i, src := range inner {
		fmt.Fprintf(&header, "%d %d ", i+1, body.Len())
		body.WriteString(src)
		body.WriteByte(' ')
	}
	objStmData := append(header.Bytes(), body.Bytes()...)

	var b bytes.Buffer
	b.WriteString("%PDF-1.5\n")

	off4 := b.Len()
	content := "page four content"
	fmt.Fprintf(&b, "4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(content), content)

	off5 := b.Len()
	fmt.Fprintf(&b, "5 0 obj\n<< /Type /ObjStm /N 3 /First %d /Length %d >>\nstream\n", header.Len(), len(objStmData))
	b.Write(objStmData)
	b.WriteString("\nendstream\nendobj\n")

	// Cross-reference stream: W [1 2 1], entries for objects 0..6.
	off6 := b.Len()
	entry := func(kind, second, third int) []byte {
		return []byte{byte(kind), byte(second >> 8), byte(second), byte(third)}
	}
	var xrefData []byte
	xrefData = append(xrefData, entry(0, 0, 255)...)    // 0: free
	xrefData = append(xrefData, entry(2, 5, 0)...)      // 1: in stream 5, index 0
	xrefData = append(xrefData, entry(2, 5, 1)...)      // 2
	xrefData = append(xrefData, entry(2, 5, 2)...)      // 3
	xrefData = append(xrefData, entry(1, off4, 0)...)   // 4: in file
	xrefData = append(xrefData, entry(1, off5, 0)...)   // 5
	xrefData = append(xrefData, entry(1, off6, 0)...)   // 6
	fmt.Fprintf(&b, "6 0 obj\n<< /Type /XRef /Size 7 /W [1 2 1] /Root 1 0 R /Length %d >>\nstream\n", len(xrefData))
	b.Write(xrefData)
	b.WriteString("\nendstream\nendobj\n")
	fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", off6)

	r, err := FromBytes(b.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Version() != "1.5" {
		t.Errorf("expected version 1.5, got %s", r.Version())
	}
	if n := r.PageCount(); n != 1 {
		t.Fatalf("expected 1 page, got %d", n)
	}

	page, err := r.Page(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Width() != 200 || page.Height() != 100 {
		t.Errorf("expected 200x100, got %gx%g", page.Width(), page.Height())
	}
	got, err := page.Content()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != content {
		t.Errorf("expected %q, got %q", content, got)
	}
}

func TestTitle(t *testing.T) {
	t.Run("from metadata", func(t *testing.T) {
		f := newPDFFile()
		f.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
		f.add(2, "<< /Type /Pages /Kids [] /Count 0 >>")
		f.add(5, "<< /Title (Annual Report) >>")
		r, err := FromBytes(f.finish("/Root 1 0 R /Info 5 0 R"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := r.Title(); got != "Annual Report" {
			t.Errorf("expected %q, got %q", "Annual Report", got)
		}
	})

	t.Run("utf16 metadata", func(t *testing.T) {
		f := newPDFFile()
		f.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
		f.add(2, "<< /Type /Pages /Kids [] /Count 0 >>")
		f.add(5, "<< /Title <FEFF00480069> >>")
		r, err := FromBytes(f.finish("/Root 1 0 R /Info 5 0 R"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := r.Title(); got != "Hi" {
			t.Errorf("expected %q, got %q", "Hi", got)
		}
	})

	t.Run("falls back to file name", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "quarterly-results.pdf")
		if err := os.WriteFile(path, buildSimplePDF(t, "x"), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r, err := Open(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := r.Title(); got != "quarterly-results" {
			t.Errorf("expected %q, got %q", "quarterly-results", got)
		}
	})

	t.Run("empty without metadata or path", func(t *testing.T) {
		r, err := FromBytes(buildSimplePDF(t, "x"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := r.Title(); got != "" {
			t.Errorf("expected empty title, got %q", got)
		}
	})
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFromReader(t *testing.T) {
	buf := buildSimplePDF(t, "via io.Reader")
	r, err := FromReader(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := r.PageCount(); n != 1 {
		t.Errorf("expected 1 page, got %d", n)
	}
}

func TestResolveDeep(t *testing.T) {
	f := newPDFFile()
	f.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	f.add(2, "<< /Type /Pages /Kids [] /Count 0 >>")
	f.add(5, "<< /Name (leaf) /Next 6 0 R >>")
	f.add(6, "<< /Loop 5 0 R /Values [7 0 R 42] >>")
	f.add(7, "(seven)")
	r, err := FromBytes(f.finish("/Root 1 0 R"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	obj, err := r.ResolveDeep(core.Ref{Num: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	top, ok := obj.(core.Dict)
	if !ok {
		t.Fatalf("expected dictionary, got %T", obj)
	}

	next, ok := top.Get("Next").(core.Dict)
	if !ok {
		t.Fatalf("expected nested dictionary, got %T", top.Get("Next"))
	}
	if _, ok := next.Get("Loop").(core.Null); !ok {
		t.Errorf("expected cycle cut to Null, got %T", next.Get("Loop"))
	}

	values, ok := next.Get("Values").(core.Array)
	if !ok || len(values) != 2 {
		t.Fatalf("expected 2-element array, got %v", next.Get("Values"))
	}
	if s, ok := values[0].(core.String); !ok || string(s) != "seven" {
		t.Errorf("expected resolved string, got %v", values[0])
	}
}
