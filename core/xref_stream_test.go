package core

import (
	"bytes"
	"fmt"
	"testing"
)

// TestLoadXrefStream verifies parsing of a cross-reference stream with all
// three entry kinds.
func TestLoadXrefStream(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("%PDF-1.5\n")
	off1 := b.Len()
	b.WriteString("1 0 obj << /Type /Catalog >> endobj\n")
	xoff := b.Len()

	entries := []byte{
		0x00, 0x00, 0x00, 0xff, // object 0: free
		0x01, byte(off1 >> 8), byte(off1), 0x00, // object 1: in file
		0x02, 0x00, 0x09, 0x02, // object 2: in object stream 9, index 2
		0x01, byte(xoff >> 8), byte(xoff), 0x00, // object 3: the xref stream
	}
	fmt.Fprintf(&b, "3 0 obj << /Type /XRef /Size 4 /W [1 2 1] /Root 1 0 R /Length %d >> stream\n", len(entries))
	b.Write(entries)
	b.WriteString("\nendstream endobj\n")
	fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", xoff)

	x, err := LoadXref(b.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e, _ := x.Lookup(0); e.Kind != EntryFree {
		t.Errorf("object 0: expected free, got kind %d", e.Kind)
	}
	if e, _ := x.Lookup(1); e.Kind != EntryInFile || e.Offset != off1 {
		t.Errorf("object 1: expected in file at %d, got %+v", off1, e)
	}
	if e, _ := x.Lookup(2); e.Kind != EntryInStream || e.StmNum != 9 || e.StmIdx != 2 {
		t.Errorf("object 2: expected in stream 9 index 2, got %+v", e)
	}
	if e, _ := x.Lookup(3); e.Kind != EntryInFile || e.Offset != xoff {
		t.Errorf("object 3: expected in file at %d, got %+v", xoff, e)
	}
	if root, ok := x.Trailer.Ref("Root"); !ok || root.Num != 1 {
		t.Errorf("expected /Root 1 0 R from the stream dictionary, got %v", root)
	}
}

// TestLoadXrefStreamIndex verifies that /Index ranges map entries to the
// right object numbers and that a zero-width type field defaults to in-file.
func TestLoadXrefStreamIndex(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("%PDF-1.5\n")
	off5 := b.Len()
	b.WriteString("5 0 obj << /Type /Catalog >> endobj\n")
	off6 := b.Len()
	b.WriteString("6 0 obj 42 endobj\n")
	xoff := b.Len()

	// W [0 2 1]: no type field, so every entry is an in-file offset.
	entries := []byte{
		byte(off5 >> 8), byte(off5), 0x00,
		byte(off6 >> 8), byte(off6), 0x00,
	}
	fmt.Fprintf(&b, "7 0 obj << /Type /XRef /Size 8 /Index [5 2] /W [0 2 1] /Root 5 0 R /Length %d >> stream\n", len(entries))
	b.Write(entries)
	b.WriteString("\nendstream endobj\n")
	fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", xoff)

	x, err := LoadXref(b.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(x.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(x.Entries))
	}
	if e, ok := x.Lookup(5); !ok || e.Kind != EntryInFile || e.Offset != off5 {
		t.Errorf("object 5: expected in file at %d, got %+v", off5, e)
	}
	if e, ok := x.Lookup(6); !ok || e.Kind != EntryInFile || e.Offset != off6 {
		t.Errorf("object 6: expected in file at %d, got %+v", off6, e)
	}
}

// TestLoadXrefHybrid verifies that a classic table's /XRefStm supplement is
// read alongside the table itself.
func TestLoadXrefHybrid(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("%PDF-1.5\n")
	off1 := b.Len()
	b.WriteString("1 0 obj << /Type /Catalog >> endobj\n")

	stmOff := b.Len()
	entries := []byte{
		0x02, 0x00, 0x04, 0x00, // object 2: in object stream 4, index 0
	}
	fmt.Fprintf(&b, "3 0 obj << /Type /XRef /Size 3 /Index [2 1] /W [1 2 1] /Length %d >> stream\n", len(entries))
	b.Write(entries)
	b.WriteString("\nendstream endobj\n")

	xref := b.Len()
	b.WriteString("xref\n0 2\n")
	fmt.Fprintf(&b, "%010d 65535 f \n", 0)
	fmt.Fprintf(&b, "%010d 00000 n \n", off1)
	fmt.Fprintf(&b, "trailer\n<< /Size 3 /Root 1 0 R /XRefStm %d >>\n", stmOff)
	fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", xref)

	x, err := LoadXref(b.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e, ok := x.Lookup(1); !ok || e.Kind != EntryInFile || e.Offset != off1 {
		t.Errorf("object 1: expected table entry at %d, got %+v", off1, e)
	}
	if e, ok := x.Lookup(2); !ok || e.Kind != EntryInStream || e.StmNum != 4 {
		t.Errorf("object 2: expected stream supplement entry, got %+v", e)
	}
}

func TestLoadXrefStreamErrors(t *testing.T) {
	t.Run("missing W", func(t *testing.T) {
		var b bytes.Buffer
		b.WriteString("%PDF-1.5\n")
		xoff := b.Len()
		b.WriteString("1 0 obj << /Type /XRef /Size 1 /Length 0 >> stream\n\nendstream endobj\n")
		fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", xoff)

		// The stream parse fails and the rebuild fallback finds no catalog.
		if _, err := LoadXref(b.Bytes()); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		var b bytes.Buffer
		b.WriteString("%PDF-1.5\n")
		xoff := b.Len()
		b.WriteString("1 0 obj << /Type /Metadata /Length 0 >> stream\n\nendstream endobj\n")
		fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", xoff)

		if _, err := LoadXref(b.Bytes()); err == nil {
			t.Error("expected error")
		}
	})
}
