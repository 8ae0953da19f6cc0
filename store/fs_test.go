package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func blob(title string) []byte {
	return []byte("<html><head><title>" + title + "</title></head><body><p>body</p></body></html>")
}

func TestFSPutGet(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := s.Put(blob("Alpha"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" || strings.ContainsAny(id, "_/") {
		t.Fatalf("unexpected id %q", id)
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(blob("Alpha")) {
		t.Errorf("round trip mismatch: %q", got)
	}

	name := id + "_converted.html"
	if _, err := os.Stat(filepath.Join(s.Dir(), name)); err != nil {
		t.Errorf("expected file %s on disk: %v", name, err)
	}
}

func TestFSGetUnknown(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Get("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFSRejectsUnsafeIDs(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{"", "../escape", "a/b", "with_underscore"} {
		if _, err := s.Get(id); err == nil || errors.Is(err, ErrNotFound) {
			t.Errorf("expected invalid-id error for %q, got %v", id, err)
		}
	}
}

func TestFSDelete(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := s.Put(blob("Gone"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestFSRename(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := s.Put(blob("Moved"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Rename(id, "fresh-id"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected old id gone, got %v", err)
	}
	got, err := s.Get("fresh-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(blob("Moved")) {
		t.Errorf("blob changed across rename: %q", got)
	}

	if err := s.Rename("missing-id", "elsewhere"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing source, got %v", err)
	}
}

func TestFSList(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	older, err := s.Put(blob("Older Document"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	newer, err := s.Put(blob("Newer Document"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Pin modification times so ordering does not depend on write timing.
	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(s.Dir(), older+"_converted.html"), base, base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Files outside the naming convention are invisible.
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.html"), []byte("x"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if entries[0].ID != newer || entries[1].ID != older {
		t.Errorf("expected newest first, got %q then %q", entries[0].ID, entries[1].ID)
	}
	if entries[0].Title != "Newer Document" || entries[1].Title != "Older Document" {
		t.Errorf("unexpected titles: %q, %q", entries[0].Title, entries[1].Title)
	}
	if entries[0].Size <= 0 {
		t.Errorf("expected a positive size, got %d", entries[0].Size)
	}
	if entries[0].Name != newer+"_converted.html" {
		t.Errorf("unexpected entry name %q", entries[0].Name)
	}
}

func TestFSListMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty listing, got %d entries", len(entries))
	}
}

func TestFSListUntitled(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Put([]byte("<html><body><p>no title here</p></body></html>")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Untitled Document" {
		t.Fatalf("expected untitled fallback, got %+v", entries)
	}
}
