package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/tsawler/pagina/web"
)

// fileSuffix is the store's on-disk naming convention. The id is everything
// before the first underscore, so ids must never contain one; generated
// UUIDs never do.
const fileSuffix = "_converted.html"

// titleProbeLimit bounds how much of a stored blob List reads to extract its
// title. The title and main heading sit in the first few kilobytes of every
// rendered document.
const titleProbeLimit = 200000

// FS stores each document as <id>_converted.html inside a directory.
type FS struct {
	dir string
}

var _ Store = (*FS)(nil)

// NewFS opens a directory-backed store, creating the directory if needed.
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &FS{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FS) Dir() string { return s.dir }

func (s *FS) path(id string) string {
	return filepath.Join(s.dir, id+fileSuffix)
}

func checkID(id string) error {
	if id == "" || strings.ContainsAny(id, "_/\\") || strings.Contains(id, "..") {
		return fmt.Errorf("store: invalid id %q", id)
	}
	return nil
}

// Put stores the blob under a new UUID and returns it.
func (s *FS) Put(blob []byte) (string, error) {
	id := uuid.NewString()
	if err := os.WriteFile(s.path(id), blob, 0o644); err != nil {
		return "", fmt.Errorf("store put: %w", err)
	}
	return id, nil
}

// Get returns the blob stored under id.
func (s *FS) Get(id string) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	blob, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("store get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store get %s: %w", id, err)
	}
	return blob, nil
}

// Delete removes the blob stored under id.
func (s *FS) Delete(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store delete %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("store delete %s: %w", id, err)
	}
	return nil
}

// Rename moves the blob stored under oldID to newID.
func (s *FS) Rename(oldID, newID string) error {
	if err := checkID(oldID); err != nil {
		return err
	}
	if err := checkID(newID); err != nil {
		return err
	}
	err := os.Rename(s.path(oldID), s.path(newID))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store rename %s: %w", oldID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("store rename %s: %w", oldID, err)
	}
	return nil
}

// List describes every stored document, most recently modified first. Files
// that do not follow the store's naming convention are ignored, and a store
// whose directory has disappeared lists as empty.
func (s *FS) List() ([]Entry, error) {
	dirents, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store list: %w", err)
	}

	var entries []Entry
	for _, de := range dirents {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Deleted between the directory read and now.
			continue
		}
		entries = append(entries, Entry{
			ID:       strings.TrimSuffix(name, fileSuffix),
			Name:     name,
			Title:    s.probeTitle(name),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Modified.After(entries[j].Modified)
	})
	return entries, nil
}

// probeTitle reads the head of a stored file and extracts its display title.
func (s *FS) probeTitle(name string) string {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return web.UntitledTitle
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(f, titleProbeLimit))
	if err != nil {
		return web.UntitledTitle
	}
	return web.DocumentTitle(head)
}
