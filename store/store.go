// Package store persists rendered documents keyed by generated identifier.
//
// The conversion pipeline treats persistence as a collaborator: it hands a
// finished blob to a Store and gets back the id everything else refers to.
// FS is the shipped implementation, one file per document under a directory.
package store

import (
	"errors"
	"time"
)

// ErrNotFound reports an id with no stored document behind it.
var ErrNotFound = errors.New("document not found")

// Entry describes one stored document.
type Entry struct {
	ID       string
	Name     string // file name inside the store
	Title    string // display title probed from the blob
	Size     int64
	Modified time.Time
}

// Store is a keyed blob store for rendered documents. Implementations
// generate the ids; callers never pick them.
type Store interface {
	// Put stores a blob under a freshly generated id and returns that id.
	Put(blob []byte) (string, error)
	// Get returns the stored blob. Unknown ids yield ErrNotFound.
	Get(id string) ([]byte, error)
	// Delete removes a stored blob. Unknown ids yield ErrNotFound.
	Delete(id string) error
	// Rename re-keys a stored blob. Unknown source ids yield ErrNotFound.
	Rename(oldID, newID string) error
	// List describes every stored document, most recently modified first.
	List() ([]Entry, error)
}
