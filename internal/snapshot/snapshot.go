// Package snapshot serializes the capability registry to a JSON
// document and restores it. The document holds capabilities as an
// ordered array, not a map: conflict scanning depends on insertion
// order, so round-tripping must preserve it.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lodestar-idp/lodestar/internal/capability"
)

// SnapshotFile is the filename used inside the snapshot directory.
const SnapshotFile = "registry.json"

// Document is the schema-stable on-disk form of the registry.
type Document struct {
	Capabilities []capability.Capability `json:"capabilities"`
}

// Export captures the current registry state.
func Export(store capability.Store) Document {
	return Document{Capabilities: store.List()}
}

// Import registers every capability in document order into the store.
// Templates ride along inside their capabilities, so one Register per
// capability restores ownership and order. Dependencies may reference
// capabilities appearing later in the document — forward references are
// legal at registration time.
func Import(store capability.Store, doc Document) error {
	for _, cap := range doc.Capabilities {
		if err := store.Register(cap); err != nil {
			return fmt.Errorf("importing capability %q: %w", cap.ID, err)
		}
	}
	return nil
}

// FileStore persists snapshots on the local filesystem.
type FileStore struct {
	dir string
}

// NewFileStore creates a snapshot store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the absolute path of the snapshot file.
func (fs *FileStore) Path() string {
	return filepath.Join(fs.dir, SnapshotFile)
}

// Save writes the registry to disk, creating the directory as needed.
func (fs *FileStore) Save(store capability.Store) error {
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	doc := Export(store)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(fs.Path(), data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot from disk and registers its contents into the
// store. A missing file is not an error — the registry just starts
// empty.
func (fs *FileStore) Load(store capability.Store) error {
	data, err := os.ReadFile(fs.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading snapshot: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing snapshot %s: %w", fs.Path(), err)
	}
	return Import(store, doc)
}
