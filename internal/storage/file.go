package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the file backend saves when no path is configured.
const DefaultPath = "data/save_data.json"

// FileGateway stores the snapshot as a single JSON or YAML document.
// The codec follows the file extension (.yaml/.yml → YAML, anything else → JSON).
// Writes go to a temp file in the same directory and are renamed into place,
// so a concurrent Load sees either the old or the new document, never a torn one.
type FileGateway struct {
	path string
	now  func() time.Time
}

// NewFileGateway returns a gateway for path (DefaultPath when empty).
func NewFileGateway(path string) *FileGateway {
	if path == "" {
		path = DefaultPath
	}
	return &FileGateway{path: path, now: defaultNow}
}

func (f *FileGateway) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(f.path))
	return ext == ".yaml" || ext == ".yml"
}

func (f *FileGateway) encode(doc document) ([]byte, error) {
	if f.isYAML() {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (f *FileGateway) decode(b []byte, doc *document) error {
	if f.isYAML() {
		return yaml.Unmarshal(b, doc)
	}
	return json.Unmarshal(b, doc)
}

// Save writes snap atomically, creating parent directories as needed.
func (f *FileGateway) Save(_ context.Context, snap Snapshot) error {
	b, err := f.encode(toDocument(snap))
	if err != nil {
		return persistErr("encode snapshot", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistErr("mkdir "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return persistErr("create temp file", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return persistErr("write "+tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return persistErr("sync "+tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return persistErr("close "+tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return persistErr("rename to "+f.path, err)
	}
	return nil
}

// Load reads the document. A missing file is ErrNoState; an undecodable one
// wraps ErrCorrupt.
func (f *FileGateway) Load(_ context.Context) (Snapshot, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, ErrNoState
	}
	if err != nil {
		return Snapshot{}, persistErr("read "+f.path, err)
	}

	var doc document
	if err := f.decode(b, &doc); err != nil {
		return Snapshot{}, persistErr("decode "+f.path, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	return toSnapshot(doc, f.now()), nil
}

// Close is a no-op; the file is only open during Save and Load.
func (f *FileGateway) Close() error { return nil }
