// Package yamlfile stores the roster snapshot as a single human-readable
// YAML document.
package yamlfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// document is the on-disk layout.
type document struct {
	NextID   int             `yaml:"next_id"`
	Students []types.Student `yaml:"students"`
}

var _ storage.Storage = (*YAMLFile)(nil)

// YAMLFile implements storage.Storage on top of one YAML file.
type YAMLFile struct {
	filename string
	mutex    sync.Mutex
}

// New returns a backend for cfg.StoragePath. The file is not touched until
// the first Load or Save.
func New(cfg *config.Config) *YAMLFile {
	return &YAMLFile{filename: cfg.StoragePath}
}

// Load decodes the snapshot file.
func (f *YAMLFile) Load() (storage.Snapshot, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	data, err := os.ReadFile(f.filename)
	if errors.Is(err, os.ErrNotExist) {
		return storage.Snapshot{}, fmt.Errorf("Load: %s: %w", f.filename, storage.ErrNotExist)
	}
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("Load: read file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return storage.Snapshot{}, fmt.Errorf("Load: parse yaml: %w", err)
	}

	snap := storage.Snapshot{NextID: doc.NextID, Students: doc.Students}
	if snap.Students == nil {
		snap.Students = []types.Student{}
	}
	for i := range snap.Students {
		if snap.Students[i].Subjects == nil {
			snap.Students[i].Subjects = []string{}
		}
	}
	storage.SortByID(snap.Students)

	if err := storage.Check(snap); err != nil {
		return storage.Snapshot{}, fmt.Errorf("Load: %w", err)
	}
	return snap, nil
}

// Save writes the snapshot to a temporary file in the same directory and
// renames it over the target, so readers never see a half-written file.
func (f *YAMLFile) Save(snap storage.Snapshot) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	data, err := yaml.Marshal(document{NextID: snap.NextID, Students: snap.Students})
	if err != nil {
		return fmt.Errorf("Save: marshal yaml: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.filename), filepath.Base(f.filename)+".*.tmp")
	if err != nil {
		return fmt.Errorf("Save: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("Save: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("Save: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.filename); err != nil {
		return fmt.Errorf("Save: replace %s: %w", f.filename, err)
	}
	return nil
}

// Reset removes the snapshot file. Save would replace it anyway, but a
// roster that is closed without a save must not find the old file again.
func (f *YAMLFile) Reset() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if err := os.Remove(f.filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("Reset: remove %s: %w", f.filename, err)
	}
	return nil
}

// Close is a no-op; the file is opened and closed on every call.
func (f *YAMLFile) Close() error {
	return nil
}
