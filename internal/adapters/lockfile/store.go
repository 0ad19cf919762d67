// Package lockfile implements the LockStore port over a YAML lock document.
package lockfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pakt-dev/pakt/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Store persists the lock as a YAML document with deterministic entry
// ordering. Saves are atomic: the document is staged next to the target and
// swapped into place with a rename.
type Store struct {
	path string
}

// NewStore creates a lock store for the given project root.
func NewStore(root string) *Store {
	return &Store{path: domain.LockPath(root)}
}

// Load reads the persisted lock. Returns nil, nil when no lock exists.
func (s *Store) Load() (*domain.Lock, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrLockReadFailed.Error())
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockParseFailed.Error())
	}

	lock := domain.NewLock()
	for _, e := range doc.Packages {
		lock.Add(domain.LockEntry{
			Name:    e.Name,
			Version: e.Version,
			Hash:    e.Hash,
			Source:  e.Source,
			Markers: domain.Markers{
				PythonVersion: e.Markers.Python,
				Platform:      e.Markers.Platform,
			},
			Dependencies: e.Dependencies,
		})
	}
	if err := lock.Validate(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLockParseFailed.Error())
	}
	return lock, nil
}

// Save persists the lock using stage-then-swap so a crash mid-write never
// leaves a corrupt or half-written document.
func (s *Store) Save(lock *domain.Lock) error {
	doc := document{Version: lockFormatVersion}
	for _, e := range lock.Entries() {
		doc.Packages = append(doc.Packages, entryDTO{
			Name:    e.Name,
			Version: e.Version,
			Hash:    e.Hash,
			Source:  e.Source,
			Markers: markersDTO{
				Python:   e.Markers.PythonVersion,
				Platform: e.Markers.Platform,
			},
			Dependencies: e.Dependencies,
		})
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}

	dir := filepath.Dir(s.path)
	staged, err := os.CreateTemp(dir, ".pakt.lock.*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}
	stagedPath := staged.Name()

	if _, err := staged.Write(data); err != nil {
		_ = staged.Close()
		_ = os.Remove(stagedPath)
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}
	if err := staged.Close(); err != nil {
		_ = os.Remove(stagedPath)
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}
	if err := os.Chmod(stagedPath, domain.FilePerm); err != nil {
		_ = os.Remove(stagedPath)
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}
	if err := os.Rename(stagedPath, s.path); err != nil {
		_ = os.Remove(stagedPath)
		return zerr.Wrap(err, domain.ErrLockWriteFailed.Error())
	}
	return nil
}
