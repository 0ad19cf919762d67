// Package tracker implements the installed-distribution directory: one
// subdirectory per installed package with the artifact and a JSON install
// receipt.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pakt-dev/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

const receiptFileName = "receipt.json"

// receipt records what was installed so later listings can detect drift
// caused by external tools touching the directory.
type receipt struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Hash        string    `json:"hash"`
	Artifact    string    `json:"artifact"`
	Files       []string  `json:"files"`
	InstalledAt time.Time `json:"installed_at"`
}

// Tracker implements ports.Tracker over a project-local packages directory.
type Tracker struct {
	dir string
}

// NewTracker creates a tracker rooted at the project's packages directory.
func NewTracker(root string) (*Tracker, error) {
	dir := domain.PackagesPath(root)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrTrackerCreateFailed.Error())
	}
	return &Tracker{dir: dir}, nil
}

// HashArtifact computes the content digest recorded in lock entries and
// receipts.
func HashArtifact(data []byte) string {
	return fmt.Sprintf("xxh64:%016x", xxhash.Sum64(data))
}

// Install verifies the artifact against the entry's recorded hash and places
// it into the packages directory. The integrity check runs before any
// filesystem mutation. An existing install of the same package is replaced.
func (t *Tracker) Install(entry domain.LockEntry, artifact []byte) (domain.InstalledDistribution, error) {
	actual := HashArtifact(artifact)
	if entry.Hash != "" && entry.Hash != actual {
		return domain.InstalledDistribution{}, &domain.IntegrityError{
			Name:     entry.Name,
			Expected: entry.Hash,
			Actual:   actual,
		}
	}

	if err := t.Remove(entry.Name); err != nil {
		return domain.InstalledDistribution{}, err
	}

	pkgDir := filepath.Join(t.dir, entry.Name+"-"+entry.Version)
	if err := os.MkdirAll(pkgDir, domain.DirPerm); err != nil {
		return domain.InstalledDistribution{}, zerr.Wrap(err, domain.ErrTrackerCreateFailed.Error())
	}

	artifactName := artifactFileName(entry)
	if err := os.WriteFile(filepath.Join(pkgDir, artifactName), artifact, domain.FilePerm); err != nil {
		_ = os.RemoveAll(pkgDir)
		return domain.InstalledDistribution{}, zerr.Wrap(err, domain.ErrTrackerCreateFailed.Error())
	}

	rec := receipt{
		Name:        entry.Name,
		Version:     entry.Version,
		Hash:        actual,
		Artifact:    artifactName,
		Files:       []string{artifactName},
		InstalledAt: time.Now().UTC(),
	}
	if err := t.writeReceipt(pkgDir, rec); err != nil {
		_ = os.RemoveAll(pkgDir)
		return domain.InstalledDistribution{}, err
	}

	return domain.InstalledDistribution{
		Name:    entry.Name,
		Version: entry.Version,
		Hash:    actual,
		Files:   rec.Files,
		Path:    pkgDir,
	}, nil
}

// Remove deletes the installed distribution of the package, whatever its
// version. Removing a package that is not installed is a no-op.
func (t *Tracker) Remove(name string) error {
	pkgDir, _, err := t.find(name)
	if err != nil {
		return err
	}
	if pkgDir == "" {
		return nil
	}
	return os.RemoveAll(pkgDir)
}

// Artifact reads back the stored artifact of an installed distribution.
func (t *Tracker) Artifact(name string) ([]byte, error) {
	pkgDir, rec, err := t.find(name)
	if err != nil {
		return nil, err
	}
	if pkgDir == "" {
		return nil, zerr.With(domain.ErrReceiptReadFailed, "package", name)
	}
	data, err := os.ReadFile(filepath.Join(pkgDir, rec.Artifact))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrReceiptReadFailed.Error())
	}
	return data, nil
}

// List returns the installed distributions sorted by name. A distribution
// whose on-disk contents no longer match its receipt is flagged as drifted.
func (t *Tracker) List() ([]domain.InstalledDistribution, error) {
	dirEntries, err := os.ReadDir(t.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrReceiptReadFailed.Error())
	}

	var out []domain.InstalledDistribution
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		pkgDir := filepath.Join(t.dir, de.Name())
		rec, err := t.readReceipt(pkgDir)
		if err != nil {
			// A directory without a readable receipt is external drift.
			out = append(out, domain.InstalledDistribution{
				Name:    de.Name(),
				Path:    pkgDir,
				Drifted: true,
			})
			continue
		}
		out = append(out, domain.InstalledDistribution{
			Name:    rec.Name,
			Version: rec.Version,
			Hash:    rec.Hash,
			Files:   rec.Files,
			Path:    pkgDir,
			Drifted: t.drifted(pkgDir, rec),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// drifted re-hashes the stored artifact against the receipt.
func (t *Tracker) drifted(pkgDir string, rec receipt) bool {
	data, err := os.ReadFile(filepath.Join(pkgDir, rec.Artifact))
	if err != nil {
		return true
	}
	return HashArtifact(data) != rec.Hash
}

// find locates the package directory by scanning receipts, since the
// directory name embeds the version.
func (t *Tracker) find(name string) (string, receipt, error) {
	dirEntries, err := os.ReadDir(t.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", receipt{}, nil
		}
		return "", receipt{}, zerr.Wrap(err, domain.ErrReceiptReadFailed.Error())
	}
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		pkgDir := filepath.Join(t.dir, de.Name())
		rec, err := t.readReceipt(pkgDir)
		if err != nil {
			continue
		}
		if rec.Name == name {
			return pkgDir, rec, nil
		}
	}
	// A directory with no readable receipt is still addressable by its
	// literal directory name, matching how List reports it.
	for _, de := range dirEntries {
		if de.IsDir() && de.Name() == name {
			return filepath.Join(t.dir, de.Name()), receipt{}, nil
		}
	}
	return "", receipt{}, nil
}

func (t *Tracker) readReceipt(pkgDir string) (receipt, error) {
	data, err := os.ReadFile(filepath.Join(pkgDir, receiptFileName))
	if err != nil {
		return receipt{}, zerr.Wrap(err, domain.ErrReceiptReadFailed.Error())
	}
	var rec receipt
	if err := json.Unmarshal(data, &rec); err != nil {
		return receipt{}, zerr.Wrap(err, domain.ErrReceiptReadFailed.Error())
	}
	return rec, nil
}

func (t *Tracker) writeReceipt(pkgDir string, rec receipt) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrReceiptWriteFailed.Error())
	}
	if err := os.WriteFile(filepath.Join(pkgDir, receiptFileName), data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrReceiptWriteFailed.Error())
	}
	return nil
}

func artifactFileName(entry domain.LockEntry) string {
	if entry.Source != "" {
		if base := filepath.Base(entry.Source); base != "." && base != "/" {
			return base
		}
	}
	return entry.Name + "-" + entry.Version + ".whl"
}
