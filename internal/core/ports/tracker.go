package ports

import "github.com/pakt-dev/pakt/internal/core/domain"

// Tracker reflects and mutates the project-local installed-distribution
// directory. All filesystem access to that directory goes through this
// contract; its contents are never assumed consistent without a drift check.
//
//go:generate mockgen -source=tracker.go -destination=mocks/mock_tracker.go -package=mocks
type Tracker interface {
	// List returns the installed distributions, with drift detection against
	// the recorded install receipts.
	List() ([]domain.InstalledDistribution, error)

	// Install places the artifact into the distribution directory. It fails
	// with a *domain.IntegrityError before any filesystem mutation if the
	// artifact's content hash does not match the entry's recorded hash.
	Install(entry domain.LockEntry, artifact []byte) (domain.InstalledDistribution, error)

	// Remove deletes the installed distribution. Removing a package that is
	// not installed is a no-op.
	Remove(name string) error

	// Artifact reads back the stored artifact of an installed distribution.
	// The orchestrator captures it before a removal so a rolled-back
	// transaction can reinstall from it.
	Artifact(name string) ([]byte, error)
}
