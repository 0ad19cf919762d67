package ports

import "github.com/pakt-dev/pakt/internal/core/domain"

// LockStore persists and loads the resolved dependency graph.
//
//go:generate mockgen -source=lock_store.go -destination=mocks/mock_lock_store.go -package=mocks
type LockStore interface {
	// Load reads the persisted lock. Returns nil, nil when no lock exists.
	Load() (*domain.Lock, error)

	// Save persists the lock atomically: the document is staged and swapped
	// into place only after the full write succeeds, so a crash mid-write
	// never leaves a corrupt or half-written lock.
	Save(lock *domain.Lock) error
}
