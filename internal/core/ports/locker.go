package ports

// ProjectLocker guards the lock and manifest stores with a process-wide
// advisory lock scoped to the project directory. A second transaction while
// one is in progress fails fast with domain.ErrConcurrentTransaction instead
// of interleaving writes.
//
//go:generate mockgen -source=locker.go -destination=mocks/mock_locker.go -package=mocks
type ProjectLocker interface {
	// Acquire takes the advisory lock and returns the release function.
	Acquire() (release func(), err error)
}
