package domain

import "go.trai.ch/zerr"

var (
	// ErrResolutionConflict is returned when no candidate assignment satisfies
	// all accumulated constraints. The concrete *Conflict carries the
	// unsatisfiable requirer set.
	ErrResolutionConflict = zerr.New("resolution conflict")

	// ErrDistributionNotFound is returned when the index has no version of a
	// requested package.
	ErrDistributionNotFound = zerr.New("distribution not found")

	// ErrIntegrityMismatch is returned when an artifact's content hash does not
	// match the hash recorded in the lock entry.
	ErrIntegrityMismatch = zerr.New("artifact integrity mismatch")

	// ErrManifestLockDrift is returned when the persisted lock no longer covers
	// all current manifest requirements.
	ErrManifestLockDrift = zerr.New("manifest and lock have drifted")

	// ErrTransactionRolledBack is returned when an apply-phase failure forced
	// the transaction to be undone.
	ErrTransactionRolledBack = zerr.New("transaction rolled back")

	// ErrConcurrentTransaction is returned when the project advisory lock is
	// already held by another transaction.
	ErrConcurrentTransaction = zerr.New("another transaction is in progress")

	// ErrInvalidVersion is returned when an exact version string cannot be parsed.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrInvalidConstraint is returned when a version constraint expression
	// cannot be parsed.
	ErrInvalidConstraint = zerr.New("invalid version constraint")

	// ErrInvalidGroup is returned when a dependency group is not one of
	// production, development or optional.
	ErrInvalidGroup = zerr.New("invalid dependency group")

	// ErrMissingLockEntry is returned when a lock entry's dependency edge does
	// not resolve to another entry in the same lock.
	ErrMissingLockEntry = zerr.New("dependency edge points to missing lock entry")

	// ErrManifestExists is returned when init would overwrite an existing manifest.
	ErrManifestExists = zerr.New("manifest already exists")

	// ErrManifestNotFound is returned when no manifest exists in the project.
	ErrManifestNotFound = zerr.New("manifest not found")

	// ErrManifestReadFailed is returned when the manifest file cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest")

	// ErrManifestParseFailed is returned when the manifest file cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse manifest")

	// ErrManifestWriteFailed is returned when the manifest file cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write manifest")

	// ErrLockReadFailed is returned when the lock file cannot be read.
	ErrLockReadFailed = zerr.New("failed to read lock file")

	// ErrLockParseFailed is returned when the lock file cannot be parsed.
	ErrLockParseFailed = zerr.New("failed to parse lock file")

	// ErrLockWriteFailed is returned when the lock file cannot be written.
	ErrLockWriteFailed = zerr.New("failed to write lock file")

	// ErrIndexRequestFailed is returned when a distribution index request fails
	// after retries.
	ErrIndexRequestFailed = zerr.New("distribution index request failed")

	// ErrIndexParseFailed is returned when a distribution index response cannot
	// be parsed.
	ErrIndexParseFailed = zerr.New("failed to parse index response")

	// ErrArtifactFetchFailed is returned when an artifact download fails.
	ErrArtifactFetchFailed = zerr.New("failed to fetch artifact")

	// ErrTrackerCreateFailed is returned when the installed-distribution
	// directory cannot be created.
	ErrTrackerCreateFailed = zerr.New("failed to create package directory")

	// ErrReceiptReadFailed is returned when an install receipt cannot be read.
	ErrReceiptReadFailed = zerr.New("failed to read install receipt")

	// ErrReceiptWriteFailed is returned when an install receipt cannot be written.
	ErrReceiptWriteFailed = zerr.New("failed to write install receipt")

	// ErrNotIdle is returned when a transaction is started on an orchestrator
	// that is not in the idle state.
	ErrNotIdle = zerr.New("orchestrator is not idle")
)
