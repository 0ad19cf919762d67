package domain

// InstalledDistribution reflects one package physically present in the
// project-local distribution directory. It is independent of the lock until
// reconciled; external tools touching the directory are detected through the
// drift check, never silently trusted.
type InstalledDistribution struct {
	Name    string
	Version string
	// Hash is the content digest recorded at install time.
	Hash string
	// Files is the file manifest relative to Path.
	Files []string
	// Path is the install location.
	Path string
	// Drifted is set when the on-disk contents no longer match the install
	// receipt.
	Drifted bool
}

// IntegrityError reports a content hash mismatch between a fetched artifact
// and the hash recorded in the lock entry. Installation aborts before any
// filesystem mutation when this is raised.
type IntegrityError struct {
	Name     string
	Expected string
	Actual   string
}

// Error implements error.
func (e *IntegrityError) Error() string {
	return ErrIntegrityMismatch.Error() + ": " + e.Name +
		" expected " + e.Expected + " got " + e.Actual
}

// Unwrap lets errors.Is match ErrIntegrityMismatch.
func (e *IntegrityError) Unwrap() error {
	return ErrIntegrityMismatch
}

// RollbackError reports that an apply-phase failure was undone and the
// project restored to its pre-transaction state.
type RollbackError struct {
	// Cause is the apply-phase failure that triggered the rollback.
	Cause error
}

// Error implements error.
func (e *RollbackError) Error() string {
	return ErrTransactionRolledBack.Error() + ": " + e.Cause.Error()
}

// Unwrap lets errors.Is match both ErrTransactionRolledBack and the cause.
func (e *RollbackError) Unwrap() []error {
	return []error{ErrTransactionRolledBack, e.Cause}
}

// DriftError reports that the persisted lock does not cover all current
// manifest requirements. Re-resolution is required before install proceeds.
type DriftError struct {
	// Missing names the requirements the lock does not satisfy.
	Missing []string
}

// Error implements error.
func (e *DriftError) Error() string {
	msg := ErrManifestLockDrift.Error()
	for i, name := range e.Missing {
		if i == 0 {
			msg += ": "
		} else {
			msg += ", "
		}
		msg += name
	}
	return msg
}

// Unwrap lets errors.Is match ErrManifestLockDrift.
func (e *DriftError) Unwrap() error {
	return ErrManifestLockDrift
}
