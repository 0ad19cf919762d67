// Package projlock implements the project-level transaction lock as an
// exclusive lock file inside the project's state directory.
package projlock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pakt-dev/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

// Locker implements ports.ProjectLocker with an O_EXCL lock file. A second
// Acquire while the file exists fails with domain.ErrConcurrentTransaction.
type Locker struct {
	path string
}

// NewLocker creates a locker for the given project root.
func NewLocker(root string) *Locker {
	return &Locker{path: domain.TxnLockPath(root)}
}

// Acquire takes the project lock. The returned release function removes the
// lock file and must be called exactly once.
func (l *Locker) Acquire() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.path), domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConcurrentTransaction.Error())
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, domain.PrivateFilePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, zerr.With(domain.ErrConcurrentTransaction, "lock", l.path)
		}
		return nil, zerr.Wrap(err, domain.ErrConcurrentTransaction.Error())
	}

	// The pid is informational, for diagnosing a stale lock by hand.
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
	_ = f.Close()

	return func() {
		_ = os.Remove(l.path)
	}, nil
}
