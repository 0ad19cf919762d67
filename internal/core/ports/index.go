// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"github.com/pakt-dev/pakt/internal/core/domain"
)

// DistributionIndex resolves package names to available versions and artifact
// metadata. It is a remote, possibly slow capability; implementations may
// retry transient failures but must not cache on behalf of the caller.
//
//go:generate mockgen -source=index.go -destination=mocks/mock_index.go -package=mocks
type DistributionIndex interface {
	// GetVersions returns all known versions of the package with their
	// dependency requirements, markers, source URL and content hash.
	// Returns domain.ErrDistributionNotFound if the index has no such package.
	GetVersions(ctx context.Context, name string) ([]domain.Candidate, error)

	// FetchArtifact downloads the distribution artifact for a lock entry.
	FetchArtifact(ctx context.Context, entry domain.LockEntry) ([]byte, error)
}
