package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/pakt-dev/pakt/internal/core/ports"
)

// CachedIndex decorates a DistributionIndex with an in-memory version cache
// and a project-local artifact cache. Version listings are memoized for the
// lifetime of the process so every resolution sees one consistent snapshot.
type CachedIndex struct {
	upstream ports.DistributionIndex
	cacheDir string

	mu       sync.Mutex
	versions map[string][]domain.Candidate
}

// NewCachedIndex wraps the upstream index with caching rooted at the given
// project root.
func NewCachedIndex(upstream ports.DistributionIndex, root string) *CachedIndex {
	return &CachedIndex{
		upstream: upstream,
		cacheDir: domain.ArtifactCachePath(root),
		versions: map[string][]domain.Candidate{},
	}
}

// GetVersions returns the memoized version listing for the package, querying
// the upstream index at most once per package.
func (c *CachedIndex) GetVersions(ctx context.Context, name string) ([]domain.Candidate, error) {
	c.mu.Lock()
	cands, ok := c.versions[name]
	c.mu.Unlock()
	if ok {
		return cands, nil
	}

	cands, err := c.upstream.GetVersions(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.versions[name] = cands
	c.mu.Unlock()
	return cands, nil
}

// FetchArtifact serves the artifact from the on-disk cache when present,
// otherwise downloads it and stores it keyed by content hash.
func (c *CachedIndex) FetchArtifact(ctx context.Context, entry domain.LockEntry) ([]byte, error) {
	path := c.artifactPath(entry)
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		}
	}

	data, err := c.upstream.FetchArtifact(ctx, entry)
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := os.MkdirAll(c.cacheDir, domain.DirPerm); err == nil {
			// Cache writes are best effort, a failure never blocks install.
			_ = os.WriteFile(path, data, domain.FilePerm)
		}
	}
	return data, nil
}

// artifactPath derives the cache file path from the entry's hash. Entries
// without a hash are never cached.
func (c *CachedIndex) artifactPath(entry domain.LockEntry) string {
	if entry.Hash == "" {
		return ""
	}
	key := strings.ReplaceAll(entry.Hash, ":", "-")
	return filepath.Join(c.cacheDir, key)
}
