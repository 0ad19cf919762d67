package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	goversion "github.com/hashicorp/go-version"
	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/pakt-dev/pakt/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCachedIndex_MemoizesVersions(t *testing.T) {
	ctrl := gomock.NewController(t)
	upstream := mocks.NewMockDistributionIndex(ctrl)
	upstream.EXPECT().GetVersions(gomock.Any(), "requests").Return([]domain.Candidate{
		{Name: "requests", Version: goversion.Must(goversion.NewVersion("2.31.0"))},
	}, nil).Times(1)

	cached := NewCachedIndex(upstream, t.TempDir())

	first, err := cached.GetVersions(context.Background(), "requests")
	require.NoError(t, err)
	second, err := cached.GetVersions(context.Background(), "requests")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCachedIndex_ArtifactDiskCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	upstream := mocks.NewMockDistributionIndex(ctrl)

	entry := domain.LockEntry{
		Name:    "requests",
		Version: "2.31.0",
		Hash:    "xxh64:0011223344556677",
		Source:  "https://dist.example/requests-2.31.0.whl",
	}
	upstream.EXPECT().FetchArtifact(gomock.Any(), entry).
		Return([]byte("wheel bytes"), nil).Times(1)

	root := t.TempDir()
	cached := NewCachedIndex(upstream, root)

	first, err := cached.FetchArtifact(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, []byte("wheel bytes"), first)

	// Cached on disk, keyed by content hash.
	cachedFile := filepath.Join(domain.ArtifactCachePath(root), "xxh64-0011223344556677")
	require.FileExists(t, cachedFile)

	// Second fetch is served from disk, not the upstream.
	second, err := cached.FetchArtifact(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCachedIndex_UnhashedEntriesBypassCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	upstream := mocks.NewMockDistributionIndex(ctrl)

	entry := domain.LockEntry{Name: "requests", Version: "2.31.0"}
	upstream.EXPECT().FetchArtifact(gomock.Any(), entry).
		Return([]byte("wheel bytes"), nil).Times(2)

	root := t.TempDir()
	cached := NewCachedIndex(upstream, root)

	_, err := cached.FetchArtifact(context.Background(), entry)
	require.NoError(t, err)
	_, err = cached.FetchArtifact(context.Background(), entry)
	require.NoError(t, err)

	entries, err := os.ReadDir(domain.ArtifactCachePath(root))
	if err == nil {
		assert.Empty(t, entries)
	}
}
