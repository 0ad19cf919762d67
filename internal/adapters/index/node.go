package index

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"github.com/pakt-dev/pakt/internal/core/ports"
)

// NodeID is the unique identifier for the distribution index Graft node.
const NodeID graft.ID = "adapter.index"

// baseURLEnv overrides the index endpoint, mainly for tests and mirrors.
const baseURLEnv = "PAKT_INDEX_URL"

func init() {
	graft.Register(graft.Node[ports.DistributionIndex]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DistributionIndex, error) {
			baseURL := os.Getenv(baseURLEnv)
			if baseURL == "" {
				baseURL = DefaultBaseURL
			}
			root, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return NewCachedIndex(NewClient(baseURL), root), nil
		},
	})
}
