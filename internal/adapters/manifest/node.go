package manifest

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"github.com/pakt-dev/pakt/internal/core/ports"
)

// NodeID is the unique identifier for the manifest store Graft node.
const NodeID graft.ID = "adapter.manifest_store"

func init() {
	graft.Register(graft.Node[ports.ManifestStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestStore, error) {
			root, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return NewStore(root), nil
		},
	})
}
