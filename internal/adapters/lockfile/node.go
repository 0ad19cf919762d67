package lockfile

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"github.com/pakt-dev/pakt/internal/core/ports"
)

// NodeID is the unique identifier for the lock store Graft node.
const NodeID graft.ID = "adapter.lock_store"

func init() {
	graft.Register(graft.Node[ports.LockStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.LockStore, error) {
			root, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return NewStore(root), nil
		},
	})
}
