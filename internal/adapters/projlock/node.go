package projlock

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"github.com/pakt-dev/pakt/internal/core/ports"
)

// NodeID is the unique identifier for the project locker Graft node.
const NodeID graft.ID = "adapter.projlock"

func init() {
	graft.Register(graft.Node[ports.ProjectLocker]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProjectLocker, error) {
			root, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return NewLocker(root), nil
		},
	})
}
