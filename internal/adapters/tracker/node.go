package tracker

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"github.com/pakt-dev/pakt/internal/core/ports"
)

// NodeID is the unique identifier for the tracker Graft node.
const NodeID graft.ID = "adapter.tracker"

func init() {
	graft.Register(graft.Node[ports.Tracker]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracker, error) {
			root, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return NewTracker(root)
		},
	})
}
