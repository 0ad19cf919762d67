package orchestrator

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/pakt-dev/pakt/internal/adapters/index"
	"github.com/pakt-dev/pakt/internal/adapters/lockfile"
	"github.com/pakt-dev/pakt/internal/adapters/logger"
	"github.com/pakt-dev/pakt/internal/adapters/manifest"
	"github.com/pakt-dev/pakt/internal/adapters/projlock"
	"github.com/pakt-dev/pakt/internal/adapters/tracker"
	"github.com/pakt-dev/pakt/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			manifest.NodeID,
			lockfile.NodeID,
			tracker.NodeID,
			index.NodeID,
			projlock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			manifests, err := graft.Dep[ports.ManifestStore](ctx)
			if err != nil {
				return nil, err
			}
			locks, err := graft.Dep[ports.LockStore](ctx)
			if err != nil {
				return nil, err
			}
			trk, err := graft.Dep[ports.Tracker](ctx)
			if err != nil {
				return nil, err
			}
			idx, err := graft.Dep[ports.DistributionIndex](ctx)
			if err != nil {
				return nil, err
			}
			locker, err := graft.Dep[ports.ProjectLocker](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(Deps{
				Manifests: manifests,
				Locks:     locks,
				Tracker:   trk,
				Index:     idx,
				Locker:    locker,
				Logger:    log,
			}), nil
		},
	})
}
