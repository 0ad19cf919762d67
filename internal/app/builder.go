package app

import (
	"context"
	"os"
	"runtime"

	"github.com/grindlemire/graft"
	"github.com/pakt-dev/pakt/internal/adapters/lockfile"  //nolint:depguard // Wired in app layer
	"github.com/pakt-dev/pakt/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"github.com/pakt-dev/pakt/internal/adapters/manifest"  //nolint:depguard // Wired in app layer
	"github.com/pakt-dev/pakt/internal/adapters/tracker"   //nolint:depguard // Wired in app layer
	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/pakt-dev/pakt/internal/core/ports"
	"github.com/pakt-dev/pakt/internal/engine/orchestrator"
)

// pythonVersionEnv pins the interpreter version requirements are resolved
// against. Empty means unconstrained.
const pythonVersionEnv = "PAKT_PYTHON_VERSION"

// Components bundles the constructed application with the ports the entry
// point needs directly.
type Components struct {
	App    *App
	Logger ports.Logger
}

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			manifest.NodeID,
			tracker.NodeID,
			lockfile.NodeID,
			orchestrator.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			manifests, err := graft.Dep[ports.ManifestStore](ctx)
			if err != nil {
				return nil, err
			}
			trk, err := graft.Dep[ports.Tracker](ctx)
			if err != nil {
				return nil, err
			}
			locks, err := graft.Dep[ports.LockStore](ctx)
			if err != nil {
				return nil, err
			}
			orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			env := domain.Environment{
				PythonVersion: os.Getenv(pythonVersionEnv),
				Platform:      runtime.GOOS,
			}
			return New(manifests, trk, locks, orch, log, env), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}
