// Package app implements the application layer for pakt.
package app

import (
	"context"
	"strings"

	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/pakt-dev/pakt/internal/core/ports"
	"github.com/pakt-dev/pakt/internal/engine/orchestrator"
	"github.com/pakt-dev/pakt/internal/engine/resolver"
)

// App represents the main application logic: one method per CLI verb.
type App struct {
	manifests ports.ManifestStore
	tracker   ports.Tracker
	locks     ports.LockStore
	orch      *orchestrator.Orchestrator
	logger    ports.Logger
	env       domain.Environment
}

// New creates a new App instance.
func New(
	manifests ports.ManifestStore,
	tracker ports.Tracker,
	locks ports.LockStore,
	orch *orchestrator.Orchestrator,
	log ports.Logger,
	env domain.Environment,
) *App {
	return &App{
		manifests: manifests,
		tracker:   tracker,
		locks:     locks,
		orch:      orch,
		logger:    log,
		env:       env,
	}
}

// InstallOptions configure the Install method.
type InstallOptions struct {
	// Dev places the requirement in the development group.
	Dev bool
	// Optional places the requirement in the optional group.
	Optional bool
	// Python constrains the requirement to matching interpreter versions.
	Python string
	// Platform constrains the requirement to a single platform.
	Platform string
	// Prerelease lets prerelease versions satisfy the constraint.
	Prerelease bool
}

func (o InstallOptions) group() domain.Group {
	switch {
	case o.Dev:
		return domain.GroupDevelopment
	case o.Optional:
		return domain.GroupOptional
	default:
		return domain.GroupProduction
	}
}

// Init creates a fresh manifest for the project. It refuses to overwrite an
// existing one.
func (a *App) Init(name string) error {
	if a.manifests.Exists() {
		return domain.ErrManifestExists
	}
	if err := a.manifests.Save(domain.NewManifest(name)); err != nil {
		return err
	}
	a.logger.Info("initialized project " + name)
	return nil
}

// Install adds the given package specs to the manifest and brings the project
// into the newly resolved state. A spec is either a bare package name or
// "name@constraint". With no specs, Install materializes the manifest as-is.
func (a *App) Install(ctx context.Context, specs []string, opts InstallOptions) (*domain.LockDiff, error) {
	reqs := make([]domain.Requirement, 0, len(specs))
	for _, spec := range specs {
		reqs = append(reqs, parseSpec(spec, opts))
	}
	return a.orch.Install(ctx, reqs, resolver.Policy{Env: a.env})
}

// Uninstall removes the package from the manifest and prunes it, together
// with any orphaned transitive dependencies, from disk.
func (a *App) Uninstall(ctx context.Context, name string) (*domain.LockDiff, error) {
	return a.orch.Uninstall(ctx, name, resolver.Policy{Env: a.env})
}

// Upgrade re-resolves the named packages to their newest admissible versions,
// or every package when no name is given. Force discards the prior pins of
// the targeted packages; untargeted packages always keep theirs.
func (a *App) Upgrade(ctx context.Context, names []string, force bool) (*domain.LockDiff, error) {
	return a.orch.Upgrade(ctx, names, force, a.env)
}

// Lock re-resolves the manifest and persists the lock without touching
// installed distributions.
func (a *App) Lock(ctx context.Context) (*domain.LockDiff, error) {
	return a.orch.Relock(ctx, resolver.Policy{Env: a.env})
}

// Sync reconciles installed distributions with the persisted lock.
func (a *App) Sync(ctx context.Context) (*domain.LockDiff, error) {
	return a.orch.Sync(ctx, a.env)
}

// List returns the installed distributions sorted by name.
func (a *App) List(_ context.Context) ([]domain.InstalledDistribution, error) {
	return a.tracker.List()
}

// parseSpec splits "name@constraint" package specs. A bare name admits any
// version.
func parseSpec(spec string, opts InstallOptions) domain.Requirement {
	name := spec
	constraint := domain.AnyVersion
	if at := strings.IndexByte(spec, '@'); at >= 0 {
		name = spec[:at]
		constraint = spec[at+1:]
	}
	return domain.Requirement{
		Name:       name,
		Constraint: constraint,
		Group:      opts.group(),
		Markers: domain.Markers{
			PythonVersion: opts.Python,
			Platform:      opts.Platform,
		},
		Prerelease: opts.Prerelease,
	}
}
