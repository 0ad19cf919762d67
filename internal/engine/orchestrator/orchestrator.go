// Package orchestrator drives install transactions: resolve, diff, apply,
// commit, with full rollback when the apply phase fails partway.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/pakt-dev/pakt/internal/core/ports"
	"github.com/pakt-dev/pakt/internal/engine/resolver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// State is the orchestrator's transaction phase.
type State string

const (
	StateIdle       State = "idle"
	StateResolving  State = "resolving"
	StateDiffing    State = "diffing"
	StateApplying   State = "applying"
	StateCommitting State = "committing"
	StateRolledBack State = "rolled_back"
)

// defaultParallelism bounds concurrent artifact installs.
const defaultParallelism = 4

// Deps are the ports an Orchestrator operates on.
type Deps struct {
	Manifests ports.ManifestStore
	Locks     ports.LockStore
	Tracker   ports.Tracker
	Index     ports.DistributionIndex
	Locker    ports.ProjectLocker
	Logger    ports.Logger
}

// Orchestrator coordinates one transaction at a time over the project's
// manifest, lock and installed distributions. Mutating operations hold the
// project lock for their whole duration; a failure during the apply phase
// rolls every already-applied action back before returning.
type Orchestrator struct {
	deps        Deps
	resolver    *resolver.Resolver
	parallelism int

	mu    sync.Mutex
	state State
}

// New creates an Orchestrator in the idle state.
func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		deps:        deps,
		resolver:    resolver.New(deps.Index),
		parallelism: defaultParallelism,
		state:       StateIdle,
	}
}

// State returns the current transaction phase.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// begin moves the orchestrator into the resolving phase. A transaction may
// start from idle or from the terminal state of a previous rolled-back one.
func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateIdle && o.state != StateRolledBack {
		return zerr.With(domain.ErrNotIdle, "state", string(o.state))
	}
	o.state = StateResolving
	return nil
}

// Install adds the given requirements to the manifest and transacts the
// project into the newly resolved state. With no requirements it ensures the
// project matches a fresh resolution of the existing manifest.
func (o *Orchestrator) Install(
	ctx context.Context,
	reqs []domain.Requirement,
	policy resolver.Policy,
) (*domain.LockDiff, error) {
	return o.transact(ctx, policy, func(m *domain.Manifest) error {
		for _, req := range reqs {
			m.AddRequirement(req)
		}
		return nil
	})
}

// Uninstall removes the package from every manifest group and transacts.
// Transitive dependencies no longer reachable from any requirement drop out
// of the resolved lock and are pruned from disk. Uninstalling a package that
// is not declared is a no-op transaction.
func (o *Orchestrator) Uninstall(
	ctx context.Context,
	name string,
	policy resolver.Policy,
) (*domain.LockDiff, error) {
	return o.transact(ctx, policy, func(m *domain.Manifest) error {
		for _, g := range domain.Groups() {
			m.RemoveRequirement(name, g)
		}
		return nil
	})
}

// Upgrade re-resolves with the pins of the named packages relaxed, or all
// pins when no name is given, and transacts the result.
func (o *Orchestrator) Upgrade(
	ctx context.Context,
	names []string,
	force bool,
	env domain.Environment,
) (*domain.LockDiff, error) {
	policy := resolver.Policy{
		Force:     force,
		UpdateAll: len(names) == 0,
		Update:    names,
		Env:       env,
	}
	return o.transact(ctx, policy, func(*domain.Manifest) error { return nil })
}

// Relock re-resolves the manifest and persists the lock without touching
// installed distributions.
func (o *Orchestrator) Relock(
	ctx context.Context,
	policy resolver.Policy,
) (*domain.LockDiff, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}
	defer o.setState(StateIdle)

	release, err := o.deps.Locker.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	m, err := o.deps.Manifests.Load()
	if err != nil {
		return nil, err
	}
	prior, err := o.deps.Locks.Load()
	if err != nil {
		return nil, err
	}
	newLock, err := o.resolver.Resolve(ctx, m.Requirements(), prior, policy)
	if err != nil {
		return nil, err
	}

	o.setState(StateDiffing)
	diff := domain.DiffLocks(prior, newLock)

	o.setState(StateCommitting)
	if err := o.deps.Locks.Save(newLock); err != nil {
		return nil, err
	}
	return diff, nil
}

// Sync reconciles the installed distributions with the persisted lock: it
// installs lock entries that are missing or drifted and removes installed
// distributions the lock no longer names. Sync refuses to run when the lock
// does not cover the manifest.
func (o *Orchestrator) Sync(ctx context.Context, env domain.Environment) (*domain.LockDiff, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}

	release, err := o.deps.Locker.Acquire()
	if err != nil {
		o.setState(StateIdle)
		return nil, err
	}
	defer release()

	m, err := o.deps.Manifests.Load()
	if err != nil {
		o.setState(StateIdle)
		return nil, err
	}
	lock, err := o.deps.Locks.Load()
	if err != nil {
		o.setState(StateIdle)
		return nil, err
	}

	reqs, err := o.applicable(m.Requirements(), env)
	if err != nil {
		o.setState(StateIdle)
		return nil, err
	}
	if lock == nil {
		if len(reqs) == 0 {
			o.setState(StateIdle)
			return &domain.LockDiff{}, nil
		}
		o.setState(StateIdle)
		return nil, &domain.DriftError{Missing: requirementNames(reqs)}
	}
	covered, missing, err := lock.Covers(reqs)
	if err != nil {
		o.setState(StateIdle)
		return nil, err
	}
	if !covered {
		o.setState(StateIdle)
		return nil, &domain.DriftError{Missing: missing}
	}

	o.setState(StateDiffing)
	diff, err := o.installedDiff(lock)
	if err != nil {
		o.setState(StateIdle)
		return nil, err
	}

	o.setState(StateApplying)
	journal, err := o.apply(ctx, diff)
	if err != nil {
		o.rollback(journal)
		o.setState(StateRolledBack)
		return nil, &domain.RollbackError{Cause: err}
	}

	o.setState(StateIdle)
	return diff, nil
}

// transact runs one full install transaction: mutate a manifest clone,
// resolve, diff against the prior lock, apply the diff to disk and finally
// commit the lock and the manifest. The on-disk manifest and lock are only
// written after the apply phase succeeded in full.
func (o *Orchestrator) transact(
	ctx context.Context,
	policy resolver.Policy,
	mutate func(*domain.Manifest) error,
) (*domain.LockDiff, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}

	release, err := o.deps.Locker.Acquire()
	if err != nil {
		o.setState(StateIdle)
		return nil, err
	}
	defer release()

	m, err := o.deps.Manifests.Load()
	if err != nil {
		o.setState(StateIdle)
		return nil, err
	}
	work := m.Clone()
	if err := mutate(work); err != nil {
		o.setState(StateIdle)
		return nil, err
	}

	prior, err := o.deps.Locks.Load()
	if err != nil {
		o.setState(StateIdle)
		return nil, err
	}

	newLock, err := o.resolver.Resolve(ctx, work.Requirements(), prior, policy)
	if err != nil {
		o.setState(StateIdle)
		return nil, err
	}

	o.setState(StateDiffing)
	diff := domain.DiffLocks(prior, newLock)
	if diff.IsEmpty() && prior != nil {
		// Nothing to apply; still persist the manifest mutation.
		o.setState(StateCommitting)
		if err := o.deps.Manifests.Save(work); err != nil {
			o.setState(StateIdle)
			return nil, err
		}
		o.setState(StateIdle)
		return diff, nil
	}

	o.setState(StateApplying)
	o.deps.Logger.Info(fmt.Sprintf("applying %d change(s)", diff.TotalChanges()))
	journal, err := o.apply(ctx, diff)
	if err != nil {
		o.rollback(journal)
		o.setState(StateRolledBack)
		return nil, &domain.RollbackError{Cause: err}
	}

	o.setState(StateCommitting)
	if err := o.deps.Locks.Save(newLock); err != nil {
		o.rollback(journal)
		o.setState(StateRolledBack)
		return nil, &domain.RollbackError{Cause: err}
	}
	if err := o.deps.Manifests.Save(work); err != nil {
		// The lock and the installed state are already committed and agree
		// with each other; undoing them now would desync them from the
		// persisted lock. Leave them in place and surface the failure.
		o.deps.Logger.Warn("manifest not persisted, rerun the command to retry")
		o.setState(StateIdle)
		return nil, err
	}

	o.setState(StateIdle)
	return diff, nil
}

// undo is one recorded inverse action of the apply phase.
type undo struct {
	desc string
	fn   func() error
}

// apply materializes the diff on disk. Installs of added and changed entries
// run concurrently with bounded parallelism; removals run strictly after all
// installs succeeded. Every completed action records its inverse in the
// returned journal.
func (o *Orchestrator) apply(ctx context.Context, diff *domain.LockDiff) ([]undo, error) {
	var (
		jmu     sync.Mutex
		journal []undo
	)
	record := func(u undo) {
		jmu.Lock()
		journal = append(journal, u)
		jmu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)

	for _, e := range diff.Added {
		g.Go(func() error {
			if err := o.installEntry(gctx, e); err != nil {
				return err
			}
			record(undo{
				desc: "remove " + e.Name,
				fn:   func() error { return o.deps.Tracker.Remove(e.Name) },
			})
			return nil
		})
	}
	for _, ch := range diff.Changed {
		g.Go(func() error {
			// Capture the old artifact before replacing, so a rollback can
			// restore it without the index.
			oldArtifact, artErr := o.deps.Tracker.Artifact(ch.Old.Name)
			if err := o.installEntry(gctx, ch.New); err != nil {
				return err
			}
			if artErr != nil {
				record(undo{
					desc: "remove " + ch.New.Name,
					fn:   func() error { return o.deps.Tracker.Remove(ch.New.Name) },
				})
				return nil
			}
			record(undo{
				desc: "restore " + ch.Old.Name + " " + ch.Old.Version,
				fn: func() error {
					_, err := o.deps.Tracker.Install(ch.Old, oldArtifact)
					return err
				},
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return journal, err
	}

	for _, e := range diff.Removed {
		// Externally created directories have no readable artifact but must
		// still go; only captured removals get a restore undo.
		artifact, artErr := o.deps.Tracker.Artifact(e.Name)
		if err := o.deps.Tracker.Remove(e.Name); err != nil {
			return journal, err
		}
		if artErr != nil {
			continue
		}
		record(undo{
			desc: "restore " + e.Name + " " + e.Version,
			fn: func() error {
				_, err := o.deps.Tracker.Install(e, artifact)
				return err
			},
		})
	}

	return journal, nil
}

// installEntry fetches the entry's artifact and installs it. The tracker
// verifies the artifact hash before any filesystem mutation.
func (o *Orchestrator) installEntry(ctx context.Context, e domain.LockEntry) error {
	artifact, err := o.deps.Index.FetchArtifact(ctx, e)
	if err != nil {
		return err
	}
	if _, err := o.deps.Tracker.Install(e, artifact); err != nil {
		return err
	}
	o.deps.Logger.Info("installed " + e.Name + " " + e.Version)
	return nil
}

// rollback undoes the journal in reverse order. Undo failures are logged and
// skipped so the remaining actions still run.
func (o *Orchestrator) rollback(journal []undo) {
	for i := len(journal) - 1; i >= 0; i-- {
		u := journal[i]
		if err := u.fn(); err != nil {
			o.deps.Logger.Warn("rollback step failed: " + u.desc)
			continue
		}
	}
	o.deps.Logger.Warn("transaction rolled back")
}

// installedDiff derives the apply plan that brings the installed
// distributions in line with the lock. Missing, drifted and version-mismatched
// packages are reinstalled; installed packages the lock no longer names are
// removed.
func (o *Orchestrator) installedDiff(lock *domain.Lock) (*domain.LockDiff, error) {
	installed, err := o.deps.Tracker.List()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]domain.InstalledDistribution, len(installed))
	for _, inst := range installed {
		byName[inst.Name] = inst
	}

	diff := &domain.LockDiff{}
	for _, e := range lock.Entries() {
		inst, ok := byName[e.Name]
		switch {
		case !ok:
			diff.Added = append(diff.Added, e)
		case inst.Drifted || inst.Version != e.Version || (e.Hash != "" && inst.Hash != e.Hash):
			diff.Added = append(diff.Added, e)
		}
	}
	for _, inst := range installed {
		if _, ok := lock.Entry(inst.Name); !ok {
			diff.Removed = append(diff.Removed, domain.LockEntry{
				Name:    inst.Name,
				Version: inst.Version,
				Hash:    inst.Hash,
			})
		}
	}
	return diff, nil
}

// applicable filters requirements by environment markers.
func (o *Orchestrator) applicable(
	reqs []domain.Requirement,
	env domain.Environment,
) ([]domain.Requirement, error) {
	var out []domain.Requirement
	for _, req := range reqs {
		ok, err := req.Markers.AppliesTo(env)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, req)
		}
	}
	return out, nil
}

func requirementNames(reqs []domain.Requirement) []string {
	names := make([]string, 0, len(reqs))
	for _, req := range reqs {
		names = append(names, req.Name)
	}
	return names
}
