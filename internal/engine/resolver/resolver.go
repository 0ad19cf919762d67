// Package resolver computes a lock from manifest requirements, a prior lock
// and the distribution index.
package resolver

import (
	"context"
	"slices"
	"sort"

	goversion "github.com/hashicorp/go-version"
	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/pakt-dev/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

// Policy controls how the resolver treats prior pins.
type Policy struct {
	// Force discards prior pins outright. Scoped to the Update set when one
	// is given; untargeted packages keep their pins.
	Force bool
	// UpdateAll allows relaxing the pin of every package.
	UpdateAll bool
	// Update allows relaxing the pins of the named packages only.
	Update []string
	// Env is the environment candidates are filtered against.
	Env domain.Environment
}

func (p Policy) pinRelaxed(name string) bool {
	if len(p.Update) > 0 {
		return slices.Contains(p.Update, name)
	}
	return p.Force || p.UpdateAll
}

// Resolver is a pure function from (requirements, prior lock, index, policy)
// to a new lock or a conflict. Identical inputs always produce an identical
// lock; the only side effects are distribution index queries, which are
// memoized for the duration of one resolution.
type Resolver struct {
	index ports.DistributionIndex
}

// New creates a Resolver backed by the given distribution index.
func New(index ports.DistributionIndex) *Resolver {
	return &Resolver{index: index}
}

// constraintOrigin records one accumulated constraint on a package and who
// declared it.
type constraintOrigin struct {
	requirer   string
	constraint string
	parsed     goversion.Constraints
	prerelease bool
}

// decision is one fixed assignment in the explicit backtracking stack: the
// package and the index of the chosen candidate within its admissible list.
type decision struct {
	name string
	idx  int
}

// search holds the per-resolution state shared across replays.
type search struct {
	resolver *Resolver
	reqs     []domain.Requirement
	prior    *domain.Lock
	policy   Policy
	// versions memoizes index responses so every replay sees the same
	// snapshot and repeated backtracking does not re-query the index.
	versions map[string][]domain.Candidate
}

// replayState is the derived state after replaying a stack prefix.
type replayState struct {
	assigned    map[string]domain.Candidate
	constraints map[string][]constraintOrigin
	// next is the frontier package awaiting a decision, with its admissible
	// candidates. Empty name means the assignment is complete.
	nextName string
	nextAdm  []domain.Candidate
	// conflict names the package for which no admissible candidate exists,
	// or whose fixed assignment a new constraint contradicts.
	conflict string
}

// Resolve computes a new lock satisfying all requirements, seeded from the
// prior lock to minimize churn. On an unsatisfiable constraint set it returns
// a *domain.Conflict identifying the minimal jointly-unsatisfiable requirers.
func (r *Resolver) Resolve(
	ctx context.Context,
	reqs []domain.Requirement,
	prior *domain.Lock,
	policy Policy,
) (*domain.Lock, error) {
	s := &search{
		resolver: r,
		reqs:     reqs,
		prior:    prior,
		policy:   policy,
		versions: make(map[string][]domain.Candidate),
	}

	var stack []decision
	for {
		state, err := s.replay(ctx, stack)
		if err != nil {
			return nil, err
		}

		if state.conflict != "" {
			backtracked := false
			for len(stack) > 0 {
				last := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				// Re-derive the admissible list at the popped frame and try
				// the next candidate.
				prefix, err := s.replay(ctx, stack)
				if err != nil {
					return nil, err
				}
				if prefix.nextName == last.name && last.idx+1 < len(prefix.nextAdm) {
					stack = append(stack, decision{name: last.name, idx: last.idx + 1})
					backtracked = true
					break
				}
			}
			if backtracked {
				continue
			}
			return nil, s.conflictFor(ctx, state, state.conflict)
		}

		if state.nextName == "" {
			return s.buildLock(state)
		}

		stack = append(stack, decision{name: state.nextName, idx: 0})
	}
}

// replay re-derives assignment and constraints from the root requirements
// and the given stack prefix. Processing order is deterministic: the work
// queue starts with the root requirements in their given order and dependency
// edges are appended in sorted order, so decision k always corresponds to the
// k-th package popped for assignment.
func (s *search) replay(ctx context.Context, stack []decision) (*replayState, error) {
	state := &replayState{
		assigned:    make(map[string]domain.Candidate),
		constraints: make(map[string][]constraintOrigin),
	}

	var queue []string
	for _, req := range s.reqs {
		applies, err := req.Markers.AppliesTo(s.policy.Env)
		if err != nil {
			return nil, err
		}
		if !applies {
			continue
		}
		parsed, err := domain.ParseConstraint(req.Constraint)
		if err != nil {
			return nil, err
		}
		state.constraints[req.Name] = append(state.constraints[req.Name], constraintOrigin{
			requirer:   domain.ManifestRequirer,
			constraint: req.Constraint,
			parsed:     parsed,
			prerelease: req.Prerelease,
		})
		if !slices.Contains(queue, req.Name) {
			queue = append(queue, req.Name)
		}
	}

	depth := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		if _, done := state.assigned[name]; done {
			continue
		}

		adm, err := s.admissible(ctx, name, state.constraints[name])
		if err != nil {
			return nil, err
		}

		if depth >= len(stack) {
			// Frontier: the caller decides what happens here.
			if len(adm) == 0 {
				state.conflict = name
				return state, nil
			}
			state.nextName = name
			state.nextAdm = adm
			return state, nil
		}

		d := stack[depth]
		depth++
		if d.name != name || d.idx >= len(adm) {
			// The prefix changed under this frame; treat as a dead end so the
			// caller pops it.
			state.conflict = name
			return state, nil
		}
		chosen := adm[d.idx]
		state.assigned[name] = chosen

		for _, dep := range chosen.Dependencies {
			applies, err := dep.Markers.AppliesTo(s.policy.Env)
			if err != nil {
				return nil, err
			}
			if !applies {
				continue
			}
			parsed, err := domain.ParseConstraint(dep.Constraint)
			if err != nil {
				return nil, err
			}
			state.constraints[dep.Name] = append(state.constraints[dep.Name], constraintOrigin{
				requirer:   name,
				constraint: dep.Constraint,
				parsed:     parsed,
			})
			if fixed, done := state.assigned[dep.Name]; done {
				// A new constraint on an already-fixed package must hold.
				if !parsed.Check(fixed.Version) {
					state.conflict = dep.Name
					return state, nil
				}
				continue
			}
			if !slices.Contains(queue, dep.Name) {
				queue = append(queue, dep.Name)
			}
		}
	}

	return state, nil
}

// admissible returns the candidates of a package that satisfy every
// accumulated constraint, filtered by environment markers and prerelease
// policy. Ordering is newest-first with the prior pin moved to the front
// when churn minimization applies.
func (s *search) admissible(
	ctx context.Context,
	name string,
	origins []constraintOrigin,
) ([]domain.Candidate, error) {
	cands, err := s.candidates(ctx, name)
	if err != nil {
		return nil, err
	}

	prereleaseOK := false
	for _, o := range origins {
		if o.prerelease {
			prereleaseOK = true
			break
		}
	}

	var adm []domain.Candidate
	for _, c := range cands {
		applies, err := c.Markers.AppliesTo(s.policy.Env)
		if err != nil {
			return nil, err
		}
		if !applies {
			continue
		}
		if c.Version.Prerelease() != "" && !prereleaseOK {
			continue
		}
		ok := true
		for _, o := range origins {
			if !o.parsed.Check(c.Version) {
				ok = false
				break
			}
		}
		if ok {
			adm = append(adm, c)
		}
	}

	s.preferPin(name, adm)
	return adm, nil
}

// preferPin moves the prior lock's version to the front of the admissible
// list unless the policy relaxes the pin, so previously pinned versions are
// disturbed as little as possible.
func (s *search) preferPin(name string, adm []domain.Candidate) {
	if s.prior == nil || s.policy.pinRelaxed(name) {
		return
	}
	entry, ok := s.prior.Entry(name)
	if !ok {
		return
	}
	for i, c := range adm {
		if c.Version.Original() == entry.Version {
			pinned := adm[i]
			copy(adm[1:i+1], adm[:i])
			adm[0] = pinned
			return
		}
	}
}

// candidates queries the index once per package and memoizes the sorted
// result for the rest of the resolution.
func (s *search) candidates(ctx context.Context, name string) ([]domain.Candidate, error) {
	if cands, ok := s.versions[name]; ok {
		return cands, nil
	}
	cands, err := s.resolver.index.GetVersions(ctx, name)
	if err != nil {
		return nil, zerr.With(err, "package", name)
	}
	domain.SortCandidates(cands)
	s.versions[name] = cands
	return cands, nil
}

// conflictFor builds the Conflict error for the package, reduced to a
// minimal jointly-unsatisfiable requirer set: origins are dropped greedily
// while the remainder still admits no candidate.
func (s *search) conflictFor(ctx context.Context, state *replayState, name string) error {
	origins := state.constraints[name]
	cands, err := s.candidates(ctx, name)
	if err != nil {
		return err
	}

	minimal := make([]constraintOrigin, len(origins))
	copy(minimal, origins)
	for i := 0; i < len(minimal); i++ {
		reduced := make([]constraintOrigin, 0, len(minimal)-1)
		reduced = append(reduced, minimal[:i]...)
		reduced = append(reduced, minimal[i+1:]...)
		if len(reduced) > 0 && !anySatisfies(cands, reduced) {
			minimal = reduced
			i--
		}
	}

	conflict := &domain.Conflict{Package: name}
	seen := make(map[domain.Requirer]bool)
	for _, o := range minimal {
		req := domain.Requirer{Name: o.requirer, Constraint: o.constraint}
		if !seen[req] {
			seen[req] = true
			conflict.Requirers = append(conflict.Requirers, req)
		}
	}
	sort.Slice(conflict.Requirers, func(i, j int) bool {
		return conflict.Requirers[i].Name < conflict.Requirers[j].Name
	})
	return conflict
}

func anySatisfies(cands []domain.Candidate, origins []constraintOrigin) bool {
	for _, c := range cands {
		ok := true
		for _, o := range origins {
			if !o.parsed.Check(c.Version) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// buildLock converts a complete assignment into a lock, keeping only the
// dependency edges that apply to the resolved environment.
func (s *search) buildLock(state *replayState) (*domain.Lock, error) {
	lock := domain.NewLock()
	for name, c := range state.assigned {
		var deps []string
		for _, dep := range c.Dependencies {
			if _, ok := state.assigned[dep.Name]; !ok {
				continue
			}
			if !slices.Contains(deps, dep.Name) {
				deps = append(deps, dep.Name)
			}
		}
		sort.Strings(deps)
		lock.Add(domain.LockEntry{
			Name:         name,
			Version:      c.Version.Original(),
			Hash:         c.Hash,
			Source:       c.SourceURL,
			Markers:      c.Markers,
			Dependencies: deps,
		})
	}
	if err := lock.Validate(); err != nil {
		return nil, err
	}
	return lock, nil
}
