package domain

import (
	"sort"

	"go.trai.ch/zerr"
)

// LockEntry is one resolved, exact version of a package within a lock.
// Entries are immutable once created and replaced wholesale on re-resolution.
type LockEntry struct {
	Name    string
	Version string
	// Hash is the content digest of the distribution artifact, e.g.
	// "xxh64:9c3f...".
	Hash string
	// Source is the originating artifact URL.
	Source string
	// Markers are the environment markers under which the entry applies.
	Markers Markers
	// Dependencies are the package names of the entry's dependency edges,
	// sorted lexically. Every edge must resolve to another entry in the
	// same lock.
	Dependencies []string
}

// Lock is the resolved dependency graph: the transitive closure of all
// manifest requirements with a single chosen version per package. Entries
// are keyed by package name, so the graph stays acyclic in ownership and is
// trivially serializable.
type Lock struct {
	entries map[string]LockEntry
}

// NewLock creates an empty lock.
func NewLock() *Lock {
	return &Lock{entries: make(map[string]LockEntry)}
}

// Add inserts an entry, replacing any previous entry for the same package.
func (l *Lock) Add(e LockEntry) {
	if l.entries == nil {
		l.entries = make(map[string]LockEntry)
	}
	deps := make([]string, len(e.Dependencies))
	copy(deps, e.Dependencies)
	sort.Strings(deps)
	e.Dependencies = deps
	l.entries[e.Name] = e
}

// Entry returns the entry for the given package name.
func (l *Lock) Entry(name string) (LockEntry, bool) {
	e, ok := l.entries[name]
	return e, ok
}

// Entries returns all entries sorted by package name.
func (l *Lock) Entries() []LockEntry {
	out := make([]LockEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of entries.
func (l *Lock) Len() int {
	return len(l.entries)
}

// Referrers returns the names of entries that have a dependency edge to the
// given package, sorted lexically.
func (l *Lock) Referrers(name string) []string {
	var out []string
	for _, e := range l.entries {
		for _, dep := range e.Dependencies {
			if dep == name {
				out = append(out, e.Name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// Validate checks the lock's structural invariant: every dependency edge
// resolves to another entry present in the same lock.
func (l *Lock) Validate() error {
	for _, e := range l.entries {
		for _, dep := range e.Dependencies {
			if _, ok := l.entries[dep]; !ok {
				err := zerr.With(ErrMissingLockEntry, "package", e.Name)
				return zerr.With(err, "dependency", dep)
			}
		}
	}
	return nil
}

// Covers reports whether the lock satisfies every given requirement: for
// each requirement there is exactly one entry whose version satisfies its
// constraint. The returned slice names the requirements that are not
// covered.
func (l *Lock) Covers(reqs []Requirement) (bool, []string, error) {
	var missing []string
	for _, req := range reqs {
		e, ok := l.entries[req.Name]
		if !ok {
			missing = append(missing, req.Name)
			continue
		}
		sat, err := req.Satisfies(e.Version)
		if err != nil {
			return false, nil, err
		}
		if !sat {
			missing = append(missing, req.Name)
		}
	}
	return len(missing) == 0, missing, nil
}

// Equal reports whether two locks contain identical entries.
func (l *Lock) Equal(other *Lock) bool {
	if other == nil || len(l.entries) != len(other.entries) {
		return false
	}
	for name, e := range l.entries {
		oe, ok := other.entries[name]
		if !ok {
			return false
		}
		if !lockEntryEqual(e, oe) {
			return false
		}
	}
	return true
}

func lockEntryEqual(a, b LockEntry) bool {
	if a.Name != b.Name || a.Version != b.Version || a.Hash != b.Hash ||
		a.Source != b.Source || a.Markers != b.Markers ||
		len(a.Dependencies) != len(b.Dependencies) {
		return false
	}
	for i := range a.Dependencies {
		if a.Dependencies[i] != b.Dependencies[i] {
			return false
		}
	}
	return true
}
