package domain

import (
	"sort"
)

type requirementKey struct {
	name  string
	group Group
}

// Manifest is the in-memory model of the project's declared requirements,
// partitioned into production, development and optional groups. It is a pure
// model over the externally persisted manifest document.
type Manifest struct {
	Project string
	Version string
	reqs    map[requirementKey]Requirement
}

// NewManifest creates an empty manifest for the given project.
func NewManifest(project string) *Manifest {
	return &Manifest{
		Project: project,
		Version: "0.1.0",
		reqs:    make(map[requirementKey]Requirement),
	}
}

// AddRequirement inserts or replaces the requirement keyed by (name, group).
// Adding an existing requirement is an idempotent upsert.
func (m *Manifest) AddRequirement(req Requirement) {
	if m.reqs == nil {
		m.reqs = make(map[requirementKey]Requirement)
	}
	m.reqs[requirementKey{name: req.Name, group: req.Group}] = req
}

// RemoveRequirement removes the requirement keyed by (name, group).
// Removing a requirement that does not exist is a no-op; the return value
// reports whether anything was removed.
func (m *Manifest) RemoveRequirement(name string, group Group) bool {
	key := requirementKey{name: name, group: group}
	if _, ok := m.reqs[key]; !ok {
		return false
	}
	delete(m.reqs, key)
	return true
}

// Requirement returns the requirement keyed by (name, group).
func (m *Manifest) Requirement(name string, group Group) (Requirement, bool) {
	req, ok := m.reqs[requirementKey{name: name, group: group}]
	return req, ok
}

// RequirementsOf returns the package's requirements across all groups,
// ordered by group.
func (m *Manifest) RequirementsOf(name string) []Requirement {
	var out []Requirement
	for _, g := range Groups() {
		if req, ok := m.reqs[requirementKey{name: name, group: g}]; ok {
			out = append(out, req)
		}
	}
	return out
}

// Requirements returns all requirements ordered by group then name.
// Ordering is deterministic so that resolution is reproducible.
func (m *Manifest) Requirements() []Requirement {
	out := make([]Requirement, 0, len(m.reqs))
	for _, req := range m.reqs {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return groupRank(out[i].Group) < groupRank(out[j].Group)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of declared requirements.
func (m *Manifest) Len() int {
	return len(m.reqs)
}

// Clone returns a deep copy of the manifest. The orchestrator mutates a
// clone so a failed transaction leaves the loaded manifest untouched.
func (m *Manifest) Clone() *Manifest {
	out := &Manifest{
		Project: m.Project,
		Version: m.Version,
		reqs:    make(map[requirementKey]Requirement, len(m.reqs)),
	}
	for k, v := range m.reqs {
		out.reqs[k] = v
	}
	return out
}

func groupRank(g Group) int {
	switch g {
	case GroupProduction:
		return 0
	case GroupDevelopment:
		return 1
	default:
		return 2
	}
}
