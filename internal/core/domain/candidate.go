package domain

import (
	"sort"

	goversion "github.com/hashicorp/go-version"
)

// Dependency is one dependency declaration of an index candidate: the
// package it requires, the constraint expression and the markers under which
// the edge applies.
type Dependency struct {
	Name       string
	Constraint string
	Markers    Markers
}

// Candidate is one installable version of a package as reported by the
// distribution index.
type Candidate struct {
	Name         string
	Version      *goversion.Version
	Markers      Markers
	Dependencies []Dependency
	SourceURL    string
	Hash         string
}

// SortCandidates orders candidates newest-first with a deterministic
// tie-break: version precedence first, then lexical source URL.
func SortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		cmp := cands[j].Version.Compare(cands[i].Version)
		if cmp != 0 {
			return cmp < 0
		}
		return cands[i].SourceURL < cands[j].SourceURL
	})
}
