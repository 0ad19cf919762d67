package domain

import (
	"fmt"
	"strings"
)

// Requirer identifies one party whose constraint participates in a
// resolution conflict. For direct requirements the requirer is the project
// manifest; for transitive constraints it is the requiring package.
type Requirer struct {
	// Name is the requiring package name, or ManifestRequirer for direct
	// requirements.
	Name string
	// Constraint is the version constraint the requirer declared.
	Constraint string
}

// ManifestRequirer is the requirer name used for direct manifest requirements.
const ManifestRequirer = ManifestFileName

// Conflict reports an unsatisfiable constraint set: no available version of
// Package satisfies all requirers at once. Requirers is the minimal jointly
// unsatisfiable set, sorted by name.
type Conflict struct {
	Package   string
	Requirers []Requirer
}

// Error implements error.
func (c *Conflict) Error() string {
	parts := make([]string, len(c.Requirers))
	for i, r := range c.Requirers {
		constraint := r.Constraint
		if constraint == "" {
			constraint = "*"
		}
		parts[i] = fmt.Sprintf("%s (%s)", r.Name, constraint)
	}
	return fmt.Sprintf("%s: no version of %s satisfies %s",
		ErrResolutionConflict.Error(), c.Package, strings.Join(parts, ", "))
}

// Unwrap lets errors.Is match ErrResolutionConflict.
func (c *Conflict) Unwrap() error {
	return ErrResolutionConflict
}
