package domain

import "go.trai.ch/zerr"

// Group identifies which dependency group of the manifest a requirement
// belongs to.
type Group string

const (
	// GroupProduction holds runtime dependencies.
	GroupProduction Group = "production"
	// GroupDevelopment holds development-only dependencies.
	GroupDevelopment Group = "development"
	// GroupOptional holds optional dependencies.
	GroupOptional Group = "optional"
)

// Groups lists all dependency groups in manifest order.
func Groups() []Group {
	return []Group{GroupProduction, GroupDevelopment, GroupOptional}
}

// ParseGroup validates a group name.
func ParseGroup(s string) (Group, error) {
	switch Group(s) {
	case GroupProduction, GroupDevelopment, GroupOptional:
		return Group(s), nil
	default:
		return "", zerr.With(ErrInvalidGroup, "group", s)
	}
}

// Environment describes the concrete environment packages are resolved and
// installed for.
type Environment struct {
	// PythonVersion is the interpreter version of the project, e.g. "3.12.1".
	// Empty means unconstrained.
	PythonVersion string
	// Platform is the target platform, e.g. "linux". Empty means unconstrained.
	Platform string
}

// Markers restrict the environments under which a requirement or lock entry
// applies.
type Markers struct {
	// PythonVersion is a constraint expression on the interpreter version,
	// e.g. ">= 3.10". Empty means any interpreter.
	PythonVersion string `yaml:"python,omitempty"`
	// Platform restricts the requirement to a single platform. Empty means
	// any platform.
	Platform string `yaml:"platform,omitempty"`
}

// IsZero reports whether no marker is set.
func (m Markers) IsZero() bool {
	return m.PythonVersion == "" && m.Platform == ""
}

// AppliesTo reports whether the markers admit the given environment.
// Unset fields on either side are treated as unconstrained.
func (m Markers) AppliesTo(env Environment) (bool, error) {
	if m.Platform != "" && env.Platform != "" && m.Platform != env.Platform {
		return false, nil
	}
	if m.PythonVersion == "" || env.PythonVersion == "" {
		return true, nil
	}
	c, err := ParseConstraint(m.PythonVersion)
	if err != nil {
		return false, err
	}
	py, err := ParseVersion(env.PythonVersion)
	if err != nil {
		return false, err
	}
	return c.Check(py), nil
}

// Requirement is one declared dependency of the manifest: a package name, a
// version constraint, the group it belongs to and its environment markers.
// Requirements are uniquely keyed by (name, group).
type Requirement struct {
	Name       string
	Constraint string
	Group      Group
	Markers    Markers
	// Prerelease allows prerelease versions to satisfy the constraint.
	Prerelease bool
}

// Satisfies reports whether the given exact version satisfies the
// requirement's constraint.
func (r Requirement) Satisfies(versionStr string) (bool, error) {
	c, err := ParseConstraint(r.Constraint)
	if err != nil {
		return false, err
	}
	v, err := ParseVersion(versionStr)
	if err != nil {
		return false, err
	}
	if v.Prerelease() != "" && !r.Prerelease {
		return false, nil
	}
	return c.Check(v), nil
}
