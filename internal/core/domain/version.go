package domain

import (
	goversion "github.com/hashicorp/go-version"
	"go.trai.ch/zerr"
)

// AnyVersion is the constraint expression that matches every version.
const AnyVersion = ">= 0"

// ParseVersion parses an exact version string.
func ParseVersion(s string) (*goversion.Version, error) {
	v, err := goversion.NewVersion(s)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrInvalidVersion.Error()), "version", s)
	}
	return v, nil
}

// ParseConstraint parses a version constraint expression such as
// ">= 2.28, < 3". An empty expression or "*" matches every version.
func ParseConstraint(s string) (goversion.Constraints, error) {
	if s == "" || s == "*" {
		s = AnyVersion
	}
	c, err := goversion.NewConstraint(s)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrInvalidConstraint.Error()), "constraint", s)
	}
	return c, nil
}
