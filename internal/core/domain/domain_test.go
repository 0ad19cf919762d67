package domain_test

import (
	"errors"
	"testing"

	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest_AddRequirement(t *testing.T) {
	t.Run("upserts by name and group", func(t *testing.T) {
		m := domain.NewManifest("demo")
		m.AddRequirement(domain.Requirement{Name: "requests", Constraint: ">= 1", Group: domain.GroupProduction})
		m.AddRequirement(domain.Requirement{Name: "requests", Constraint: ">= 2", Group: domain.GroupProduction})

		require.Equal(t, 1, m.Len())
		req, ok := m.Requirement("requests", domain.GroupProduction)
		require.True(t, ok)
		assert.Equal(t, ">= 2", req.Constraint)
	})

	t.Run("same name in different groups coexists", func(t *testing.T) {
		m := domain.NewManifest("demo")
		m.AddRequirement(domain.Requirement{Name: "pytest", Constraint: ">= 7", Group: domain.GroupProduction})
		m.AddRequirement(domain.Requirement{Name: "pytest", Constraint: ">= 8", Group: domain.GroupDevelopment})

		assert.Equal(t, 2, m.Len())
		assert.Len(t, m.RequirementsOf("pytest"), 2)
	})
}

func TestManifest_RemoveRequirement(t *testing.T) {
	m := domain.NewManifest("demo")
	m.AddRequirement(domain.Requirement{Name: "requests", Constraint: ">= 1", Group: domain.GroupProduction})

	assert.True(t, m.RemoveRequirement("requests", domain.GroupProduction))
	assert.Equal(t, 0, m.Len())

	// Removing again is a no-op.
	assert.False(t, m.RemoveRequirement("requests", domain.GroupProduction))
	assert.Equal(t, 0, m.Len())
}

func TestManifest_RequirementsOrdering(t *testing.T) {
	m := domain.NewManifest("demo")
	m.AddRequirement(domain.Requirement{Name: "zlib", Constraint: ">= 1", Group: domain.GroupProduction})
	m.AddRequirement(domain.Requirement{Name: "attrs", Constraint: ">= 1", Group: domain.GroupDevelopment})
	m.AddRequirement(domain.Requirement{Name: "black", Constraint: ">= 1", Group: domain.GroupProduction})

	reqs := m.Requirements()
	require.Len(t, reqs, 3)
	assert.Equal(t, "black", reqs[0].Name)
	assert.Equal(t, "zlib", reqs[1].Name)
	assert.Equal(t, "attrs", reqs[2].Name)
}

func TestManifest_Clone(t *testing.T) {
	m := domain.NewManifest("demo")
	m.AddRequirement(domain.Requirement{Name: "requests", Constraint: ">= 1", Group: domain.GroupProduction})

	clone := m.Clone()
	clone.AddRequirement(domain.Requirement{Name: "flask", Constraint: ">= 2", Group: domain.GroupProduction})

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestLock_Validate(t *testing.T) {
	t.Run("accepts resolving edges", func(t *testing.T) {
		l := domain.NewLock()
		l.Add(domain.LockEntry{Name: "a", Version: "1.0.0", Dependencies: []string{"b"}})
		l.Add(domain.LockEntry{Name: "b", Version: "1.0.0"})
		require.NoError(t, l.Validate())
	})

	t.Run("rejects dangling edges", func(t *testing.T) {
		l := domain.NewLock()
		l.Add(domain.LockEntry{Name: "a", Version: "1.0.0", Dependencies: []string{"ghost"}})
		err := l.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingLockEntry)
	})
}

func TestLock_Covers(t *testing.T) {
	l := domain.NewLock()
	l.Add(domain.LockEntry{Name: "a", Version: "1.5.0"})

	covered, missing, err := l.Covers([]domain.Requirement{
		{Name: "a", Constraint: ">= 1"},
	})
	require.NoError(t, err)
	assert.True(t, covered)
	assert.Empty(t, missing)

	covered, missing, err = l.Covers([]domain.Requirement{
		{Name: "a", Constraint: ">= 2"},
		{Name: "b", Constraint: ">= 1"},
	})
	require.NoError(t, err)
	assert.False(t, covered)
	assert.Equal(t, []string{"a", "b"}, missing)
}

func TestLock_Referrers(t *testing.T) {
	l := domain.NewLock()
	l.Add(domain.LockEntry{Name: "a", Version: "1.0.0", Dependencies: []string{"c"}})
	l.Add(domain.LockEntry{Name: "b", Version: "1.0.0", Dependencies: []string{"c"}})
	l.Add(domain.LockEntry{Name: "c", Version: "1.0.0"})

	assert.Equal(t, []string{"a", "b"}, l.Referrers("c"))
	assert.Empty(t, l.Referrers("a"))
}

func TestDiffLocks(t *testing.T) {
	oldLock := domain.NewLock()
	oldLock.Add(domain.LockEntry{Name: "kept", Version: "1.0.0"})
	oldLock.Add(domain.LockEntry{Name: "changed", Version: "1.0.0"})
	oldLock.Add(domain.LockEntry{Name: "removed", Version: "1.0.0"})

	newLock := domain.NewLock()
	newLock.Add(domain.LockEntry{Name: "kept", Version: "1.0.0"})
	newLock.Add(domain.LockEntry{Name: "changed", Version: "2.0.0"})
	newLock.Add(domain.LockEntry{Name: "added", Version: "3.0.0"})

	diff := domain.DiffLocks(oldLock, newLock)
	require.Len(t, diff.Added, 1)
	require.Len(t, diff.Removed, 1)
	require.Len(t, diff.Changed, 1)
	assert.Equal(t, "added", diff.Added[0].Name)
	assert.Equal(t, "removed", diff.Removed[0].Name)
	assert.Equal(t, "1.0.0", diff.Changed[0].Old.Version)
	assert.Equal(t, "2.0.0", diff.Changed[0].New.Version)
	assert.Equal(t, 3, diff.TotalChanges())
}

func TestDiffLocks_NilAndEmpty(t *testing.T) {
	newLock := domain.NewLock()
	newLock.Add(domain.LockEntry{Name: "a", Version: "1.0.0"})

	diff := domain.DiffLocks(nil, newLock)
	assert.Len(t, diff.Added, 1)

	diff = domain.DiffLocks(newLock, newLock)
	assert.True(t, diff.IsEmpty())
}

func TestConflict_Error(t *testing.T) {
	c := &domain.Conflict{
		Package: "urllib3",
		Requirers: []domain.Requirer{
			{Name: "pakt.yaml", Constraint: ">= 2"},
			{Name: "requests", Constraint: "< 2"},
		},
	}
	assert.ErrorIs(t, c, domain.ErrResolutionConflict)
	assert.Contains(t, c.Error(), "urllib3")
	assert.Contains(t, c.Error(), "pakt.yaml (>= 2)")
	assert.Contains(t, c.Error(), "requests (< 2)")
}

func TestRequirement_Satisfies(t *testing.T) {
	req := domain.Requirement{Name: "a", Constraint: ">= 1, < 2"}

	ok, err := req.Satisfies("1.5.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = req.Satisfies("2.0.0")
	require.NoError(t, err)
	assert.False(t, ok)

	// Prerelease versions need an explicit opt-in.
	ok, err = req.Satisfies("1.5.0-beta.1")
	require.NoError(t, err)
	assert.False(t, ok)

	req.Prerelease = true
	ok, err = req.Satisfies("1.5.0-beta.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMarkers_AppliesTo(t *testing.T) {
	env := domain.Environment{PythonVersion: "3.12.1", Platform: "linux"}

	tests := []struct {
		name    string
		markers domain.Markers
		want    bool
	}{
		{"no markers", domain.Markers{}, true},
		{"matching platform", domain.Markers{Platform: "linux"}, true},
		{"other platform", domain.Markers{Platform: "darwin"}, false},
		{"satisfied python constraint", domain.Markers{PythonVersion: ">= 3.10"}, true},
		{"unsatisfied python constraint", domain.Markers{PythonVersion: ">= 3.13"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.markers.AppliesTo(env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unconstrained environment admits python markers", func(t *testing.T) {
		got, err := domain.Markers{PythonVersion: ">= 3.10"}.AppliesTo(domain.Environment{})
		require.NoError(t, err)
		assert.True(t, got)
	})
}

func TestParseGroup(t *testing.T) {
	g, err := domain.ParseGroup("development")
	require.NoError(t, err)
	assert.Equal(t, domain.GroupDevelopment, g)

	_, err = domain.ParseGroup("bogus")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidGroup)
}

func TestParseVersionAndConstraint(t *testing.T) {
	_, err := domain.ParseVersion("not a version")
	assert.ErrorIs(t, err, domain.ErrInvalidVersion)

	_, err = domain.ParseConstraint(">>= nope")
	assert.ErrorIs(t, err, domain.ErrInvalidConstraint)
}

func TestRollbackError(t *testing.T) {
	cause := errors.New("disk full")
	err := &domain.RollbackError{Cause: cause}
	assert.ErrorIs(t, err, domain.ErrTransactionRolledBack)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}
