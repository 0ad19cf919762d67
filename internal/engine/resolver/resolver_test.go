package resolver_test

import (
	"context"
	"testing"

	goversion "github.com/hashicorp/go-version"
	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/pakt-dev/pakt/internal/core/ports/mocks"
	"github.com/pakt-dev/pakt/internal/engine/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func cand(name, version string, deps ...domain.Dependency) domain.Candidate {
	return domain.Candidate{
		Name:         name,
		Version:      goversion.Must(goversion.NewVersion(version)),
		Dependencies: deps,
		SourceURL:    "https://dist.example/" + name + "-" + version + ".whl",
		Hash:         "xxh64:" + name + version,
	}
}

func dep(name, constraint string) domain.Dependency {
	return domain.Dependency{Name: name, Constraint: constraint}
}

func req(name, constraint string) domain.Requirement {
	return domain.Requirement{Name: name, Constraint: constraint, Group: domain.GroupProduction}
}

func TestResolver_PicksNewestAdmissible(t *testing.T) {
	ctrl := gomock.NewController(t)
	idx := mocks.NewMockDistributionIndex(ctrl)
	idx.EXPECT().GetVersions(gomock.Any(), "a").Return([]domain.Candidate{
		cand("a", "1.0.0"),
		cand("a", "2.0.0"),
		cand("a", "1.5.0"),
	}, nil)

	lock, err := resolver.New(idx).Resolve(context.Background(),
		[]domain.Requirement{req("a", ">= 1")}, nil, resolver.Policy{})
	require.NoError(t, err)

	entry, ok := lock.Entry("a")
	require.True(t, ok)
	assert.Equal(t, "2.0.0", entry.Version)
}

func TestResolver_ResolvesTransitively(t *testing.T) {
	ctrl := gomock.NewController(t)
	idx := mocks.NewMockDistributionIndex(ctrl)
	idx.EXPECT().GetVersions(gomock.Any(), "a").Return([]domain.Candidate{
		cand("a", "1.0.0", dep("b", ">= 1")),
	}, nil)
	idx.EXPECT().GetVersions(gomock.Any(), "b").Return([]domain.Candidate{
		cand("b", "1.2.0"),
	}, nil)

	lock, err := resolver.New(idx).Resolve(context.Background(),
		[]domain.Requirement{req("a", ">= 1")}, nil, resolver.Policy{})
	require.NoError(t, err)

	require.Equal(t, 2, lock.Len())
	a, _ := lock.Entry("a")
	assert.Equal(t, []string{"b"}, a.Dependencies)
	require.NoError(t, lock.Validate())
}

func TestResolver_Deterministic(t *testing.T) {
	ctrl := gomock.NewController(t)
	idx := mocks.NewMockDistributionIndex(ctrl)
	idx.EXPECT().GetVersions(gomock.Any(), "a").Return([]domain.Candidate{
		cand("a", "1.0.0", dep("b", ">= 1")),
		cand("a", "2.0.0", dep("b", ">= 1")),
	}, nil).Times(2)
	idx.EXPECT().GetVersions(gomock.Any(), "b").Return([]domain.Candidate{
		cand("b", "1.0.0"),
		cand("b", "2.0.0"),
	}, nil).Times(2)

	r := resolver.New(idx)
	reqs := []domain.Requirement{req("a", ">= 1"), req("b", ">= 1")}

	first, err := r.Resolve(context.Background(), reqs, nil, resolver.Policy{})
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), reqs, nil, resolver.Policy{})
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestResolver_MinimalChurn(t *testing.T) {
	ctrl := gomock.NewController(t)
	idx := mocks.NewMockDistributionIndex(ctrl)
	idx.EXPECT().GetVersions(gomock.Any(), "a").Return([]domain.Candidate{
		cand("a", "1.0.0"),
		cand("a", "2.0.0"),
	}, nil).AnyTimes()

	prior := domain.NewLock()
	prior.Add(domain.LockEntry{Name: "a", Version: "1.0.0"})

	r := resolver.New(idx)
	reqs := []domain.Requirement{req("a", ">= 1")}

	t.Run("keeps the prior pin", func(t *testing.T) {
		lock, err := r.Resolve(context.Background(), reqs, prior, resolver.Policy{})
		require.NoError(t, err)
		entry, _ := lock.Entry("a")
		assert.Equal(t, "1.0.0", entry.Version)
	})

	t.Run("upgrade relaxes the named pin", func(t *testing.T) {
		lock, err := r.Resolve(context.Background(), reqs, prior, resolver.Policy{Update: []string{"a"}})
		require.NoError(t, err)
		entry, _ := lock.Entry("a")
		assert.Equal(t, "2.0.0", entry.Version)
	})

	t.Run("force ignores all pins", func(t *testing.T) {
		lock, err := r.Resolve(context.Background(), reqs, prior, resolver.Policy{Force: true})
		require.NoError(t, err)
		entry, _ := lock.Entry("a")
		assert.Equal(t, "2.0.0", entry.Version)
	})
}

func TestResolver_ForceUpgradeOnlyTargetsNamed(t *testing.T) {
	ctrl := gomock.NewController(t)
	idx := mocks.NewMockDistributionIndex(ctrl)
	idx.EXPECT().GetVersions(gomock.Any(), "a").Return([]domain.Candidate{
		cand("a", "1.0.0"),
		cand("a", "2.0.0"),
	}, nil)
	idx.EXPECT().GetVersions(gomock.Any(), "b").Return([]domain.Candidate{
		cand("b", "1.0.0"),
		cand("b", "2.0.0"),
	}, nil)

	prior := domain.NewLock()
	prior.Add(domain.LockEntry{Name: "a", Version: "1.0.0"})
	prior.Add(domain.LockEntry{Name: "b", Version: "1.0.0"})

	lock, err := resolver.New(idx).Resolve(context.Background(),
		[]domain.Requirement{req("a", ">= 1"), req("b", ">= 1")}, prior,
		resolver.Policy{Force: true, Update: []string{"a"}})
	require.NoError(t, err)

	a, _ := lock.Entry("a")
	assert.Equal(t, "2.0.0", a.Version)
	b, _ := lock.Entry("b")
	assert.Equal(t, "1.0.0", b.Version)
}

func TestResolver_Backtracks(t *testing.T) {
	ctrl := gomock.NewController(t)
	idx := mocks.NewMockDistributionIndex(ctrl)
	// Newest a is incompatible with the root constraint on c, forcing the
	// resolver back to a 1.0.0.
	idx.EXPECT().GetVersions(gomock.Any(), "a").Return([]domain.Candidate{
		cand("a", "2.0.0", dep("c", "< 1")),
		cand("a", "1.0.0", dep("c", ">= 1")),
	}, nil)
	idx.EXPECT().GetVersions(gomock.Any(), "c").Return([]domain.Candidate{
		cand("c", "1.0.0"),
	}, nil)

	lock, err := resolver.New(idx).Resolve(context.Background(),
		[]domain.Requirement{req("a", ">= 1"), req("c", ">= 1")}, nil, resolver.Policy{})
	require.NoError(t, err)

	a, _ := lock.Entry("a")
	assert.Equal(t, "1.0.0", a.Version)
	c, _ := lock.Entry("c")
	assert.Equal(t, "1.0.0", c.Version)
}

func TestResolver_ConflictNamesRequirers(t *testing.T) {
	ctrl := gomock.NewController(t)
	idx := mocks.NewMockDistributionIndex(ctrl)
	idx.EXPECT().GetVersions(gomock.Any(), "a").Return([]domain.Candidate{
		cand("a", "1.0.0"),
		cand("a", "2.0.0"),
	}, nil)
	idx.EXPECT().GetVersions(gomock.Any(), "b").Return([]domain.Candidate{
		cand("b", "1.0.0", dep("a", "< 2")),
	}, nil)

	_, err := resolver.New(idx).Resolve(context.Background(),
		[]domain.Requirement{req("a", ">= 2"), req("b", ">= 1")}, nil, resolver.Policy{})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrResolutionConflict)

	var conflict *domain.Conflict
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "a", conflict.Package)
	require.Len(t, conflict.Requirers, 2)
	assert.Equal(t, "b", conflict.Requirers[0].Name)
	assert.Equal(t, "< 2", conflict.Requirers[0].Constraint)
	assert.Equal(t, domain.ManifestRequirer, conflict.Requirers[1].Name)
	assert.Equal(t, ">= 2", conflict.Requirers[1].Constraint)
}

func TestResolver_PrereleaseGate(t *testing.T) {
	ctrl := gomock.NewController(t)
	idx := mocks.NewMockDistributionIndex(ctrl)
	idx.EXPECT().GetVersions(gomock.Any(), "a").Return([]domain.Candidate{
		cand("a", "1.0.0"),
		cand("a", "2.0.0-beta.1"),
	}, nil).Times(2)

	r := resolver.New(idx)

	lock, err := r.Resolve(context.Background(),
		[]domain.Requirement{req("a", ">= 1")}, nil, resolver.Policy{})
	require.NoError(t, err)
	entry, _ := lock.Entry("a")
	assert.Equal(t, "1.0.0", entry.Version)

	pre := req("a", ">= 1")
	pre.Prerelease = true
	lock, err = r.Resolve(context.Background(), []domain.Requirement{pre}, nil, resolver.Policy{})
	require.NoError(t, err)
	entry, _ = lock.Entry("a")
	assert.Equal(t, "2.0.0-beta.1", entry.Version)
}

func TestResolver_MarkersFilterRequirements(t *testing.T) {
	ctrl := gomock.NewController(t)
	idx := mocks.NewMockDistributionIndex(ctrl)
	idx.EXPECT().GetVersions(gomock.Any(), "a").Return([]domain.Candidate{
		cand("a", "1.0.0"),
	}, nil)

	linuxOnly := req("b", ">= 1")
	linuxOnly.Markers = domain.Markers{Platform: "linux"}

	lock, err := resolver.New(idx).Resolve(context.Background(),
		[]domain.Requirement{req("a", ">= 1"), linuxOnly}, nil,
		resolver.Policy{Env: domain.Environment{Platform: "darwin"}})
	require.NoError(t, err)

	assert.Equal(t, 1, lock.Len())
	_, ok := lock.Entry("b")
	assert.False(t, ok)
}

func TestResolver_UnknownPackage(t *testing.T) {
	ctrl := gomock.NewController(t)
	idx := mocks.NewMockDistributionIndex(ctrl)
	idx.EXPECT().GetVersions(gomock.Any(), "ghost").
		Return(nil, domain.ErrDistributionNotFound)

	_, err := resolver.New(idx).Resolve(context.Background(),
		[]domain.Requirement{req("ghost", ">= 1")}, nil, resolver.Policy{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDistributionNotFound)
}
