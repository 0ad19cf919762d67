package manifest_test

import (
	"os"
	"strings"
	"testing"

	"github.com/pakt-dev/pakt/internal/adapters/manifest"
	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(domain.ManifestPath(root), []byte(content), 0o644))
}

func TestStore_LoadShortAndLongForms(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, strings.Join([]string{
		"project:",
		"  name: demo",
		"  version: 0.2.0",
		"dependencies:",
		"  requests: \">= 2.28\"",
		"  uvloop:",
		"    version: \">= 0.19\"",
		"    platform: linux",
		"dev-dependencies:",
		"  pytest:",
		"    version: \">= 8\"",
		"    python: \">= 3.10\"",
		"    prerelease: true",
	}, "\n"))

	m, err := manifest.NewStore(root).Load()
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Project)
	assert.Equal(t, "0.2.0", m.Version)
	require.Equal(t, 3, m.Len())

	req, ok := m.Requirement("requests", domain.GroupProduction)
	require.True(t, ok)
	assert.Equal(t, ">= 2.28", req.Constraint)
	assert.True(t, req.Markers.IsZero())

	req, ok = m.Requirement("uvloop", domain.GroupProduction)
	require.True(t, ok)
	assert.Equal(t, "linux", req.Markers.Platform)

	req, ok = m.Requirement("pytest", domain.GroupDevelopment)
	require.True(t, ok)
	assert.Equal(t, ">= 3.10", req.Markers.PythonVersion)
	assert.True(t, req.Prerelease)
}

func TestStore_LoadAbsent(t *testing.T) {
	store := manifest.NewStore(t.TempDir())

	assert.False(t, store.Exists())
	_, err := store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestStore_RoundTrip(t *testing.T) {
	root := t.TempDir()
	store := manifest.NewStore(root)

	m := domain.NewManifest("demo")
	m.AddRequirement(domain.Requirement{Name: "requests", Constraint: ">= 2.28", Group: domain.GroupProduction})
	m.AddRequirement(domain.Requirement{
		Name:       "uvloop",
		Constraint: ">= 0.19",
		Group:      domain.GroupOptional,
		Markers:    domain.Markers{Platform: "linux"},
	})
	m.AddRequirement(domain.Requirement{Name: "pytest", Constraint: ">= 8", Group: domain.GroupDevelopment, Prerelease: true})

	require.NoError(t, store.Save(m))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, m.Requirements(), loaded.Requirements())
}

func TestStore_SaveShortFormForPlainDeps(t *testing.T) {
	root := t.TempDir()
	store := manifest.NewStore(root)

	m := domain.NewManifest("demo")
	m.AddRequirement(domain.Requirement{Name: "requests", Constraint: ">= 2.28", Group: domain.GroupProduction})
	require.NoError(t, store.Save(m))

	data, err := os.ReadFile(domain.ManifestPath(root))
	require.NoError(t, err)
	assert.Contains(t, string(data), "requests: '>= 2.28'")
	assert.NotContains(t, string(data), "optional-dependencies")
}
