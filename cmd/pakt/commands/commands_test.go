package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/pakt-dev/pakt/cmd/pakt/commands"
	"github.com/pakt-dev/pakt/internal/app"
	"github.com/pakt-dev/pakt/internal/build"
	"github.com/pakt-dev/pakt/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockApp struct {
	initFunc      func(name string) error
	installFunc   func(ctx context.Context, specs []string, opts app.InstallOptions) (*domain.LockDiff, error)
	uninstallFunc func(ctx context.Context, name string) (*domain.LockDiff, error)
	upgradeFunc   func(ctx context.Context, names []string, force bool) (*domain.LockDiff, error)
	lockFunc      func(ctx context.Context) (*domain.LockDiff, error)
	syncFunc      func(ctx context.Context) (*domain.LockDiff, error)
	listFunc      func(ctx context.Context) ([]domain.InstalledDistribution, error)
}

func (m *mockApp) Init(name string) error {
	if m.initFunc != nil {
		return m.initFunc(name)
	}
	return nil
}

func (m *mockApp) Install(ctx context.Context, specs []string, opts app.InstallOptions) (*domain.LockDiff, error) {
	if m.installFunc != nil {
		return m.installFunc(ctx, specs, opts)
	}
	return &domain.LockDiff{}, nil
}

func (m *mockApp) Uninstall(ctx context.Context, name string) (*domain.LockDiff, error) {
	if m.uninstallFunc != nil {
		return m.uninstallFunc(ctx, name)
	}
	return &domain.LockDiff{}, nil
}

func (m *mockApp) Upgrade(ctx context.Context, names []string, force bool) (*domain.LockDiff, error) {
	if m.upgradeFunc != nil {
		return m.upgradeFunc(ctx, names, force)
	}
	return &domain.LockDiff{}, nil
}

func (m *mockApp) Lock(ctx context.Context) (*domain.LockDiff, error) {
	if m.lockFunc != nil {
		return m.lockFunc(ctx)
	}
	return &domain.LockDiff{}, nil
}

func (m *mockApp) Sync(ctx context.Context) (*domain.LockDiff, error) {
	if m.syncFunc != nil {
		return m.syncFunc(ctx)
	}
	return &domain.LockDiff{}, nil
}

func (m *mockApp) List(ctx context.Context) ([]domain.InstalledDistribution, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func execute(t *testing.T, mock *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Install(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedSpecs []string
		var capturedOpts app.InstallOptions

		mock := &mockApp{
			installFunc: func(_ context.Context, specs []string, opts app.InstallOptions) (*domain.LockDiff, error) {
				capturedSpecs = specs
				capturedOpts = opts
				return &domain.LockDiff{}, nil
			},
		}

		_, err := execute(t, mock, "install", "pytest@>= 8", "--dev", "--pre", "--python", ">= 3.10")
		require.NoError(t, err)
		assert.Equal(t, []string{"pytest@>= 8"}, capturedSpecs)
		assert.True(t, capturedOpts.Dev)
		assert.True(t, capturedOpts.Prerelease)
		assert.Equal(t, ">= 3.10", capturedOpts.Python)
		assert.False(t, capturedOpts.Optional)
	})

	t.Run("prints the diff", func(t *testing.T) {
		mock := &mockApp{
			installFunc: func(context.Context, []string, app.InstallOptions) (*domain.LockDiff, error) {
				return &domain.LockDiff{
					Added: []domain.LockEntry{{Name: "requests", Version: "2.31.0"}},
					Changed: []domain.ChangedEntry{{
						Old: domain.LockEntry{Name: "urllib3", Version: "1.26.0"},
						New: domain.LockEntry{Name: "urllib3", Version: "2.2.0"},
					}},
				}, nil
			},
		}

		out, err := execute(t, mock, "install", "requests")
		require.NoError(t, err)
		assert.Contains(t, out, "+ requests 2.31.0")
		assert.Contains(t, out, "~ urllib3 1.26.0 -> 2.2.0")
	})

	t.Run("returns resolution errors", func(t *testing.T) {
		mock := &mockApp{
			installFunc: func(context.Context, []string, app.InstallOptions) (*domain.LockDiff, error) {
				return nil, errors.New("simulated conflict")
			},
		}

		_, err := execute(t, mock, "install", "requests")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated conflict")
	})
}

func TestCommands_Uninstall(t *testing.T) {
	var captured string
	mock := &mockApp{
		uninstallFunc: func(_ context.Context, name string) (*domain.LockDiff, error) {
			captured = name
			return &domain.LockDiff{Removed: []domain.LockEntry{{Name: name, Version: "1.0.0"}}}, nil
		},
	}

	out, err := execute(t, mock, "uninstall", "requests")
	require.NoError(t, err)
	assert.Equal(t, "requests", captured)
	assert.Contains(t, out, "- requests 1.0.0")
}

func TestCommands_Upgrade(t *testing.T) {
	var capturedNames []string
	var capturedForce bool
	mock := &mockApp{
		upgradeFunc: func(_ context.Context, names []string, force bool) (*domain.LockDiff, error) {
			capturedNames = names
			capturedForce = force
			return &domain.LockDiff{}, nil
		},
	}

	out, err := execute(t, mock, "upgrade", "requests", "--force")
	require.NoError(t, err)
	assert.Equal(t, []string{"requests"}, capturedNames)
	assert.True(t, capturedForce)
	assert.Contains(t, out, "no changes")
}

func TestCommands_Init(t *testing.T) {
	var captured string
	mock := &mockApp{
		initFunc: func(name string) error {
			captured = name
			return nil
		},
	}

	_, err := execute(t, mock, "init", "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", captured)
}

func TestCommands_LockAndSync(t *testing.T) {
	lockCalled := false
	syncCalled := false
	mock := &mockApp{
		lockFunc: func(context.Context) (*domain.LockDiff, error) {
			lockCalled = true
			return &domain.LockDiff{}, nil
		},
		syncFunc: func(context.Context) (*domain.LockDiff, error) {
			syncCalled = true
			return &domain.LockDiff{}, nil
		},
	}

	_, err := execute(t, mock, "lock")
	require.NoError(t, err)
	assert.True(t, lockCalled)

	_, err = execute(t, mock, "sync")
	require.NoError(t, err)
	assert.True(t, syncCalled)
}

func TestCommands_List(t *testing.T) {
	mock := &mockApp{
		listFunc: func(context.Context) ([]domain.InstalledDistribution, error) {
			return []domain.InstalledDistribution{
				{Name: "requests", Version: "2.31.0"},
				{Name: "urllib3", Version: "2.2.0", Drifted: true},
			}, nil
		},
	}

	out, err := execute(t, mock, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "requests 2.31.0")
	assert.Contains(t, out, "urllib3 2.2.0 (drifted)")
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}

	out, err := execute(t, mock, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pakt version "+build.Version)
}
