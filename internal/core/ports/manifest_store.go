package ports

import "github.com/pakt-dev/pakt/internal/core/domain"

// ManifestStore persists and loads the project manifest document.
//
//go:generate mockgen -source=manifest_store.go -destination=mocks/mock_manifest_store.go -package=mocks
type ManifestStore interface {
	// Load reads the manifest. Returns domain.ErrManifestNotFound when the
	// project has no manifest.
	Load() (*domain.Manifest, error)

	// Save persists the manifest.
	Save(manifest *domain.Manifest) error

	// Exists reports whether a manifest document is present.
	Exists() bool
}
