// Package manifest implements the ManifestStore port over a YAML manifest
// document.
package manifest

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pakt-dev/pakt/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Store persists the project manifest as a YAML document.
type Store struct {
	path string
}

// NewStore creates a manifest store for the given project root.
func NewStore(root string) *Store {
	return &Store{path: domain.ManifestPath(root)}
}

// Exists reports whether a manifest document is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the manifest document into the in-memory model.
func (s *Store) Load() (*domain.Manifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrManifestNotFound, "path", s.path)
		}
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}

	m := domain.NewManifest(doc.Project.Name)
	if doc.Project.Version != "" {
		m.Version = doc.Project.Version
	}
	addGroup(m, doc.Dependencies, domain.GroupProduction)
	addGroup(m, doc.DevDependencies, domain.GroupDevelopment)
	addGroup(m, doc.OptionalDependencies, domain.GroupOptional)
	return m, nil
}

func addGroup(m *domain.Manifest, deps map[string]dependencyDTO, group domain.Group) {
	for name, dto := range deps {
		m.AddRequirement(domain.Requirement{
			Name:       name,
			Constraint: dto.Version,
			Group:      group,
			Markers: domain.Markers{
				PythonVersion: dto.Python,
				Platform:      dto.Platform,
			},
			Prerelease: dto.Prerelease,
		})
	}
}

// Save persists the manifest document.
func (s *Store) Save(m *domain.Manifest) error {
	doc := document{
		Project: projectDTO{
			Name:    m.Project,
			Version: m.Version,
		},
		Dependencies:    map[string]dependencyDTO{},
		DevDependencies: map[string]dependencyDTO{},
	}
	for _, req := range m.Requirements() {
		dto := dependencyDTO{
			Version:    req.Constraint,
			Python:     req.Markers.PythonVersion,
			Platform:   req.Markers.Platform,
			Prerelease: req.Prerelease,
		}
		switch req.Group {
		case domain.GroupProduction:
			doc.Dependencies[req.Name] = dto
		case domain.GroupDevelopment:
			doc.DevDependencies[req.Name] = dto
		case domain.GroupOptional:
			if doc.OptionalDependencies == nil {
				doc.OptionalDependencies = map[string]dependencyDTO{}
			}
			doc.OptionalDependencies[req.Name] = dto
		}
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}
	if err := os.WriteFile(s.path, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}
	return nil
}
