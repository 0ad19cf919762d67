package manifest

import "gopkg.in/yaml.v3"

// document is the on-disk structure of pakt.yaml.
type document struct {
	Project              projectDTO               `yaml:"project"`
	Dependencies         map[string]dependencyDTO `yaml:"dependencies"`
	DevDependencies      map[string]dependencyDTO `yaml:"dev-dependencies"`
	OptionalDependencies map[string]dependencyDTO `yaml:"optional-dependencies,omitempty"`
}

type projectDTO struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// dependencyDTO is one declared dependency. The short form is a bare
// constraint string; the long form is a mapping carrying environment markers
// and the prerelease flag.
type dependencyDTO struct {
	Version    string `yaml:"version"`
	Python     string `yaml:"python,omitempty"`
	Platform   string `yaml:"platform,omitempty"`
	Prerelease bool   `yaml:"prerelease,omitempty"`
}

// plainDependencyDTO avoids recursion in the custom YAML hooks.
type plainDependencyDTO dependencyDTO

// UnmarshalYAML accepts both the short scalar form ("requests: >= 2.28") and
// the long mapping form.
func (d *dependencyDTO) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		d.Version = value.Value
		return nil
	}
	var plain plainDependencyDTO
	if err := value.Decode(&plain); err != nil {
		return err
	}
	*d = dependencyDTO(plain)
	return nil
}

// MarshalYAML emits the short form when no marker or flag is set.
func (d dependencyDTO) MarshalYAML() (any, error) {
	if d.Python == "" && d.Platform == "" && !d.Prerelease {
		return d.Version, nil
	}
	return plainDependencyDTO(d), nil
}
