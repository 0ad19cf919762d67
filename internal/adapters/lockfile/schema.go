package lockfile

// document is the on-disk structure of pakt.lock.
type document struct {
	Version  int        `yaml:"version"`
	Packages []entryDTO `yaml:"packages"`
}

// entryDTO represents one locked package in the lock document.
type entryDTO struct {
	Name         string     `yaml:"name"`
	Version      string     `yaml:"version"`
	Hash         string     `yaml:"hash"`
	Source       string     `yaml:"source"`
	Markers      markersDTO `yaml:"markers,omitempty"`
	Dependencies []string   `yaml:"dependencies,omitempty"`
}

type markersDTO struct {
	Python   string `yaml:"python,omitempty"`
	Platform string `yaml:"platform,omitempty"`
}

// lockFormatVersion is bumped when the lock document layout changes.
const lockFormatVersion = 1
