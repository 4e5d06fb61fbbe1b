package config

// Jarlfile represents the structure of the jarl.yaml manifest file.
type Jarlfile struct {
	Version      string       `yaml:"version"`
	DataDir      string       `yaml:"dataDir"`
	LogLevel     string       `yaml:"logLevel"`
	Load         LoadDTO      `yaml:"load"`
	Repositories []string     `yaml:"repositories"`
	Libraries    []LibraryDTO `yaml:"libraries"`
}

// LoadDTO selects where fetched artifacts are staged. At most one of its
// fields may be set.
type LoadDTO struct {
	Dir     string `yaml:"dir"`
	Argfile string `yaml:"argfile"`
}

// LibraryDTO represents one artifact declaration in the manifest.
type LibraryDTO struct {
	Group       string          `yaml:"group"`
	Name        string          `yaml:"name"`
	Version     string          `yaml:"version"`
	Classifier  string          `yaml:"classifier"`
	Checksum    string          `yaml:"checksum"`
	URLs        []string        `yaml:"urls"`
	Relocations []RelocationDTO `yaml:"relocations"`
}

// RelocationDTO represents a package rewrite rule for one library.
type RelocationDTO struct {
	Pattern   string   `yaml:"pattern"`
	Relocated string   `yaml:"relocated"`
	Includes  []string `yaml:"includes"`
	Excludes  []string `yaml:"excludes"`
}
