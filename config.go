package hackcomplete

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the .hackcomplete.yaml configuration file.
type Config struct {
	// Completion sources, queried concurrently
	Sources []SourceConfig `yaml:"sources"`

	// Reload index sources when their files change
	Watch bool `yaml:"watch,omitempty"`

	// Log level for the language server (debug, info, warn, error)
	LogLevel string `yaml:"log_level,omitempty"`

	// Characters that trigger completion in addition to identifier characters
	TriggerCharacters []string `yaml:"trigger_characters,omitempty"`

	// path is the file the config was loaded from, empty for defaults.
	path string
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".hackcomplete.yaml", ".hackcomplete.yml", "hackcomplete.yaml", "hackcomplete.yml"}

// ProjectMarker is the file that marks the root of a hack project.
const ProjectMarker = ".hhconfig"

// DefaultHHClientTimeout bounds hh_client when the config does not.
const DefaultHHClientTimeout = 2 * time.Second

// DefaultConfig returns the configuration used when no config file exists:
// hh_client from PATH and the default trigger characters.
func DefaultConfig() *Config {
	return &Config{
		Sources: []SourceConfig{
			{Kind: "hh_client", Path: "hh_client", Timeout: DefaultHHClientTimeout},
		},
		LogLevel:          "info",
		TriggerCharacters: []string{"$", ":", ">"},
	}
}

// LoadConfig finds and loads the nearest .hackcomplete.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	path, err := findUpward(dir, DefaultConfigNames)
	if err != nil {
		return "", err
	}

	if path == "" {
		return "", ErrConfigNotFound
	}

	return path, nil
}

// FindProjectRoot returns the nearest directory at or above dir holding a .hhconfig.
func FindProjectRoot(dir string) (string, error) {
	path, err := findUpward(dir, []string{ProjectMarker})
	if err != nil {
		return "", err
	}

	if path == "" {
		return "", ErrProjectNotFound
	}

	return filepath.Dir(path), nil
}

// findUpward returns the first existing dir/name walking up from dir, or "" at the
// filesystem root.
func findUpward(dir string, names []string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range names {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
// Fields missing from the file keep their DefaultConfig values, except Sources which
// replaces the default list when present.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}

	for i := range cfg.Sources {
		if cfg.Sources[i].Kind == "hh_client" && cfg.Sources[i].Timeout == 0 {
			cfg.Sources[i].Timeout = DefaultHHClientTimeout
		}
	}

	cfg.path = path

	return cfg, nil
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory relative source paths resolve against. For defaults it
// is fallback.
func (c *Config) Dir(fallback string) string {
	if c.path == "" {
		return fallback
	}

	return filepath.Dir(c.path)
}

// Enabled returns the sources not marked disabled.
func (c *Config) Enabled() []SourceConfig {
	enabled := make([]SourceConfig, 0, len(c.Sources))

	for _, sc := range c.Sources {
		if !sc.Disabled {
			enabled = append(enabled, sc)
		}
	}

	return enabled
}
