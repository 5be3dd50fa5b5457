package hackcomplete

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// SourceConfig configures one completion source.
type SourceConfig struct {
	// Kind selects the registered factory (e.g. "hh_client", "index").
	Kind string `yaml:"kind"`

	// Path is the hh_client binary or the index file. Relative index paths are resolved
	// against the config file's directory.
	Path string `yaml:"path,omitempty"`

	// Timeout bounds a single request to the source.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Disabled skips the source without removing it from the file.
	Disabled bool `yaml:"disabled,omitempty"`
}

// SourceEnv is what a factory needs besides its own config.
type SourceEnv struct {
	// ConfigDir is the directory holding the config file.
	ConfigDir string

	// Root is the hack project root (the directory with .hhconfig).
	Root string

	Logger *zap.Logger
}

// SourceFactory creates a Source from its configuration.
type SourceFactory func(cfg SourceConfig, env SourceEnv) (Source, error)

var sources = make(map[string]SourceFactory)

// RegisterSource registers a source factory by kind.
// Implementations call this in their init() function.
func RegisterSource(kind string, factory SourceFactory) {
	sources[kind] = factory
}

// NewSource creates a source of the configured kind.
func NewSource(cfg SourceConfig, env SourceEnv) (Source, error) { //nolint:ireturn
	factory, ok := sources[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, cfg.Kind)
	}

	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}

	src, err := factory(cfg, env)
	if err != nil {
		return nil, fmt.Errorf("%s source: %w", cfg.Kind, err)
	}

	return src, nil
}

// RegisteredSources returns the registered source kinds, sorted.
func RegisteredSources() []string {
	kinds := make([]string, 0, len(sources))
	for kind := range sources {
		kinds = append(kinds, kind)
	}

	slices.Sort(kinds)

	return kinds
}
