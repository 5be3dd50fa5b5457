package hackcomplete

import "errors"

var (
	// ErrConfigNotFound is returned when no config file exists in a directory or its parents.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrProjectNotFound is returned when no .hhconfig exists in a directory or its parents.
	ErrProjectNotFound = errors.New("not inside a hack project")

	// ErrUnknownSource is returned for a source kind nobody registered.
	ErrUnknownSource = errors.New("unknown source kind")

	// ErrNoSources is returned when a configuration enables no source at all.
	ErrNoSources = errors.New("no completion sources configured")
)
