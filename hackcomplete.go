// Package hackcomplete provides completion for Hack source files.
//
// The ranking engine lives in package complete. This package defines the symbol sources
// that feed it and the project configuration selecting them; implementations are in
// package source.
package hackcomplete

import (
	"context"

	"github.com/rlch/hackcomplete/complete"
)

// Version is reported by the command line tools and the language server.
const Version = "0.1.0"

// Symbol is a completion candidate as reported by a source.
type Symbol struct {
	// Name is the identifier inserted on acceptance.
	Name string `yaml:"name" json:"name"`

	// DisplayName is the label shown to the user. Defaults to Name.
	DisplayName string `yaml:"display,omitempty" json:"display,omitempty"`

	// Kind is the symbol kind (function, class, method, variable, constant, ...).
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`

	// Detail is a type or signature shown next to the label.
	Detail string `yaml:"detail,omitempty" json:"detail,omitempty"`

	// File and Line locate the declaration, when known. Line is 1-based.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
	Line int    `yaml:"line,omitempty" json:"line,omitempty"`
}

// Label returns DisplayName, or Name when DisplayName is empty.
func (s Symbol) Label() string {
	if s.DisplayName == "" {
		return s.Name
	}

	return s.DisplayName
}

// Candidate converts s for ranking.
func (s Symbol) Candidate() complete.Candidate {
	return complete.Candidate{Name: s.Name, DisplayName: s.Label()}
}

// Request describes the position a source is asked about.
type Request struct {
	// Path is the file being edited. May be empty for unsaved buffers.
	Path string

	// Text is the current buffer content, which may differ from the file on disk.
	Text string

	// Offset is the cursor byte offset in Text.
	Offset int

	// Prefix is the query prefix resolved for the cursor.
	Prefix string
}

// Source supplies name-matching completion candidates.
type Source interface {
	// Name identifies the source in logs.
	Name() string

	// Candidates returns symbols that may complete the request.
	Candidates(ctx context.Context, req Request) ([]Symbol, error)
}

// Lister is implemented by sources that can enumerate every symbol they know.
type Lister interface {
	Symbols() []Symbol
}

// Watcher is implemented by sources that refresh themselves in the background.
// Watch blocks until ctx is done.
type Watcher interface {
	Watch(ctx context.Context) error
}
