// Package complete resolves the replacement prefix of a completion request and ranks the
// candidates a symbol source returned for it.
//
// All functions are pure: they read their arguments, never retain them, and never fail.
// Offsets are byte offsets into the buffer text.
package complete

import "unicode/utf8"

// Candidate is a single completion suggestion.
type Candidate struct {
	// Name is the identifier matched against the prefix (e.g. "getFoo", ":ui:button",
	// "Foo::bar").
	Name string

	// DisplayName is what the editor shows. It does not affect ranking.
	DisplayName string

	// ReplacementPrefix is the text before the cursor that accepting this candidate
	// overwrites. Set by Annotate.
	ReplacementPrefix string
}

// Query is the editor state a completion request is resolved against.
type Query struct {
	// Text is the full buffer content.
	Text string

	// Offset is the cursor position in Text. Out of range values are clamped.
	Offset int

	// PrefixGuess is the prefix the editor's own word heuristic produced. May be empty.
	PrefixGuess string
}

// normalize returns q with Offset clamped into Text.
func (q Query) normalize() Query {
	q.Offset = clampOffset(q.Text, q.Offset)

	return q
}

// Prefix returns the final query prefix: the located prefix reconciled with PrefixGuess.
// A guess that is not a literal suffix of the text before the cursor is ignored.
func (q Query) Prefix() string {
	q = q.normalize()
	before := q.Text[:q.Offset]

	guess := q.PrefixGuess
	if len(guess) > len(before) || before[len(before)-len(guess):] != guess {
		guess = ""
	}

	return Reconcile(Locate(q.Text, q.Offset), guess)
}

// clampOffset moves offset into text and back onto the start of the rune it falls in.
func clampOffset(text string, offset int) int {
	offset = max(0, min(offset, len(text)))
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}

	return offset
}
