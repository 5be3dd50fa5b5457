package complete

import (
	"strings"
	"unicode/utf8"
)

// Reconcile picks between the located prefix and the editor's guess. The longer one wins
// when the shorter is its suffix, which is how a leading marker the editor cannot see
// (":f" versus "f") survives. Unrelated strings resolve to located.
func Reconcile(located, guess string) string {
	if len(guess) > len(located) && strings.HasSuffix(guess, located) {
		return guess
	}

	return located
}

// Filter returns the candidates whose name contains prefix, ignoring case.
func Filter(candidates []Candidate, prefix string) []Candidate {
	needle := strings.ToLower(prefix)
	kept := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			kept = append(kept, c)
		}
	}

	return kept
}

// Annotate returns a copy of c whose ReplacementPrefix is the text this candidate replaces
// when accepted at offset. It is the longest suffix of text[:offset] that matches a prefix
// of c.Name ignoring case, reconciled with the query prefix.
func Annotate(c Candidate, prefix, text string, offset int) Candidate {
	offset = clampOffset(text, offset)
	c.ReplacementPrefix = Reconcile(resultPrefix(text, offset, c.Name), prefix)

	return c
}

// resultPrefix returns the longest suffix of text[:offset] equal, ignoring case, to a
// prefix of name. Cuts only fall on rune boundaries.
func resultPrefix(text string, offset int, name string) string {
	for n := min(len(name), offset); n > 0; n-- {
		head := text[offset-n : offset]
		if !utf8.RuneStart(head[0]) || (n < len(name) && !utf8.RuneStart(name[n])) {
			continue
		}

		if strings.EqualFold(head, name[:n]) {
			return head
		}
	}

	return ""
}
