package complete

import (
	"cmp"
	"slices"
	"strings"
)

// Visibility separates public symbols from ones marked internal by a leading underscore.
type Visibility int

const (
	// Public symbols sort first.
	Public Visibility = iota
	// Private symbols start with '_' after any leading marker.
	Private
)

// Position records where the prefix matched the name.
type Position int

const (
	// PrefixMatch means the name starts with the prefix.
	PrefixMatch Position = iota
	// SubstringMatch means the prefix occurs later in the name, or not at all.
	SubstringMatch
)

// Case records whether the match needed case folding.
type Case int

const (
	// ExactCase means the match holds case-sensitively.
	ExactCase Case = iota
	// InsensitiveCase means the match only holds ignoring case.
	InsensitiveCase
)

// Match is the lexical classification of a name against a prefix.
type Match struct {
	Visibility Visibility
	Position   Position
	Case       Case
}

// Tier orders matches from best (0) to worst (3): prefix/exact, prefix/insensitive,
// substring/exact, substring/insensitive.
func (m Match) Tier() int {
	return int(m.Position)*2 + int(m.Case)
}

// Classify matches name against prefix.
func Classify(name, prefix string) Match {
	m := Match{
		Visibility: visibility(name),
		Position:   SubstringMatch,
		Case:       InsensitiveCase,
	}

	if name == "" {
		return m
	}

	lowerName, lowerPrefix := strings.ToLower(name), strings.ToLower(prefix)

	switch {
	case strings.HasPrefix(name, prefix):
		m.Position, m.Case = PrefixMatch, ExactCase
	case strings.HasPrefix(lowerName, lowerPrefix):
		m.Position = PrefixMatch
	case strings.Contains(name, prefix):
		m.Case = ExactCase
	}

	return m
}

func visibility(name string) Visibility {
	trimmed := strings.TrimLeftFunc(name, func(r rune) bool {
		return r < 0x80 && !isIdentByte(byte(r))
	})
	if strings.HasPrefix(trimmed, "_") {
		return Private
	}

	return Public
}

// Compare orders a before b (-1), after b (1) or as equal (0) for the query prefix.
// Keys in order: visibility, match tier, name, longer replacement prefix. Display name and
// replacement prefix text break any remaining tie, so only identical candidates compare
// equal.
//
// Each candidate is classified against its own replacement prefix when that extends the
// query prefix, so ":foo" annotated with ":f" is a prefix match for query "f".
func Compare(a, b Candidate, prefix string) int {
	ma := Classify(a.Name, Reconcile(a.ReplacementPrefix, prefix))
	mb := Classify(b.Name, Reconcile(b.ReplacementPrefix, prefix))

	return cmp.Or(
		cmp.Compare(ma.Visibility, mb.Visibility),
		cmp.Compare(ma.Tier(), mb.Tier()),
		strings.Compare(a.Name, b.Name),
		cmp.Compare(len(b.ReplacementPrefix), len(a.ReplacementPrefix)),
		strings.Compare(a.DisplayName, b.DisplayName),
		strings.Compare(a.ReplacementPrefix, b.ReplacementPrefix),
	)
}

// Ranker orders candidates for a fixed query prefix.
type Ranker struct {
	Prefix string
}

// Compare orders a and b for r.Prefix. See Compare.
func (r Ranker) Compare(a, b Candidate) int {
	return Compare(a, b, r.Prefix)
}

// Sort orders candidates in place, best first.
func (r Ranker) Sort(candidates []Candidate) {
	slices.SortStableFunc(candidates, r.Compare)
}
