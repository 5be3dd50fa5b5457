package hackcomplete

import (
	"slices"

	"github.com/rlch/hackcomplete/complete"
)

// Result is a ranked symbol together with the text it replaces when accepted.
type Result struct {
	Symbol

	// ReplacementPrefix is the text before the cursor that accepting replaces.
	ReplacementPrefix string
}

// Catalog indexes symbols by the candidate they rank as. Symbols sharing a name and label
// collapse to the first one.
type Catalog struct {
	candidates []complete.Candidate
	symbols    map[complete.Candidate]Symbol
}

// NewCatalog builds a catalog of symbols, keeping their order.
func NewCatalog(symbols []Symbol) *Catalog {
	c := &Catalog{
		candidates: make([]complete.Candidate, 0, len(symbols)),
		symbols:    make(map[complete.Candidate]Symbol, len(symbols)),
	}

	for _, sym := range symbols {
		key := sym.Candidate()
		if _, dup := c.symbols[key]; dup {
			continue
		}

		c.symbols[key] = sym
		c.candidates = append(c.candidates, key)
	}

	return c
}

// Candidates returns one candidate per distinct symbol, in catalog order.
func (c *Catalog) Candidates() []complete.Candidate {
	return slices.Clone(c.candidates)
}

// Symbol returns the symbol a candidate was built from. The candidate's
// ReplacementPrefix is ignored.
func (c *Catalog) Symbol(cand complete.Candidate) (Symbol, bool) {
	cand.ReplacementPrefix = ""
	sym, ok := c.symbols[cand]

	return sym, ok
}

// Resolve filters and ranks symbols for the query. Symbols sharing a name and label are
// collapsed to the first one.
func Resolve(q complete.Query, symbols []Symbol) []Result {
	catalog := NewCatalog(symbols)
	ranked := complete.Resolve(q, catalog.Candidates())
	results := make([]Result, len(ranked))

	for i, c := range ranked {
		sym, _ := catalog.Symbol(c)

		results[i] = Result{
			Symbol:            sym,
			ReplacementPrefix: c.ReplacementPrefix,
		}
	}

	return results
}
