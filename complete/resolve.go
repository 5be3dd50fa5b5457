package complete

// Resolve filters, annotates and ranks raw for q. The result is a new slice, best candidate
// first, and is the same for the same inputs regardless of the order of raw.
func Resolve(q Query, raw []Candidate) []Candidate {
	q = q.normalize()
	prefix := q.Prefix()

	kept := Filter(raw, prefix)
	for i, c := range kept {
		kept[i] = Annotate(c, prefix, q.Text, q.Offset)
	}

	Ranker{Prefix: prefix}.Sort(kept)

	return kept
}
