package complete_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/rlch/hackcomplete/complete"
)

func names(candidates []complete.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Name
	}

	return out
}

func candidates(ns ...string) []complete.Candidate {
	out := make([]complete.Candidate, len(ns))
	for i, n := range ns {
		out[i] = complete.Candidate{Name: n, DisplayName: n}
	}

	return out
}

func TestRanker_Sort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		input  []string
		want   []string
	}{
		{
			name:   "case sensitive prefix before case insensitive prefix",
			prefix: "getA",
			input:  []string{"GetAaa", "getAzzz"},
			want:   []string{"getAzzz", "GetAaa"},
		},
		{
			name:   "prefix before substring",
			prefix: "getA",
			input:  []string{"aa_getaaa", "getAzzz"},
			want:   []string{"getAzzz", "aa_getaaa"},
		},
		{
			name:   "exact substring before insensitive substring",
			prefix: "getA",
			input:  []string{"aa_getaaa", "zz_getAaa"},
			want:   []string{"zz_getAaa", "aa_getaaa"},
		},
		{
			name:   "alphabetical within a tier",
			prefix: "getA",
			input:  []string{"zz_getAaa", "aa_getAaa"},
			want:   []string{"aa_getAaa", "zz_getAaa"},
		},
		{
			name:   "private below public despite better tier",
			prefix: "getA",
			input:  []string{"_aa_getAaa", "zz_getaaaa"},
			want:   []string{"zz_getaaaa", "_aa_getAaa"},
		},
		{
			name:   "visibility then tier then name",
			prefix: "getA",
			input:  []string{"_getAbc", "_getAab", "getAppend", "getAddendum", "doOrGetACup", "_doOrGetACup"},
			want:   []string{"getAddendum", "getAppend", "doOrGetACup", "_getAab", "_getAbc", "_doOrGetACup"},
		},
		{
			name:   "alphabetical is case sensitive",
			prefix: "",
			input:  []string{"b", "B", "a", "A"},
			want:   []string{"A", "B", "a", "b"},
		},
		{
			name:   "empty name sorts as worst public tier",
			prefix: "x",
			input:  []string{"", "ax", "x"},
			want:   []string{"x", "ax", ""},
		},
		{
			name:   "marked private names",
			prefix: "f",
			input:  []string{"$_foo", "$foo", ":_foo", ":foo"},
			want:   []string{"$foo", ":foo", "$_foo", ":_foo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := candidates(tt.input...)
			complete.Ranker{Prefix: tt.prefix}.Sort(got)

			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRanker_PrefersLongerReplacementPrefix(t *testing.T) {
	t.Parallel()

	marked := complete.Candidate{Name: ":foo", DisplayName: ":foo", ReplacementPrefix: ":f"}
	plain := complete.Candidate{Name: "foo", DisplayName: "foo", ReplacementPrefix: "f"}

	got := []complete.Candidate{plain, marked}
	complete.Ranker{Prefix: "f"}.Sort(got)

	assert.Equal(t, []complete.Candidate{marked, plain}, got)
}

func TestCompare_SameNameDifferentReplacement(t *testing.T) {
	t.Parallel()

	short := complete.Candidate{Name: "foo", ReplacementPrefix: "f"}
	long := complete.Candidate{Name: "foo", ReplacementPrefix: "fo"}

	assert.Equal(t, -1, complete.Compare(long, short, "f"))
	assert.Equal(t, 1, complete.Compare(short, long, "f"))
	assert.Equal(t, 0, complete.Compare(short, short, "f"))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		want   complete.Match
		tier   int
	}{
		{name: "getAzzz", prefix: "getA", want: match(complete.Public, complete.PrefixMatch, complete.ExactCase), tier: 0},
		{name: "GetAaa", prefix: "getA", want: match(complete.Public, complete.PrefixMatch, complete.InsensitiveCase), tier: 1},
		{name: "zz_getAaa", prefix: "getA", want: match(complete.Public, complete.SubstringMatch, complete.ExactCase), tier: 2},
		{name: "aa_getaaa", prefix: "getA", want: match(complete.Public, complete.SubstringMatch, complete.InsensitiveCase), tier: 3},
		{name: "_getAab", prefix: "getA", want: match(complete.Private, complete.SubstringMatch, complete.ExactCase), tier: 2},
		{name: ":_x", prefix: ":_", want: match(complete.Private, complete.PrefixMatch, complete.ExactCase), tier: 0},
		{name: "nomatch", prefix: "zz", want: match(complete.Public, complete.SubstringMatch, complete.InsensitiveCase), tier: 3},
		{name: "", prefix: "", want: match(complete.Public, complete.SubstringMatch, complete.InsensitiveCase), tier: 3},
		{name: "anything", prefix: "", want: match(complete.Public, complete.PrefixMatch, complete.ExactCase), tier: 0},
		{name: "foo__", prefix: "f", want: match(complete.Public, complete.PrefixMatch, complete.ExactCase), tier: 0},
	}

	for _, tt := range tests {
		got := complete.Classify(tt.name, tt.prefix)
		assert.Equal(t, tt.want, got, "Classify(%q, %q)", tt.name, tt.prefix)
		assert.Equal(t, tt.tier, got.Tier(), "Classify(%q, %q).Tier()", tt.name, tt.prefix)
	}
}

// rankingPool covers every visibility and tier combination for prefix "getA", plus
// duplicates differing only in replacement prefix or display name.
var rankingPool = []complete.Candidate{
	{Name: "getAzzz"},
	{Name: "GetAaa"},
	{Name: "zz_getAaa"},
	{Name: "aa_getaaa"},
	{Name: "_aa_getAaa"},
	{Name: "_getAab"},
	{Name: "_GETA"},
	{Name: ":getAx", ReplacementPrefix: ":getA"},
	{Name: "getAzzz", ReplacementPrefix: "getA"},
	{Name: "getAzzz", DisplayName: "getAzzz(): void"},
	{Name: ""},
	{Name: "unrelated"},
}

func match(v complete.Visibility, p complete.Position, c complete.Case) complete.Match {
	return complete.Match{Visibility: v, Position: p, Case: c}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestCompare_TotalOrder(t *testing.T) {
	t.Parallel()

	r := complete.Ranker{Prefix: "getA"}

	for _, a := range rankingPool {
		assert.Zero(t, r.Compare(a, a), "reflexive for %+v", a)

		for _, b := range rankingPool {
			ab, ba := r.Compare(a, b), r.Compare(b, a)
			assert.Equal(t, -sign(ba), sign(ab), "antisymmetric for %+v, %+v", a, b)

			if ab == 0 {
				assert.Equal(t, a, b, "only identical candidates compare equal")
			}

			for _, c := range rankingPool {
				if ab <= 0 && r.Compare(b, c) <= 0 {
					assert.LessOrEqual(t, r.Compare(a, c), 0, "transitive for %+v, %+v, %+v", a, b, c)
				}
			}
		}
	}
}

func TestCompare_VisibilityDominates(t *testing.T) {
	t.Parallel()

	for _, p := range rankingPool {
		if complete.Classify(p.Name, "getA").Visibility != complete.Public {
			continue
		}

		for _, q := range rankingPool {
			if complete.Classify(q.Name, "getA").Visibility != complete.Private {
				continue
			}

			assert.Negative(t, complete.Compare(p, q, "getA"), "%q before %q", p.Name, q.Name)
		}
	}
}

func TestRanker_SortIndependentOfInputOrder(t *testing.T) {
	t.Parallel()

	want := slices.Clone(rankingPool)
	complete.Ranker{Prefix: "getA"}.Sort(want)

	reversed := slices.Clone(rankingPool)
	slices.Reverse(reversed)
	complete.Ranker{Prefix: "getA"}.Sort(reversed)

	if diff := cmp.Diff(want, reversed); diff != "" {
		t.Errorf("Sort() depends on input order (-want +got):\n%s", diff)
	}
}
