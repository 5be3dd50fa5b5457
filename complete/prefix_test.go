package complete_test

import (
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/rlch/hackcomplete/complete"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	input := candidates("getFoo", "GETBAR", "doGet", "set", "", ":get")

	tests := []struct {
		prefix string
		want   []string
	}{
		{prefix: "get", want: []string{"getFoo", "GETBAR", "doGet", ":get"}},
		{prefix: "GeT", want: []string{"getFoo", "GETBAR", "doGet", ":get"}},
		{prefix: ":g", want: []string{":get"}},
		{prefix: "", want: []string{"getFoo", "GETBAR", "doGet", "set", "", ":get"}},
		{prefix: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		got := complete.Filter(input, tt.prefix)
		if diff := cmp.Diff(tt.want, names(got)); diff != "" {
			t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tt.prefix, diff)
		}
	}

	assert.Len(t, input, 6, "Filter must not modify its input")
}

func TestAnnotate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate string
		prefix    string
		text      string
		want      string
	}{
		{name: "prefix match", candidate: "getAzzz", prefix: "getA", text: "x = getA", want: "getA"},
		{name: "keeps buffer case", candidate: "getAzzz", prefix: "geta", text: "x = geta", want: "geta"},
		{name: "substring match uses query prefix", candidate: "doOrGetACup", prefix: "getA", text: "x = getA", want: "getA"},
		{name: "compound name extends prefix", candidate: "Foo::bar", prefix: "ba", text: "Foo::ba", want: "Foo::ba"},
		{name: "marker kept for plain name", candidate: "foo", prefix: ":f", text: "return :f", want: ":f"},
		{name: "marker name", candidate: ":foo", prefix: "f", text: "return :f", want: ":f"},
		{name: "variable", candidate: "$foo", prefix: "$f", text: "echo $f", want: "$f"},
		{name: "lone sigil", candidate: "$foo", prefix: "", text: "echo $", want: "$"},
		{name: "empty name", candidate: "", prefix: "f", text: "f", want: "f"},
		{name: "non-ascii", candidate: "héllo", prefix: "hé", text: "hé", want: "hé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := complete.Candidate{Name: tt.candidate, DisplayName: tt.candidate}
			got := complete.Annotate(in, tt.prefix, tt.text, len(tt.text))

			assert.Equal(t, tt.want, got.ReplacementPrefix)
			assert.Equal(t, tt.candidate, got.Name)
			assert.Empty(t, in.ReplacementPrefix, "Annotate must return a copy")
		})
	}
}

func TestAnnotate_ClampsOffset(t *testing.T) {
	t.Parallel()

	c := complete.Candidate{Name: "foo"}

	assert.Equal(t, "fo", complete.Annotate(c, "fo", "fo", 99).ReplacementPrefix)
	assert.Empty(t, complete.Annotate(c, "", "fo", -1).ReplacementPrefix)

	// An offset inside "é" snaps back to the start of the rune.
	got := complete.Annotate(complete.Candidate{Name: "aé"}, "", "xaé", 3).ReplacementPrefix
	assert.Equal(t, "a", got)
	assert.True(t, utf8.ValidString(got))
}
