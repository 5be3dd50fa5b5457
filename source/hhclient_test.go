//nolint:testpackage
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rlch/hackcomplete"
)

// fakeHHClientEnv makes the test binary behave as hh_client.
const fakeHHClientEnv = "HACKCOMPLETE_FAKE_HH_CLIENT"

func TestMain(m *testing.M) {
	if mode := os.Getenv(fakeHHClientEnv); mode != "" {
		os.Exit(fakeHHClient(mode))
	}

	os.Exit(m.Run())
}

func fakeHHClient(mode string) int {
	if len(os.Args) < 4 || os.Args[1] != "--auto-complete" || os.Args[2] != "--json" {
		fmt.Fprintf(os.Stderr, "unexpected args %q\n", os.Args[1:])
		return 1
	}

	input, _ := io.ReadAll(os.Stdin)

	switch mode {
	case "array":
		fmt.Print(`[
  {"name": "getFoo", "type": "(function(int $x): string)",
   "func_details": {"return_type": "string", "params": [{"name": "$x", "type": "int", "variadic": false}]}},
  {"name": "$foo", "type": "int"}
]`)
	case "echo":
		out, _ := json.Marshal(map[string]any{
			"completions": []map[string]string{
				{"name": string(input), "type": os.Args[3]},
			},
		})
		_, _ = os.Stdout.Write(out)
	case "fail":
		fmt.Fprintln(os.Stderr, "hh_server is not running")
		return 2
	case "sleep":
		time.Sleep(10 * time.Second)
	}

	return 0
}

func fakeHHClientPath(t *testing.T, mode string) string {
	t.Helper()
	t.Setenv(fakeHHClientEnv, mode)

	exe, err := os.Executable()
	require.NoError(t, err)

	return exe
}

func TestParseAutocomplete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []hackcomplete.Symbol
	}{
		{
			name:  "empty output",
			input: "  \n",
			want:  nil,
		},
		{
			name: "array form",
			input: `[{"name": "getFoo", "type": "(function(): int)",
				"func_details": {"return_type": "int", "params": []}},
				{"name": "$bar", "type": "string"},
				{"name": ":ui:button", "type": ":ui:button"},
				{"name": "Foo::BAR", "type": "int"}]`,
			want: []hackcomplete.Symbol{
				{Name: "getFoo", DisplayName: "getFoo()", Kind: "function", Detail: "int"},
				{Name: "$bar", Kind: "variable", Detail: "string"},
				{Name: ":ui:button", Kind: "class", Detail: ":ui:button"},
				{Name: "Foo::BAR", Detail: "int"},
			},
		},
		{
			name: "object form",
			input: `{"completions": [{"name": "vec_map", "type": "",
				"func_details": {"return_type": "vec<Tv2>", "params": [
					{"name": "$traversable", "type": "Traversable<Tv1>", "variadic": false},
					{"name": "$rest", "type": "", "variadic": true}]}}],
				"char_start": 3, "char_end": 6}`,
			want: []hackcomplete.Symbol{
				{
					Name:        "vec_map",
					DisplayName: "vec_map(Traversable<Tv1> $traversable, ...$rest)",
					Kind:        "function",
					Detail:      "vec<Tv2>",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseAutocomplete([]byte(tt.input))
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseAutocomplete() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAutocomplete_Invalid(t *testing.T) {
	t.Parallel()

	_, err := parseAutocomplete([]byte("[{"))
	assert.ErrorContains(t, err, "decoding hh_client output")

	_, err = parseAutocomplete([]byte("hh_server: not running"))
	assert.Error(t, err)
}

func TestHHClient_Candidates(t *testing.T) {
	client := NewHHClient(fakeHHClientPath(t, "array"), "/project", 5*time.Second, zap.NewNop())

	got, err := client.Candidates(context.Background(), hackcomplete.Request{Text: "<?hh\nget", Offset: 8, Prefix: "get"})
	require.NoError(t, err)

	want := []hackcomplete.Symbol{
		{Name: "getFoo", DisplayName: "getFoo(int $x)", Kind: "function", Detail: "string"},
		{Name: "$foo", Kind: "variable", Detail: "int"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Candidates() mismatch (-want +got):\n%s", diff)
	}
}

func TestHHClient_SplicesMarkerAtCursor(t *testing.T) {
	client := NewHHClient(fakeHHClientPath(t, "echo"), "/project", 5*time.Second, zap.NewNop())

	got, err := client.Candidates(context.Background(), hackcomplete.Request{Text: "$x = ge;", Offset: 7})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "$x = ge"+AutocompleteMarker+";", got[0].Name)
	assert.Equal(t, "/project", got[0].Detail, "project root passed as last argument")
}

func TestHHClient_ResolvesRootFromPath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hhconfig"), nil, 0o600))

	client := NewHHClient(fakeHHClientPath(t, "echo"), "", 5*time.Second, zap.NewNop())

	got, err := client.Candidates(context.Background(), hackcomplete.Request{
		Path: filepath.Join(root, "src", "a.php"),
		Text: "x",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, root, got[0].Detail)

	_, err = client.Candidates(context.Background(), hackcomplete.Request{Text: "x"})
	assert.ErrorIs(t, err, hackcomplete.ErrProjectNotFound)
}

func TestHHClient_Failure(t *testing.T) {
	client := NewHHClient(fakeHHClientPath(t, "fail"), "/project", 5*time.Second, zap.NewNop())

	_, err := client.Candidates(context.Background(), hackcomplete.Request{Text: "x", Offset: 1})
	require.ErrorIs(t, err, ErrHHClientFailed)
	assert.ErrorContains(t, err, "hh_server is not running")
}

func TestHHClient_Timeout(t *testing.T) {
	client := NewHHClient(fakeHHClientPath(t, "sleep"), "/project", 100*time.Millisecond, zap.NewNop())

	_, err := client.Candidates(context.Background(), hackcomplete.Request{Text: "x", Offset: 1})
	require.ErrorIs(t, err, ErrHHClientFailed)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
