package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli/v3"

	"github.com/rlch/hackcomplete"
)

var (
	colorAccent = lipgloss.Color("#3b82f6") // blue-500
	colorMuted  = lipgloss.Color("#9ca3af") // gray-400
	colorDim    = lipgloss.Color("#6b7280") // gray-500
)

// Styles holds the lipgloss styles for terminal output.
type Styles struct {
	Heading lipgloss.Style
	Label   lipgloss.Style
	Kind    lipgloss.Style
	Replace lipgloss.Style
	Dim     lipgloss.Style
}

// newStyles returns colored styles when w is a terminal and plain ones otherwise.
func newStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)

	if !isTerminal(w) {
		plain := r.NewStyle()

		return Styles{Heading: plain, Label: plain, Kind: plain, Replace: plain, Dim: plain}
	}

	return Styles{
		Heading: r.NewStyle().Bold(true).Underline(true),
		Label:   r.NewStyle().Bold(true),
		Kind:    r.NewStyle().Foreground(colorMuted),
		Replace: r.NewStyle().Foreground(colorAccent),
		Dim:     r.NewStyle().Foreground(colorDim),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// jsonResult is the --json form of a ranked result.
type jsonResult struct {
	Name              string `json:"name"`
	Display           string `json:"display"`
	ReplacementPrefix string `json:"replacement_prefix"`
	Kind              string `json:"kind,omitempty"`
	Detail            string `json:"detail,omitempty"`
	File              string `json:"file,omitempty"`
	Line              int    `json:"line,omitempty"`
}

// printResults writes results in rank order, as JSON with --json.
func printResults(cmd *cli.Command, results []hackcomplete.Result) error {
	w := cmd.Root().Writer

	if cmd.Bool("json") {
		out := make([]jsonResult, len(results))
		for i, r := range results {
			out[i] = jsonResult{
				Name:              r.Name,
				Display:           r.Label(),
				ReplacementPrefix: r.ReplacementPrefix,
				Kind:              r.Kind,
				Detail:            r.Detail,
				File:              r.File,
				Line:              r.Line,
			}
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(out)
	}

	styles := newStyles(w)

	width := 0
	for _, r := range results {
		width = max(width, lipgloss.Width(r.Label()))
	}

	for _, r := range results {
		line := styles.Label.Width(width).Render(r.Label()) +
			"  " + styles.Replace.Render(fmt.Sprintf("%q", r.ReplacementPrefix))

		if r.Kind != "" {
			line += "  " + styles.Kind.Render(r.Kind)
		}

		if r.Detail != "" {
			line += "  " + styles.Dim.Render(r.Detail)
		}

		_, err := fmt.Fprintln(w, line)
		if err != nil {
			return err
		}
	}

	return nil
}
