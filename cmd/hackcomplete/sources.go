package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rlch/hackcomplete"
)

func sourcesCommand() *cli.Command {
	return &cli.Command{
		Name:      "sources",
		Usage:     "List the available source kinds and the ones a project enables",
		ArgsUsage: "[dir]",
		Action:    runSources,
	}
}

func runSources(_ context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		dir = wd
	}

	cfg, err := loadConfig("", dir)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	styles := newStyles(w)

	_, _ = fmt.Fprintln(w, styles.Heading.Render("Available"))

	for _, kind := range hackcomplete.RegisteredSources() {
		_, _ = fmt.Fprintf(w, "  %s\n", kind)
	}

	heading := "Enabled (defaults)"
	if cfg.Path() != "" {
		heading = "Enabled (" + cfg.Path() + ")"
	}

	_, _ = fmt.Fprintln(w, styles.Heading.Render(heading))

	for _, sc := range cfg.Enabled() {
		line := "  " + sc.Kind
		if sc.Path != "" {
			line += " " + styles.Dim.Render(sc.Path)
		}

		_, _ = fmt.Fprintln(w, line)
	}

	return nil
}
