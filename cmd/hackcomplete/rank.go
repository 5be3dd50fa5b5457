package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rlch/hackcomplete"
	"github.com/rlch/hackcomplete/complete"
)

var errNoText = errors.New("--text is required")

func rankCommand() *cli.Command {
	return &cli.Command{
		Name:  "rank",
		Usage: "Rank candidates read from stdin, one per line as name[<TAB>display]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "text",
				Aliases: []string{"t"},
				Usage:   "buffer text the cursor is in",
			},
			offsetFlag(),
			prefixFlag(),
			jsonFlag(),
		},
		Action: runRank,
	}
}

func runRank(_ context.Context, cmd *cli.Command) error {
	if !cmd.IsSet("text") {
		return errNoText
	}

	text := cmd.String("text")

	symbols, err := readSymbols(cmd)
	if err != nil {
		return err
	}

	q := complete.Query{
		Text:        text,
		Offset:      cursor(cmd, text),
		PrefixGuess: cmd.String("prefix"),
	}

	return printResults(cmd, hackcomplete.Resolve(q, symbols))
}

func readSymbols(cmd *cli.Command) ([]hackcomplete.Symbol, error) {
	var symbols []hackcomplete.Symbol

	scanner := bufio.NewScanner(cmd.Root().Reader)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		name, display, _ := strings.Cut(line, "\t")
		symbols = append(symbols, hackcomplete.Symbol{Name: name, DisplayName: display})
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("reading candidates: %w", err)
	}

	return symbols, nil
}
