package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/hackcomplete"
	"github.com/rlch/hackcomplete/complete"
	"github.com/rlch/hackcomplete/source"
)

var errNoFile = errors.New("no file given")

func completeCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Rank completions from the configured sources at a cursor position",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			offsetFlag(),
			prefixFlag(),
			&cli.BoolFlag{
				Name:  "stdin",
				Usage: "read the buffer from stdin instead of the file",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (default: searched upward from the file)",
			},
			jsonFlag(),
		},
		Action: runComplete,
	}
}

func runComplete(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return errNoFile
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	text, err := readBuffer(cmd, abs)
	if err != nil {
		return err
	}

	dir := filepath.Dir(abs)

	cfg, err := loadConfig(cmd.String("config"), dir)
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg.LogLevel)

	defer func() {
		_ = logger.Sync()
	}()

	src, err := source.FromConfig(cfg, dir, logger)
	if err != nil {
		return err
	}

	q := complete.Query{
		Text:        text,
		Offset:      cursor(cmd, text),
		PrefixGuess: cmd.String("prefix"),
	}

	symbols, err := src.Candidates(ctx, hackcomplete.Request{
		Path:   abs,
		Text:   text,
		Offset: q.Offset,
		Prefix: q.Prefix(),
	})
	if err != nil {
		if len(symbols) == 0 {
			return err
		}

		logger.Warn("Some sources failed", zap.Error(err))
	}

	return printResults(cmd, hackcomplete.Resolve(q, symbols))
}

func readBuffer(cmd *cli.Command, path string) (string, error) {
	if cmd.Bool("stdin") {
		data, err := io.ReadAll(cmd.Root().Reader)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(path) //#nosec G304 -- paths come from user args
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// loadConfig reads the config named by --config, or the one found upward from dir.
// Without either the defaults apply.
func loadConfig(explicit, dir string) (*hackcomplete.Config, error) {
	if explicit != "" {
		return hackcomplete.LoadConfigFile(explicit)
	}

	cfg, err := hackcomplete.LoadConfig(dir)
	if errors.Is(err, hackcomplete.ErrConfigNotFound) {
		return hackcomplete.DefaultConfig(), nil
	}

	return cfg, err
}

// cursor returns the --offset flag, or the end of text when it is unset or negative.
func cursor(cmd *cli.Command, text string) int {
	offset := int(cmd.Int("offset"))
	if offset < 0 || offset > len(text) {
		return len(text)
	}

	return offset
}

func offsetFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "offset",
		Aliases: []string{"o"},
		Usage:   "cursor byte offset (default: end of buffer)",
		Value:   -1,
	}
}

func prefixFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "prefix",
		Aliases: []string{"p"},
		Usage:   "prefix guessed by the editor",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "print results as JSON",
	}
}
