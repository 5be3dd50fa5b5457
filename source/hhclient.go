// Package source implements the completion sources selectable in .hackcomplete.yaml.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/rlch/hackcomplete"
)

// AutocompleteMarker is spliced into the buffer at the cursor before it is sent to
// hh_client, which completes at the marker.
const AutocompleteMarker = "AUTO332"

// ErrHHClientFailed is returned when hh_client exits unsuccessfully.
var ErrHHClientFailed = errors.New("hh_client failed")

func init() {
	hackcomplete.RegisterSource("hh_client", func(cfg hackcomplete.SourceConfig, env hackcomplete.SourceEnv) (hackcomplete.Source, error) {
		path := cfg.Path
		if path == "" {
			path = "hh_client"
		}

		return NewHHClient(path, env.Root, cfg.Timeout, env.Logger), nil
	})
}

// HHClient asks the Hack typechecker for completions by running hh_client.
type HHClient struct {
	path    string
	root    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewHHClient creates an hh_client source. An empty root is resolved per request from
// the file path. A zero timeout means no limit beyond the request context.
func NewHHClient(path, root string, timeout time.Duration, logger *zap.Logger) *HHClient {
	return &HHClient{
		path:    path,
		root:    root,
		timeout: timeout,
		logger:  logger,
	}
}

// Name implements hackcomplete.Source.
func (c *HHClient) Name() string {
	return "hh_client"
}

// Candidates implements hackcomplete.Source.
func (c *HHClient) Candidates(ctx context.Context, req hackcomplete.Request) ([]hackcomplete.Symbol, error) {
	root, err := c.projectRoot(req.Path)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	offset := max(0, min(req.Offset, len(req.Text)))
	input := req.Text[:offset] + AutocompleteMarker + req.Text[offset:]

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.path, "--auto-complete", "--json", root) //nolint:gosec // binary comes from user config
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()

	err = cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrHHClientFailed, ctxErr)
		}

		return nil, fmt.Errorf("%w: %w: %s", ErrHHClientFailed, err, strings.TrimSpace(stderr.String()))
	}

	symbols, err := parseAutocomplete(stdout.Bytes())
	if err != nil {
		return nil, err
	}

	c.logger.Debug("hh_client completions",
		zap.String("root", root),
		zap.Int("count", len(symbols)),
		zap.Duration("elapsed", time.Since(start)))

	return symbols, nil
}

func (c *HHClient) projectRoot(path string) (string, error) {
	if c.root != "" {
		return c.root, nil
	}

	if path == "" {
		return "", hackcomplete.ErrProjectNotFound
	}

	return hackcomplete.FindProjectRoot(filepath.Dir(path))
}

// hhCompletion is one entry of `hh_client --auto-complete --json` output.
type hhCompletion struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	FuncDetails *hhFuncDetails `json:"func_details"`
}

type hhFuncDetails struct {
	ReturnType string    `json:"return_type"`
	Params     []hhParam `json:"params"`
}

type hhParam struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Variadic bool   `json:"variadic"`
}

// parseAutocomplete accepts both the bare array hh_client prints and the newer
// {"completions": [...]} object.
func parseAutocomplete(data []byte) ([]hackcomplete.Symbol, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var entries []hhCompletion

	if data[0] == '[' {
		err := json.Unmarshal(data, &entries)
		if err != nil {
			return nil, fmt.Errorf("decoding hh_client output: %w", err)
		}
	} else {
		var wrapped struct {
			Completions []hhCompletion `json:"completions"`
		}

		err := json.Unmarshal(data, &wrapped)
		if err != nil {
			return nil, fmt.Errorf("decoding hh_client output: %w", err)
		}

		entries = wrapped.Completions
	}

	symbols := make([]hackcomplete.Symbol, 0, len(entries))
	for _, e := range entries {
		symbols = append(symbols, e.symbol())
	}

	return symbols, nil
}

func (e hhCompletion) symbol() hackcomplete.Symbol {
	sym := hackcomplete.Symbol{
		Name:   e.Name,
		Detail: e.Type,
	}

	switch {
	case e.FuncDetails != nil:
		sym.Kind = "function"
		sym.DisplayName = e.Name + "(" + e.FuncDetails.signature() + ")"
		sym.Detail = e.FuncDetails.ReturnType
	case strings.HasPrefix(e.Name, "$"):
		sym.Kind = "variable"
	case strings.HasPrefix(e.Name, ":"):
		sym.Kind = "class"
	}

	return sym
}

func (d *hhFuncDetails) signature() string {
	params := make([]string, len(d.Params))

	for i, p := range d.Params {
		name := p.Name
		if p.Variadic {
			name = "..." + name
		}

		params[i] = strings.TrimSpace(p.Type + " " + name)
	}

	return strings.Join(params, ", ")
}
