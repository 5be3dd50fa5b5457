package source

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rlch/hackcomplete"
)

// Multi fans a request out to several sources and merges their answers.
type Multi struct {
	sources []hackcomplete.Source
	logger  *zap.Logger
}

// NewMulti combines sources. Results are merged in the order given.
func NewMulti(logger *zap.Logger, sources ...hackcomplete.Source) *Multi {
	return &Multi{
		sources: sources,
		logger:  logger,
	}
}

// FromConfig builds the sources enabled in cfg. workspace is the directory the editor
// opened; it anchors relative paths when cfg has no file and locates the project root.
func FromConfig(cfg *hackcomplete.Config, workspace string, logger *zap.Logger) (*Multi, error) {
	enabled := cfg.Enabled()
	if len(enabled) == 0 {
		return nil, hackcomplete.ErrNoSources
	}

	root, err := hackcomplete.FindProjectRoot(workspace)
	if err != nil {
		logger.Debug("No project root, hh_client will resolve it per file",
			zap.String("workspace", workspace), zap.Error(err))

		root = ""
	}

	env := hackcomplete.SourceEnv{
		ConfigDir: cfg.Dir(workspace),
		Root:      root,
		Logger:    logger,
	}

	sources := make([]hackcomplete.Source, 0, len(enabled))

	for _, sc := range enabled {
		src, err := hackcomplete.NewSource(sc, env)
		if err != nil {
			return nil, err
		}

		sources = append(sources, src)
	}

	return NewMulti(logger, sources...), nil
}

// Name implements hackcomplete.Source.
func (m *Multi) Name() string {
	return "multi"
}

// Sources returns the combined sources.
func (m *Multi) Sources() []hackcomplete.Source {
	return m.sources
}

// Candidates implements hackcomplete.Source. Sources are queried concurrently. A failing
// source does not hide the others: the merged results are returned together with the
// joined errors of the sources that failed.
func (m *Multi) Candidates(ctx context.Context, req hackcomplete.Request) ([]hackcomplete.Symbol, error) {
	results := make([][]hackcomplete.Symbol, len(m.sources))
	errs := make([]error, len(m.sources))

	var g errgroup.Group

	for i, src := range m.sources {
		g.Go(func() error {
			symbols, err := src.Candidates(ctx, req)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", src.Name(), err)
			}

			results[i] = symbols

			return nil
		})
	}

	_ = g.Wait()

	return merge(results...), errors.Join(errs...)
}

// Symbols implements hackcomplete.Lister over the sources that can list.
func (m *Multi) Symbols() []hackcomplete.Symbol {
	var lists [][]hackcomplete.Symbol

	for _, src := range m.sources {
		if l, ok := src.(hackcomplete.Lister); ok {
			lists = append(lists, l.Symbols())
		}
	}

	return merge(lists...)
}

// Watch implements hackcomplete.Watcher. It runs every watching source until ctx is
// done or one of them fails.
func (m *Multi) Watch(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, src := range m.sources {
		w, ok := src.(hackcomplete.Watcher)
		if !ok {
			continue
		}

		g.Go(func() error {
			m.logger.Debug("Watching source", zap.String("source", src.Name()))

			return w.Watch(gctx)
		})
	}

	return g.Wait()
}

type symbolKey struct {
	name, label string
}

// merge concatenates lists, keeping the first of any symbols sharing name and label.
func merge(lists ...[]hackcomplete.Symbol) []hackcomplete.Symbol {
	seen := make(map[symbolKey]bool)

	var merged []hackcomplete.Symbol

	for _, list := range lists {
		for _, sym := range list {
			key := symbolKey{sym.Name, sym.Label()}
			if seen[key] {
				continue
			}

			seen[key] = true
			merged = append(merged, sym)
		}
	}

	return merged
}
