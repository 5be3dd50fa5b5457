package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rlch/hackcomplete"
)

func init() {
	hackcomplete.RegisterSource("index", func(cfg hackcomplete.SourceConfig, env hackcomplete.SourceEnv) (hackcomplete.Source, error) {
		if cfg.Path == "" {
			return nil, errIndexPathRequired
		}

		path := cfg.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(env.ConfigDir, path)
		}

		return NewIndex(env.Logger, path)
	})
}

var errIndexPathRequired = errors.New("index source requires a path")

// indexFile is the on-disk format of a symbol index.
type indexFile struct {
	Symbols []hackcomplete.Symbol `yaml:"symbols"`
}

// Index serves symbols listed in YAML files.
type Index struct {
	paths  []string
	logger *zap.Logger

	// mu protects symbols.
	mu      sync.RWMutex
	symbols []hackcomplete.Symbol
}

// NewIndex loads the given index files.
func NewIndex(logger *zap.Logger, paths ...string) (*Index, error) {
	idx := &Index{
		paths:  paths,
		logger: logger,
	}

	err := idx.Reload()
	if err != nil {
		return nil, err
	}

	return idx, nil
}

// Name implements hackcomplete.Source.
func (x *Index) Name() string {
	return "index"
}

// Reload re-reads every index file. On error the previous symbols are kept.
func (x *Index) Reload() error {
	var symbols []hackcomplete.Symbol

	for _, path := range x.paths {
		loaded, err := loadIndexFile(path)
		if err != nil {
			return err
		}

		symbols = append(symbols, loaded...)
	}

	x.mu.Lock()
	x.symbols = symbols
	x.mu.Unlock()

	x.logger.Debug("Loaded symbol index",
		zap.Strings("paths", x.paths),
		zap.Int("symbols", len(symbols)))

	return nil
}

func loadIndexFile(path string) ([]hackcomplete.Symbol, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var f indexFile

	err = yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)

	for i := range f.Symbols {
		if f.Symbols[i].File != "" && !filepath.IsAbs(f.Symbols[i].File) {
			f.Symbols[i].File = filepath.Join(dir, f.Symbols[i].File)
		}
	}

	return f.Symbols, nil
}

// Candidates implements hackcomplete.Source. It returns the symbols whose name contains
// the request prefix, ignoring case.
func (x *Index) Candidates(_ context.Context, req hackcomplete.Request) ([]hackcomplete.Symbol, error) {
	needle := strings.ToLower(req.Prefix)

	x.mu.RLock()
	defer x.mu.RUnlock()

	var matched []hackcomplete.Symbol

	for _, sym := range x.symbols {
		if strings.Contains(strings.ToLower(sym.Name), needle) {
			matched = append(matched, sym)
		}
	}

	return matched, nil
}

// Symbols implements hackcomplete.Lister.
func (x *Index) Symbols() []hackcomplete.Symbol {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return slices.Clone(x.symbols)
}

// Watch implements hackcomplete.Watcher. It reloads the index whenever one of its files
// is written, created or renamed into place, and returns when ctx is done.
func (x *Index) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	defer func() {
		_ = watcher.Close()
	}()

	// Watch directories: editors and generators often replace files instead of writing them.
	watched := make(map[string]bool)

	for _, path := range x.paths {
		dir := filepath.Dir(path)
		if watched[dir] {
			continue
		}

		err := watcher.Add(dir)
		if err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}

		watched[dir] = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !x.tracks(event.Name) {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			err := x.Reload()
			if err != nil {
				x.logger.Warn("Failed to reload symbol index", zap.String("path", event.Name), zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			x.logger.Warn("Symbol index watcher error", zap.Error(err))
		}
	}
}

func (x *Index) tracks(name string) bool {
	name = filepath.Clean(name)

	return slices.ContainsFunc(x.paths, func(p string) bool {
		return filepath.Clean(p) == name
	})
}
