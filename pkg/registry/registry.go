// Package registry builds tables from a configuration file on demand.
// Tables are created on first access and cached until the cache is
// cleared or the configuration is reloaded.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqlkit/pkg/config"
	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	_ "github.com/leapstack-labs/sqlkit/pkg/dialects/all"
	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// ErrNoFile is returned by Reload and Watch for registries that were not
// created from a file.
var ErrNoFile = errors.New("registry has no configuration file")

// Registry maps configured table names to built tables.
type Registry struct {
	mu     sync.RWMutex
	cfg    *config.Config
	path   string
	cache  map[string]table.Model
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a registry over an already loaded configuration.
func New(cfg *config.Config, opts ...Option) *Registry {
	r := &Registry{
		cfg:    cfg,
		path:   cfg.Path(),
		cache:  make(map[string]table.Model),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromFile loads path and creates a registry over it.
func FromFile(path string, opts ...Option) (*Registry, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...), nil
}

// Config returns the current configuration.
func (r *Registry) Config() *config.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Table returns the named table, building and caching it on first use.
func (r *Registry) Table(name string) (table.Model, error) {
	r.mu.RLock()
	m, ok := r.cache[name]
	cfg := r.cfg
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	m, err := build(cfg, name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[name]; ok {
		return cached, nil
	}
	// A reload between build and store leaves the table uncached.
	if r.cfg == cfg {
		r.cache[name] = m
	}
	r.logger.Debug("table built", "table", name, "dialect", m.Base().Dialect.Name())
	return m, nil
}

func build(cfg *config.Config, name string) (table.Model, error) {
	tc, err := cfg.TableConfig(name)
	if err != nil {
		return nil, err
	}
	cols, err := tc.BuildColumns()
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", name, err)
	}
	m, err := dialect.NewTable(tc.Dialect, name, cols, tc.TableOptions()...)
	if err != nil {
		return nil, fmt.Errorf("building table %q: %w", name, err)
	}
	return m, nil
}

// Lookup returns the named table as the dialect table type T, e.g.
// *redshift.Table.
func Lookup[T table.Model](r *Registry, name string) (T, error) {
	var zero T
	m, err := r.Table(name)
	if err != nil {
		return zero, err
	}
	t, ok := m.(T)
	if !ok {
		return zero, fmt.Errorf("table %q is a %s table (%T), not %T", name, m.Base().Dialect.Name(), m, zero)
	}
	return t, nil
}

// ListTables returns the configured table names, sorted.
func (r *Registry) ListTables() []string {
	return r.Config().TableNames()
}

// Count returns the number of cached tables.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// ClearCache drops every cached table.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]table.Model)
}

// Reload re-reads the configuration file and clears the cache. On error
// the previous configuration stays in effect.
func (r *Registry) Reload() error {
	if r.path == "" {
		return ErrNoFile
	}
	cfg, err := config.Load(r.path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.cfg = cfg
	r.cache = make(map[string]table.Model)
	r.mu.Unlock()

	r.logger.Info("configuration reloaded", "path", r.path, "tables", len(cfg.Tables))
	return nil
}

// BuildAll builds every configured table concurrently and returns them in
// table name order. All build errors are reported together.
func (r *Registry) BuildAll(ctx context.Context) ([]table.Model, error) {
	names := r.ListTables()
	models := make([]table.Model, len(names))
	errs := make([]error, len(names))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for i, name := range names {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			models[i], errs[i] = r.Table(name)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return models, nil
}

// Watch reloads the configuration whenever its file changes, until ctx is
// cancelled. onReload, if not nil, receives the result of every reload.
func (r *Registry) Watch(ctx context.Context, onReload func(error)) error {
	if r.path == "" {
		return ErrNoFile
	}
	abs, err := filepath.Abs(r.path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", abs, err)
	}
	r.logger.Debug("watching configuration", "path", abs)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				err := r.Reload()
				if err != nil {
					r.logger.Error("reload failed", "path", abs, "error", err)
				}
				if onReload != nil {
					onReload(err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("watcher error", "error", err)
		}
	}
}
