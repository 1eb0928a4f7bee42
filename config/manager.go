package config

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/skekre98/gimlet/merge"
)

// Manager loads configuration from an ordered list of sources, folds
// the layers with a deep merge, binds the result onto a caller-owned
// struct and notifies subscribers when values change.
//
// Updates are atomic: a reload that fails to load, bind or validate
// leaves the current configuration untouched. All methods are safe for
// concurrent use.
type Manager struct {
	sources []Source
	config  any
	binder  *Binder

	mu     sync.RWMutex
	layers []Layer
	merged map[string]any
	subs   []chan Event

	stopWatch context.CancelFunc
}

// Options configures a Manager.
type Options struct {
	// AutoReload starts a watcher per source that supports watching and
	// reloads the configuration when a change event arrives. Watchers
	// run until Close is called.
	AutoReload bool
}

// NewManager builds a Manager over the given sources and performs the
// initial load. cfg must be a pointer to a struct using `config` tags
// for field mapping and `validate` tags for rules.
//
// Sources are merged in order, later sources winning: with
// [file, env, cli], a CLI flag overrides both the environment and the
// file, and nested maps are merged key by key rather than replaced.
func NewManager(cfg any, opts Options, sources ...Source) (*Manager, error) {
	m := &Manager{
		sources: sources,
		config:  cfg,
		binder:  NewBinder(),
	}

	if err := m.Reload(context.Background()); err != nil {
		return nil, err
	}

	if opts.AutoReload {
		watchCtx, cancel := context.WithCancel(context.Background())
		m.stopWatch = cancel
		m.startWatchers(watchCtx)
	}

	return m, nil
}

// Reload loads every source, deep-merges the layers in precedence
// order, binds and validates the merged map on a fresh struct, then
// atomically swaps it in. Subscribers are notified only when field
// values actually changed.
func (m *Manager) Reload(ctx context.Context) error {
	layers := make([]Layer, 0, len(m.sources))
	maps := make([]map[string]any, 0, len(m.sources))

	for _, src := range m.sources {
		select {
		case <-ctx.Done():
			reloadsTotal.WithLabelValues("cancelled").Inc()
			return ctx.Err()
		default:
		}

		vals, err := src.Load(ctx)
		if err != nil {
			reloadsTotal.WithLabelValues("load_error").Inc()
			return fmt.Errorf("load config from %s: %w", src.Name(), err)
		}
		layers = append(layers, Layer{Source: src.Name(), Values: vals})
		maps = append(maps, vals)
	}

	merged := merge.MergeAll(maps...)

	// Bind onto a fresh instance so a failure never corrupts the
	// struct the caller is reading.
	newCfg := reflect.New(reflect.TypeOf(m.config).Elem()).Interface()
	if err := m.binder.Bind(merged, newCfg); err != nil {
		reloadsTotal.WithLabelValues("bind_error").Inc()
		return fmt.Errorf("bind config: %w", err)
	}

	m.mu.Lock()
	oldCfg := reflect.New(reflect.TypeOf(m.config).Elem()).Interface()
	reflect.ValueOf(oldCfg).Elem().Set(reflect.ValueOf(m.config).Elem())
	reflect.ValueOf(m.config).Elem().Set(reflect.ValueOf(newCfg).Elem())
	m.layers = layers
	m.merged = merged
	m.mu.Unlock()

	reloadsTotal.WithLabelValues("success").Inc()
	for _, l := range layers {
		layerKeys.WithLabelValues(l.Source).Set(float64(len(l.Values)))
	}

	if !reflect.DeepEqual(oldCfg, newCfg) {
		m.notify(diffEvent(oldCfg, newCfg))
	}
	return nil
}

// Layers returns the per-source maps from the last successful reload,
// in precedence order. The returned slice is a copy; the maps inside
// are shared and must be treated as read-only.
func (m *Manager) Layers() []Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Layer(nil), m.layers...)
}

// Effective returns the merged map from the last successful reload.
// The map is shared and must be treated as read-only; callers that
// need to modify it should copy it with merge.MergeAll first.
func (m *Manager) Effective() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.merged
}

// Subscribe registers ch to receive change events. Delivery is
// non-blocking: use a buffered channel or events are dropped. The
// Manager never closes the channel.
func (m *Manager) Subscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

// Close stops any auto-reload watchers. Safe to call when AutoReload
// was not enabled.
func (m *Manager) Close() {
	if m.stopWatch != nil {
		m.stopWatch()
	}
}

func (m *Manager) notify(evt Event) {
	m.mu.RLock()
	subs := append([]chan Event(nil), m.subs...)
	m.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (m *Manager) startWatchers(ctx context.Context) {
	for _, src := range m.sources {
		src := src
		ch := make(chan Event, 1)
		go func() {
			// Watch blocks for sources with change detection and
			// returns immediately for the rest.
			_ = src.Watch(ctx, ch)
		}()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					// Reload errors leave the old config in place;
					// the reload counter records them.
					_ = m.Reload(ctx)
				}
			}
		}()
	}
}
