package config

import "context"

// Source provides one layer of configuration data. Sources are ordered:
// the Manager folds them with a deep merge, later sources overriding
// earlier ones.
//
// Implementations include YAML files with profile overlays, prefixed
// environment variables and command-line flags. Load must be safe for
// concurrent use; Watch is optional.
type Source interface {
	// Load retrieves this source's data as a string-keyed map, possibly
	// with nested maps for hierarchical keys. Implementations must
	// return a map the caller may mutate, and should honor ctx
	// cancellation on slow backends.
	Load(ctx context.Context) (map[string]any, error)

	// Watch monitors the source and sends an event on ch whenever the
	// underlying data may have changed. Sources without change
	// detection return nil immediately. Implementations must not close
	// ch and should return when ctx is done.
	Watch(ctx context.Context, ch chan<- Event) error

	// Name identifies the source in errors, logs and the layer listing.
	Name() string
}

// Event is a configuration change notification delivered to
// subscribers after a reload detects differences.
type Event struct {
	// ChangedKeys lists the top-level struct field names whose values
	// differ between OldConfig and NewConfig.
	ChangedKeys []string

	// OldConfig and NewConfig hold the configuration values before and
	// after the change.
	OldConfig any
	NewConfig any
}

// Layer pairs a source name with the raw map it loaded, before merging.
// The actuator's /config endpoint serializes these, so the fields carry
// JSON tags.
type Layer struct {
	Source string         `json:"source"`
	Values map[string]any `json:"values"`
}
