package source

import (
	"context"
	"os"
	"strings"

	"github.com/skekre98/gimlet/config"
)

// EnvPrefix is the required prefix for environment variables; anything
// without it is ignored.
const EnvPrefix = "GIMLET_"

// EnvSource loads configuration from prefixed environment variables.
//
// Variable names are stripped of the prefix, lower-cased and split on
// underscores into a nested map:
//
//	GIMLET_SERVER_PORT=8080   -> {server: {port: "8080"}}
//	GIMLET_DATABASE_HOST=db1  -> {database: {host: "db1"}}
//
// Values stay strings; the Binder's weak typing converts them during
// binding. When a leaf value already occupies a path segment, deeper
// variables under that segment are skipped rather than overwriting it.
type EnvSource struct{}

// Name returns the identifier for this source.
func (e *EnvSource) Name() string { return "env" }

// Load reads all GIMLET_-prefixed environment variables. It never
// returns an error; malformed entries are ignored.
func (e *EnvSource) Load(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)

	for _, env := range os.Environ() {
		key, value, found := strings.Cut(env, "=")
		if !found || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}

		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		segments := strings.Split(key, "_")
		if len(segments) == 0 {
			continue
		}
		setNestedValue(result, segments, value)
	}

	return result, nil
}

// Watch is not implemented for EnvSource; the environment does not
// change during the process lifetime.
func (e *EnvSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

// setNestedValue walks segments into m, creating intermediate maps,
// and sets the final segment to value.
func setNestedValue(m map[string]any, segments []string, value string) {
	current := m

	for i, segment := range segments {
		if segment == "" {
			continue
		}

		if i == len(segments)-1 {
			current[segment] = value
			return
		}

		if existing, ok := current[segment]; ok {
			nested, ok := existing.(map[string]any)
			if !ok {
				// A leaf already occupies this path; skip the entry.
				return
			}
			current = nested
			continue
		}

		nested := make(map[string]any)
		current[segment] = nested
		current = nested
	}
}
