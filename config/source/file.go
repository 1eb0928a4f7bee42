// Package source holds the built-in configuration sources: YAML files
// with profile overlays, prefixed environment variables and
// command-line flags.
package source

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/skekre98/gimlet/config"
	"github.com/skekre98/gimlet/merge"
)

// FileSource loads YAML configuration from a directory.
//
// The base file application.yaml (or .yml) is loaded first. If Profile
// is set, application.{profile}.yaml is deep-merged on top: nested maps
// merge key by key and only the keys the overlay declares are
// overridden, so a profile file can change server.port without
// restating the rest of the server block.
//
//	configs/
//	  application.yaml       base configuration
//	  application.dev.yaml   development overlay
//	  application.prod.yaml  production overlay
type FileSource struct {
	// BasePath is the directory holding the configuration files. The
	// base file must exist there.
	BasePath string

	// Profile selects an optional overlay file. A missing overlay is
	// silently ignored.
	Profile string

	// Optional makes a missing base file load as an empty layer
	// instead of failing. Useful when files are only one of several
	// sources.
	Optional bool
}

// Name returns the identifier for this source.
func (f *FileSource) Name() string { return "file" }

// Load reads the base file and deep-merges the profile overlay on top.
// Returns os.ErrNotExist when the base file is missing and a YAML error
// when either file is malformed.
func (f *FileSource) Load(ctx context.Context) (map[string]any, error) {
	baseFile := findYAMLFile(f.BasePath, "application")
	if baseFile == "" {
		if f.Optional {
			return map[string]any{}, nil
		}
		return nil, os.ErrNotExist
	}

	data, err := readYAML(baseFile)
	if err != nil {
		return nil, err
	}

	if f.Profile != "" {
		if profileFile := findYAMLFile(f.BasePath, "application."+f.Profile); profileFile != "" {
			overlay, err := readYAML(profileFile)
			if err != nil {
				return nil, err
			}
			merge.Merge(data, overlay)
		}
	}

	return data, nil
}

// Watch is not implemented for FileSource and returns nil immediately.
func (f *FileSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

// findYAMLFile looks for basename with either .yaml or .yml extension.
func findYAMLFile(dir, basename string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readYAML(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
