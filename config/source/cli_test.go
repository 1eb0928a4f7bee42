package source

import (
	"context"
	"reflect"
	"testing"
)

func TestCLISource_Name(t *testing.T) {
	src := &CLISource{}
	if got := src.Name(); got != "cli" {
		t.Errorf("Name() = %v, want cli", got)
	}
}

func TestCLISource_Load(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected map[string]any
	}{
		{
			name: "simple flags",
			args: []string{"--port=8080", "--host=localhost"},
			expected: map[string]any{
				"port": "8080",
				"host": "localhost",
			},
		},
		{
			name: "dot notation builds nested maps",
			args: []string{"--http.port=8080", "--database.host=localhost", "--database.port=5432"},
			expected: map[string]any{
				"http": map[string]any{"port": "8080"},
				"database": map[string]any{
					"host": "localhost",
					"port": "5432",
				},
			},
		},
		{
			name: "space-separated values",
			args: []string{"--http.port", "8080", "--database.host", "localhost"},
			expected: map[string]any{
				"http":     map[string]any{"port": "8080"},
				"database": map[string]any{"host": "localhost"},
			},
		},
		{
			name: "single-dash long flags",
			args: []string{"-app.name=myapp", "-app.debug=true"},
			expected: map[string]any{
				"app": map[string]any{
					"name":  "myapp",
					"debug": "true",
				},
			},
		},
		{
			name: "empty values are dropped",
			args: []string{"--keep=yes", "--drop="},
			expected: map[string]any{
				"keep": "yes",
			},
		},
		{
			name:     "non-flag arguments are ignored",
			args:     []string{"serve", "--port=8080"},
			expected: map[string]any{"port": "8080"},
		},
		{
			name:     "no arguments",
			args:     []string{},
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &CLISource{Args: tt.args}
			got, err := src.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Load() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNormalizeArgs(t *testing.T) {
	got := normalizeArgs([]string{"-app.name=x", "--already", "-v", "plain"})
	want := []string{"--app.name=x", "--already", "-v", "plain"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeArgs() = %v, want %v", got, want)
	}
}

func TestFlagName(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"--port=8080", "port"},
		{"--server.host", "server.host"},
		{"-x", "x"},
		{"--", ""},
	}

	for _, tt := range tests {
		if got := flagName(tt.arg); got != tt.want {
			t.Errorf("flagName(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}
