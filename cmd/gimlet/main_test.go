package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRunMerge(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	overlay := filepath.Join(dir, "overlay.yaml")

	mustWrite(t, base, `
server:
  host: 0.0.0.0
  port: 8080
tags: [blue, green]
debug: false
`)
	mustWrite(t, overlay, `
server:
  port: 9090
tags: [canary]
debug: true
`)

	var out bytes.Buffer
	if err := runMerge([]string{base, overlay}, &out); err != nil {
		t.Fatalf("runMerge() error = %v", err)
	}

	got := map[string]any{}
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}

	want := map[string]any{
		"server": map[string]any{
			"host": "0.0.0.0",
			"port": 9090,
		},
		"tags":  []any{"canary"},
		"debug": true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("runMerge() = %v, want %v", got, want)
	}
}

func TestRunMerge_Errors(t *testing.T) {
	t.Run("too few files", func(t *testing.T) {
		var out bytes.Buffer
		if err := runMerge([]string{"only-one.yaml"}, &out); err == nil {
			t.Error("runMerge() expected error for a single file")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var out bytes.Buffer
		err := runMerge([]string{"nope.yaml", "also-nope.yaml"}, &out)
		if err == nil {
			t.Error("runMerge() expected error for missing files")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		good := filepath.Join(dir, "good.yaml")
		bad := filepath.Join(dir, "bad.yaml")
		mustWrite(t, good, "a: 1\n")
		mustWrite(t, bad, "{a: b: c\n")

		var out bytes.Buffer
		if err := runMerge([]string{good, bad}, &out); err == nil {
			t.Error("runMerge() expected error for malformed YAML")
		}
	})
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
