package config_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/skekre98/gimlet/config"
)

func TestBinder_Bind_SimpleTypes(t *testing.T) {
	type SimpleConfig struct {
		Name    string `config:"name" validate:"required"`
		Port    int    `config:"port" validate:"min=1,max=65535"`
		Enabled bool   `config:"enabled"`
	}

	tests := []struct {
		name    string
		source  map[string]any
		want    SimpleConfig
		wantErr bool
	}{
		{
			name: "valid config",
			source: map[string]any{
				"name":    "test-app",
				"port":    8080,
				"enabled": true,
			},
			want: SimpleConfig{Name: "test-app", Port: 8080, Enabled: true},
		},
		{
			name: "weak typing - string to int",
			source: map[string]any{
				"name": "test-app",
				"port": "8080",
			},
			want: SimpleConfig{Name: "test-app", Port: 8080},
		},
		{
			name: "validation error - missing required field",
			source: map[string]any{
				"port": 8080,
			},
			wantErr: true,
		},
		{
			name: "validation error - port out of range",
			source: map[string]any{
				"name": "test-app",
				"port": 99999,
			},
			wantErr: true,
		},
	}

	binder := config.NewBinder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SimpleConfig
			err := binder.Bind(tt.source, &got)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Bind() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Bind() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Bind() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBinder_Bind_NestedAndHooks(t *testing.T) {
	type ServerConfig struct {
		Addr    string        `config:"addr"`
		Timeout time.Duration `config:"timeout"`
		Tags    []string      `config:"tags"`
	}
	type AppConfig struct {
		Server ServerConfig `config:"server"`
	}

	source := map[string]any{
		"server": map[string]any{
			"addr":    ":8080",
			"timeout": "30s",
			"tags":    "blue,canary",
		},
	}

	var got AppConfig
	if err := config.NewBinder().Bind(source, &got); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	if got.Server.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", got.Server.Timeout)
	}
	if !reflect.DeepEqual(got.Server.Tags, []string{"blue", "canary"}) {
		t.Errorf("Tags = %v, want [blue canary]", got.Server.Tags)
	}
}

func TestBinder_Bind_StageReporting(t *testing.T) {
	type Strict struct {
		Count int `config:"count" validate:"min=10"`
	}

	t.Run("decode stage", func(t *testing.T) {
		var cfg Strict
		err := config.NewBinder().Bind(map[string]any{"count": "not-a-number"}, &cfg)

		var bindErr *config.BindError
		if !errors.As(err, &bindErr) {
			t.Fatalf("expected *BindError, got %T", err)
		}
		if bindErr.Stage != "decode" {
			t.Errorf("Stage = %q, want decode", bindErr.Stage)
		}
	})

	t.Run("validate stage", func(t *testing.T) {
		var cfg Strict
		err := config.NewBinder().Bind(map[string]any{"count": 3}, &cfg)

		var bindErr *config.BindError
		if !errors.As(err, &bindErr) {
			t.Fatalf("expected *BindError, got %T", err)
		}
		if bindErr.Stage != "validate" {
			t.Errorf("Stage = %q, want validate", bindErr.Stage)
		}
		if bindErr.Unwrap() == nil {
			t.Error("Unwrap() = nil, want underlying validator error")
		}
	})
}
