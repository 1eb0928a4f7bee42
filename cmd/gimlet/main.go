package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/skekre98/gimlet/actuator"
	"github.com/skekre98/gimlet/config"
	"github.com/skekre98/gimlet/config/source"
	"github.com/skekre98/gimlet/core"
	"github.com/skekre98/gimlet/logging"
	"github.com/skekre98/gimlet/merge"
	"github.com/skekre98/gimlet/web"
)

// Root is the demo application's configuration tree, bound from the
// merged file/env/cli layers.
type Root struct {
	App      AppInfo          `config:"app"`
	Server   web.ServerConfig `config:"server"`
	Actuator actuator.Config  `config:"actuator"`
}

type AppInfo struct {
	Name    string `config:"name" validate:"required"`
	Version string `config:"version" validate:"required"`
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "merge" {
		if err := runMerge(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "gimlet merge:", err)
			os.Exit(1)
		}
		return
	}
	runServe()
}

// runMerge deep-merges YAML documents in argument order, later files
// overriding earlier ones, and writes the result as YAML.
func runMerge(paths []string, out io.Writer) error {
	if len(paths) < 2 {
		return fmt.Errorf("need at least two files, got %d", len(paths))
	}

	layers := make([]map[string]any, 0, len(paths))
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		layer := map[string]any{}
		if err := yaml.Unmarshal(b, &layer); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		layers = append(layers, layer)
	}

	b, err := yaml.Marshal(merge.MergeAll(layers...))
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}

// defaultsSource is the lowest-precedence layer: every other source
// overrides it.
type defaultsSource struct{}

func (defaultsSource) Name() string { return "defaults" }

func (defaultsSource) Load(ctx context.Context) (map[string]any, error) {
	return map[string]any{
		"app": map[string]any{
			"name":    "gimlet",
			"version": "dev",
		},
		"server": map[string]any{
			"addr": ":8080",
		},
		"actuator": map[string]any{
			"basePath":       "/actuator",
			"metricsEnabled": true,
		},
	}, nil
}

func (defaultsSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

func runServe() {
	logger := logging.New()

	var root Root
	mgr, err := config.NewManager(&root, config.Options{},
		defaultsSource{},
		&source.FileSource{BasePath: "configs", Profile: os.Getenv("GIMLET_PROFILE"), Optional: true},
		&source.EnvSource{},
		&source.CLISource{},
	)
	if err != nil {
		logger.Error("config error", "error", err)
		os.Exit(1)
	}
	defer mgr.Close()

	logger = logger.With(
		slog.String("app", root.App.Name),
		slog.String("version", root.App.Version),
	)

	events := make(chan config.Event, 8)
	mgr.Subscribe(events)
	go func() {
		for evt := range events {
			logger.Info("config changed", "fields", evt.ChangedKeys)
		}
	}()

	app := core.NewApp(
		logger,
		web.Module(
			web.WithRoutes(func(r web.Router) {
				r.GET("/hello", func(c *gin.Context) {
					c.JSON(200, gin.H{"message": "world"})
				})
			}),
		),
		actuator.Module(),
	)

	actuatorCfg := root.Actuator
	actuatorCfg.AppName = root.App.Name
	actuatorCfg.AppVersion = root.App.Version

	core.Put[web.ServerConfig](app.Container, root.Server)
	core.Put[actuator.Config](app.Container, actuatorCfg)
	core.Put[*slog.Logger](app.Container, logger)
	core.Put[*config.Manager](app.Container, mgr)

	if err := app.Run(context.Background()); err != nil {
		logger.Error("app error", "error", err)
		os.Exit(1)
	}
}
