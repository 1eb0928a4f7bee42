// Package actuator exposes operational endpoints: health, build info,
// Prometheus metrics and the effective configuration with its source
// layers.
package actuator

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skekre98/gimlet/config"
	"github.com/skekre98/gimlet/core"
	"github.com/skekre98/gimlet/web"
)

const Name = "actuator"

// Config controls where the actuator mounts and what it exposes.
type Config struct {
	BasePath       string `config:"basePath"`
	MetricsEnabled bool   `config:"metricsEnabled"`
	AppName        string `config:"-"`
	AppVersion     string `config:"-"`
}

type module struct{}

// Module builds the actuator. It expects a Config in the container and,
// for the /config endpoint, a *config.Manager.
func Module() core.Module { return &module{} }

func (m *module) Name() string        { return Name }
func (m *module) DependsOn() []string { return []string{web.Name} }

func (m *module) Configure(c core.Container) error {
	engine := web.Engine(c)
	cfg := core.Get[Config](c)

	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/actuator"
	}
	group := engine.Group(basePath)

	group.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status": "UP",
			"checks": []gin.H{},
		})
	})

	group.GET("/info", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"app": gin.H{
				"name":    cfg.AppName,
				"version": cfg.AppVersion,
			},
			"runtime": gin.H{
				"go":           runtime.Version(),
				"numGoroutine": runtime.NumGoroutine(),
				"time":         time.Now().UTC().Format(time.RFC3339),
				"pid":          os.Getpid(),
			},
		})
	})

	// The effective configuration and the per-source layers that were
	// merged to produce it. Invaluable when a value is not what you
	// expected and you need to know which layer set it.
	if mgr, ok := core.TryGet[*config.Manager](c); ok {
		group.GET("/config", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{
				"effective": mgr.Effective(),
				"layers":    mgr.Layers(),
			})
		})
	}

	if cfg.MetricsEnabled {
		group.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return nil
}

func (m *module) Start(_ context.Context, _ core.Container) error { return nil }
func (m *module) Stop(_ context.Context, _ core.Container) error  { return nil }
