package core

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"
)

const shutdownGrace = 15 * time.Second

// App composes modules into a runnable application. Modules are
// configured and started in dependency order and stopped in reverse.
type App struct {
	Modules   []Module
	Container Container
	Logger    *slog.Logger
}

func NewApp(logger *slog.Logger, mods ...Module) *App {
	return &App{
		Modules:   mods,
		Container: NewContainer(),
		Logger:    logger,
	}
}

// Run configures and starts every module, blocks until ctx is done or
// a SIGINT/SIGTERM arrives, then stops the modules in reverse order.
// The first stop error is returned after all modules have been asked
// to stop.
func (a *App) Run(ctx context.Context) error {
	order, err := topoSort(a.Modules)
	if err != nil {
		return err
	}

	for _, m := range order {
		if err := m.Configure(a.Container); err != nil {
			return err
		}
	}

	for _, m := range order {
		a.Logger.Info("starting module", "module", m.Name())
		if err := m.Start(ctx, a.Container); err != nil {
			return err
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var firstErr error
	for i := len(order) - 1; i >= 0; i-- {
		m := order[i]
		a.Logger.Info("stopping module", "module", m.Name())
		if err := m.Stop(shutdownCtx, a.Container); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// topoSort orders modules so every module starts after its declared
// dependencies. Iteration is name-sorted to keep the order stable.
func topoSort(mods []Module) ([]Module, error) {
	nameToMod := map[string]Module{}
	for _, m := range mods {
		if _, dup := nameToMod[m.Name()]; dup {
			return nil, errors.New("duplicate module name: " + m.Name())
		}
		nameToMod[m.Name()] = m
	}

	visited := map[string]bool{}
	active := map[string]bool{}
	var out []Module
	var visit func(string) error

	visit = func(n string) error {
		if active[n] {
			return errors.New("cycle detected at module " + n)
		}
		if visited[n] {
			return nil
		}
		active[n] = true
		m := nameToMod[n]
		for _, d := range m.DependsOn() {
			if _, ok := nameToMod[d]; !ok {
				return errors.New("missing dependency: " + n + " depends on " + d)
			}
			if err := visit(d); err != nil {
				return err
			}
		}
		visited[n] = true
		active[n] = false
		out = append(out, m)
		return nil
	}

	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, m.Name())
	}
	sort.Strings(names)

	for _, n := range names {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}
