package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/skekre98/gimlet/config"
)

// CLISource loads configuration from command-line flags.
//
// Flags use dots for nesting and accept both --flag=value and
// --flag value forms; single-dash long flags are normalized:
//
//	--server.port=8080 --server.host localhost
//	  -> {server: {host: "localhost", port: "8080"}}
//
// Values stay strings; the Binder converts them during binding.
// CLISource should be the last source so flags override everything.
type CLISource struct {
	// Args overrides os.Args[1:] when set, mainly for tests.
	Args []string
}

// Name returns the identifier for this source.
func (c *CLISource) Name() string { return "cli" }

// Load parses the flags into a nested map. It never returns an error;
// unparseable flags are ignored.
func (c *CLISource) Load(ctx context.Context) (map[string]any, error) {
	args := c.Args
	if args == nil {
		args = os.Args[1:]
	}
	return parseFlags(normalizeArgs(args)), nil
}

// Watch is not implemented for CLISource; arguments are static for the
// process lifetime.
func (c *CLISource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

func parseFlags(args []string) map[string]any {
	result := make(map[string]any)
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Register every flag-shaped argument as a string flag so pflag
	// accepts it; nothing is known about the schema up front.
	registered := make(map[string]bool)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := flagName(arg)
		if name == "" {
			continue
		}
		if !registered[name] {
			fs.String(name, "", fmt.Sprintf("config value for %s", name))
			registered[name] = true
		}
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}

	_ = fs.Parse(args)

	fs.VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed || flag.Value.String() == "" {
			return
		}
		segments := strings.Split(flag.Name, ".")
		if len(segments) == 0 {
			return
		}
		setNestedValue(result, segments, flag.Value.String())
	})

	return result
}

// normalizeArgs rewrites single-dash long flags to double-dash so
// pflag does not treat them as shorthand bundles.
func normalizeArgs(args []string) []string {
	normalized := make([]string, len(args))
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") {
			bare := strings.TrimPrefix(arg, "-")
			if len(bare) > 1 && bare[0] != '=' {
				normalized[i] = "-" + arg
				continue
			}
		}
		normalized[i] = arg
	}
	return normalized
}

// flagName strips dashes and any =value suffix.
func flagName(arg string) string {
	arg = strings.TrimLeft(arg, "-")
	if idx := strings.Index(arg, "="); idx != -1 {
		return arg[:idx]
	}
	return arg
}
