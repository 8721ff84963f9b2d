package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/ritzau/bfs-visualizer/pkg/logging"
)

const (
	// DefaultFile is read from the working directory when present.
	DefaultFile = "bfs-visualizer.toml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "BFS_VISUALIZER_"
)

// Config holds all configuration for the application
type Config struct {
	Graph       string `koanf:"graph"`
	Start       string `koanf:"start"`
	Goal        string `koanf:"goal"`
	WebMode     bool   `koanf:"web"`
	Port        int    `koanf:"port" validate:"min=1,max=65535"`
	Watch       bool   `koanf:"watch"`
	OpenBrowser bool   `koanf:"open"`
	IntervalMs  int    `koanf:"interval" validate:"min=50,max=60000"`
	Verbosity   string `koanf:"verbosity" validate:"omitempty,oneof=trace debug info warn error TRACE DEBUG INFO WARN ERROR"`
	VerboseCnt  int    `koanf:"verbose" validate:"min=0"`
	LogFormat   string `koanf:"log-format" validate:"oneof=compact json"`
}

var defaults = map[string]interface{}{
	"graph":      "",
	"start":      "",
	"goal":       "",
	"web":        false,
	"port":       8080,
	"watch":      false,
	"open":       true,
	"interval":   2000,
	"verbosity":  "",
	"verbose":    0,
	"log-format": logging.FormatCompact,
}

// Flags returns the command-line flag set understood by Load.
func Flags(name string) *pflag.FlagSet {
	f := pflag.NewFlagSet(name, pflag.ContinueOnError)
	f.String("config", "", "Path to a TOML config file (default "+DefaultFile+" if present)")
	f.StringP("graph", "g", "", "Graph definition file (.toml, .yaml, .json, .hcl); built-in graph if empty")
	f.StringP("start", "s", "", "Start node (defaults to the graph's start)")
	f.StringP("goal", "t", "", "Goal node (defaults to the graph's goal)")
	f.Bool("web", false, "Start the web server instead of printing the trace")
	f.IntP("port", "p", 8080, "Port for the web server")
	f.BoolP("watch", "w", false, "Reload the graph file when it changes (web mode)")
	f.Bool("open", true, "Open a browser when the web server starts")
	f.Int("interval", 2000, "Delay between streamed steps in milliseconds")
	f.String("verbosity", "", "Log level: trace, debug, info, warn, error")
	f.CountP("verbose", "v", "Increase log verbosity (-v debug, -vv trace)")
	f.String("log-format", logging.FormatCompact, "Log output format: compact or json")
	return f
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, explicit := DefaultFile, false
	if f != nil {
		if p, err := f.GetString("config"); err == nil && p != "" {
			path, explicit = p, true
		}
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// BFS_VISUALIZER_LOG_FORMAT=json sets "log-format".
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Interval is the streaming step interval.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// LogLevel resolves the effective level. An explicit verbosity wins over
// the -v count.
func (c *Config) LogLevel() slog.Level {
	if c.Verbosity != "" {
		if l, err := logging.ParseLevel(c.Verbosity); err == nil {
			return l
		}
	}
	switch {
	case c.VerboseCnt >= 2:
		return logging.LevelTrace
	case c.VerboseCnt == 1:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
