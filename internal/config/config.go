package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/clock-menu/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envTitle   = "CLOCK_MENU_TITLE"
	envBackend = "CLOCK_MENU_BACKEND"
	envPoll    = "CLOCK_MENU_POLL"
	envFilter  = "CLOCK_MENU_FILTER"
	envSocket  = "CLOCK_MENU_SOCKET"
	envTrace   = "CLOCK_MENU_TRACE"
	envLogFile = "CLOCK_MENU_LOG_FILE"
)

const (
	minPoll = time.Millisecond
	maxPoll = time.Second
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("clock-menu", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	title := fs.String("title", envOrDefault(env, envTitle, app.DefaultTitle), "menu title shown above the entries")
	backend := fs.String("backend", envOrDefault(env, envBackend, app.BackendANSI), "terminal driver: ansi or tcell")
	poll := fs.Duration("poll", envOrDuration(env, envPoll, app.DefaultPoll), "how often the clock task wakes up")
	filter := fs.String("filter", envOrDefault(env, envFilter, ""), "fuzzy filter applied to the demo entries")
	socket := fs.String("socket", envOrDefault(env, envSocket, ""), "path to the tmux socket for the sessions entry")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			Title:      *title,
			Backend:    strings.ToLower(strings.TrimSpace(*backend)),
			Poll:       *poll,
			Filter:     *filter,
			SocketPath: *socket,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"title":   *title,
			"backend": *backend,
			"poll":    poll.String(),
			"filter":  *filter,
			"socket":  *socket,
			"trace":   strconv.FormatBool(*trace),
			"logFile": *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects unknown backends and poll intervals outside 1ms..1s.
func Validate(cfg Config) error {
	switch cfg.App.Backend {
	case app.BackendANSI, app.BackendTcell:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", cfg.App.Backend, app.BackendANSI, app.BackendTcell)
	}
	if cfg.App.Poll < minPoll || cfg.App.Poll > maxPoll {
		return fmt.Errorf("poll must be between %s and %s (got %s)", minPoll, maxPoll, cfg.App.Poll)
	}
	return nil
}
