package config

import (
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/clock-menu/internal/app"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Title != "Menu:" {
		t.Fatalf("expected default title, got %q", cfg.App.Title)
	}
	if cfg.App.Backend != app.BackendANSI {
		t.Fatalf("expected ansi backend, got %q", cfg.App.Backend)
	}
	if cfg.App.Poll != 50*time.Millisecond {
		t.Fatalf("expected 50ms poll, got %s", cfg.App.Poll)
	}
	if cfg.Logging.Trace {
		t.Fatalf("expected tracing off by default")
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadArgsEnvironmentFallbacks(t *testing.T) {
	env := []string{
		"CLOCK_MENU_TITLE=Tools:",
		"CLOCK_MENU_BACKEND=TCELL",
		"CLOCK_MENU_POLL=10ms",
		"CLOCK_MENU_FILTER=date",
		"CLOCK_MENU_SOCKET=/tmp/tmux.sock",
		"CLOCK_MENU_TRACE=true",
		"CLOCK_MENU_LOG_FILE=/tmp/menu.log",
		"malformed",
	}
	cfg, err := LoadArgs(nil, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := app.Config{
		Title:      "Tools:",
		Backend:    app.BackendTcell,
		Poll:       10 * time.Millisecond,
		Filter:     "date",
		SocketPath: "/tmp/tmux.sock",
	}
	if cfg.App != want {
		t.Fatalf("expected %+v, got %+v", want, cfg.App)
	}
	if !cfg.Logging.Trace || cfg.Logging.FilePath != "/tmp/menu.log" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	cfg, err := LoadArgs([]string{"-title", "Flag:", "-poll", "200ms", "-trace=false"}, []string{
		"CLOCK_MENU_TITLE=Env:",
		"CLOCK_MENU_POLL=10ms",
		"CLOCK_MENU_TRACE=true",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Title != "Flag:" || cfg.App.Poll != 200*time.Millisecond || cfg.Logging.Trace {
		t.Fatalf("flags did not win: %+v %+v", cfg.App, cfg.Logging)
	}
	if cfg.Flags["poll"] != "200ms" {
		t.Fatalf("expected recorded poll flag, got %q", cfg.Flags["poll"])
	}
	if len(cfg.Args) != 5 {
		t.Fatalf("expected args to be kept, got %v", cfg.Args)
	}
}

func TestInvalidEnvironmentValuesFallBack(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"CLOCK_MENU_POLL=soon", "CLOCK_MENU_TRACE=maybe"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Poll != app.DefaultPoll || cfg.Logging.Trace {
		t.Fatalf("expected fallbacks, got %+v %+v", cfg.App, cfg.Logging)
	}
}

func TestLoadArgsRejectsUnknownFlag(t *testing.T) {
	if _, err := LoadArgs([]string{"-bogus"}, nil); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}

func TestValidate(t *testing.T) {
	base, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := base
	bad.App.Backend = "curses"
	if err := Validate(bad); err == nil || !strings.Contains(err.Error(), "curses") {
		t.Fatalf("expected backend error, got %v", err)
	}

	for _, poll := range []time.Duration{0, 500 * time.Microsecond, 2 * time.Second} {
		bad = base
		bad.App.Poll = poll
		if err := Validate(bad); err == nil {
			t.Fatalf("expected poll %s to be rejected", poll)
		}
	}
	for _, poll := range []time.Duration{time.Millisecond, time.Second} {
		ok := base
		ok.App.Poll = poll
		if err := Validate(ok); err != nil {
			t.Fatalf("expected poll %s to be accepted: %v", poll, err)
		}
	}
}
