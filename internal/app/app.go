package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atomicstack/clock-menu/internal/clock"
	"github.com/atomicstack/clock-menu/internal/logging"
	"github.com/atomicstack/clock-menu/internal/terminal"
	"github.com/atomicstack/clock-menu/internal/ui"
)

const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"

	DefaultTitle = ui.DefaultTitle
	DefaultPoll  = clock.DefaultPollInterval
)

// Config describes user-provided application options.
type Config struct {
	Title      string
	Backend    string
	Poll       time.Duration
	Filter     string
	SocketPath string
}

// Run opens the configured terminal driver and runs the demo menu until the
// user presses Escape.
func Run(cfg Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	surface, closeSurface, err := openSurface(cfg.Backend)
	if err != nil {
		return fmt.Errorf("open %s terminal: %w", cfg.Backend, err)
	}
	defer closeSurface()

	return runMenu(ctx, surface, cfg, newDemo(surface, cfg.SocketPath))
}

func runMenu(ctx context.Context, surface terminal.Surface, cfg Config, d *demo) error {
	m := ui.NewMenu(surface, cfg.Title, ui.WithPollInterval(cfg.Poll))
	d.menu = m
	d.baseTitle = m.Title()
	for _, e := range FilterEntries(d.entries(), cfg.Filter) {
		if err := m.AddItem(e.Label, e.Action); err != nil {
			return err
		}
	}
	err := m.Run(ctx)
	if m.Len() > 0 {
		// leave the shell prompt below the menu with a visible cursor
		if verr := surface.SetCursorVisible(true); verr != nil {
			logging.Error(verr)
		}
		_, _ = surface.Write([]byte("\n"))
	}
	return err
}

func openSurface(backend string) (terminal.Surface, func(), error) {
	switch backend {
	case BackendTcell:
		screen, err := terminal.NewScreen()
		if err != nil {
			return nil, nil, err
		}
		return screen, func() {
			if err := screen.Close(); err != nil {
				logging.Error(err)
			}
		}, nil
	case BackendANSI, "":
		stdio := terminal.NewStdio()
		if err := stdio.Open(); err != nil {
			return nil, nil, err
		}
		return stdio, func() {
			if err := stdio.Close(); err != nil {
				logging.Error(err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}
