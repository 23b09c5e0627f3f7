package main

import (
	"fmt"
	"io"
	"os"

	"github.com/atomicstack/clock-menu/internal/app"
	"github.com/atomicstack/clock-menu/internal/config"
	"github.com/atomicstack/clock-menu/internal/logging"
	"github.com/atomicstack/clock-menu/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	os.Exit(run(config.MustLoad(), os.Stderr))
}

// run executes one menu session and returns the process exit code:
// 2 for invalid configuration, 1 when the session fails.
func run(cfg config.Config, stderr io.Writer) int {
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 2
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	events.App.Start(startupTracePayload(cfg))

	err := app.Run(cfg.App)
	events.App.Exit(err)
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// startupTracePayload bundles the resolved configuration and the terminal
// the menu is about to draw on.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    flags,
		"config":   cfg,
		"terminal": describeTerminal(cfg.App.Backend, int(os.Stdin.Fd()), int(os.Stdout.Fd())),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	return payload
}

// terminalInfo describes the session the menu runs in. The menu is
// interactive only when keys come from a terminal and the screen is one.
type terminalInfo struct {
	Backend     string `json:"backend"`
	Interactive bool   `json:"interactive"`
	RawInput    bool   `json:"raw_input"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	SizeError   string `json:"size_error,omitempty"`
}

func describeTerminal(backend string, inFd, outFd int) terminalInfo {
	if backend == "" {
		backend = app.BackendANSI
	}
	inTTY := term.IsTerminal(inFd)
	outTTY := term.IsTerminal(outFd)
	info := terminalInfo{
		Backend:     backend,
		Interactive: inTTY && outTTY,
		// tcell manages its own input mode
		RawInput: inTTY && backend == app.BackendANSI,
	}
	if outTTY {
		if width, height, err := term.GetSize(outFd); err == nil {
			info.Width, info.Height = width, height
		} else {
			info.SizeError = err.Error()
		}
	}
	return info
}
