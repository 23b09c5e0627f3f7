// Package tmux lists sessions of a tmux server for the demo menu.
package tmux

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

type Session struct {
	Name     string
	Windows  int
	Attached bool
	Current  bool
}

// ListSessions connects to the server behind socketPath and returns its
// sessions in server order. An empty socketPath uses the default server.
func ListSessions(socketPath string) ([]Session, error) {
	client, err := newTmux(socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to tmux: %w", err)
	}
	defer client.Close()

	sessions, err := client.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	current := currentSessionName(client)
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if s == nil {
			continue
		}
		out = append(out, Session{
			Name:     s.Name,
			Windows:  s.Windows,
			Attached: s.Attached > 0,
			Current:  s.Name == current,
		})
	}
	return out, nil
}

// ResolveSocketPath picks the tmux socket: the explicit value, then the
// socket of the enclosing tmux ($TMUX), then the per-user default.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

func currentSessionName(client tmuxClient) string {
	if clients, err := client.ListClients(); err == nil {
		for _, c := range clients {
			if c != nil && c.Session != "" {
				return c.Session
			}
		}
	}
	return ""
}
