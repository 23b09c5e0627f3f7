package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/atomicstack/clock-menu/internal/format/table"
	"github.com/atomicstack/clock-menu/internal/menu"
	"github.com/atomicstack/clock-menu/internal/tmux"
	"github.com/atomicstack/clock-menu/internal/ui"
)

// demo holds the actions offered by the clock-menu binary. They print to
// the surface while the menu owns the screen.
type demo struct {
	out       io.Writer
	menu      *ui.Menu
	baseTitle string
	socket    string
	renames   int

	now          func() time.Time
	termSize     func() (int, int, error)
	listSessions func(string) ([]tmux.Session, error)
}

func newDemo(out io.Writer, socket string) *demo {
	return &demo{
		out:          out,
		socket:       socket,
		now:          time.Now,
		termSize:     stdoutSize,
		listSessions: tmux.ListSessions,
	}
}

func (d *demo) entries() []Entry {
	return []Entry{
		{Label: "Show date", Action: menu.ActionFunc(d.showDate)},
		{Label: "Terminal size", Action: menu.ActionFunc(d.showSize)},
		{Label: "tmux sessions", Action: menu.ActionFunc(d.showSessions)},
		{Label: "Rename menu", Action: menu.ActionFunc(d.rename)},
	}
}

func (d *demo) showDate() error {
	_, err := fmt.Fprintf(d.out, "Today is %s\n", d.now().Format("Monday, 2 January 2006"))
	return err
}

func (d *demo) showSize() error {
	width, height, err := d.termSize()
	if err != nil {
		_, werr := fmt.Fprintf(d.out, "Terminal size unavailable: %v\n", err)
		return werr
	}
	_, err = fmt.Fprintf(d.out, "Terminal is %d columns by %d rows\n", width, height)
	return err
}

// showSessions prints tmux failures rather than returning them.
func (d *demo) showSessions() error {
	socket, err := tmux.ResolveSocketPath(d.socket)
	if err != nil {
		_, werr := fmt.Fprintf(d.out, "tmux unavailable: %v\n", err)
		return werr
	}
	sessions, err := d.listSessions(socket)
	if err != nil {
		_, werr := fmt.Fprintf(d.out, "tmux unavailable: %v\n", err)
		return werr
	}
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(d.out, "No tmux sessions.")
		return err
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		marker := "  "
		if s.Current {
			marker = "* "
		}
		windows := fmt.Sprintf("%d windows", s.Windows)
		if s.Windows == 1 {
			windows = "1 window"
		}
		status := ""
		if s.Attached {
			status = "attached"
		}
		rows = append(rows, []string{marker + s.Name, windows, status})
	}
	for _, line := range table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight}) {
		if _, err := fmt.Fprintln(d.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (d *demo) rename() error {
	if d.menu == nil {
		return errors.New("rename: menu not attached")
	}
	d.renames++
	title := fmt.Sprintf("%s (renamed %d)", d.baseTitle, d.renames)
	d.menu.SetTitle(title)
	_, err := fmt.Fprintf(d.out, "Menu renamed to %q\n", title)
	return err
}

func stdoutSize() (int, int, error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, errors.New("stdout is not a terminal")
	}
	return term.GetSize(fd)
}
