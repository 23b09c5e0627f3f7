package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// ANSI drives an xterm-compatible terminal through escape sequences. The
// cursor position is tracked locally from what was written, so
// GetCursorPosition never has to query the terminal (which would compete
// with ReadRawKey for stdin).
//
// Open puts the input terminal in raw mode for the whole session, so the
// kernel never echoes keys onto the screen; Write then emits CRLF line
// endings itself. Close restores the previous mode.
type ANSI struct {
	in       io.Reader
	out      io.Writer
	renderer *lipgloss.Renderer
	style    lipgloss.Style
	width    int

	rawFd    int
	rawState *term.State
	crlf     bool

	cursor  Position
	decoder uv.EventDecoder
	pending []Key
	buf     []byte
}

// ANSIOption customises an ANSI driver.
type ANSIOption func(*ANSI)

// WithWidth sets the column count used to follow line wrapping. Zero
// disables wrap tracking.
func WithWidth(width int) ANSIOption {
	return func(a *ANSI) {
		if width >= 0 {
			a.width = width
		}
	}
}

// NewANSI returns a driver reading keys from in and writing to out. When
// out is a terminal its width is detected.
func NewANSI(in io.Reader, out io.Writer, opts ...ANSIOption) *ANSI {
	a := &ANSI{
		in:       in,
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		buf:      make([]byte, 64),
	}
	a.style = a.renderer.NewStyle()
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			a.width = w
		}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewStdio returns a driver bound to the process's standard streams.
func NewStdio() *ANSI {
	return NewANSI(os.Stdin, os.Stdout)
}

// Open switches the input to raw mode when it is a terminal. It is a no-op
// for other readers and when already open.
func (a *ANSI) Open() error {
	if a.rawState != nil {
		return nil
	}
	f, ok := a.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	a.rawFd = fd
	a.rawState = state
	a.crlf = true
	return nil
}

// Close restores the terminal mode saved by Open.
func (a *ANSI) Close() error {
	if a.rawState == nil {
		return nil
	}
	state := a.rawState
	a.rawState = nil
	a.crlf = false
	if err := term.Restore(a.rawFd, state); err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}

func (a *ANSI) Write(p []byte) (int, error) {
	newline := "\n"
	if a.crlf {
		newline = "\r\n"
	}
	lines := strings.Split(string(p), "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString(newline)
			a.cursor.Row++
			a.cursor.Col = 0
		}
		if line == "" {
			continue
		}
		b.WriteString(a.style.Render(line))
		a.advance(ansi.StringWidth(line))
	}
	if _, err := io.WriteString(a.out, b.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (a *ANSI) advance(cols int) {
	a.cursor.Col += cols
	if a.width > 0 && a.cursor.Col >= a.width {
		a.cursor.Row += a.cursor.Col / a.width
		a.cursor.Col %= a.width
	}
}

func (a *ANSI) GetCursorPosition() (Position, error) {
	return a.cursor, nil
}

func (a *ANSI) SetCursorPosition(p Position) error {
	if p.Row < 0 || p.Col < 0 {
		return fmt.Errorf("invalid cursor position %s", p)
	}
	if _, err := io.WriteString(a.out, ansi.CUP(p.Col+1, p.Row+1)); err != nil {
		return err
	}
	a.cursor = p
	return nil
}

func (a *ANSI) SetTextAttributes(attrs Attributes) error {
	a.style = a.renderer.NewStyle().
		Foreground(lipgloss.Color(strconv.Itoa(int(attrs.Fg)))).
		Background(lipgloss.Color(strconv.Itoa(int(attrs.Bg))))
	return nil
}

func (a *ANSI) SetCursorVisible(visible bool) error {
	seq := ansi.HideCursor
	if visible {
		seq = ansi.ShowCursor
	}
	_, err := io.WriteString(a.out, seq)
	return err
}

func (a *ANSI) ClearScreen() error {
	if _, err := io.WriteString(a.out, ansi.EraseEntireScreen+ansi.CUP(1, 1)); err != nil {
		return err
	}
	a.cursor = Position{}
	return nil
}

func (a *ANSI) ReadRawKey() (Key, error) {
	for len(a.pending) == 0 {
		n, err := a.in.Read(a.buf)
		if n > 0 {
			a.pending = append(a.pending, decodeKeys(&a.decoder, a.buf[:n])...)
		}
		if len(a.pending) > 0 {
			break
		}
		if errors.Is(err, io.EOF) {
			return 0, ErrClosed
		}
		if err != nil {
			return 0, fmt.Errorf("read key: %w", err)
		}
	}
	key := a.pending[0]
	a.pending = a.pending[1:]
	return key, nil
}
