package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Screen adapts a tcell.Screen to the Surface capability set. tcell owns
// the terminal for the lifetime of the Screen, so text an action prints
// must go through Write rather than straight to stdout.
type Screen struct {
	screen  tcell.Screen
	cursor  Position
	style   tcell.Style
	visible bool
	pending []Key
}

// NewScreen initialises a tcell screen on the controlling terminal.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return NewScreenFrom(s), nil
}

// NewScreenFrom wraps an already initialised tcell screen.
func NewScreenFrom(s tcell.Screen) *Screen {
	return &Screen{screen: s, style: tcell.StyleDefault}
}

// Close restores the terminal.
func (s *Screen) Close() error {
	s.screen.Fini()
	return nil
}

func (s *Screen) Write(p []byte) (int, error) {
	for _, r := range string(p) {
		switch r {
		case '\n':
			s.cursor.Row++
			s.cursor.Col = 0
		case '\r':
			s.cursor.Col = 0
		default:
			s.screen.SetContent(s.cursor.Col, s.cursor.Row, r, nil, s.style)
			w := runewidth.RuneWidth(r)
			if w < 1 {
				w = 1
			}
			s.cursor.Col += w
		}
	}
	s.syncCursor()
	s.screen.Show()
	return len(p), nil
}

func (s *Screen) GetCursorPosition() (Position, error) {
	return s.cursor, nil
}

func (s *Screen) SetCursorPosition(p Position) error {
	if p.Row < 0 || p.Col < 0 {
		return fmt.Errorf("invalid cursor position %s", p)
	}
	s.cursor = p
	s.syncCursor()
	s.screen.Show()
	return nil
}

func (s *Screen) SetTextAttributes(attrs Attributes) error {
	s.style = tcell.StyleDefault.
		Foreground(tcell.PaletteColor(int(attrs.Fg))).
		Background(tcell.PaletteColor(int(attrs.Bg)))
	return nil
}

func (s *Screen) SetCursorVisible(visible bool) error {
	s.visible = visible
	s.syncCursor()
	s.screen.Show()
	return nil
}

func (s *Screen) ClearScreen() error {
	s.screen.Clear()
	s.cursor = Position{}
	s.syncCursor()
	s.screen.Show()
	return nil
}

func (s *Screen) syncCursor() {
	if s.visible {
		s.screen.ShowCursor(s.cursor.Col, s.cursor.Row)
		return
	}
	s.screen.HideCursor()
}

func (s *Screen) ReadRawKey() (Key, error) {
	for len(s.pending) == 0 {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return 0, ErrClosed
		case *tcell.EventResize:
			s.screen.Sync()
		case *tcell.EventKey:
			s.pending = append(s.pending, keysFromEvent(ev)...)
		}
	}
	key := s.pending[0]
	s.pending = s.pending[1:]
	return key, nil
}

func keysFromEvent(ev *tcell.EventKey) []Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return []Key{KeyExtended, KeyUp}
	case tcell.KeyDown:
		return []Key{KeyExtended, KeyDown}
	case tcell.KeyLeft:
		return []Key{KeyExtended, KeyLeft}
	case tcell.KeyRight:
		return []Key{KeyExtended, KeyRight}
	case tcell.KeyEnter:
		return []Key{KeyEnter}
	case tcell.KeyEscape:
		return []Key{KeyEscape}
	case tcell.KeyRune:
		if r := ev.Rune(); r < 128 {
			return []Key{Key(r)}
		}
		return []Key{KeyOther}
	}
	return []Key{KeyOther}
}
