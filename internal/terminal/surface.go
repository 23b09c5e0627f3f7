// Package terminal defines the capability set the menu consumes from a
// character terminal, plus two drivers: an ANSI driver writing escape
// sequences to a stream and a tcell driver backed by a tcell.Screen.
package terminal

import (
	"errors"
	"fmt"
	"io"
)

// ErrClosed is returned by drivers once their input or screen has gone away.
var ErrClosed = errors.New("terminal closed")

// Position is a zero-based screen coordinate.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Color is a 16-colour console palette index (0 black .. 15 bright white).
type Color uint8

const (
	ColorBlack Color = 0
	ColorGray  Color = 7
	ColorWhite Color = 15
)

// Attributes pairs a foreground and background colour.
type Attributes struct {
	Fg Color
	Bg Color
}

// Surface is the terminal capability set. Writes print text at the cursor
// and advance it; a newline moves to column 0 of the next row.
type Surface interface {
	io.Writer
	GetCursorPosition() (Position, error)
	SetCursorPosition(Position) error
	SetTextAttributes(Attributes) error
	SetCursorVisible(bool) error
	// ClearScreen erases the screen and homes the cursor.
	ClearScreen() error
	// ReadRawKey blocks until one key code is available.
	ReadRawKey() (Key, error)
}
