package theme

import "github.com/atomicstack/clock-menu/internal/terminal"

// Styles describes the attribute sets shared across the menu screen.
type Styles struct {
	Item         terminal.Attributes
	SelectedItem terminal.Attributes
	Header       terminal.Attributes
	Clock        terminal.Attributes
}

// White on black for plain text, inverted for the highlighted item.
var defaultStyles = Styles{
	Item:         terminal.Attributes{Fg: terminal.ColorWhite, Bg: terminal.ColorBlack},
	SelectedItem: terminal.Attributes{Fg: terminal.ColorBlack, Bg: terminal.ColorWhite},
	Header:       terminal.Attributes{Fg: terminal.ColorWhite, Bg: terminal.ColorBlack},
	Clock:        terminal.Attributes{Fg: terminal.ColorGray, Bg: terminal.ColorBlack},
}

// Default exposes the standard style set.
func Default() *Styles {
	s := defaultStyles
	return &s
}
