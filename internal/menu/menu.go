package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/clock-menu/internal/terminal"
)

// ErrIndexOutOfRange is returned by Select and SetPosition for indices
// outside the item list.
var ErrIndexOutOfRange = errors.New("menu index out of range")

// Action is the side effect bound to a menu entry.
type Action interface {
	Run() error
}

// ActionFunc adapts a plain function to Action.
type ActionFunc func() error

func (f ActionFunc) Run() error {
	if f == nil {
		return nil
	}
	return f()
}

// Item represents a selectable menu entry. Position is recorded when the
// menu is first drawn and stays fixed for the rest of the display session.
type Item struct {
	Label    string
	Action   Action
	Position terminal.Position
}

// Model is the ordered item list plus the selected index.
type Model struct {
	title    string
	items    []Item
	selected int
}

// New creates an empty model with the given title.
func New(title string) *Model {
	return &Model{title: singleLine(title)}
}

// AddItem appends an entry with no position assigned yet.
func (m *Model) AddItem(label string, action Action) {
	m.items = append(m.items, Item{Label: singleLine(label), Action: action})
}

func (m *Model) Len() int {
	return len(m.items)
}

// Item returns the entry at index i.
func (m *Model) Item(i int) (Item, error) {
	if i < 0 || i >= len(m.items) {
		return Item{}, fmt.Errorf("item %d: %w", i, ErrIndexOutOfRange)
	}
	return m.items[i], nil
}

// Items returns a copy of the entries in display order.
func (m *Model) Items() []Item {
	dup := make([]Item, len(m.items))
	copy(dup, m.items)
	return dup
}

func (m *Model) Title() string {
	return m.title
}

// SetTitle renames the menu. Titles occupy one row.
func (m *Model) SetTitle(title string) {
	m.title = singleLine(title)
}

func (m *Model) SelectedIndex() int {
	return m.selected
}

// Select marks item i as selected. Wrapping is the caller's concern.
func (m *Model) Select(i int) error {
	if i < 0 || i >= len(m.items) {
		return fmt.Errorf("select %d of %d: %w", i, len(m.items), ErrIndexOutOfRange)
	}
	m.selected = i
	return nil
}

// SetPosition records the screen position of item i.
func (m *Model) SetPosition(i int, pos terminal.Position) error {
	if i < 0 || i >= len(m.items) {
		return fmt.Errorf("position %d: %w", i, ErrIndexOutOfRange)
	}
	m.items[i].Position = pos
	return nil
}

// LastPosition returns the position of the final item.
func (m *Model) LastPosition() (terminal.Position, bool) {
	if len(m.items) == 0 {
		return terminal.Position{}, false
	}
	return m.items[len(m.items)-1].Position, true
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func singleLine(s string) string {
	return lineBreaks.Replace(s)
}
