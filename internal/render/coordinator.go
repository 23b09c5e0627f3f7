// Package render serialises every write to the terminal surface behind one
// mutex. The clock goroutine and the input loop both paint through a
// Coordinator, so their output never interleaves.
package render

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/clock-menu/internal/menu"
	"github.com/atomicstack/clock-menu/internal/terminal"
	"github.com/atomicstack/clock-menu/internal/theme"
)

const (
	Tooltip     = "Esc - exit"
	AckPrompt   = "Press any key to continue . . ."
	ClockLayout = "2006-01-02 15:04:05"
)

var (
	// ErrNotInitialized is returned by repaints issued before Initialize.
	ErrNotInitialized = errors.New("menu not initialized")
	// ErrNoItems is returned when initializing a menu without entries.
	ErrNoItems = errors.New("menu has no items")
)

// FaultError reports a failed terminal operation. A fault ends the menu
// session.
type FaultError struct {
	Op  string
	Err error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

func fault(op string, err error) error {
	if err == nil {
		return nil
	}
	return &FaultError{Op: op, Err: err}
}

// Coordinator owns the exclusion domain. The mutex is not reentrant: the
// unexported helpers below assume the caller already holds it.
type Coordinator struct {
	mu      sync.Mutex
	surface terminal.Surface
	model   *menu.Model
	styles  *theme.Styles
	now     func() time.Time

	ready   bool
	clockAt terminal.Position
	parking terminal.Position
}

// Option customises a Coordinator.
type Option func(*Coordinator)

// WithNow replaces the time source used for the clock line.
func WithNow(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithStyles replaces the attribute palette.
func WithStyles(styles *theme.Styles) Option {
	return func(c *Coordinator) {
		if styles != nil {
			c.styles = styles
		}
	}
}

// New returns a coordinator painting model onto surface.
func New(surface terminal.Surface, model *menu.Model, opts ...Option) *Coordinator {
	c := &Coordinator{
		surface: surface,
		model:   model,
		styles:  theme.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize clears the screen, draws the header and records each item's
// position just before printing its label.
func (c *Coordinator) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model.Len() == 0 {
		return ErrNoItems
	}
	if err := fault("clear screen", c.surface.ClearScreen()); err != nil {
		return err
	}
	if err := fault("hide cursor", c.surface.SetCursorVisible(false)); err != nil {
		return err
	}
	pos, err := c.surface.GetCursorPosition()
	if err != nil {
		return fault("get cursor position", err)
	}
	c.clockAt = pos
	if err := c.drawHeader(); err != nil {
		return err
	}
	for i, item := range c.model.Items() {
		pos, err := c.surface.GetCursorPosition()
		if err != nil {
			return fault("get cursor position", err)
		}
		if err := c.model.SetPosition(i, pos); err != nil {
			return err
		}
		if err := c.print(c.styles.Item, item.Label+"\n"); err != nil {
			return err
		}
	}
	last, _ := c.model.LastPosition()
	c.parking = terminal.Position{Row: last.Row + 1}
	c.ready = true
	return nil
}

// RepaintSelection highlights item i, returns the previously selected item
// to plain attributes and records i as the selection.
func (c *Coordinator) RepaintSelection(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return ErrNotInitialized
	}
	item, err := c.model.Item(i)
	if err != nil {
		return err
	}
	if prev := c.model.SelectedIndex(); prev != i {
		if old, err := c.model.Item(prev); err == nil {
			if err := c.move(old.Position); err != nil {
				return err
			}
			if err := c.print(c.styles.Item, old.Label); err != nil {
				return err
			}
		}
	}
	if err := c.move(item.Position); err != nil {
		return err
	}
	if err := c.print(c.styles.SelectedItem, item.Label); err != nil {
		return err
	}
	if err := c.resetAttributes(); err != nil {
		return err
	}
	if err := c.model.Select(i); err != nil {
		return err
	}
	return c.park()
}

// RepaintAll redraws the header and every label from scratch.
func (c *Coordinator) RepaintAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return ErrNotInitialized
	}
	return c.repaintAll()
}

// RepaintClock rewrites the clock line with the current local time.
func (c *Coordinator) RepaintClock() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return ErrNotInitialized
	}
	if err := c.move(c.clockAt); err != nil {
		return err
	}
	if err := c.print(c.styles.Clock, c.clockText()); err != nil {
		return err
	}
	if err := c.resetAttributes(); err != nil {
		return err
	}
	return c.park()
}

// Invoke hands the whole screen to run while holding the lock, so no clock
// repaint can land on top of the action's output. After run returns the
// user acknowledges with a key press and the menu is redrawn. An error
// from run is returned as is, without redrawing.
func (c *Coordinator) Invoke(run func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return ErrNotInitialized
	}
	if err := fault("clear screen", c.surface.ClearScreen()); err != nil {
		return err
	}
	if err := fault("show cursor", c.surface.SetCursorVisible(true)); err != nil {
		return err
	}
	if err := run(); err != nil {
		return err
	}
	if err := c.print(c.styles.Item, "\n"+AckPrompt); err != nil {
		return err
	}
	if _, err := c.surface.ReadRawKey(); err != nil {
		return fault("read key", err)
	}
	if err := fault("hide cursor", c.surface.SetCursorVisible(false)); err != nil {
		return err
	}
	return c.repaintAll()
}

// ClockPosition returns where the clock line is drawn.
func (c *Coordinator) ClockPosition() terminal.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clockAt
}

// ParkingPosition returns the resting cursor position below the items.
func (c *Coordinator) ParkingPosition() terminal.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parking
}

func (c *Coordinator) repaintAll() error {
	if err := fault("clear screen", c.surface.ClearScreen()); err != nil {
		return err
	}
	if err := c.move(c.clockAt); err != nil {
		return err
	}
	if err := c.drawHeader(); err != nil {
		return err
	}
	for _, item := range c.model.Items() {
		if err := c.move(item.Position); err != nil {
			return err
		}
		if err := c.print(c.styles.Item, item.Label); err != nil {
			return err
		}
	}
	return c.park()
}

func (c *Coordinator) drawHeader() error {
	if err := c.print(c.styles.Clock, c.clockText()+"\n"); err != nil {
		return err
	}
	return c.print(c.styles.Header, Tooltip+"\n\n"+c.model.Title()+"\n")
}

func (c *Coordinator) clockText() string {
	return c.now().Local().Format(ClockLayout)
}

func (c *Coordinator) print(attrs terminal.Attributes, text string) error {
	if err := fault("set text attributes", c.surface.SetTextAttributes(attrs)); err != nil {
		return err
	}
	if _, err := c.surface.Write([]byte(text)); err != nil {
		return fault("write", err)
	}
	return nil
}

func (c *Coordinator) resetAttributes() error {
	return fault("set text attributes", c.surface.SetTextAttributes(c.styles.Item))
}

func (c *Coordinator) move(pos terminal.Position) error {
	return fault("set cursor position", c.surface.SetCursorPosition(pos))
}

func (c *Coordinator) park() error {
	return c.move(c.parking)
}
