package ui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/clock-menu/internal/clock"
	"github.com/atomicstack/clock-menu/internal/logging/events"
	"github.com/atomicstack/clock-menu/internal/menu"
	"github.com/atomicstack/clock-menu/internal/render"
	"github.com/atomicstack/clock-menu/internal/terminal"
	"github.com/atomicstack/clock-menu/internal/theme"
	"github.com/atomicstack/clock-menu/internal/ui/command"
)

const DefaultTitle = "Menu:"

// ErrSessionActive is returned when the item list is changed, or Run is
// called, while a session is already in progress.
var ErrSessionActive = errors.New("menu session already active")

// State is the navigation phase of a Menu.
type State int32

const (
	StateUninitialized State = iota
	StateDisplayed
	StateAwaitingKey
	StateNavigating
	StateInvoking
	StateExited
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDisplayed:
		return "displayed"
	case StateAwaitingKey:
		return "awaiting-key"
	case StateNavigating:
		return "navigating"
	case StateInvoking:
		return "invoking"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Menu is an interactive list of labelled actions with a live clock line.
type Menu struct {
	surface terminal.Surface
	model   *menu.Model
	bus     *command.Bus
	styles  *theme.Styles
	now     func() time.Time
	tick    time.Duration
	poll    time.Duration

	// mu orders AddItem against the start of Run.
	mu       sync.Mutex
	state    atomic.Int32
	active   atomic.Bool
	selected atomic.Int32
}

// Option customises a Menu.
type Option func(*Menu)

// WithStyles replaces the attribute palette.
func WithStyles(styles *theme.Styles) Option {
	return func(m *Menu) {
		if styles != nil {
			m.styles = styles
		}
	}
}

// WithNow replaces the time source for the clock line and its scheduling.
func WithNow(now func() time.Time) Option {
	return func(m *Menu) {
		if now != nil {
			m.now = now
		}
	}
}

// WithTick sets the clock repaint period.
func WithTick(d time.Duration) Option {
	return func(m *Menu) {
		if d > 0 {
			m.tick = d
		}
	}
}

// WithPollInterval sets how often the clock task checks for a due tick.
func WithPollInterval(d time.Duration) Option {
	return func(m *Menu) {
		if d > 0 {
			m.poll = d
		}
	}
}

// NewMenu creates an empty menu drawn on surface. An empty title falls back
// to DefaultTitle.
func NewMenu(surface terminal.Surface, title string, opts ...Option) *Menu {
	if title == "" {
		title = DefaultTitle
	}
	m := &Menu{
		surface: surface,
		model:   menu.New(title),
		bus:     command.New(),
		styles:  theme.Default(),
		now:     time.Now,
		tick:    clock.DefaultTick,
		poll:    clock.DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddItem appends an entry. Labels may repeat and order is preserved.
func (m *Menu) AddItem(label string, action menu.Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active.Load() {
		return ErrSessionActive
	}
	m.model.AddItem(label, action)
	return nil
}

// AddFunc appends an entry backed by a plain function.
func (m *Menu) AddFunc(label string, fn func() error) error {
	return m.AddItem(label, menu.ActionFunc(fn))
}

// SetTitle renames the menu. The new title appears at the next full
// repaint, e.g. right after the action that called it. Call it from an
// action or between sessions, never from another goroutine.
func (m *Menu) SetTitle(title string) {
	m.model.SetTitle(title)
}

func (m *Menu) Title() string {
	return m.model.Title()
}

func (m *Menu) Len() int {
	return m.model.Len()
}

// Selected returns the index of the highlighted entry as of the last
// completed repaint. It is safe to call from any goroutine.
func (m *Menu) Selected() int {
	return int(m.selected.Load())
}

func (m *Menu) State() State {
	return State(m.state.Load())
}

func (m *Menu) setState(s State) {
	m.state.Store(int32(s))
}

// Run displays the menu and processes keys until Escape, a fault or ctx
// cancellation (noticed at the next key). The clock task is stopped and
// joined before Run returns on every path, panics included. A menu without
// items returns nil without touching the surface.
func (m *Menu) Run(ctx context.Context) (err error) {
	m.mu.Lock()
	started := m.active.CompareAndSwap(false, true)
	m.mu.Unlock()
	if !started {
		return ErrSessionActive
	}
	defer m.active.Store(false)

	if m.model.Len() == 0 {
		return nil
	}
	m.setState(StateUninitialized)

	coord := render.New(m.surface, m.model, render.WithStyles(m.styles), render.WithNow(m.now))
	if err := coord.Initialize(); err != nil {
		m.setState(StateExited)
		return err
	}
	m.setState(StateDisplayed)
	events.UI.SessionEnter(m.model.Title(), m.model.Len())
	if err := coord.RepaintSelection(0); err != nil {
		m.setState(StateExited)
		return err
	}
	m.selected.Store(0)

	refresher := clock.New(coord.RepaintClock,
		clock.WithTick(m.tick),
		clock.WithPollInterval(m.poll),
		clock.WithNow(m.now),
	)
	if err := refresher.Start(ctx); err != nil {
		m.setState(StateExited)
		return err
	}

	reason := "error"
	defer func() {
		if stopErr := refresher.Stop(); err == nil && stopErr != nil {
			err = stopErr
		}
		m.setState(StateExited)
		events.UI.SessionExit(reason)
	}()

	s := &session{menu: m, coord: coord, clock: refresher, ctx: ctx}
	for {
		key, err := s.readKey()
		if err != nil {
			return err
		}
		switch key {
		case terminal.KeyEscape:
			reason = "escape"
			return nil
		case terminal.KeyEnter:
			if err := s.invokeSelected(); err != nil {
				return err
			}
		case terminal.KeyExtended:
			code, err := s.readKey()
			if err != nil {
				return err
			}
			if err := s.navigate(code); err != nil {
				return err
			}
		default:
			events.UI.KeyIgnored(int(key))
		}
	}
}
