package ui

import (
	"context"

	"github.com/atomicstack/clock-menu/internal/clock"
	"github.com/atomicstack/clock-menu/internal/logging/events"
	"github.com/atomicstack/clock-menu/internal/render"
	"github.com/atomicstack/clock-menu/internal/terminal"
	"github.com/atomicstack/clock-menu/internal/ui/command"
)

// session holds what one Run call owns: the coordinator guarding the
// surface and the clock task painting through it.
type session struct {
	menu  *Menu
	coord *render.Coordinator
	clock *clock.Refresher
	ctx   context.Context
}

// readKey blocks for one key, then reports any clock fault or cancellation
// that happened meanwhile.
func (s *session) readKey() (terminal.Key, error) {
	s.menu.setState(StateAwaitingKey)
	key, err := s.menu.surface.ReadRawKey()
	if err != nil {
		return 0, &render.FaultError{Op: "read key", Err: err}
	}
	if err := s.clock.Err(); err != nil {
		return 0, err
	}
	if err := s.ctx.Err(); err != nil {
		return 0, err
	}
	return key, nil
}

func (s *session) navigate(code terminal.Key) error {
	model := s.menu.model
	from := model.SelectedIndex()
	var to int
	switch code {
	case terminal.KeyUp:
		to = wrapIndex(from-1, model.Len())
	case terminal.KeyDown:
		to = wrapIndex(from+1, model.Len())
	default:
		events.UI.KeyIgnored(int(code))
		return nil
	}
	s.menu.setState(StateNavigating)
	if to == from {
		return nil
	}
	events.UI.MenuCursor(from, to)
	if err := s.coord.RepaintSelection(to); err != nil {
		return err
	}
	s.menu.selected.Store(int32(to))
	return nil
}

// invokeSelected runs the highlighted action with the surface locked, then
// restores the highlight once the lock is released.
func (s *session) invokeSelected() error {
	s.menu.setState(StateInvoking)
	model := s.menu.model
	idx := model.SelectedIndex()
	item, err := model.Item(idx)
	if err != nil {
		return err
	}
	err = s.coord.Invoke(func() error {
		return s.menu.bus.Execute(command.Request{Index: idx, Label: item.Label, Handler: item.Action})
	})
	if err != nil {
		return err
	}
	return s.coord.RepaintSelection(idx)
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		return n - 1
	}
	if i >= n {
		return 0
	}
	return i
}
