package command

import (
	"fmt"

	"github.com/atomicstack/clock-menu/internal/logging/events"
	"github.com/atomicstack/clock-menu/internal/menu"
)

// ActionError reports a failure returned by a menu entry's action. The
// session ends and the error is returned from Menu.Run.
type ActionError struct {
	Label string
	Err   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %q: %v", e.Label, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Request encapsulates an action invocation.
type Request struct {
	Index   int
	Label   string
	Handler menu.Action
}

// Bus coordinates the execution of menu actions.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute runs the handler on the calling goroutine while emitting trace
// logs. Panics are not recovered.
func (b *Bus) Execute(req Request) error {
	events.Command.Queue(req.Index, req.Label)
	if req.Handler == nil {
		events.Command.Skip(req.Index, req.Label)
		return nil
	}
	if err := req.Handler.Run(); err != nil {
		events.Action.Error(req.Label, err)
		return &ActionError{Label: req.Label, Err: err}
	}
	events.Action.Success(req.Label)
	return nil
}
