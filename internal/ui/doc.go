// Package ui runs an interactive menu session on a terminal.Surface.
//
// Control flow:
//   - Run draws the menu through a render.Coordinator, highlights the first
//     entry and starts a clock.Refresher that repaints the clock line once
//     a second.
//   - The foreground loop then blocks on one key at a time. Arrow keys
//     arrive as KeyExtended followed by KeyUp or KeyDown and move the
//     selection with wraparound. Enter runs the selected action through the
//     command bus. Escape ends the session.
//
// Locking:
//   - Every surface write from either goroutine goes through the
//     coordinator's single mutex. An action runs with that mutex held, so
//     the clock stands still while it owns the screen.
//   - The refresher is never stopped while the mutex is held; Stop joins
//     the task, which may be waiting on the mutex to paint.
//
// Errors:
//   - Surface failures come back as *render.FaultError, action failures as
//     *command.ActionError. Both end the session and are returned by Run
//     after the refresher has been joined.
package ui
