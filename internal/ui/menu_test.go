package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/clock-menu/internal/render"
	"github.com/atomicstack/clock-menu/internal/terminal"
	"github.com/atomicstack/clock-menu/internal/testutil"
	"github.com/atomicstack/clock-menu/internal/ui/command"
)

func fixedNow() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
}

func newTestMenu(surface *testutil.Surface) *Menu {
	return NewMenu(surface, "", WithTick(time.Millisecond), WithPollInterval(time.Millisecond))
}

func counter(n *int) func() error {
	return func() error {
		*n++
		return nil
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

// assertQuiet fails if anything touches the surface after the session ended.
func assertQuiet(t *testing.T, surface *testutil.Surface) {
	t.Helper()
	before := len(surface.Ops())
	time.Sleep(20 * time.Millisecond)
	if after := len(surface.Ops()); after != before {
		t.Fatalf("surface used after Run returned (%d -> %d ops)", before, after)
	}
}

func TestRunWithoutItemsTouchesNothing(t *testing.T) {
	surface := testutil.NewSurface()
	m := newTestMenu(surface)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if n := len(surface.Ops()); n != 0 {
		t.Fatalf("expected no surface calls, got %d", n)
	}
	if surface.Reads() != 0 {
		t.Fatalf("expected no key reads, got %d", surface.Reads())
	}
}

func TestRunInvokesSelectedActionOnce(t *testing.T) {
	surface := testutil.NewSurface()
	m := newTestMenu(surface)
	var a, b, c int
	_ = m.AddFunc("A", counter(&a))
	_ = m.AddFunc("B", counter(&b))
	_ = m.AddFunc("C", counter(&c))

	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(context.Background()) }()
	waitFor(t, func() bool { return surface.Reads() >= 1 })
	if m.Selected() != 0 {
		t.Fatalf("expected initial selection 0, got %d", m.Selected())
	}

	ext, up := terminal.KeyExtended, terminal.KeyUp
	surface.Feed(ext, up)
	waitFor(t, func() bool { return m.Selected() == 2 })
	surface.Feed(ext, up)
	waitFor(t, func() bool { return m.Selected() == 1 })
	surface.Feed(terminal.KeyEnter, ' ', terminal.KeyEscape)

	if err := <-errCh; err != nil {
		t.Fatalf("run: %v", err)
	}
	if a != 0 || b != 1 || c != 0 {
		t.Fatalf("expected only B to run once, got A=%d B=%d C=%d", a, b, c)
	}
	if m.Selected() != 1 {
		t.Fatalf("expected selection 1, got %d", m.Selected())
	}
	if m.State() != StateExited {
		t.Fatalf("expected exited, got %s", m.State())
	}
	if n := surface.Overlaps(); n != 0 {
		t.Fatalf("surface calls overlapped %d times", n)
	}
	assertQuiet(t, surface)
}

func TestNavigationWrapsAround(t *testing.T) {
	surface := testutil.NewSurface()
	m := newTestMenu(surface)
	var a, b, c int
	_ = m.AddFunc("A", counter(&a))
	_ = m.AddFunc("B", counter(&b))
	_ = m.AddFunc("C", counter(&c))

	ext, down := terminal.KeyExtended, terminal.KeyDown
	surface.Feed(ext, down, ext, down, ext, down, terminal.KeyEnter, ' ', terminal.KeyEscape)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if a != 1 || b != 0 || c != 0 {
		t.Fatalf("expected wrap back to A, got A=%d B=%d C=%d", a, b, c)
	}
}

func TestWrapIndex(t *testing.T) {
	cases := []struct{ i, n, want int }{
		{-1, 3, 2},
		{3, 3, 0},
		{1, 3, 1},
		{1, 1, 0},
		{-1, 1, 0},
	}
	for _, tc := range cases {
		if got := wrapIndex(tc.i, tc.n); got != tc.want {
			t.Fatalf("wrapIndex(%d, %d) = %d, want %d", tc.i, tc.n, got, tc.want)
		}
	}
}

func TestIgnoredKeysChangeNothing(t *testing.T) {
	surface := testutil.NewSurface()
	m := newTestMenu(surface)
	var a int
	_ = m.AddFunc("A", counter(&a))
	_ = m.AddFunc("B", nil)

	surface.Feed('x', terminal.KeyExtended, terminal.KeyLeft, terminal.KeyExtended, terminal.KeyRight, terminal.KeyOther, terminal.KeyEscape)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if a != 0 {
		t.Fatalf("expected no action to run")
	}
	if m.Selected() != 0 {
		t.Fatalf("expected selection unchanged, got %d", m.Selected())
	}
}

func TestActionErrorEndsSession(t *testing.T) {
	surface := testutil.NewSurface()
	m := newTestMenu(surface)
	boom := errors.New("boom")
	_ = m.AddFunc("fails", func() error { return boom })
	surface.Feed(terminal.KeyEnter)

	err := m.Run(context.Background())
	var ae *command.ActionError
	if !errors.As(err, &ae) || !errors.Is(err, boom) {
		t.Fatalf("expected ActionError wrapping boom, got %v", err)
	}
	if ae.Label != "fails" {
		t.Fatalf("unexpected label %q", ae.Label)
	}
	if m.State() != StateExited {
		t.Fatalf("expected exited, got %s", m.State())
	}
	assertQuiet(t, surface)
}

func TestActionPanicStillJoinsClock(t *testing.T) {
	surface := testutil.NewSurface()
	m := newTestMenu(surface)
	_ = m.AddFunc("explodes", func() error { panic("kaboom") })
	surface.Feed(terminal.KeyEnter)

	func() {
		defer func() {
			if r := recover(); r != "kaboom" {
				t.Fatalf("expected panic to propagate, got %v", r)
			}
		}()
		_ = m.Run(context.Background())
	}()

	if m.State() != StateExited {
		t.Fatalf("expected exited, got %s", m.State())
	}
	assertQuiet(t, surface)

	// the surface lock was released, so a new session can draw and exit
	surface.Feed(terminal.KeyEscape)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestSurfaceFaultDuringInitialize(t *testing.T) {
	surface := testutil.NewSurface()
	m := newTestMenu(surface)
	_ = m.AddFunc("A", nil)
	broken := errors.New("broken")
	surface.FailOn(testutil.OpWrite, broken)

	err := m.Run(context.Background())
	var fe *render.FaultError
	if !errors.As(err, &fe) || !errors.Is(err, broken) {
		t.Fatalf("expected fault wrapping broken, got %v", err)
	}
	if surface.Reads() != 0 {
		t.Fatalf("expected no key reads after a failed initialize")
	}
}

func TestClosedInputIsFault(t *testing.T) {
	surface := testutil.NewSurface()
	m := newTestMenu(surface)
	_ = m.AddFunc("A", nil)
	surface.CloseInput()

	err := m.Run(context.Background())
	var fe *render.FaultError
	if !errors.As(err, &fe) || !errors.Is(err, terminal.ErrClosed) {
		t.Fatalf("expected read fault, got %v", err)
	}
	if fe.Op != "read key" {
		t.Fatalf("unexpected op %q", fe.Op)
	}
}

func TestClockFaultEndsSession(t *testing.T) {
	surface := testutil.NewSurface()
	m := newTestMenu(surface)
	_ = m.AddFunc("A", nil)

	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(context.Background()) }()
	waitFor(t, func() bool { return surface.Reads() >= 1 })

	broken := errors.New("tty gone")
	surface.FailOn(testutil.OpMove, broken)

	for i := 0; i < 100; i++ {
		surface.Feed(' ')
		select {
		case err := <-errCh:
			var fe *render.FaultError
			if !errors.As(err, &fe) || !errors.Is(err, broken) {
				t.Fatalf("expected clock fault, got %v", err)
			}
			return
		case <-time.After(20 * time.Millisecond):
		}
	}
	t.Fatalf("session did not end after the clock faulted")
}

func TestRunWhileActive(t *testing.T) {
	surface := testutil.NewSurface()
	m := newTestMenu(surface)
	_ = m.AddFunc("A", nil)

	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(context.Background()) }()
	waitFor(t, func() bool { return surface.Reads() >= 1 })

	if err := m.Run(context.Background()); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}
	if err := m.AddFunc("late", nil); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive from AddFunc, got %v", err)
	}

	surface.Feed(terminal.KeyEscape)
	if err := <-errCh; err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := m.AddFunc("after", nil); err != nil {
		t.Fatalf("expected AddFunc to work between sessions, got %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", m.Len())
	}
}

func TestContextCancelNoticedAtNextKey(t *testing.T) {
	surface := testutil.NewSurface()
	m := newTestMenu(surface)
	_ = m.AddFunc("A", nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(ctx) }()
	waitFor(t, func() bool { return surface.Reads() >= 1 })

	cancel()
	surface.Feed(' ')
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSetTitleFromActionShowsAfterRepaint(t *testing.T) {
	surface := testutil.NewSurface()
	m := NewMenu(surface, "Tools:", WithNow(fixedNow), WithTick(time.Hour))
	_ = m.AddFunc("rename", func() error {
		m.SetTitle("Renamed:")
		return nil
	})

	surface.Feed(terminal.KeyEnter, ' ', terminal.KeyEscape)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := surface.Line(3); got != "Renamed:" {
		t.Fatalf("expected new title on screen, got %q", got)
	}
	if got := surface.Line(0); got != "2024-01-02 03:04:05" {
		t.Fatalf("unexpected clock line %q", got)
	}
	if surface.CursorVisible() {
		t.Fatalf("expected cursor hidden after repaint")
	}
}

func TestAddItemDuringRunStartIsOrdered(t *testing.T) {
	for i := 0; i < 20; i++ {
		surface := testutil.NewSurface()
		m := newTestMenu(surface)
		_ = m.AddFunc("A", nil)
		surface.Feed(terminal.KeyEscape)

		errCh := make(chan error, 1)
		go func() { errCh <- m.Run(context.Background()) }()
		addErr := m.AddFunc("B", nil)
		if err := <-errCh; err != nil {
			t.Fatalf("run: %v", err)
		}
		switch {
		case addErr == nil && m.Len() != 2:
			t.Fatalf("accepted item missing, len %d", m.Len())
		case addErr != nil && !errors.Is(addErr, ErrSessionActive):
			t.Fatalf("unexpected AddFunc error %v", addErr)
		case addErr != nil && m.Len() != 1:
			t.Fatalf("rejected item was added, len %d", m.Len())
		}
	}
}

func TestDefaultTitle(t *testing.T) {
	m := NewMenu(testutil.NewSurface(), "")
	if m.Title() != DefaultTitle {
		t.Fatalf("expected default title, got %q", m.Title())
	}
	if m.State() != StateUninitialized {
		t.Fatalf("expected uninitialized, got %s", m.State())
	}
}
