package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T) (tcell.SimulationScreen, *Screen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	sim.SetSize(20, 5)
	t.Cleanup(sim.Fini)
	return sim, NewScreenFrom(sim)
}

func cellText(sim tcell.SimulationScreen, row, from, to int) string {
	cells, width, _ := sim.GetContents()
	out := make([]rune, 0, to-from)
	for col := from; col < to; col++ {
		c := cells[row*width+col]
		if len(c.Runes) == 0 {
			out = append(out, ' ')
			continue
		}
		out = append(out, c.Runes[0])
	}
	return string(out)
}

func TestScreenWriteAdvancesCursor(t *testing.T) {
	sim, s := newSimScreen(t)
	if _, err := s.Write([]byte("ab\ncd")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := cellText(sim, 0, 0, 2); got != "ab" {
		t.Fatalf("expected row 0 %q, got %q", "ab", got)
	}
	if got := cellText(sim, 1, 0, 2); got != "cd" {
		t.Fatalf("expected row 1 %q, got %q", "cd", got)
	}
	pos, _ := s.GetCursorPosition()
	if pos != (Position{Row: 1, Col: 2}) {
		t.Fatalf("expected cursor 1:2, got %s", pos)
	}
}

func TestScreenClearHomesCursor(t *testing.T) {
	sim, s := newSimScreen(t)
	_ = s.SetCursorPosition(Position{Row: 2, Col: 3})
	_, _ = s.Write([]byte("x"))
	if err := s.ClearScreen(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := cellText(sim, 2, 3, 4); got != " " {
		t.Fatalf("expected cleared cell, got %q", got)
	}
	if pos, _ := s.GetCursorPosition(); pos != (Position{}) {
		t.Fatalf("expected home cursor, got %s", pos)
	}
}

func TestScreenReadRawKeyMapsEvents(t *testing.T) {
	sim, s := newSimScreen(t)
	sim.InjectKey(tcell.KeyUp, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	want := []Key{KeyExtended, KeyUp, KeyEnter, Key('q'), KeyEscape}
	for i, w := range want {
		k, err := s.ReadRawKey()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if k != w {
			t.Fatalf("read %d: expected %v, got %v", i, w, k)
		}
	}
}
