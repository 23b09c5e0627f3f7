package testutil

import (
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/atomicstack/clock-menu/internal/terminal"
)

// Op names recorded by Surface.
const (
	OpWrite   = "write"
	OpMove    = "move"
	OpAttrs   = "attrs"
	OpVisible = "visible"
	OpClear   = "clear"
	OpGetPos  = "getpos"
)

// Op is one recorded call on the fake surface.
type Op struct {
	Name    string
	Pos     terminal.Position
	Text    string
	Attrs   terminal.Attributes
	Visible bool
}

// Surface is an in-memory terminal.Surface that records every call, keeps a
// character grid of what was printed and counts calls that overlapped in
// time (which would mean two goroutines wrote concurrently).
type Surface struct {
	mu      sync.Mutex
	ops     []Op
	cursor  terminal.Position
	attrs   terminal.Attributes
	visible bool
	grid    map[int][]rune
	failOn  map[string]error
	reads   int

	keys     chan terminal.Key
	inflight atomic.Int32
	overlaps atomic.Int32
}

// NewSurface returns a fake surface with room for queued keys.
func NewSurface() *Surface {
	return &Surface{
		grid:   make(map[int][]rune),
		failOn: make(map[string]error),
		keys:   make(chan terminal.Key, 256),
	}
}

// Feed queues keys for ReadRawKey.
func (s *Surface) Feed(keys ...terminal.Key) {
	for _, k := range keys {
		s.keys <- k
	}
}

// CloseInput makes ReadRawKey return terminal.ErrClosed once queued keys
// are drained.
func (s *Surface) CloseInput() {
	close(s.keys)
}

// FailOn makes every later call of the named op return err.
func (s *Surface) FailOn(op string, err error) {
	s.mu.Lock()
	s.failOn[op] = err
	s.mu.Unlock()
}

func (s *Surface) enter(op Op) error {
	if s.inflight.Add(1) > 1 {
		s.overlaps.Add(1)
	}
	s.mu.Lock()
	err := s.failOn[op.Name]
	if err == nil {
		s.ops = append(s.ops, op)
	}
	s.mu.Unlock()
	return err
}

func (s *Surface) leave() {
	// widen the window in which a concurrent caller would be noticed
	runtime.Gosched()
	s.inflight.Add(-1)
}

func (s *Surface) Write(p []byte) (int, error) {
	if err := s.enter(Op{Name: OpWrite, Text: string(p)}); err != nil {
		s.leave()
		return 0, err
	}
	s.mu.Lock()
	for _, r := range string(p) {
		if r == '\n' {
			s.cursor.Row++
			s.cursor.Col = 0
			continue
		}
		row := s.grid[s.cursor.Row]
		for len(row) <= s.cursor.Col {
			row = append(row, ' ')
		}
		row[s.cursor.Col] = r
		s.grid[s.cursor.Row] = row
		s.cursor.Col++
	}
	s.mu.Unlock()
	s.leave()
	return len(p), nil
}

func (s *Surface) GetCursorPosition() (terminal.Position, error) {
	defer s.leave()
	if err := s.enter(Op{Name: OpGetPos}); err != nil {
		return terminal.Position{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, nil
}

func (s *Surface) SetCursorPosition(p terminal.Position) error {
	defer s.leave()
	if err := s.enter(Op{Name: OpMove, Pos: p}); err != nil {
		return err
	}
	s.mu.Lock()
	s.cursor = p
	s.mu.Unlock()
	return nil
}

func (s *Surface) SetTextAttributes(a terminal.Attributes) error {
	defer s.leave()
	if err := s.enter(Op{Name: OpAttrs, Attrs: a}); err != nil {
		return err
	}
	s.mu.Lock()
	s.attrs = a
	s.mu.Unlock()
	return nil
}

func (s *Surface) SetCursorVisible(v bool) error {
	defer s.leave()
	if err := s.enter(Op{Name: OpVisible, Visible: v}); err != nil {
		return err
	}
	s.mu.Lock()
	s.visible = v
	s.mu.Unlock()
	return nil
}

func (s *Surface) ClearScreen() error {
	defer s.leave()
	if err := s.enter(Op{Name: OpClear}); err != nil {
		return err
	}
	s.mu.Lock()
	s.grid = make(map[int][]rune)
	s.cursor = terminal.Position{}
	s.mu.Unlock()
	return nil
}

func (s *Surface) ReadRawKey() (terminal.Key, error) {
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	k, ok := <-s.keys
	if !ok {
		return 0, terminal.ErrClosed
	}
	return k, nil
}

// Ops returns a copy of the recorded calls.
func (s *Surface) Ops() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	dup := make([]Op, len(s.ops))
	copy(dup, s.ops)
	return dup
}

// Count returns how many calls of the named op were recorded.
func (s *Surface) Count(name string) int {
	n := 0
	for _, op := range s.Ops() {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Overlaps reports how many calls started while another was in progress.
func (s *Surface) Overlaps() int {
	return int(s.overlaps.Load())
}

// Reads reports how many times ReadRawKey was called.
func (s *Surface) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *Surface) Attributes() terminal.Attributes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attrs
}

func (s *Surface) CursorVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Screen renders the grid as text, one line per row up to the last
// non-empty row, trailing spaces trimmed.
func (s *Surface) Screen() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := -1
	for row := range s.grid {
		if row > last {
			last = row
		}
	}
	lines := make([]string, 0, last+1)
	for row := 0; row <= last; row++ {
		lines = append(lines, strings.TrimRight(string(s.grid[row]), " "))
	}
	return strings.Join(lines, "\n")
}

// Line returns the text of one row, trailing spaces trimmed.
func (s *Surface) Line(row int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.TrimRight(string(s.grid[row]), " ")
}
