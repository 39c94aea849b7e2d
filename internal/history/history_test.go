package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC)

func snap(t *testing.T, label string, names ...string) Snapshot {
	t.Helper()
	st := ledger.State{Projects: []ledger.Project{}, Days: []ledger.DayEntry{}}
	for i, n := range names {
		st.Projects = append(st.Projects, ledger.Project{ID: fmt.Sprintf("p%d", i), Name: n})
	}
	s, err := Take(label, t0, st)
	require.NoError(t, err)
	return s
}

func projectNames(t *testing.T, s Snapshot) []string {
	t.Helper()
	st, err := s.State()
	require.NoError(t, err)
	out := []string{}
	for _, p := range st.Projects {
		out = append(out, p.Name)
	}
	return out
}

// ============================================================
// Stack
// ============================================================

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New(10)
	s0 := snap(t, "add bravo", "alpha")
	s1 := snap(t, "", "alpha", "bravo")

	require.True(t, h.Push(s0))
	restored, ok := h.Undo(s1)
	require.True(t, ok)
	assert.Equal(t, []string{"alpha"}, projectNames(t, restored))
	assert.Equal(t, "add bravo", restored.Label)
	assert.False(t, h.CanUndo())
	assert.True(t, h.CanRedo())

	restored, ok = h.Redo(restored)
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "bravo"}, projectNames(t, restored))
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	h := New(0)
	_, ok := h.Undo(snap(t, ""))
	assert.False(t, ok)
	_, ok = h.Redo(snap(t, ""))
	assert.False(t, ok)
	u, r := h.Len()
	assert.Zero(t, u)
	assert.Zero(t, r)
}

func TestPushSkipsIdenticalState(t *testing.T) {
	h := New(10)
	assert.True(t, h.Push(snap(t, "first", "alpha")))
	assert.False(t, h.Push(snap(t, "second", "alpha")))
	u, _ := h.Len()
	assert.Equal(t, 1, u)
	assert.Equal(t, "first", h.UndoLabel())
}

func TestPushClearsRedo(t *testing.T) {
	h := New(10)
	h.Push(snap(t, "a"))
	_, ok := h.Undo(snap(t, "", "alpha"))
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Push(snap(t, "b", "bravo"))
	assert.False(t, h.CanRedo())
	assert.Empty(t, h.RedoLabel())
}

func TestDepthEvictsOldest(t *testing.T) {
	h := New(3)
	for i := 0; i < 5; i++ {
		h.Push(snap(t, fmt.Sprintf("step %d", i), fmt.Sprintf("p%d", i)))
	}
	u, _ := h.Len()
	assert.Equal(t, 3, u)

	var labels []string
	cur := snap(t, "current", "live")
	for h.CanUndo() {
		s, _ := h.Undo(cur)
		labels = append(labels, s.Label)
		cur = s
	}
	assert.Equal(t, []string{"step 4", "step 3", "step 2"}, labels)
	_, r := h.Len()
	assert.Equal(t, 3, r)
}

func TestRedoDepthBounded(t *testing.T) {
	h := New(2)
	h.Push(snap(t, "1", "a"))
	h.Push(snap(t, "2", "b"))
	h.Undo(snap(t, "", "c"))
	h.Undo(snap(t, "", "b"))
	_, r := h.Len()
	assert.Equal(t, 2, r)
}

func TestClear(t *testing.T) {
	h := New(5)
	h.Push(snap(t, "x", "a"))
	h.Clear()
	assert.False(t, h.CanUndo())
	assert.Empty(t, h.UndoLabel())
}

func TestStateRejectsGarbage(t *testing.T) {
	_, err := Snapshot{Projects: []byte("{"), Days: []byte("[]")}.State()
	assert.Error(t, err)
}

// ============================================================
// Debouncer
// ============================================================

func TestDebouncerCoalescesBurst(t *testing.T) {
	d := NewDebouncer(time.Second)
	first := snap(t, "notes", "before")

	_, evicted := d.Stage("notes", first, t0)
	assert.False(t, evicted)
	d.Stage("notes", snap(t, "notes", "typing"), t0.Add(500*time.Millisecond))
	d.Stage("notes", snap(t, "notes", "typing more"), t0.Add(900*time.Millisecond))

	_, ok := d.Due(t0.Add(1500 * time.Millisecond))
	assert.False(t, ok, "deadline moves with each keystroke")

	s, ok := d.Due(t0.Add(1900 * time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, []string{"before"}, projectNames(t, s))
	assert.False(t, d.Pending())

	_, ok = d.Due(t0.Add(time.Hour))
	assert.False(t, ok, "commits exactly once")
}

func TestDebouncerFlush(t *testing.T) {
	d := NewDebouncer(0)
	_, ok := d.Flush()
	assert.False(t, ok)

	d.Stage("notes", snap(t, "notes", "x"), t0)
	assert.Equal(t, t0.Add(DefaultDelay), d.Deadline())
	s, ok := d.Flush()
	require.True(t, ok)
	assert.Equal(t, "notes", s.Label)
	assert.True(t, d.Deadline().IsZero())
}

func TestDebouncerKeyChangeEvicts(t *testing.T) {
	d := NewDebouncer(time.Second)
	d.Stage("notes:2024-01-03", snap(t, "day 3", "a"), t0)
	prev, ok := d.Stage("notes:2024-01-04", snap(t, "day 4", "b"), t0.Add(time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, "day 3", prev.Label)

	s, ok := d.Flush()
	require.True(t, ok)
	assert.Equal(t, "day 4", s.Label)
}
