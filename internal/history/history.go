// Package history keeps bounded undo and redo stacks of whole-ledger
// snapshots.
//
// Snapshots are full copies rather than diffs. A snapshot is pushed before
// a mutation runs, so undoing restores the state the mutation started from.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sadopc/dayledger/internal/ledger"
)

// DefaultDepth bounds each stack unless New is given something else.
const DefaultDepth = 30

// Snapshot is an immutable serialized copy of the ledger.
type Snapshot struct {
	Label    string
	At       time.Time
	Projects []byte
	Days     []byte
}

// Take serializes st into a snapshot.
func Take(label string, at time.Time, st ledger.State) (Snapshot, error) {
	projects, err := json.Marshal(st.Projects)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode projects: %w", err)
	}
	days, err := json.Marshal(st.Days)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode days: %w", err)
	}
	return Snapshot{Label: label, At: at, Projects: projects, Days: days}, nil
}

// State decodes the snapshot back into a ledger state.
func (s Snapshot) State() (ledger.State, error) {
	var st ledger.State
	if err := json.Unmarshal(s.Projects, &st.Projects); err != nil {
		return ledger.State{}, fmt.Errorf("decode projects: %w", err)
	}
	if err := json.Unmarshal(s.Days, &st.Days); err != nil {
		return ledger.State{}, fmt.Errorf("decode days: %w", err)
	}
	return st, nil
}

// SameState reports whether both snapshots hold byte-identical ledgers.
// Labels and times are ignored.
func (s Snapshot) SameState(o Snapshot) bool {
	return bytes.Equal(s.Projects, o.Projects) && bytes.Equal(s.Days, o.Days)
}

type Stack struct {
	depth int
	undo  []Snapshot
	redo  []Snapshot
}

func New(depth int) *Stack {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Stack{depth: depth}
}

// Push records s as the newest undo step and abandons the redo branch.
// It does nothing when s holds the same state as the newest undo step.
func (h *Stack) Push(s Snapshot) bool {
	if n := len(h.undo); n > 0 && h.undo[n-1].SameState(s) {
		return false
	}
	h.undo = bounded(append(h.undo, s), h.depth)
	h.redo = nil
	return true
}

// Undo pops the newest undo step and parks current on the redo stack.
// The caller restores the returned snapshot.
func (h *Stack) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undo) == 0 {
		return Snapshot{}, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = bounded(append(h.redo, current), h.depth)
	return top, true
}

// Redo is the mirror of Undo.
func (h *Stack) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redo) == 0 {
		return Snapshot{}, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = bounded(append(h.undo, current), h.depth)
	return top, true
}

func (h *Stack) CanUndo() bool { return len(h.undo) > 0 }
func (h *Stack) CanRedo() bool { return len(h.redo) > 0 }

// UndoLabel is the label of the step Undo would restore, if any.
func (h *Stack) UndoLabel() string {
	if len(h.undo) == 0 {
		return ""
	}
	return h.undo[len(h.undo)-1].Label
}

// RedoLabel is the label of the step Redo would restore, if any.
func (h *Stack) RedoLabel() string {
	if len(h.redo) == 0 {
		return ""
	}
	return h.redo[len(h.redo)-1].Label
}

// Len returns the sizes of the undo and redo stacks.
func (h *Stack) Len() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

func (h *Stack) Clear() {
	h.undo = nil
	h.redo = nil
}

// bounded drops the oldest entries beyond depth. The result never aliases
// a backing array that still holds evicted snapshots.
func bounded(s []Snapshot, depth int) []Snapshot {
	if len(s) <= depth {
		return s
	}
	out := make([]Snapshot, depth)
	copy(out, s[len(s)-depth:])
	return out
}
