package annotation

import (
	"reflect"
)

// ChangeKind classifies one committing mutation of the annotation state.
// Every mutating Session operation returns a Change; the History consumes
// that descriptor stream and is the only component that touches the
// undo/redo stacks.
type ChangeKind int

const (
	// ChangeNone: the operation was a guarded no-op.
	ChangeNone ChangeKind = iota
	// ChangeArmed: annotation mode toggled or re-armed.
	ChangeArmed
	// ChangeMark: a partial mark was placed (including the pending-confidence
	// transition).
	ChangeMark
	// ChangeCommit: a finalized row was appended to the table.
	ChangeCommit
	// ChangeGridEdit: the grid wrote back an edit (same or larger row count).
	ChangeGridEdit
	// ChangeGridDelete: the grid wrote back a strictly smaller row count.
	ChangeGridDelete
	// ChangeSelect: the selected recording changed.
	ChangeSelect
	// ChangeRestart: the session was reset.
	ChangeRestart
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeArmed:
		return "armed"
	case ChangeMark:
		return "mark"
	case ChangeCommit:
		return "commit"
	case ChangeGridEdit:
		return "gridEdit"
	case ChangeGridDelete:
		return "gridDelete"
	case ChangeSelect:
		return "select"
	case ChangeRestart:
		return "restart"
	default:
		return "none"
	}
}

// Change describes a committed mutation for observers (history, logging).
type Change struct {
	Kind      ChangeKind
	Recording int // recording the change applies to, -1 when not applicable
	Rows      int // row count for the recording after the change, -1 when not applicable
}

// Frame is one immutable undo/redo snapshot: the whole table plus the
// editor's in-progress state.
type Frame struct {
	Table  map[int][]Row
	Editor EditorSnapshot
}

// History keeps the past/present/future stacks. The bottom of past is the
// oldest frame; the top of future is the most recently undone one.
type History struct {
	past    []Frame
	present Frame
	future  []Frame
}

func NewHistory(initial Frame) *History {
	return &History{present: initial}
}

// Observe consumes one change descriptor together with the state snapshot
// taken after the mutation. Identical snapshots (duplicate triggers) are
// dropped; a real change pushes the old present onto past and discards the
// redo branch.
func (h *History) Observe(c Change, f Frame) bool {
	if c.Kind == ChangeNone {
		return false
	}
	if reflect.DeepEqual(f, h.present) {
		return false
	}
	h.past = append(h.past, h.present)
	h.present = f
	h.future = nil
	return true
}

// Undo steps the present one frame back. With an empty past it is a no-op
// and returns the unchanged present.
func (h *History) Undo() (Frame, bool) {
	if len(h.past) == 0 {
		return h.present, false
	}
	h.future = append(h.future, h.present)
	h.present = h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return h.present, true
}

// Redo steps the present one frame forward, symmetric to Undo.
func (h *History) Redo() (Frame, bool) {
	if len(h.future) == 0 {
		return h.present, false
	}
	h.past = append(h.past, h.present)
	h.present = h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	return h.present, true
}

func (h *History) Present() Frame { return h.present }
func (h *History) CanUndo() bool  { return len(h.past) > 0 }
func (h *History) CanRedo() bool  { return len(h.future) > 0 }

// Depth returns the sizes of the past and future stacks.
func (h *History) Depth() (past, future int) {
	return len(h.past), len(h.future)
}
