package annotation

import (
	"reflect"
	"sort"
	"sync"
)

// NoRecording is the selection value meaning no recording is active.
const NoRecording = -1

// Session owns one operator's annotation state: the selected recording, the
// editor, the table, the done-set and the history. UI events arrive one at a
// time; the mutex makes each transition atomic so every read after a
// completed mutation sees it. Concurrent operators get independent Sessions.
type Session struct {
	mu       sync.Mutex
	proto    Protocol
	selected int
	editor   *Editor
	table    *Table
	history  *History
	done     map[int]bool
}

func NewSession(proto Protocol) *Session {
	table := NewTable()
	editor := NewEditor(proto)
	return &Session{
		proto:    proto,
		selected: NoRecording,
		editor:   editor,
		table:    table,
		history:  NewHistory(Frame{Table: table.Snapshot(), Editor: editor.Snapshot()}),
		done:     make(map[int]bool),
	}
}

func (s *Session) Protocol() Protocol { return s.proto }

func (s *Session) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// frame must be called with the lock held.
func (s *Session) frame() Frame {
	return Frame{Table: s.table.Snapshot(), Editor: s.editor.Snapshot()}
}

// observe forwards the change descriptor and the post-mutation snapshot to
// the history. Must be called with the lock held.
func (s *Session) observe(c Change) Change {
	s.history.Observe(c, s.frame())
	return c
}

// SelectRecording switches the active recording. Any in-progress annotation
// is cancelled rather than recomputed against the new time axis (documented
// policy; see DESIGN.md). Selecting NoRecording deactivates the session.
func (s *Session) SelectRecording(idx int) Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx == s.selected {
		return Change{Kind: ChangeNone, Recording: idx, Rows: s.table.Len(idx)}
	}
	s.selected = idx
	s.editor.Reset()
	if idx >= 0 {
		s.table.Upsert(idx)
	}
	return s.observe(Change{Kind: ChangeSelect, Recording: idx, Rows: s.table.Len(idx)})
}

// ToggleMode flips annotation mode on or off for the selected recording.
// Without a selection it is a no-op.
func (s *Session) ToggleMode() Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == NoRecording {
		return Change{Kind: ChangeNone, Recording: NoRecording, Rows: -1}
	}
	s.editor.ToggleMode()
	return s.observe(Change{Kind: ChangeArmed, Recording: s.selected, Rows: s.table.Len(s.selected)})
}

// Arm unconditionally restarts the mark sequence (the complex variant's
// "Add Complex" button). No-op without a selection.
func (s *Session) Arm() Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == NoRecording {
		return Change{Kind: ChangeNone, Recording: NoRecording, Rows: -1}
	}
	s.editor.Arm()
	return s.observe(Change{Kind: ChangeArmed, Recording: s.selected, Rows: s.table.Len(s.selected)})
}

// RecordClick feeds a resolved plot click into the editor. Ignored clicks
// leave every piece of state untouched. A completing click appends exactly
// one row to the table in the same transition.
func (s *Session) RecordClick(pt ClickPoint) Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == NoRecording {
		return Change{Kind: ChangeNone, Recording: NoRecording, Rows: -1}
	}
	outcome, row := s.editor.RecordClick(pt)
	switch outcome {
	case ClickRecorded, ClickPending:
		return s.observe(Change{Kind: ChangeMark, Recording: s.selected, Rows: s.table.Len(s.selected)})
	case ClickCommitted:
		s.table.Append(s.selected, row)
		return s.observe(Change{Kind: ChangeCommit, Recording: s.selected, Rows: s.table.Len(s.selected)})
	default:
		return Change{Kind: ChangeNone, Recording: s.selected, Rows: s.table.Len(s.selected)}
	}
}

// ConfirmConfidence completes a pending peak commit. Empty labels and wrong
// phases are no-ops so the operator can retry.
func (s *Session) ConfirmConfidence(conf Confidence) Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == NoRecording {
		return Change{Kind: ChangeNone, Recording: NoRecording, Rows: -1}
	}
	row, ok := s.editor.ConfirmConfidence(conf)
	if !ok {
		return Change{Kind: ChangeNone, Recording: s.selected, Rows: s.table.Len(s.selected)}
	}
	s.table.Append(s.selected, row)
	return s.observe(Change{Kind: ChangeCommit, Recording: s.selected, Rows: s.table.Len(s.selected)})
}

// SyncGrid absorbs the grid's current contents for the selected recording.
// A strictly smaller row count is classified as a deletion; everything else
// is an edit. The length-only test cannot tell a simultaneous add+delete
// from a plain edit. Both paths overwrite the stored sequence wholesale, so
// only the descriptor kind differs.
func (s *Session) SyncGrid(rows []Row) Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == NoRecording {
		return Change{Kind: ChangeNone, Recording: NoRecording, Rows: -1}
	}
	prev := s.table.View(s.selected)
	if reflect.DeepEqual(rows, prev) {
		return Change{Kind: ChangeNone, Recording: s.selected, Rows: len(prev)}
	}
	kind := ChangeGridEdit
	if len(rows) < len(prev) {
		kind = ChangeGridDelete
	}
	if !s.table.ReplaceAll(s.selected, rows) {
		return Change{Kind: ChangeNone, Recording: s.selected, Rows: len(prev)}
	}
	return s.observe(Change{Kind: kind, Recording: s.selected, Rows: s.table.Len(s.selected)})
}

// Undo moves the table and editor one history frame back. Returns false at
// the bottom of the stack.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.table.Restore(frame.Table)
	s.editor.Restore(frame.Editor)
	return true
}

// Redo is symmetric to Undo.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	frame, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.table.Restore(frame.Table)
	s.editor.Restore(frame.Editor)
	return true
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Restart clears the table, the editor and the done-set. The reset itself is
// history-observable, so Undo recovers the pre-restart session (documented
// policy; see DESIGN.md).
func (s *Session) Restart() Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.Clear()
	s.editor.Reset()
	s.done = make(map[int]bool)
	if s.selected >= 0 {
		s.table.Upsert(s.selected)
	}
	return s.observe(Change{Kind: ChangeRestart, Recording: s.selected, Rows: 0})
}

// ToggleDone flips the done marker for the selected recording and reports
// the new state. The done-set is presentation state and is not part of
// history frames.
func (s *Session) ToggleDone() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == NoRecording {
		return false, false
	}
	if s.done[s.selected] {
		delete(s.done, s.selected)
		return false, true
	}
	s.done[s.selected] = true
	return true, true
}

func (s *Session) IsDone(idx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done[idx]
}

// DoneRecordings returns the done recording indexes in ascending order.
func (s *Session) DoneRecordings() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.done))
	for idx := range s.done {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Rows returns the selected recording's rows (empty when none selected).
func (s *Session) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == NoRecording {
		return []Row{}
	}
	return s.table.View(s.selected)
}

// RowsFor returns one recording's rows regardless of selection.
func (s *Session) RowsFor(idx int) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.View(idx)
}

// AllRows returns every recording's rows concatenated in recording order.
func (s *Session) AllRows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Row
	for _, idx := range s.table.Recordings() {
		out = append(out, s.table.View(idx)...)
	}
	return out
}

// EditorState returns a copy of the in-progress editor state for rendering
// partial markers.
func (s *Session) EditorState() EditorSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Snapshot()
}

// HistoryDepth exposes the stack sizes for diagnostics.
func (s *Session) HistoryDepth() (past, future int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Depth()
}
