package annotation

import (
	"math"
	"testing"
)

// sessionClick mimics the app layer's click resolution for a recording with
// numSamples samples spread over duration seconds.
func sessionClick(offsetSec, amp, duration float64, numSamples int) ClickPoint {
	step := duration / float64(numSamples-1)
	idx := offsetSec / step
	rounded := int(math.Round(idx))
	if rounded < 0 {
		rounded = 0
	}
	if rounded > numSamples-1 {
		rounded = numSamples - 1
	}
	return ClickPoint{SampleIndex: idx, SampleIndexRounded: rounded, Amplitude: amp}
}

func TestSession_ComplexClickSequence(t *testing.T) {
	s := NewSession(ComplexProtocol{})
	s.SelectRecording(0)
	s.ToggleMode()

	// 100 samples over 10 seconds; clicks one second apart.
	c1 := s.RecordClick(sessionClick(0, 5, 10, 100))
	c2 := s.RecordClick(sessionClick(1, 8, 10, 100))
	c3 := s.RecordClick(sessionClick(2, 3, 10, 100))

	if c1.Kind != ChangeMark || c2.Kind != ChangeMark {
		t.Fatalf("partial clicks = %v, %v, want mark changes", c1.Kind, c2.Kind)
	}
	if c3.Kind != ChangeCommit {
		t.Fatalf("third click = %v, want commit", c3.Kind)
	}

	rows := s.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected one committed row, got %d", len(rows))
	}
	cr := rows[0].(ComplexRow)
	if math.Abs(cr.Width-19.8) > 1e-9 {
		t.Errorf("width = %v, want 19.8", cr.Width)
	}
	if math.Abs(cr.Height-5.0) > 1e-9 {
		t.Errorf("height = %v, want 5", cr.Height)
	}
	if s.EditorState().Phase != PhaseIdle {
		t.Errorf("editor should return to idle after commit")
	}
}

func TestSession_OperationsGuardedWithoutSelection(t *testing.T) {
	s := NewSession(ComplexProtocol{})

	ops := []struct {
		name string
		run  func() Change
	}{
		{"ToggleMode", s.ToggleMode},
		{"Arm", s.Arm},
		{"RecordClick", func() Change { return s.RecordClick(ClickPoint{}) }},
		{"ConfirmConfidence", func() Change { return s.ConfirmConfidence(ConfidenceSure) }},
		{"SyncGrid", func() Change { return s.SyncGrid([]Row{PeakRow{ID: "x"}}) }},
	}
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			if c := op.run(); c.Kind != ChangeNone {
				t.Errorf("%s without selection = %v, want none", op.name, c.Kind)
			}
		})
	}
	if s.CanUndo() {
		t.Errorf("guarded no-ops must not enter history")
	}
}

func TestSession_SelectionCancelsInProgressAnnotation(t *testing.T) {
	s := NewSession(ComplexProtocol{})
	s.SelectRecording(0)
	s.ToggleMode()
	s.RecordClick(sessionClick(1, 2, 10, 100))

	c := s.SelectRecording(1)
	if c.Kind != ChangeSelect {
		t.Fatalf("switch = %v, want select", c.Kind)
	}
	snap := s.EditorState()
	if snap.Phase != PhaseIdle || len(snap.Marks) != 0 {
		t.Errorf("switching recordings must discard partial marks, got %v with %d marks", snap.Phase, len(snap.Marks))
	}

	// Re-selecting the current recording is a no-op.
	if c := s.SelectRecording(1); c.Kind != ChangeNone {
		t.Errorf("same-index select = %v, want none", c.Kind)
	}
}

func TestSession_RowsPerRecordingIndependent(t *testing.T) {
	s := NewSession(PeakProtocol{})

	commitPeak := func(recording, idx int) {
		s.SelectRecording(recording)
		s.ToggleMode()
		s.RecordClick(ClickPoint{SampleIndex: float64(idx), SampleIndexRounded: idx, Amplitude: 1})
		s.ConfirmConfidence(ConfidenceSure)
	}
	commitPeak(0, 10)
	commitPeak(1, 20)
	commitPeak(0, 30)

	if got := len(s.RowsFor(0)); got != 2 {
		t.Errorf("recording 0 rows = %d, want 2", got)
	}
	if got := len(s.RowsFor(1)); got != 1 {
		t.Errorf("recording 1 rows = %d, want 1", got)
	}
	if got := len(s.AllRows()); got != 3 {
		t.Errorf("AllRows = %d, want 3", got)
	}
}

func TestSession_SyncGridClassification(t *testing.T) {
	s := NewSession(PeakProtocol{})
	s.SelectRecording(0)

	seed := []Row{
		PeakRow{ID: "a", Index: 1, Confidence: ConfidenceSure},
		PeakRow{ID: "b", Index: 2, Confidence: ConfidenceSure},
	}
	if c := s.SyncGrid(seed); c.Kind != ChangeGridEdit {
		t.Fatalf("seeding grid = %v, want edit", c.Kind)
	}

	// Same contents: no-op, no history entry.
	before, _ := s.HistoryDepth()
	if c := s.SyncGrid(seed); c.Kind != ChangeNone {
		t.Errorf("identical sync = %v, want none", c.Kind)
	}
	after, _ := s.HistoryDepth()
	if before != after {
		t.Errorf("identical sync must not grow history")
	}

	// Edited cell, same count.
	edited := []Row{
		PeakRow{ID: "a", Index: 5, Confidence: ConfidenceSure},
		PeakRow{ID: "b", Index: 2, Confidence: ConfidenceSure},
	}
	if c := s.SyncGrid(edited); c.Kind != ChangeGridEdit {
		t.Errorf("edit sync = %v, want edit", c.Kind)
	}

	// Shrink: deletion.
	shrunk := edited[:1]
	c := s.SyncGrid(shrunk)
	if c.Kind != ChangeGridDelete {
		t.Errorf("shrink sync = %v, want delete", c.Kind)
	}
	if c.Rows != 1 {
		t.Errorf("rows after delete = %d, want 1", c.Rows)
	}
}

func TestSession_UndoRedo(t *testing.T) {
	s := NewSession(PeakProtocol{})
	s.SelectRecording(0)
	s.ToggleMode()
	s.RecordClick(ClickPoint{SampleIndexRounded: 7, Amplitude: 2})
	s.ConfirmConfidence(ConfidenceUnsure)

	if len(s.Rows()) != 1 {
		t.Fatalf("expected one row before undo")
	}
	if !s.Undo() {
		t.Fatalf("undo should succeed")
	}
	// One frame back: the pending-confidence state before the commit.
	if len(s.Rows()) != 0 {
		t.Errorf("undo should remove the committed row")
	}
	if s.EditorState().Phase != PhasePendingConfidence {
		t.Errorf("undo should restore the pending editor state, got %v", s.EditorState().Phase)
	}
	if !s.Redo() {
		t.Fatalf("redo should succeed")
	}
	if len(s.Rows()) != 1 {
		t.Errorf("redo should restore the committed row")
	}

	// Drain the stack; the final undo at the bottom reports false.
	for s.Undo() {
	}
	if s.CanUndo() {
		t.Errorf("stack should be drained")
	}
}

func TestSession_RestartIsUndoable(t *testing.T) {
	s := NewSession(PeakProtocol{})
	s.SelectRecording(2)
	s.SyncGrid([]Row{PeakRow{ID: "a", Index: 1, Confidence: ConfidenceSure}})
	s.ToggleDone()

	c := s.Restart()
	if c.Kind != ChangeRestart {
		t.Fatalf("restart = %v, want restart", c.Kind)
	}
	if len(s.Rows()) != 0 {
		t.Errorf("restart should clear rows")
	}
	if s.IsDone(2) {
		t.Errorf("restart should clear done flags")
	}
	if s.Selected() != 2 {
		t.Errorf("restart should keep the selection")
	}

	if !s.Undo() {
		t.Fatalf("undo after restart should succeed")
	}
	if len(s.Rows()) != 1 {
		t.Errorf("undo should recover the pre-restart table")
	}
}

func TestSession_ToggleDone(t *testing.T) {
	s := NewSession(ComplexProtocol{})

	if _, ok := s.ToggleDone(); ok {
		t.Errorf("toggle without selection should report not ok")
	}

	s.SelectRecording(4)
	past, _ := s.HistoryDepth()
	if done, ok := s.ToggleDone(); !ok || !done {
		t.Fatalf("first toggle should mark done")
	}
	if done, ok := s.ToggleDone(); !ok || done {
		t.Fatalf("second toggle should unmark")
	}
	after, _ := s.HistoryDepth()
	if past != after {
		t.Errorf("done toggles must not enter history")
	}
}
