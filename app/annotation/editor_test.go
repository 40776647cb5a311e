package annotation

import (
	"testing"
)

func clickAt(idx float64, rounded int, amp float64) ClickPoint {
	return ClickPoint{SampleIndex: idx, SampleIndexRounded: rounded, Amplitude: amp}
}

func TestEditor_ToggleMode(t *testing.T) {
	e := NewEditor(ComplexProtocol{})

	if e.Phase() != PhaseIdle {
		t.Fatalf("expected idle start, got %v", e.Phase())
	}
	if !e.ToggleMode() {
		t.Errorf("first toggle should report armed")
	}
	if e.Phase() != PhaseArmed {
		t.Errorf("expected armed after toggle, got %v", e.Phase())
	}
	if e.ToggleMode() {
		t.Errorf("second toggle should report disarmed")
	}
	if e.Phase() != PhaseIdle {
		t.Errorf("expected idle after second toggle, got %v", e.Phase())
	}
}

func TestEditor_ToggleDiscardsPartialMarks(t *testing.T) {
	e := NewEditor(ComplexProtocol{})
	e.ToggleMode()
	e.RecordClick(clickAt(10, 10, 1.0))
	e.RecordClick(clickAt(20, 20, 2.0))

	e.ToggleMode() // cancel
	if e.Phase() != PhaseIdle {
		t.Fatalf("expected idle after cancel, got %v", e.Phase())
	}
	if len(e.Marks()) != 0 {
		t.Errorf("expected marks discarded, have %d", len(e.Marks()))
	}

	// Toggle twice more: back where we started, still no marks.
	e.ToggleMode()
	e.ToggleMode()
	if e.Phase() != PhaseIdle || len(e.Marks()) != 0 {
		t.Errorf("double toggle should be identity, got %v with %d marks", e.Phase(), len(e.Marks()))
	}
}

func TestEditor_RoleSequence(t *testing.T) {
	e := NewEditor(ComplexProtocol{})
	e.ToggleMode()

	e.RecordClick(clickAt(1, 1, 0))
	e.RecordClick(clickAt(2, 2, 0))
	marks := e.Marks()
	if len(marks) != 2 {
		t.Fatalf("expected 2 marks, got %d", len(marks))
	}
	if marks[0].Role != RoleI || marks[1].Role != RoleJ {
		t.Errorf("roles assigned out of order: %v, %v", marks[0].Role, marks[1].Role)
	}
	if e.Phase() != PhaseCollecting {
		t.Errorf("expected collecting with partial marks, got %v", e.Phase())
	}
}

func TestEditor_ComplexCommitOnThirdClick(t *testing.T) {
	e := NewEditor(ComplexProtocol{})
	e.ToggleMode()

	if outcome, _ := e.RecordClick(clickAt(10, 10, 5)); outcome != ClickRecorded {
		t.Fatalf("first click outcome = %v, want recorded", outcome)
	}
	if outcome, _ := e.RecordClick(clickAt(20, 20, 8)); outcome != ClickRecorded {
		t.Fatalf("second click outcome = %v, want recorded", outcome)
	}
	outcome, row := e.RecordClick(clickAt(30, 30, 3))
	if outcome != ClickCommitted {
		t.Fatalf("third click outcome = %v, want committed", outcome)
	}
	cr, ok := row.(ComplexRow)
	if !ok {
		t.Fatalf("expected ComplexRow, got %T", row)
	}
	if cr.Width != 20 {
		t.Errorf("width = %v, want 20", cr.Width)
	}
	if cr.Height != 5 {
		t.Errorf("height = %v, want 5", cr.Height)
	}
	if cr.ID == "" {
		t.Errorf("committed row has no ID")
	}
	if e.Phase() != PhaseIdle {
		t.Errorf("expected idle after commit, got %v", e.Phase())
	}
}

func TestEditor_ClickIgnoredWhenIdle(t *testing.T) {
	e := NewEditor(ComplexProtocol{})
	outcome, row := e.RecordClick(clickAt(5, 5, 1))
	if outcome != ClickIgnored || row != nil {
		t.Errorf("click while idle should be ignored, got %v", outcome)
	}
	if len(e.Marks()) != 0 {
		t.Errorf("ignored click must not place a mark")
	}
}

func TestEditor_PeakPendingConfidence(t *testing.T) {
	e := NewEditor(PeakProtocol{})
	e.ToggleMode()

	outcome, row := e.RecordClick(clickAt(42.4, 42, 7.5))
	if outcome != ClickPending || row != nil {
		t.Fatalf("peak click outcome = %v, want pending with no row", outcome)
	}
	if e.Phase() != PhasePendingConfidence {
		t.Fatalf("expected pending confidence, got %v", e.Phase())
	}

	// Further clicks are ignored while pending.
	if outcome, _ := e.RecordClick(clickAt(50, 50, 1)); outcome != ClickIgnored {
		t.Errorf("click while pending should be ignored, got %v", outcome)
	}

	// Empty label is a retryable no-op.
	if _, ok := e.ConfirmConfidence(ConfidenceNone); ok {
		t.Errorf("empty confidence should not commit")
	}
	if e.Phase() != PhasePendingConfidence {
		t.Errorf("failed confirm must keep pending state, got %v", e.Phase())
	}

	row2, ok := e.ConfirmConfidence(ConfidenceSure)
	if !ok {
		t.Fatalf("confirm with label should commit")
	}
	pr, ok := row2.(PeakRow)
	if !ok {
		t.Fatalf("expected PeakRow, got %T", row2)
	}
	if pr.Index != 42 || pr.Amplitude != 7.5 || pr.Confidence != ConfidenceSure {
		t.Errorf("unexpected committed row: %+v", pr)
	}
	if e.Phase() != PhaseIdle {
		t.Errorf("expected idle after confirm, got %v", e.Phase())
	}
}

func TestEditor_ConfirmOutsidePendingIsNoop(t *testing.T) {
	e := NewEditor(PeakProtocol{})
	if _, ok := e.ConfirmConfidence(ConfidenceSure); ok {
		t.Errorf("confirm while idle should be a no-op")
	}
	e.ToggleMode()
	if _, ok := e.ConfirmConfidence(ConfidenceSure); ok {
		t.Errorf("confirm while armed should be a no-op")
	}
}

func TestEditor_ArmRestartsSequence(t *testing.T) {
	e := NewEditor(ComplexProtocol{})
	e.ToggleMode()
	e.RecordClick(clickAt(1, 1, 1))
	e.RecordClick(clickAt(2, 2, 2))

	e.Arm()
	if e.Phase() != PhaseArmed {
		t.Errorf("expected armed after Arm, got %v", e.Phase())
	}
	if len(e.Marks()) != 0 {
		t.Errorf("Arm must discard partial marks, have %d", len(e.Marks()))
	}
}
