package app

import (
	"fmt"

	"waveline/app/annotation"
	"waveline/app/signal"
)

// AnnotationState is the full annotation view returned after every
// annotation operation so the frontend re-renders grid, marks and history
// buttons from one payload.
type AnnotationState struct {
	Recording int               `json:"recording"`
	Phase     string            `json:"phase"`
	Marks     []annotation.Mark `json:"marks"`
	Rows      []annotation.Row  `json:"rows"`
	CanUndo   bool              `json:"canUndo"`
	CanRedo   bool              `json:"canRedo"`
	Done      bool              `json:"done"`
	Change    string            `json:"change"`
}

func (a *App) annotationState(c annotation.Change) *AnnotationState {
	_, session := a.currentStore()
	snap := session.EditorState()
	sel := session.Selected()
	return &AnnotationState{
		Recording: sel,
		Phase:     snap.Phase.String(),
		Marks:     snap.Marks,
		Rows:      session.Rows(),
		CanUndo:   session.CanUndo(),
		CanRedo:   session.CanRedo(),
		Done:      session.IsDone(sel),
		Change:    c.Kind.String(),
	}
}

// GetAnnotationState returns the current state without mutating anything.
func (a *App) GetAnnotationState() *AnnotationState {
	return a.annotationState(annotation.Change{})
}

// SelectRecording switches the active recording. An in-progress annotation
// on the previous recording is discarded.
func (a *App) SelectRecording(idx int) (*AnnotationState, error) {
	store, session := a.currentStore()
	if store == nil {
		return nil, fmt.Errorf("no archive loaded")
	}
	if idx < 0 || idx >= store.Len() {
		return nil, fmt.Errorf("recording index %d out of range", idx)
	}
	c := session.SelectRecording(idx)
	return a.annotationState(c), nil
}

// ToggleAnnotationMode arms annotation mode from idle, or cancels any
// active annotation back to idle.
func (a *App) ToggleAnnotationMode() *AnnotationState {
	_, session := a.currentStore()
	c := session.ToggleMode()
	if c.Kind != annotation.ChangeNone {
		a.Log("info", fmt.Sprintf("Annotation mode: %s", session.EditorState().Phase))
	}
	return a.annotationState(c)
}

// BeginAnnotation restarts mark collection for a fresh annotation,
// discarding any partial marks.
func (a *App) BeginAnnotation() *AnnotationState {
	_, session := a.currentStore()
	c := session.Arm()
	return a.annotationState(c)
}

// PlotClick records a click on the waveform at offsetSeconds from the start
// of the recording. Clicks while not armed are ignored.
func (a *App) PlotClick(offsetSeconds, amplitude float64) (*AnnotationState, error) {
	store, session := a.currentStore()
	if store == nil {
		return nil, fmt.Errorf("no archive loaded")
	}
	sel := session.Selected()
	if sel == annotation.NoRecording {
		return a.annotationState(annotation.Change{}), nil
	}
	rec, ok := store.At(sel)
	if !ok {
		return a.annotationState(annotation.Change{}), nil
	}
	n := len(rec.Samples)
	step := signal.StepSeconds(store.Duration(), n)
	idx := signal.IndexForOffset(offsetSeconds, step)
	pt := annotation.ClickPoint{
		SampleIndex:        idx,
		SampleIndexRounded: signal.RoundedIndex(idx, n),
		Amplitude:          amplitude,
	}
	c := session.RecordClick(pt)
	if c.Kind == annotation.ChangeCommit {
		a.Log("info", fmt.Sprintf("Annotation committed on recording %d", sel))
	}
	return a.annotationState(c), nil
}

// ConfirmConfidence commits the pending single-mark annotation with the
// chosen confidence label.
func (a *App) ConfirmConfidence(label string) (*AnnotationState, error) {
	_, session := a.currentStore()
	if label == "" {
		return nil, fmt.Errorf("confidence label required")
	}
	c := session.ConfirmConfidence(annotation.Confidence(label))
	return a.annotationState(c), nil
}

// UpdateGridRows replaces the active recording's rows with the edited grid
// contents. A shorter grid is recorded as a deletion.
func (a *App) UpdateGridRows(cells []map[string]any) (*AnnotationState, error) {
	_, session := a.currentStore()
	rows := make([]annotation.Row, 0, len(cells))
	for i, cell := range cells {
		row, err := session.Protocol().RowFromGrid(cell)
		if err != nil {
			return nil, fmt.Errorf("grid row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	c := session.SyncGrid(rows)
	return a.annotationState(c), nil
}

// Undo steps the session back one mutation.
func (a *App) Undo() *AnnotationState {
	_, session := a.currentStore()
	session.Undo()
	return a.annotationState(annotation.Change{})
}

// Redo reapplies the most recently undone mutation.
func (a *App) Redo() *AnnotationState {
	_, session := a.currentStore()
	session.Redo()
	return a.annotationState(annotation.Change{})
}

// RestartSession clears all annotations and done flags. The pre-restart
// state remains reachable through undo.
func (a *App) RestartSession() *AnnotationState {
	_, session := a.currentStore()
	c := session.Restart()
	a.Log("info", "Session restarted")
	return a.annotationState(c)
}

// ToggleDone flips the done flag on the active recording.
func (a *App) ToggleDone() *AnnotationState {
	_, session := a.currentStore()
	if done, ok := session.ToggleDone(); ok {
		a.Log("info", fmt.Sprintf("Recording %d done=%v", session.Selected(), done))
	}
	return a.annotationState(annotation.Change{})
}
