package annotation

// Phase is the editor's position in the annotation sequence.
type Phase int

const (
	// PhaseIdle: annotation mode inactive.
	PhaseIdle Phase = iota
	// PhaseArmed: mode active, no marks placed yet.
	PhaseArmed
	// PhaseCollecting: at least one mark placed, more required.
	PhaseCollecting
	// PhasePendingConfidence: all marks placed, commit deferred until a
	// confidence label is confirmed (peak protocol only).
	PhasePendingConfidence
)

func (p Phase) String() string {
	switch p {
	case PhaseArmed:
		return "armed"
	case PhaseCollecting:
		return "collecting"
	case PhasePendingConfidence:
		return "pendingConfidence"
	default:
		return "idle"
	}
}

// ClickOutcome reports what a plot click did to the editor.
type ClickOutcome int

const (
	// ClickIgnored: the click was a no-op (mode inactive or sequence full).
	ClickIgnored ClickOutcome = iota
	// ClickRecorded: a partial mark was placed, more clicks needed.
	ClickRecorded
	// ClickPending: the final mark was placed and the editor now waits for a
	// confidence label.
	ClickPending
	// ClickCommitted: the final mark was placed and a row was produced.
	ClickCommitted
)

// EditorSnapshot is an immutable copy of the editor's in-progress state,
// restored verbatim by undo/redo.
type EditorSnapshot struct {
	Phase Phase  `json:"phase"`
	Marks []Mark `json:"marks"`
}

// Editor is the click-driven state machine that accumulates partial marks
// into finalized rows. It is pure sequencing logic: recording selection
// guards and table writes live in Session.
type Editor struct {
	proto Protocol
	phase Phase
	marks []Mark
}

func NewEditor(proto Protocol) *Editor {
	return &Editor{proto: proto, phase: PhaseIdle}
}

func (e *Editor) Phase() Phase { return e.phase }

// Marks returns a copy of the placed partial marks.
func (e *Editor) Marks() []Mark {
	out := make([]Mark, len(e.marks))
	copy(out, e.marks)
	return out
}

func (e *Editor) Snapshot() EditorSnapshot {
	return EditorSnapshot{Phase: e.phase, Marks: e.Marks()}
}

// Restore replaces the editor state with a snapshot.
func (e *Editor) Restore(s EditorSnapshot) {
	e.phase = s.Phase
	e.marks = make([]Mark, len(s.Marks))
	copy(e.marks, s.Marks)
}

// Reset returns the editor to Idle, discarding partial marks.
func (e *Editor) Reset() {
	e.phase = PhaseIdle
	e.marks = nil
}

// ToggleMode flips annotation mode on and off. Arming from Idle starts a
// fresh sequence; toggling from any active phase discards partial marks.
// Two toggles always land back on the starting variant.
func (e *Editor) ToggleMode() bool {
	if e.phase == PhaseIdle {
		e.phase = PhaseArmed
		e.marks = nil
		return true
	}
	e.Reset()
	return false
}

// Arm unconditionally restarts the sequence with zero marks placed. Any
// in-progress marks are discarded; that is restart-on-demand, not an error.
func (e *Editor) Arm() {
	e.phase = PhaseArmed
	e.marks = nil
}

// RecordClick advances the sequence by one mark. It is valid only while
// Armed, or Collecting with remaining capacity; otherwise the click is
// ignored and the state is unchanged. The returned Row is non-nil only for
// ClickCommitted.
func (e *Editor) RecordClick(pt ClickPoint) (ClickOutcome, Row) {
	if e.phase != PhaseArmed && e.phase != PhaseCollecting {
		return ClickIgnored, nil
	}
	required := e.proto.RequiredMarks()
	if len(e.marks) >= required {
		return ClickIgnored, nil
	}

	role := e.proto.Roles()[len(e.marks)]
	e.marks = append(e.marks, Mark{Role: role, Point: pt})

	if len(e.marks) < required {
		e.phase = PhaseCollecting
		return ClickRecorded, nil
	}

	if e.proto.NeedsConfidence() {
		e.phase = PhasePendingConfidence
		return ClickPending, nil
	}

	row, err := e.proto.Finalize(e.marks, ConfidenceNone)
	if err != nil {
		// A full sequence the protocol refuses cannot leave the editor
		// half-updated: drop the marks and go back to Idle.
		e.Reset()
		return ClickIgnored, nil
	}
	e.Reset()
	return ClickCommitted, row
}

// ConfirmConfidence completes a deferred commit. Valid only from
// PendingConfidence with a non-empty label; anything else is a no-op so the
// operator can retry.
func (e *Editor) ConfirmConfidence(conf Confidence) (Row, bool) {
	if e.phase != PhasePendingConfidence || conf == ConfidenceNone {
		return nil, false
	}
	row, err := e.proto.Finalize(e.marks, conf)
	if err != nil {
		return nil, false
	}
	e.Reset()
	return row, true
}
