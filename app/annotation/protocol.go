package annotation

import (
	"fmt"

	"github.com/google/uuid"
)

// Protocol is one annotation variant: how many marks make a finalized row,
// whether a confidence label gates the commit, and how rows are built from
// marks or decoded back from grid edits. The two variants are kept as
// separate strategies rather than one merged state machine.
type Protocol interface {
	// Name is the settings identifier for the protocol.
	Name() string
	// RequiredMarks is the number of clicks that complete one row.
	RequiredMarks() int
	// NeedsConfidence reports whether the commit is deferred until a
	// confidence label is confirmed.
	NeedsConfidence() bool
	// Roles returns the mark roles in the fixed order clicks are assigned.
	Roles() []Role
	// Finalize builds the committed row from a full set of marks. All derived
	// fields are computed here, before the row is appended anywhere.
	Finalize(marks []Mark, conf Confidence) (Row, error)
	// RowFromGrid decodes one edited grid row. Missing IDs get fresh ones so
	// rows added directly in the grid stay addressable.
	RowFromGrid(cells map[string]any) (Row, error)
	// ConfidenceLabels returns the labels the UI offers for this variant.
	ConfidenceLabels() []Confidence
}

// ProtocolByName resolves the configured protocol, defaulting to the
// three-mark complex variant.
func ProtocolByName(name string) Protocol {
	if name == "peak" {
		return PeakProtocol{}
	}
	return ComplexProtocol{}
}

// ComplexProtocol is the three-mark i/j/k variant: clicks land in fixed
// order, and the third click commits synchronously with width and height
// derived from the marks.
type ComplexProtocol struct{}

func (ComplexProtocol) Name() string          { return "complex" }
func (ComplexProtocol) RequiredMarks() int    { return 3 }
func (ComplexProtocol) NeedsConfidence() bool { return false }
func (ComplexProtocol) Roles() []Role         { return []Role{RoleI, RoleJ, RoleK} }

func (ComplexProtocol) ConfidenceLabels() []Confidence {
	return []Confidence{ConfidenceUnsure, ConfidenceLow, ConfidenceMedium, ConfidenceHigh}
}

func (p ComplexProtocol) Finalize(marks []Mark, _ Confidence) (Row, error) {
	if len(marks) != p.RequiredMarks() {
		return nil, fmt.Errorf("complex row needs %d marks, have %d", p.RequiredMarks(), len(marks))
	}
	i, j, k := marks[0].Point, marks[1].Point, marks[2].Point
	return ComplexRow{
		ID:     uuid.New().String(),
		I:      i.SampleIndex,
		J:      j.SampleIndex,
		K:      k.SampleIndex,
		IAmp:   i.Amplitude,
		JAmp:   j.Amplitude,
		KAmp:   k.Amplitude,
		Width:  k.SampleIndex - i.SampleIndex,
		Height: j.Amplitude - k.Amplitude,
		IConf:  ConfidenceNone,
		JConf:  ConfidenceNone,
		KConf:  ConfidenceNone,
	}, nil
}

func (ComplexProtocol) RowFromGrid(cells map[string]any) (Row, error) {
	row := ComplexRow{ID: cellString(cells, "id")}
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	row.I = cellFloat(cells, "i")
	row.J = cellFloat(cells, "j")
	row.K = cellFloat(cells, "k")
	row.IAmp = cellFloat(cells, "i_amp")
	row.JAmp = cellFloat(cells, "j_amp")
	row.KAmp = cellFloat(cells, "k_amp")
	row.Width = cellFloat(cells, "width")
	row.Height = cellFloat(cells, "height")
	row.IConf = Confidence(cellString(cells, "i_conf"))
	row.JConf = Confidence(cellString(cells, "j_conf"))
	row.KConf = Confidence(cellString(cells, "k_conf"))
	return row, nil
}

// PeakProtocol is the single-mark variant: the click transitions to a
// pending state and the row commits only once a non-empty confidence label
// is confirmed.
type PeakProtocol struct{}

func (PeakProtocol) Name() string          { return "peak" }
func (PeakProtocol) RequiredMarks() int    { return 1 }
func (PeakProtocol) NeedsConfidence() bool { return true }
func (PeakProtocol) Roles() []Role         { return []Role{RolePeak} }

func (PeakProtocol) ConfidenceLabels() []Confidence {
	return []Confidence{ConfidenceUnsure, ConfidenceSomewhatSure, ConfidenceSure}
}

func (p PeakProtocol) Finalize(marks []Mark, conf Confidence) (Row, error) {
	if len(marks) != p.RequiredMarks() {
		return nil, fmt.Errorf("peak row needs %d mark, have %d", p.RequiredMarks(), len(marks))
	}
	if conf == ConfidenceNone {
		return nil, fmt.Errorf("peak row needs a confidence label")
	}
	pt := marks[0].Point
	return PeakRow{
		ID:         uuid.New().String(),
		Index:      pt.SampleIndexRounded,
		Amplitude:  pt.Amplitude,
		Confidence: conf,
	}, nil
}

func (PeakProtocol) RowFromGrid(cells map[string]any) (Row, error) {
	row := PeakRow{ID: cellString(cells, "id")}
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	row.Index = int(cellFloat(cells, "index"))
	row.Amplitude = cellFloat(cells, "amplitude")
	row.Confidence = Confidence(cellString(cells, "confidence"))
	return row, nil
}

// cellFloat pulls a numeric cell out of a decoded grid row. JSON numbers
// arrive as float64, but edited cells can come back as strings.
func cellFloat(cells map[string]any, key string) float64 {
	switch v := cells[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			return f
		}
	}
	return 0
}

func cellString(cells map[string]any, key string) string {
	if v, ok := cells[key].(string); ok {
		return v
	}
	return ""
}
