package annotation

import (
	"strconv"
)

// Confidence is an operator-assigned certainty label attached to a mark or
// complex. The valid label set depends on the active protocol.
type Confidence string

// ConfidenceNone is the unset label. Committing a peak annotation with
// ConfidenceNone is rejected; complex rows start with it and pick up labels
// through grid edits.
const ConfidenceNone Confidence = ""

// Complex protocol labels
const (
	ConfidenceUnsure Confidence = "Unsure"
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Peak protocol labels (ConfidenceUnsure is shared)
const (
	ConfidenceSomewhatSure Confidence = "Somewhat Sure"
	ConfidenceSure         Confidence = "Sure"
)

// ClickPoint is a plot click resolved against the selected recording's time
// axis: a fractional sample offset, the nearest clamped integer index, and
// the amplitude at the clicked point.
type ClickPoint struct {
	SampleIndex        float64 `json:"sampleIndex"`
	SampleIndexRounded int     `json:"sampleIndexRounded"`
	Amplitude          float64 `json:"amplitude"`
}

// Role identifies which feature point of the waveform a mark annotates.
type Role string

const (
	RoleI    Role = "i"
	RoleJ    Role = "j"
	RoleK    Role = "k"
	RolePeak Role = "peak"
)

// Mark is a single placed click tagged with its role.
type Mark struct {
	Role  Role       `json:"role"`
	Point ClickPoint `json:"point"`
}

// Row is one finalized annotation. Rows are value types and immutable once
// committed; edits replace the stored row wholesale via the grid sync path.
type Row interface {
	// RowID returns the row's stable identifier.
	RowID() string
	// Columns returns the export header for this row's variant.
	Columns() []string
	// Values returns the export cells aligned with Columns.
	Values() []string
}

// ComplexRow is the three-mark (i, j, k) annotated unit.
type ComplexRow struct {
	ID     string     `json:"id"`
	I      float64    `json:"i"`
	J      float64    `json:"j"`
	K      float64    `json:"k"`
	IAmp   float64    `json:"i_amp"`
	JAmp   float64    `json:"j_amp"`
	KAmp   float64    `json:"k_amp"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	IConf  Confidence `json:"i_conf"`
	JConf  Confidence `json:"j_conf"`
	KConf  Confidence `json:"k_conf"`
}

func (r ComplexRow) RowID() string { return r.ID }

func (r ComplexRow) Columns() []string {
	return []string{"i", "j", "k", "i_amp", "j_amp", "k_amp", "width", "height", "i_conf", "j_conf", "k_conf"}
}

func (r ComplexRow) Values() []string {
	return []string{
		formatFloat(r.I), formatFloat(r.J), formatFloat(r.K),
		formatFloat(r.IAmp), formatFloat(r.JAmp), formatFloat(r.KAmp),
		formatFloat(r.Width), formatFloat(r.Height),
		string(r.IConf), string(r.JConf), string(r.KConf),
	}
}

// PeakRow is the single-point annotated unit with a required confidence.
type PeakRow struct {
	ID         string     `json:"id"`
	Index      int        `json:"index"`
	Amplitude  float64    `json:"amplitude"`
	Confidence Confidence `json:"confidence"`
}

func (r PeakRow) RowID() string { return r.ID }

func (r PeakRow) Columns() []string {
	return []string{"index", "amplitude", "confidence"}
}

func (r PeakRow) Values() []string {
	return []string{strconv.Itoa(r.Index), formatFloat(r.Amplitude), string(r.Confidence)}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
