package app

import (
	"fmt"

	"waveline/app/annotation"
	"waveline/app/dsp"
	"waveline/app/settings"
	"waveline/app/signal"
)

// MarkerSeries is one scatter overlay on the waveform plot. Final markers
// carry one point per committed row for a given role; the partial series
// shows in-progress clicks that have not been committed yet.
type MarkerSeries struct {
	Role    string    `json:"role"`
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
	Partial bool      `json:"partial"`
}

// PlotData is everything the frontend needs to render one recording: epoch
// millisecond x values, the raw and band-pass filtered traces, the optional
// reference ECG trace, mask positions and the annotation marker overlays.
type PlotData struct {
	Title    string         `json:"title"`
	X        []float64      `json:"x"`
	Raw      []float64      `json:"raw"`
	Filtered []float64      `json:"filtered"`
	ECG      []float64      `json:"ecg,omitempty"`
	MaskX    []float64      `json:"maskX,omitempty"`
	Markers  []MarkerSeries `json:"markers"`
}

// PlotRequest carries per-render filter overrides from the UI. Zero values
// fall back to the configured defaults.
type PlotRequest struct {
	FilterOrder int     `json:"filterOrder"`
	LowCutHz    float64 `json:"lowCutHz"`
	HighCutHz   float64 `json:"highCutHz"`
}

// GetPlotData builds the plot payload for the selected recording. A filter
// failure is returned as an error and leaves the annotation state alone.
func (a *App) GetPlotData(req PlotRequest) (*PlotData, error) {
	store, session := a.currentStore()
	if store == nil {
		return &PlotData{Title: "No Signal Selected", Markers: []MarkerSeries{}}, nil
	}
	sel := session.Selected()
	rec, ok := store.At(sel)
	if !ok {
		return &PlotData{Title: "No Signal Selected", Markers: []MarkerSeries{}}, nil
	}

	eff := settings.GetEffectiveSettings()
	if req.FilterOrder > 0 {
		eff.FilterOrder = req.FilterOrder
	}
	if req.LowCutHz > 0 {
		eff.LowCutHz = req.LowCutHz
	}
	if req.HighCutHz > 0 {
		eff.HighCutHz = req.HighCutHz
	}
	filtered, err := dsp.Bandpass(rec.Samples, eff.FilterOrder, eff.LowCutHz, eff.HighCutHz, float64(eff.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("band-pass filter failed: %w", err)
	}

	n := len(rec.Samples)
	step := signal.StepSeconds(store.Duration(), n)
	x := make([]float64, n)
	startMs := float64(rec.Timestamp) * 1000
	for i := range x {
		x[i] = startMs + signal.OffsetSeconds(float64(i), step)*1000
	}

	data := &PlotData{
		Title:    signal.FormatLabel(rec.Timestamp, session.IsDone(sel)),
		X:        x,
		Raw:      rec.Samples,
		Filtered: filtered,
	}
	if len(rec.ECG) == n {
		data.ECG = rec.ECG
	}
	for i, m := range rec.Mask {
		if m != 0 && i < n {
			data.MaskX = append(data.MaskX, x[i])
		}
	}

	data.Markers = markerSeries(session, rec.Samples, x)
	return data, nil
}

// markerSeries builds the committed-row overlays plus the partial in-flight
// marks. Committed markers re-read the amplitude from the trace at the
// clamped index so they sit on the waveform even after grid edits; partial
// marks keep the clicked amplitude.
func markerSeries(session *annotation.Session, samples, x []float64) []MarkerSeries {
	n := len(samples)
	byRole := map[string]*MarkerSeries{}
	order := []string{}
	add := func(role string, idx float64) {
		s, ok := byRole[role]
		if !ok {
			s = &MarkerSeries{Role: role}
			byRole[role] = s
			order = append(order, role)
		}
		ci := signal.RoundedIndex(idx, n)
		s.X = append(s.X, x[ci])
		s.Y = append(s.Y, samples[ci])
	}

	for _, row := range session.Rows() {
		switch r := row.(type) {
		case annotation.ComplexRow:
			add(string(annotation.RoleI), r.I)
			add(string(annotation.RoleJ), r.J)
			add(string(annotation.RoleK), r.K)
		case annotation.PeakRow:
			add(string(annotation.RolePeak), float64(r.Index))
		}
	}

	out := make([]MarkerSeries, 0, len(order)+1)
	for _, role := range order {
		out = append(out, *byRole[role])
	}

	snap := session.EditorState()
	if len(snap.Marks) > 0 {
		partial := MarkerSeries{Role: "pending", Partial: true}
		for _, m := range snap.Marks {
			ci := signal.ClampIndex(m.Point.SampleIndexRounded, 0, n-1)
			partial.X = append(partial.X, x[ci])
			partial.Y = append(partial.Y, m.Point.Amplitude)
		}
		out = append(out, partial)
	}
	return out
}
