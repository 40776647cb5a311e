package dsp

import (
	"fmt"
)

// Bandpass filters samples through a Butterworth band-pass applied forward
// and backward (zero phase). The output has the same length as the input.
// Frequency-spec errors come from DesignBandpass; inputs too short for the
// edge padding are rejected as well.
func Bandpass(samples []float64, order int, lowHz, highHz, sampleRate float64) ([]float64, error) {
	sections, err := DesignBandpass(order, lowHz, highHz, sampleRate)
	if err != nil {
		return nil, err
	}
	return FiltFilt(sections, samples)
}

// FiltFilt applies the cascade forward then backward with odd-extension
// edge padding and steady-state section initialization, so edge transients
// stay out of the returned samples and the net phase shift is zero.
func FiltFilt(sections []SOS, x []float64) ([]float64, error) {
	padLen := 3 * (2*len(sections) + 1)
	if len(x) <= padLen {
		return nil, fmt.Errorf("input too short for zero-phase filtering: %d samples, need more than %d", len(x), padLen)
	}

	ext := oddExtend(x, padLen)

	y := sosFilt(sections, ext, stateForLevel(sections, ext[0]))
	reverse(y)
	y = sosFilt(sections, y, stateForLevel(sections, y[0]))
	reverse(y)

	out := make([]float64, len(x))
	copy(out, y[padLen:len(y)-padLen])
	return out, nil
}

// oddExtend mirrors the signal about its end values: the extension at each
// edge is the reflected signal flipped around the edge sample.
func oddExtend(x []float64, padLen int) []float64 {
	n := len(x)
	ext := make([]float64, 0, n+2*padLen)
	for i := padLen; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := n - 2; i >= n-1-padLen; i-- {
		ext = append(ext, 2*x[n-1]-x[i])
	}
	return ext
}

// sosFilt runs the cascade in transposed direct form II with the given
// per-section initial state.
func sosFilt(sections []SOS, x []float64, state [][2]float64) []float64 {
	y := make([]float64, len(x))
	copy(y, x)
	for si, s := range sections {
		z0, z1 := state[si][0], state[si][1]
		for i, v := range y {
			out := s.B0*v + z0
			z0 = s.B1*v - s.A1*out + z1
			z1 = s.B2*v - s.A2*out
			y[i] = out
		}
	}
	return y
}

// stateForLevel builds per-section initial conditions equal to the steady
// state of a constant input at the given level, so a constant signal passes
// through without a startup transient. Each section's level is the previous
// sections' DC response applied to the input level.
func stateForLevel(sections []SOS, level float64) [][2]float64 {
	state := make([][2]float64, len(sections))
	for i, s := range sections {
		den := 1 + s.A1 + s.A2
		var dc float64
		if den != 0 {
			dc = (s.B0 + s.B1 + s.B2) / den
		}
		state[i][0] = (dc - s.B0) * level
		state[i][1] = (s.B2 - s.A2*dc) * level
		level *= dc
	}
	return state
}

func reverse(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}
