package signal

import "math"

// NormalizePolarity flips a recording around the midpoint of its observed
// range when the acquisition gain has odd parity. Sensors wired with an odd
// gain setting record inverted; flipping restores upright waveforms while
// keeping the original value range. Even gains pass through unchanged.
func NormalizePolarity(samples []float64, gain float64) []float64 {
	out := make([]float64, len(samples))
	copy(out, samples)
	if math.Mod(gain, 2) != 1 {
		return out
	}
	if len(out) == 0 {
		return out
	}
	minVal, maxVal := out[0], out[0]
	for _, v := range out {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == maxVal {
		return out
	}
	for i, v := range out {
		out[i] = maxVal + minVal - v
	}
	return out
}
