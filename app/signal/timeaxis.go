package signal

import "math"

// Time-axis mapping between sample indexes and seconds from the recording
// start. The archive stores one timestamp per recording and an implied
// sampling step spreading the configured duration across the samples.

// StepSeconds returns the implied sampling step: duration/(n-1), or one
// second per sample for degenerate recordings.
func StepSeconds(duration float64, numSamples int) float64 {
	if numSamples <= 1 {
		return 1
	}
	return duration / float64(numSamples-1)
}

// OffsetSeconds maps a fractional sample index to seconds from the start.
func OffsetSeconds(index, step float64) float64 {
	return index * step
}

// IndexForOffset maps seconds from the start back to a fractional sample
// index, the inverse of OffsetSeconds.
func IndexForOffset(offsetSec, step float64) float64 {
	if step == 0 {
		return 0
	}
	return offsetSec / step
}

// ClampIndex bounds v into [lo, hi].
func ClampIndex(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundedIndex rounds a fractional sample index to the nearest valid array
// index of a recording with numSamples samples.
func RoundedIndex(index float64, numSamples int) int {
	return ClampIndex(int(math.Round(index)), 0, numSamples-1)
}
