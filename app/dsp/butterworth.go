// Package dsp implements the Butterworth band-pass filter used for visual
// inspection of piezo traces, as cascaded second-order sections applied
// forward and backward for zero phase.
package dsp

import (
	"fmt"
	"math"
	"math/cmplx"
)

// SOS is one second-order section with the denominator normalized to
// a0 = 1: H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2).
type SOS struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// DesignBandpass designs a digital Butterworth band-pass of the given order
// via the analog low-pass prototype, low-pass→band-pass transformation and
// the bilinear transform. The result has order sections, each carrying one
// zero at z=1 and one at z=-1; the overall gain is normalized to unity at
// the geometric center frequency.
func DesignBandpass(order int, lowHz, highHz, sampleRate float64) ([]SOS, error) {
	if order < 1 {
		return nil, fmt.Errorf("filter order must be >= 1, got %d", order)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", sampleRate)
	}
	nyquist := sampleRate / 2
	if lowHz <= 0 || highHz >= nyquist {
		return nil, fmt.Errorf("band edges must satisfy 0 < low, high < %g Hz (Nyquist)", nyquist)
	}
	if lowHz >= highHz {
		return nil, fmt.Errorf("low cut %g Hz must be below high cut %g Hz", lowHz, highHz)
	}

	// Prewarp the band edges so the bilinear transform lands them exactly.
	fs2 := 2 * sampleRate
	w1 := fs2 * math.Tan(math.Pi*lowHz/sampleRate)
	w2 := fs2 * math.Tan(math.Pi*highHz/sampleRate)
	bw := w2 - w1
	w0 := math.Sqrt(w1 * w2)

	// Analog Butterworth low-pass prototype poles on the unit circle's left
	// half, then low-pass→band-pass: each prototype pole splits in two.
	analog := make([]complex128, 0, 2*order)
	for k := 0; k < order; k++ {
		theta := math.Pi * float64(2*k+order+1) / float64(2*order)
		p := cmplx.Exp(complex(0, theta))
		pb := complex(bw/2, 0) * p
		d := cmplx.Sqrt(pb*pb - complex(w0*w0, 0))
		analog = append(analog, pb+d, pb-d)
	}

	// Bilinear transform into the z-plane.
	digital := make([]complex128, len(analog))
	for i, s := range analog {
		digital[i] = (complex(fs2, 0) + s) / (complex(fs2, 0) - s)
	}

	pairs := pairConjugates(digital)
	sections := make([]SOS, len(pairs))
	for i, pr := range pairs {
		// Numerator (1 - z^-1)(1 + z^-1); denominator from the pole pair.
		sections[i] = SOS{
			B0: 1, B1: 0, B2: -1,
			A1: -real(pr[0] + pr[1]),
			A2: real(pr[0] * pr[1]),
		}
	}

	// Normalize to unit gain at the digital center frequency.
	wc := 2 * math.Atan2(w0, fs2)
	gain := cmplx.Abs(responseAt(sections, wc))
	if gain == 0 {
		return nil, fmt.Errorf("degenerate filter design: zero gain at center frequency")
	}
	sections[0].B0 /= gain
	sections[0].B1 /= gain
	sections[0].B2 /= gain
	return sections, nil
}

// pairConjugates groups digital poles into conjugate (or real) pairs, one
// pair per section.
func pairConjugates(poles []complex128) [][2]complex128 {
	const eps = 1e-12
	var reals []complex128
	var uppers []complex128
	for _, p := range poles {
		switch {
		case math.Abs(imag(p)) < eps:
			reals = append(reals, complex(real(p), 0))
		case imag(p) > 0:
			uppers = append(uppers, p)
		}
	}
	pairs := make([][2]complex128, 0, len(poles)/2)
	for _, p := range uppers {
		pairs = append(pairs, [2]complex128{p, cmplx.Conj(p)})
	}
	for i := 0; i+1 < len(reals); i += 2 {
		pairs = append(pairs, [2]complex128{reals[i], reals[i+1]})
	}
	return pairs
}

// responseAt evaluates the cascade's frequency response at radian frequency
// w (radians per sample).
func responseAt(sections []SOS, w float64) complex128 {
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1
	h := complex(1, 0)
	for _, s := range sections {
		num := complex(s.B0, 0) + complex(s.B1, 0)*z1 + complex(s.B2, 0)*z2
		den := complex(1, 0) + complex(s.A1, 0)*z1 + complex(s.A2, 0)*z2
		h *= num / den
	}
	return h
}
