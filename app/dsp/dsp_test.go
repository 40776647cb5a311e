package dsp

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestDesignBandpass_InvalidSpecs(t *testing.T) {
	tests := []struct {
		name       string
		order      int
		low, high  float64
		sampleRate float64
	}{
		{"zero order", 0, 1.5, 10, 250},
		{"zero sample rate", 2, 1.5, 10, 0},
		{"zero low cut", 2, 0, 10, 250},
		{"high cut at nyquist", 2, 1.5, 125, 250},
		{"inverted band", 2, 10, 1.5, 250},
		{"equal edges", 2, 5, 5, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DesignBandpass(tt.order, tt.low, tt.high, tt.sampleRate); err == nil {
				t.Errorf("expected design error")
			}
		})
	}
}

func TestDesignBandpass_SectionsAndCenterGain(t *testing.T) {
	for order := 1; order <= 4; order++ {
		sections, err := DesignBandpass(order, 1.5, 10, 250)
		if err != nil {
			t.Fatalf("order %d: %v", order, err)
		}
		if len(sections) != order {
			t.Errorf("order %d: got %d sections, want %d", order, len(sections), order)
		}

		f0 := math.Sqrt(1.5 * 10)
		gain := cmplx.Abs(responseAt(sections, 2*math.Pi*f0/250))
		if math.Abs(gain-1) > 0.02 {
			t.Errorf("order %d: center gain = %v, want ~1", order, gain)
		}

		// Band-pass sections must block DC entirely.
		if dc := cmplx.Abs(responseAt(sections, 0)); dc > 1e-9 {
			t.Errorf("order %d: DC gain = %v, want 0", order, dc)
		}
	}
}

func TestBandpass_RemovesConstantOffset(t *testing.T) {
	n := 1000
	x := make([]float64, n)
	for i := range x {
		x[i] = 42.0
	}
	y, err := Bandpass(x, 2, 1.5, 10, 250)
	if err != nil {
		t.Fatalf("Bandpass: %v", err)
	}
	if len(y) != n {
		t.Fatalf("output length = %d, want %d", len(y), n)
	}
	for i, v := range y {
		if math.Abs(v) > 1e-6 {
			t.Fatalf("constant input should filter to zero, y[%d] = %v", i, v)
		}
	}
}

func TestBandpass_PassbandVsStopband(t *testing.T) {
	const (
		fs = 250.0
		n  = 2000
	)
	sine := func(freq float64) []float64 {
		x := make([]float64, n)
		for i := range x {
			x[i] = math.Sin(2 * math.Pi * freq * float64(i) / fs)
		}
		return x
	}
	rms := func(x []float64) float64 {
		var sum float64
		// Skip the outer 10% to keep residual edge effects out of the measure.
		lo, hi := n/10, n-n/10
		for _, v := range x[lo:hi] {
			sum += v * v
		}
		return math.Sqrt(sum / float64(hi-lo))
	}

	inBand, err := Bandpass(sine(5), 2, 1.5, 10, fs)
	if err != nil {
		t.Fatalf("Bandpass: %v", err)
	}
	outOfBand, err := Bandpass(sine(40), 2, 1.5, 10, fs)
	if err != nil {
		t.Fatalf("Bandpass: %v", err)
	}

	if r := rms(inBand); r < 0.5 {
		t.Errorf("passband tone attenuated too much, rms = %v", r)
	}
	if r := rms(outOfBand); r > 0.1 {
		t.Errorf("stopband tone passed through, rms = %v", r)
	}
}

func TestFiltFilt_InputTooShort(t *testing.T) {
	sections, err := DesignBandpass(2, 1.5, 10, 250)
	if err != nil {
		t.Fatalf("DesignBandpass: %v", err)
	}
	short := make([]float64, 3*(2*len(sections)+1))
	if _, err := FiltFilt(sections, short); err == nil {
		t.Errorf("expected error for input shorter than the edge padding")
	}
}

func TestFiltFilt_ZeroPhase(t *testing.T) {
	// A symmetric pulse must stay symmetric: forward-backward filtering
	// cancels the phase shift.
	const n = 801
	x := make([]float64, n)
	center := n / 2
	for i := range x {
		d := float64(i - center)
		x[i] = math.Exp(-d * d / 200)
	}
	y, err := Bandpass(x, 2, 1.5, 10, 250)
	if err != nil {
		t.Fatalf("Bandpass: %v", err)
	}
	for i := 0; i < center; i++ {
		if math.Abs(y[center-i]-y[center+i]) > 1e-4 {
			t.Fatalf("output asymmetric at offset %d: %v vs %v", i, y[center-i], y[center+i])
		}
	}
}
