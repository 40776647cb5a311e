package signal

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestStepSeconds(t *testing.T) {
	tests := []struct {
		name       string
		duration   float64
		numSamples int
		want       float64
	}{
		{"hundred samples over ten seconds", 10, 100, 10.0 / 99.0},
		{"single sample", 10, 1, 1},
		{"no samples", 10, 0, 1},
		{"two samples", 5, 2, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepSeconds(tt.duration, tt.numSamples); got != tt.want {
				t.Errorf("StepSeconds(%v, %d) = %v, want %v", tt.duration, tt.numSamples, got, tt.want)
			}
		})
	}
}

func TestIndexOffsetRoundTrip(t *testing.T) {
	step := StepSeconds(120, 3000)
	for _, idx := range []float64{0, 1, 499.5, 2999} {
		off := OffsetSeconds(idx, step)
		back := IndexForOffset(off, step)
		if math.Abs(back-idx) > 1e-9 {
			t.Errorf("round trip of index %v came back as %v", idx, back)
		}
	}
	if IndexForOffset(5, 0) != 0 {
		t.Errorf("zero step must map every offset to index 0")
	}
}

func TestRoundedIndex(t *testing.T) {
	tests := []struct {
		index float64
		n     int
		want  int
	}{
		{9.4, 100, 9},
		{9.5, 100, 10},
		{-3.2, 100, 0},
		{250.0, 100, 99},
	}
	for _, tt := range tests {
		if got := RoundedIndex(tt.index, tt.n); got != tt.want {
			t.Errorf("RoundedIndex(%v, %d) = %d, want %d", tt.index, tt.n, got, tt.want)
		}
	}
}

func TestNormalizePolarity(t *testing.T) {
	t.Run("odd gain flips around range midpoint", func(t *testing.T) {
		in := []float64{1, 4, 2, 5}
		out := NormalizePolarity(in, 3)
		want := []float64{5, 2, 4, 1} // max+min-v with min=1, max=5
		for i := range want {
			if out[i] != want[i] {
				t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
			}
		}
		if in[0] != 1 {
			t.Errorf("input slice must not be mutated")
		}
	})

	t.Run("even gain passes through", func(t *testing.T) {
		in := []float64{1, 4, 2}
		out := NormalizePolarity(in, 2)
		for i := range in {
			if out[i] != in[i] {
				t.Errorf("even gain must not flip, out[%d] = %v", i, out[i])
			}
		}
	})

	t.Run("constant signal unchanged", func(t *testing.T) {
		out := NormalizePolarity([]float64{3, 3, 3}, 1)
		for _, v := range out {
			if v != 3 {
				t.Errorf("constant signal flipped to %v", v)
			}
		}
	})
}

func TestNewStore_Validation(t *testing.T) {
	good := Record{Timestamp: 1700000000, Gain: 2, Samples: []float64{1, 2, 3}}

	tests := []struct {
		name     string
		records  []Record
		duration float64
		wantErr  bool
	}{
		{"valid", []Record{good}, 120, false},
		{"empty archive", []Record{}, 120, false},
		{"zero duration", []Record{good}, 0, true},
		{"empty samples", []Record{{Timestamp: 1, Samples: nil}}, 120, true},
		{"ecg length mismatch", []Record{{Timestamp: 1, Samples: []float64{1, 2}, ECG: []float64{1}}}, 120, true},
		{"mask length mismatch", []Record{{Timestamp: 1, Samples: []float64{1, 2}, Mask: []uint8{1, 0, 1}}}, 120, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.records, tt.duration, "")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewStore error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStore_AtAndOptions(t *testing.T) {
	store, err := NewStore([]Record{
		{Timestamp: 1700000000, Samples: []float64{1}},
		{Timestamp: 1700000060, Samples: []float64{2}},
	}, 120, "abc")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, ok := store.At(-1); ok {
		t.Errorf("negative index should miss")
	}
	if _, ok := store.At(2); ok {
		t.Errorf("out-of-range index should miss")
	}
	rec, ok := store.At(1)
	if !ok || rec.Timestamp != 1700000060 {
		t.Errorf("At(1) = %+v, %v", rec, ok)
	}

	opts := store.Options(func(idx int) bool { return idx == 0 })
	if len(opts) != 2 {
		t.Fatalf("expected 2 options, got %d", len(opts))
	}
	if !strings.HasPrefix(opts[0].Label, "✅ ") {
		t.Errorf("done recording should carry the checkmark prefix: %q", opts[0].Label)
	}
	if strings.HasPrefix(opts[1].Label, "✅") {
		t.Errorf("pending recording must not carry the prefix: %q", opts[1].Label)
	}
	if opts[1].Value != 1 {
		t.Errorf("option value = %d, want 1", opts[1].Value)
	}
}

func TestFormatLabel(t *testing.T) {
	ts := int64(1700000000)
	want := time.Unix(ts, 0).Format("2006-01-02 15:04:05")
	if got := FormatLabel(ts, false); got != want {
		t.Errorf("FormatLabel = %q, want %q", got, want)
	}
	if got := FormatLabel(ts, true); got != "✅ "+want {
		t.Errorf("done label = %q", got)
	}
}
