package signal

import (
	"fmt"
	"time"
)

// Store is the read-only, index-addressable sequence of recordings for one
// loaded archive. Construction validates every record, so downstream code
// can treat the store as either fully valid or entirely absent.
type Store struct {
	records  []Record
	duration float64 // seconds each recording is spread across
	hash     string  // archive content hash, empty when not available
}

func NewStore(records []Record, duration float64, hash string) (*Store, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("spread duration must be positive, got %g", duration)
	}
	for i, rec := range records {
		if len(rec.Samples) == 0 {
			return nil, fmt.Errorf("recording %d has no samples", i)
		}
		if rec.ECG != nil && len(rec.ECG) != len(rec.Samples) {
			return nil, fmt.Errorf("recording %d: ecg length %d does not match %d samples", i, len(rec.ECG), len(rec.Samples))
		}
		if rec.Mask != nil && len(rec.Mask) != len(rec.Samples) {
			return nil, fmt.Errorf("recording %d: mask length %d does not match %d samples", i, len(rec.Mask), len(rec.Samples))
		}
	}
	return &Store{records: records, duration: duration, hash: hash}, nil
}

func (s *Store) Len() int          { return len(s.records) }
func (s *Store) Duration() float64 { return s.duration }
func (s *Store) Hash() string      { return s.hash }

// At returns the recording at idx, or false when idx is out of range.
func (s *Store) At(idx int) (Record, bool) {
	if idx < 0 || idx >= len(s.records) {
		return Record{}, false
	}
	return s.records[idx], true
}

// OptionLabel is one dropdown entry for recording selection.
type OptionLabel struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Options builds the recording dropdown, prefixing done recordings with a
// checkmark. The done-set stays external; labels are derived, never mutated.
func (s *Store) Options(isDone func(idx int) bool) []OptionLabel {
	out := make([]OptionLabel, len(s.records))
	for i, rec := range s.records {
		out[i] = OptionLabel{Label: FormatLabel(rec.Timestamp, isDone != nil && isDone(i)), Value: i}
	}
	return out
}

// FormatLabel renders the dropdown label for one recording.
func FormatLabel(ts int64, done bool) string {
	label := time.Unix(ts, 0).Format("2006-01-02 15:04:05")
	if done {
		return "✅ " + label
	}
	return label
}
