package signal

// Record is one immutable signal recording loaded from the archive. It is
// identified by its index in the store's ordered sequence and never mutated
// after load.
type Record struct {
	Timestamp int64     `json:"ts"`   // epoch seconds
	Gain      float64   `json:"gain"` // acquisition gain; odd parity means inverted polarity
	Samples   []float64 `json:"samples"`
	ECG       []float64 `json:"ecg,omitempty"`  // optional, same length as Samples
	Mask      []uint8   `json:"mask,omitempty"` // optional 0/1 flags, same length as Samples
}
