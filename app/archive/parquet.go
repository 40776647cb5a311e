// Package archive loads signal recordings from parquet archives: single
// files, stream-compressed files, or directories of per-session files.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"waveline/app/signal"
)

// Archive column names. ts, gain and signals are required; ecg_signal and
// mask are optional extras rendered alongside the piezo trace.
const (
	columnTS      = "ts"
	columnGain    = "gain"
	columnSignals = "signals"
	columnECG     = "ecg_signal"
	columnMask    = "mask"
)

// LoadFile reads one parquet archive file, transparently decompressing
// gzip/bzip2/xz wrappers. When includeECG is set, a missing ecg_signal
// column is an error rather than a silently degraded load.
func LoadFile(path string, includeECG bool) ([]signal.Record, error) {
	compression, err := DetectCompressionByMagic(path)
	if err != nil {
		return nil, fmt.Errorf("failed to probe %s: %w", path, err)
	}

	if compression != CompressionNone {
		data, err := DecompressFile(path, compression)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		return ReadRecords(bytes.NewReader(data), int64(len(data)), includeECG)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return ReadRecords(f, info.Size(), includeECG)
}

// ReadRecords parses parquet content into validated, polarity-normalized
// recordings.
func ReadRecords(r io.ReaderAt, size int64, includeECG bool) ([]signal.Record, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet archive: %w", err)
	}

	cols := columnIndexes(pf)
	var missing []string
	for _, name := range []string{columnTS, columnGain, columnSignals} {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("archive missing required column(s): %v", missing)
	}
	if includeECG {
		if _, ok := cols[columnECG]; !ok {
			return nil, fmt.Errorf("ECG requested but %q column not found", columnECG)
		}
	}

	tsIdx := cols[columnTS]
	gainIdx := cols[columnGain]
	signalsIdx := cols[columnSignals]

	// Optional columns get sentinel indexes so they never alias a real leaf.
	ecgIdx, maskIdx := -1, -1
	if idx, ok := cols[columnECG]; ok && includeECG {
		ecgIdx = idx
	}
	if idx, ok := cols[columnMask]; ok {
		maskIdx = idx
	}

	var records []signal.Record
	buf := make([]parquet.Row, 64)
	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				records = append(records, decodeRow(row, tsIdx, gainIdx, signalsIdx, ecgIdx, maskIdx))
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to read archive rows: %w", err)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("failed to close archive row reader: %w", err)
		}
	}
	return records, nil
}

// columnIndexes maps each top-level column name to its leaf column index.
// List columns nest their element leaf under the field name, so the first
// path segment identifies the column either way.
func columnIndexes(pf *parquet.File) map[string]int {
	out := make(map[string]int)
	for i, path := range pf.Schema().Columns() {
		if len(path) == 0 {
			continue
		}
		if _, seen := out[path[0]]; !seen {
			out[path[0]] = i
		}
	}
	return out
}

func decodeRow(row parquet.Row, tsIdx, gainIdx, signalsIdx, ecgIdx, maskIdx int) signal.Record {
	var rec signal.Record
	var samples []float64
	for _, v := range row {
		if v.IsNull() {
			continue
		}
		switch v.Column() {
		case tsIdx:
			rec.Timestamp = valueInt(v)
		case gainIdx:
			rec.Gain = valueFloat(v)
		case signalsIdx:
			samples = append(samples, valueFloat(v))
		case ecgIdx:
			rec.ECG = append(rec.ECG, valueFloat(v))
		case maskIdx:
			rec.Mask = append(rec.Mask, uint8(valueInt(v)))
		}
	}
	rec.Samples = signal.NormalizePolarity(samples, rec.Gain)
	return rec
}

func valueFloat(v parquet.Value) float64 {
	switch v.Kind() {
	case parquet.Double:
		return v.Double()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Int64:
		return float64(v.Int64())
	case parquet.Int32:
		return float64(v.Int32())
	default:
		return 0
	}
}

func valueInt(v parquet.Value) int64 {
	switch v.Kind() {
	case parquet.Int64:
		return v.Int64()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Double:
		return int64(v.Double())
	case parquet.Float:
		return int64(v.Float())
	default:
		return 0
	}
}
