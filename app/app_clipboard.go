package app

import (
	"fmt"
	"strings"

	clipboard "golang.design/x/clipboard"
)

// Maximum clipboard size in bytes (10MB) - helps avoid X11 BadLength errors on Linux
const maxClipboardSize = 10 * 1024 * 1024

// safeClipboardWrite attempts to write data to clipboard with panic recovery.
// Returns an error if the write fails or data is too large.
func safeClipboardWrite(format clipboard.Format, data []byte) (err error) {
	if len(data) > maxClipboardSize {
		return fmt.Errorf("data too large for clipboard (%d bytes, max %d bytes / %.1f MB)",
			len(data), maxClipboardSize, float64(maxClipboardSize)/(1024*1024))
	}

	// Use defer/recover to catch panics from clipboard operations
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clipboard write failed: %v", r)
		}
	}()

	clipboard.Write(format, data)
	return nil
}

// CopyResult reports how much a clipboard copy moved.
type CopyResult struct {
	Rows  int `json:"rows"`
	Bytes int `json:"bytes"`
}

// CopyAnnotationsToClipboard copies the active recording's annotation table
// as tab-separated text with a header row.
func (a *App) CopyAnnotationsToClipboard() (*CopyResult, error) {
	if a == nil {
		return nil, fmt.Errorf("app not initialised")
	}
	_, session := a.currentStore()
	rows := session.Rows()
	if len(rows) == 0 {
		return &CopyResult{}, nil
	}

	// Lazy init clipboard
	a.clipOnce.Do(func() {
		if err := clipboard.Init(); err == nil {
			a.clipOK = true
		} else {
			a.clipOK = false
			a.Log("error", fmt.Sprintf("Clipboard init failed: %v", err))
		}
	})
	if !a.clipOK {
		return nil, fmt.Errorf("clipboard not available")
	}

	var b strings.Builder
	b.WriteString(strings.Join(rows[0].Columns(), "\t"))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row.Values(), "\t"))
		b.WriteByte('\n')
	}
	outBytes := []byte(b.String())

	if err := safeClipboardWrite(clipboard.FmtText, outBytes); err != nil {
		a.Log("error", fmt.Sprintf("Clipboard write failed: %v", err))
		return nil, fmt.Errorf("failed to copy to clipboard: %v", err)
	}

	a.Log("info", fmt.Sprintf("Copied %d rows (%d bytes) to clipboard", len(rows), len(outBytes)))
	return &CopyResult{Rows: len(rows), Bytes: len(outBytes)}, nil
}
