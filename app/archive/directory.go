package archive

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"waveline/app/signal"
)

// directoryPattern matches per-session parquet files anywhere under the
// archive root.
const directoryPattern = "**/*.parquet"

// maxParseWorkers caps parallel file parsing.
const maxParseWorkers = 8

// LoadDirectory recursively discovers parquet files under root and parses
// them in parallel, preserving lexical file order in the result. Files that
// fail to parse are skipped and reported as warnings; an archive with no
// readable files is an error.
func LoadDirectory(root string, includeECG bool, maxFiles int) ([]signal.Record, []string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(root, directoryPattern))
	if err != nil {
		return nil, nil, fmt.Errorf("pattern matching failed: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no parquet files found under %s", root)
	}
	sort.Strings(matches)

	var warnings []string
	if maxFiles > 0 && len(matches) > maxFiles {
		warnings = append(warnings, fmt.Sprintf("archive has %d files, loading the first %d", len(matches), maxFiles))
		matches = matches[:maxFiles]
	}

	type parsed struct {
		records []signal.Record
		err     error
	}
	results := make([]parsed, len(matches))

	workers := runtime.NumCPU()
	if workers > maxParseWorkers {
		workers = maxParseWorkers
	}
	if workers > len(matches) {
		workers = len(matches)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records, err := LoadFile(matches[i], includeECG)
				results[i] = parsed{records: records, err: err}
			}
		}()
	}
	for i := range matches {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var records []signal.Record
	for i, res := range results {
		if res.err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped %s: %v", filepath.Base(matches[i]), res.err))
			continue
		}
		records = append(records, res.records...)
	}
	if len(records) == 0 {
		return nil, warnings, fmt.Errorf("no readable recordings under %s", root)
	}
	return records, warnings, nil
}
