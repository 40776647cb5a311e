package annotation

import "sort"

// Table is the per-recording ordered collection of finalized rows and the
// single source of truth behind the editable grid. Insertion order is
// display order. An absent recording key means an empty sequence.
type Table struct {
	rows map[int][]Row
}

func NewTable() *Table {
	return &Table{rows: make(map[int][]Row)}
}

// Upsert ensures an (possibly empty) row sequence exists for the recording.
// Idempotent.
func (t *Table) Upsert(idx int) {
	if _, ok := t.rows[idx]; !ok {
		t.rows[idx] = []Row{}
	}
}

// Append adds a committed row at the end of the recording's sequence.
func (t *Table) Append(idx int, row Row) {
	t.rows[idx] = append(t.rows[idx], row)
}

// ReplaceAll overwrites the recording's sequence with the grid's current
// contents; the grid is authoritative for its own edits. Returns false
// (no-op) when the recording index is unset.
func (t *Table) ReplaceAll(idx int, rows []Row) bool {
	if idx < 0 {
		return false
	}
	next := make([]Row, len(rows))
	copy(next, rows)
	t.rows[idx] = next
	return true
}

// View returns a copy of the recording's row sequence for rendering. Never
// mutates; unknown recordings yield an empty slice.
func (t *Table) View(idx int) []Row {
	src := t.rows[idx]
	out := make([]Row, len(src))
	copy(out, src)
	return out
}

// Len returns the number of rows stored for the recording.
func (t *Table) Len(idx int) int {
	return len(t.rows[idx])
}

// Recordings returns the touched recording indexes in ascending order.
func (t *Table) Recordings() []int {
	out := make([]int, 0, len(t.rows))
	for idx := range t.rows {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Snapshot returns a deep copy of the table contents. Rows themselves are
// immutable values, so sharing them across snapshots is safe.
func (t *Table) Snapshot() map[int][]Row {
	snap := make(map[int][]Row, len(t.rows))
	for idx, rows := range t.rows {
		cp := make([]Row, len(rows))
		copy(cp, rows)
		snap[idx] = cp
	}
	return snap
}

// Restore replaces the table contents with a snapshot.
func (t *Table) Restore(snap map[int][]Row) {
	next := make(map[int][]Row, len(snap))
	for idx, rows := range snap {
		cp := make([]Row, len(rows))
		copy(cp, rows)
		next[idx] = cp
	}
	t.rows = next
}

// Clear drops every recording's rows.
func (t *Table) Clear() {
	t.rows = make(map[int][]Row)
}
