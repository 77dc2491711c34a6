package domain

import (
	"fmt"
	"sort"
	"time"
)

// ColumnKey is the three-part column identity of the canonical table.
type ColumnKey struct {
	BlockNo string
	Station string
	Element Element
}

func (k ColumnKey) String() string {
	return k.BlockNo + "/" + k.Station + "/" + string(k.Element)
}

// Frame is one station's table as cell text, addressed by position. Keys is
// nil until the frame has been resolved.
type Frame struct {
	Keys  []ColumnKey
	Cells [][]string
}

// width returns the common row width, failing on ragged or empty frames.
func (f Frame) width() (int, error) {
	if len(f.Cells) == 0 {
		return 0, fmt.Errorf("%w: table has no rows", ErrSchema)
	}
	w := len(f.Cells[0])
	for i, row := range f.Cells {
		if len(row) != w {
			return 0, fmt.Errorf("%w: row %d has %d cells, row 0 has %d", ErrSchema, i, len(row), w)
		}
	}
	return w, nil
}

// Block is one station's normalized columns for one fetch unit.
type Block struct {
	Keys []ColumnKey
	Rows [][]Value
}

// Table is the canonical observation table: a timestamp row index and a
// (block_no, station, element) column index.
type Table struct {
	Cadence Cadence
	Index   []time.Time
	Columns []ColumnKey
	Rows    [][]Value
}

// NewTable returns a table holding only the time spine.
func NewTable(c Cadence, index []time.Time) *Table {
	rows := make([][]Value, len(index))
	for i := range rows {
		rows[i] = []Value{}
	}
	return &Table{Cadence: c, Index: index, Columns: []ColumnKey{}, Rows: rows}
}

func (t *Table) NumRows() int { return len(t.Index) }
func (t *Table) NumCols() int { return len(t.Columns) }

// Attach concatenates a station block column-wise onto the table.
func (t *Table) Attach(b Block) error {
	if len(b.Rows) != len(t.Index) {
		return fmt.Errorf("%w: block has %d rows, spine has %d", ErrSchema, len(b.Rows), len(t.Index))
	}
	for i, row := range b.Rows {
		if len(row) != len(b.Keys) {
			return fmt.Errorf("%w: block row %d has %d values for %d keys", ErrSchema, i, len(row), len(b.Keys))
		}
	}
	t.Columns = append(t.Columns, b.Keys...)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], b.Rows[i]...)
	}
	return nil
}

// Append concatenates o row-wise. Both tables must share the column axis exactly.
func (t *Table) Append(o *Table) error {
	if o.Cadence != t.Cadence {
		return fmt.Errorf("%w: cannot append %s rows to %s table", ErrSchema, o.Cadence, t.Cadence)
	}
	if len(t.Index) > 0 && !sameColumns(t.Columns, o.Columns) {
		return fmt.Errorf("%w: column axes differ", ErrSchema)
	}
	if len(t.Index) == 0 {
		t.Columns = append([]ColumnKey{}, o.Columns...)
	}
	t.Index = append(t.Index, o.Index...)
	t.Rows = append(t.Rows, o.Rows...)
	return nil
}

func sameColumns(a, b []ColumnKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ColumnIndex finds the column position of a key.
func (t *Table) ColumnIndex(key ColumnKey) (int, bool) {
	for i, k := range t.Columns {
		if k == key {
			return i, true
		}
	}
	return 0, false
}

// RowIndex finds the row of a timestamp. The index is sorted, so this is a binary search.
func (t *Table) RowIndex(ts time.Time) (int, bool) {
	i := sort.Search(len(t.Index), func(i int) bool { return !t.Index[i].Before(ts) })
	if i < len(t.Index) && t.Index[i].Equal(ts) {
		return i, true
	}
	return 0, false
}

// StationKey identifies one station's block of columns.
type StationKey struct {
	BlockNo string
	Station string
}

// Stations lists the stations in column order.
func (t *Table) Stations() []StationKey {
	var out []StationKey
	seen := make(map[StationKey]bool)
	for _, k := range t.Columns {
		sk := StationKey{BlockNo: k.BlockNo, Station: k.Station}
		if !seen[sk] {
			seen[sk] = true
			out = append(out, sk)
		}
	}
	return out
}

// Validate checks the table invariants: strictly increasing cadence-aligned
// timestamps, rectangular rows, and every station exposing exactly the
// canonical element list in order.
func (t *Table) Validate() error {
	if !t.Cadence.Valid() {
		return fmt.Errorf("%w: invalid cadence %d", ErrInvalidInput, int(t.Cadence))
	}
	if len(t.Rows) != len(t.Index) {
		return fmt.Errorf("%w: %d rows for %d timestamps", ErrSchema, len(t.Rows), len(t.Index))
	}
	for i, ts := range t.Index {
		if !t.Cadence.Aligned(ts) {
			return fmt.Errorf("%w: timestamp %s not aligned to %s cadence", ErrSchema, ts, t.Cadence)
		}
		if i > 0 && !ts.After(t.Index[i-1]) {
			return fmt.Errorf("%w: timestamp %s does not follow %s", ErrSchema, ts, t.Index[i-1])
		}
		if len(t.Rows[i]) != len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d values for %d columns", ErrSchema, i, len(t.Rows[i]), len(t.Columns))
		}
	}
	elements := t.Cadence.Elements()
	if len(t.Columns)%len(elements) != 0 {
		return fmt.Errorf("%w: %d columns is not a multiple of %d elements", ErrSchema, len(t.Columns), len(elements))
	}
	for start := 0; start < len(t.Columns); start += len(elements) {
		first := t.Columns[start]
		for j, e := range elements {
			k := t.Columns[start+j]
			if k.BlockNo != first.BlockNo || k.Station != first.Station || k.Element != e {
				return fmt.Errorf("%w: column %d is %s, want %s/%s/%s", ErrSchema, start+j, k, first.BlockNo, first.Station, e)
			}
		}
	}
	return nil
}
