package domain

import "fmt"

// ColumnSlot places one canonical element. When Present is false the element
// is absent from the raw layout and a missing-filled column is synthesized.
type ColumnSlot struct {
	Position int // raw column index, meaningful only when Present
	Element  Element
	Present  bool
}

// Layout describes one raw page shape. Slots are in canonical order; raw
// positions no slot references are dropped.
type Layout struct {
	Name       string
	RawColumns int
	Slots      []ColumnSlot
}

// Inserts counts the synthesized columns.
func (l Layout) Inserts() int {
	n := 0
	for _, s := range l.Slots {
		if !s.Present {
			n++
		}
	}
	return n
}

// Drops counts the raw columns that do not reach the canonical table.
func (l Layout) Drops() int {
	return l.RawColumns - (len(l.Slots) - l.Inserts())
}

// layout builds a Layout from raw positions aligned with the canonical
// element list; -1 marks a synthesized column.
func layout(name string, rawColumns int, elements []Element, positions ...int) Layout {
	l := Layout{Name: name, RawColumns: rawColumns, Slots: make([]ColumnSlot, len(positions))}
	for i, p := range positions {
		l.Slots[i] = ColumnSlot{Position: p, Element: elements[i], Present: p >= 0}
	}
	if err := l.check(elements); err != nil {
		panic(err)
	}
	return l
}

func (l Layout) check(elements []Element) error {
	if len(l.Slots) != len(elements) {
		return fmt.Errorf("layout %s: %d slots for %d elements", l.Name, len(l.Slots), len(elements))
	}
	last := -1
	for i, s := range l.Slots {
		if s.Element != elements[i] {
			return fmt.Errorf("layout %s: slot %d is %s, want %s", l.Name, i, s.Element, elements[i])
		}
		if !s.Present {
			continue
		}
		if s.Position <= last || s.Position >= l.RawColumns {
			return fmt.Errorf("layout %s: slot %d position %d out of order or range", l.Name, i, s.Position)
		}
		last = s.Position
	}
	return nil
}

// Raw layouts per cadence. The s1 pages carry pressure (plus text columns
// that are dropped); the a1 pages lack pressure and some optical elements,
// which are synthesized. daily_s1 is the one layout that does both: it has
// no most-frequent wind direction and ends with two weather summaries.
var layouts = map[Cadence][]Layout{
	TenMinute: {
		layout("10min_s1", 10, TenMinuteElements, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9),
		layout("10min_a1", 8, TenMinuteElements, -1, -1, 0, 1, 2, 3, 4, 5, 6, 7),
	},
	Hourly: {
		// raw 13 is the weather symbol column.
		layout("hourly_s1", 16, HourlyElements, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 14, 15),
		layout("hourly_a1", 10, HourlyElements, -1, -1, 0, 1, 2, 3, 4, 5, 6, 7, -1, 8, 9, -1, -1),
	},
	Daily: {
		// raw 18 and 19 are the day and night weather summaries.
		layout("daily_s1", 20, DailyElements, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, -1, 15, 16, 17),
		layout("daily_a1", 17, DailyElements, -1, -1, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16),
	},
}

// Layouts returns the known raw layouts of a cadence.
func Layouts(c Cadence) []Layout {
	return layouts[c]
}

// LayoutFor selects the layout whose raw width matches.
func LayoutFor(c Cadence, rawColumns int) (Layout, error) {
	known := layouts[c]
	if len(known) == 0 {
		return Layout{}, fmt.Errorf("%w: unknown cadence %d", ErrInvalidInput, int(c))
	}
	widths := make([]int, 0, len(known))
	for _, l := range known {
		if l.RawColumns == rawColumns {
			return l, nil
		}
		widths = append(widths, l.RawColumns)
	}
	return Layout{}, fmt.Errorf("%w: %s table has %d columns, want one of %v", ErrSchema, c, rawColumns, widths)
}

// Resolve reconciles a station's raw frame into the canonical column schema
// of the cadence and labels every column with the station's key. The layout
// is chosen by raw width; the station's block number is validated but never
// used to guess a layout. A frame that is already canonical for the cadence
// is returned unchanged.
func Resolve(f Frame, c Cadence, st StationRecord) (Frame, error) {
	if _, err := st.Class(); err != nil {
		return Frame{}, err
	}
	elements := c.Elements()
	if elements == nil {
		return Frame{}, fmt.Errorf("%w: unknown cadence %d", ErrInvalidInput, int(c))
	}
	if isCanonical(f, elements) {
		return f, nil
	}

	w, err := f.width()
	if err != nil {
		return Frame{}, fmt.Errorf("block_no %s: %w", st.BlockNo, err)
	}
	l, err := LayoutFor(c, w)
	if err != nil {
		return Frame{}, fmt.Errorf("block_no %s: %w", st.BlockNo, err)
	}

	keys := make([]ColumnKey, len(l.Slots))
	for i, s := range l.Slots {
		keys[i] = ColumnKey{BlockNo: st.BlockNo, Station: st.Label(), Element: s.Element}
	}
	cells := make([][]string, len(f.Cells))
	for i, row := range f.Cells {
		out := make([]string, len(l.Slots))
		for j, s := range l.Slots {
			if s.Present {
				out[j] = row[s.Position]
			} else {
				out[j] = MissingToken
			}
		}
		cells[i] = out
	}
	return Frame{Keys: keys, Cells: cells}, nil
}

func isCanonical(f Frame, elements []Element) bool {
	if len(f.Keys) != len(elements) {
		return false
	}
	for i, k := range f.Keys {
		if k.Element != elements[i] || k.BlockNo != f.Keys[0].BlockNo || k.Station != f.Keys[0].Station {
			return false
		}
	}
	for _, row := range f.Cells {
		if len(row) != len(elements) {
			return false
		}
	}
	return true
}
