// Package csvfile persists canonical observation tables as CSV.
//
// The header holds a leading datetime column, optional calendar columns, and
// one "block_no/station/element" column per key. Missing cells are written
// as "nan" and calm wind as "-888.8".
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/amedas-etl/internal/domain"
)

const (
	datetimeColumn = "datetime"
	subDailyLayout = "2006-01-02 15:04:05"
	dailyLayout    = "2006-01-02"
)

var calendarColumns = map[string]bool{"year": true, "month": true, "day": true, "hour": true, "minute": true}

// Option configures Write.
type Option func(*options)

type options struct {
	calendar bool
}

// WithCalendarColumns adds year, month, day (and hour, minute for sub-daily
// cadences) after the datetime column.
func WithCalendarColumns() Option {
	return func(o *options) { o.calendar = true }
}

// Persister writes tables with a fixed option set.
type Persister struct {
	opts []Option
}

// NewPersister returns a Persister applying opts to every write.
func NewPersister(opts ...Option) *Persister {
	return &Persister{opts: opts}
}

// Write persists t at path.
func (p *Persister) Write(t *domain.Table, path string) error {
	return Write(path, t, p.opts...)
}

// Write validates t and writes it to path, creating parent directories. The
// file is replaced atomically.
func Write(path string, t *domain.Table, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid table: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if err := encode(tmp, t, o); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod output file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func encode(w io.Writer, t *domain.Table, o options) error {
	layout := timeLayout(t.Cadence)
	subDaily := t.Cadence != domain.Daily

	header := []string{datetimeColumn}
	if o.calendar {
		header = append(header, "year", "month", "day")
		if subDaily {
			header = append(header, "hour", "minute")
		}
	}
	for _, k := range t.Columns {
		header = append(header, k.String())
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, 0, len(header))
	for i, ts := range t.Index {
		ts = ts.In(domain.JST)
		row = append(row[:0], ts.Format(layout))
		if o.calendar {
			row = append(row, strconv.Itoa(ts.Year()), strconv.Itoa(int(ts.Month())), strconv.Itoa(ts.Day()))
			if subDaily {
				row = append(row, strconv.Itoa(ts.Hour()), strconv.Itoa(ts.Minute()))
			}
		}
		for _, v := range t.Rows[i] {
			row = append(row, v.String())
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func timeLayout(c domain.Cadence) string {
	if c == domain.Daily {
		return dailyLayout
	}
	return subDailyLayout
}

// Read loads a table written by Write. The cadence is recovered from the
// element list of the first station.
func Read(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open observation csv: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) (*domain.Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrParse, err)
	}
	if len(header) == 0 || header[0] != datetimeColumn {
		return nil, fmt.Errorf("%w: first column must be %q", domain.ErrParse, datetimeColumn)
	}

	skip := 1
	for skip < len(header) && calendarColumns[header[skip]] {
		skip++
	}
	keys := make([]domain.ColumnKey, 0, len(header)-skip)
	for _, h := range header[skip:] {
		k, err := ParseColumnKey(h)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	c, err := cadenceOf(keys)
	if err != nil {
		return nil, err
	}

	t := &domain.Table{Cadence: c, Columns: keys}
	layout := timeLayout(c)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrParse, line, err)
		}
		ts, err := time.ParseInLocation(layout, rec[0], domain.JST)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: datetime %q", domain.ErrParse, line, rec[0])
		}
		values := make([]domain.Value, len(keys))
		for j, cell := range rec[skip:] {
			v, err := domain.ParseValue(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, keys[j], err)
			}
			values[j] = v
		}
		t.Index = append(t.Index, ts)
		t.Rows = append(t.Rows, values)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseColumnKey splits a flattened "block_no/station/element" header. The
// station label may itself contain slashes.
func ParseColumnKey(s string) (domain.ColumnKey, error) {
	first := strings.Index(s, "/")
	last := strings.LastIndex(s, "/")
	if first < 0 || first == last {
		return domain.ColumnKey{}, fmt.Errorf("%w: column %q is not block_no/station/element", domain.ErrParse, s)
	}
	return domain.ColumnKey{
		BlockNo: s[:first],
		Station: s[first+1 : last],
		Element: domain.Element(s[last+1:]),
	}, nil
}

func cadenceOf(keys []domain.ColumnKey) (domain.Cadence, error) {
	for _, c := range []domain.Cadence{domain.TenMinute, domain.Hourly, domain.Daily} {
		elements := c.Elements()
		if len(keys) < len(elements) {
			continue
		}
		match := true
		for i, e := range elements {
			if keys[i].Element != e {
				match = false
				break
			}
		}
		if match {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: columns match no cadence element list", domain.ErrSchema)
}
