// Package analyzer answers read-only questions about a persisted observation
// table: point lookups, per-timestamp station values for mapping, and
// time-of-day composites.
package analyzer

import (
	"fmt"
	"time"

	"github.com/couchcryptid/amedas-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/stations"
)

type columnRef struct {
	blockNo string
	element domain.Element
}

// Analyzer wraps one canonical table. The registry is optional and only
// needed for the coordinate-bearing queries.
type Analyzer struct {
	table    *domain.Table
	registry *stations.Registry
	columns  map[columnRef]int
	stations []domain.StationKey
}

// New validates t and indexes its columns by block_no and element.
func New(t *domain.Table, reg *stations.Registry) (*Analyzer, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", domain.ErrInvalidInput)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	cols := make(map[columnRef]int, len(t.Columns))
	for i, k := range t.Columns {
		ref := columnRef{blockNo: k.BlockNo, element: k.Element}
		if _, dup := cols[ref]; dup {
			return nil, fmt.Errorf("%w: block_no %s appears twice", domain.ErrSchema, k.BlockNo)
		}
		cols[ref] = i
	}
	return &Analyzer{table: t, registry: reg, columns: cols, stations: t.Stations()}, nil
}

// Load reads an observation CSV written by csvfile and wraps it.
func Load(path string, reg *stations.Registry) (*Analyzer, error) {
	t, err := csvfile.Read(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return New(t, reg)
}

// Table returns the underlying table.
func (a *Analyzer) Table() *domain.Table { return a.table }

// Stations lists the stations of the table in column order.
func (a *Analyzer) Stations() []domain.StationKey { return a.stations }

// Lookup returns one cell. A timestamp, station, or element absent from the
// table yields ErrNotFound.
func (a *Analyzer) Lookup(ts time.Time, blockNo string, element domain.Element) (domain.Value, error) {
	row, ok := a.table.RowIndex(ts)
	if !ok {
		return domain.Value{}, fmt.Errorf("%w: timestamp %s", domain.ErrNotFound, ts.In(domain.JST).Format(time.DateTime))
	}
	col, err := a.column(blockNo, element)
	if err != nil {
		return domain.Value{}, err
	}
	return a.table.Rows[row][col], nil
}

func (a *Analyzer) column(blockNo string, element domain.Element) (int, error) {
	col, ok := a.columns[columnRef{blockNo: blockNo, element: element}]
	if !ok {
		if !a.hasStation(blockNo) {
			return 0, fmt.Errorf("%w: block_no %s", domain.ErrNotFound, blockNo)
		}
		return 0, fmt.Errorf("%w: element %s for block_no %s", domain.ErrNotFound, element, blockNo)
	}
	return col, nil
}

func (a *Analyzer) hasStation(blockNo string) bool {
	for _, s := range a.stations {
		if s.BlockNo == blockNo {
			return true
		}
	}
	return false
}

// StationValue is one station's reading at a timestamp, placed on the map.
type StationValue struct {
	BlockNo string
	Station string
	Lon     float64
	Lat     float64
	Value   domain.Value
}

// ObservedValues returns every station's reading of element at ts with the
// registry coordinates attached.
func (a *Analyzer) ObservedValues(ts time.Time, element domain.Element) ([]StationValue, error) {
	if a.registry == nil {
		return nil, fmt.Errorf("%w: station coordinates need a registry", domain.ErrInvalidInput)
	}
	out := make([]StationValue, 0, len(a.stations))
	for _, s := range a.stations {
		v, err := a.Lookup(ts, s.BlockNo, element)
		if err != nil {
			return nil, err
		}
		rec, err := a.registry.Lookup(s.BlockNo)
		if err != nil {
			return nil, err
		}
		out = append(out, StationValue{BlockNo: s.BlockNo, Station: s.Station, Lon: rec.Lon, Lat: rec.Lat, Value: v})
	}
	return out, nil
}

// WindVector is one station's wind as eastward and northward components.
type WindVector struct {
	BlockNo string
	Station string
	Lon     float64
	Lat     float64
	U       float64
	V       float64
}

// WindField returns the wind vectors of every station at ts. Daily tables use
// the maximum sustained wind; sub-daily tables use the mean wind.
func (a *Analyzer) WindField(ts time.Time) ([]WindVector, error) {
	speedElem, dirElem := domain.MeanWindSpeed, domain.MeanWindDirection
	if a.table.Cadence == domain.Daily {
		speedElem, dirElem = domain.MaxWindSpeed, domain.MaxWindDirection
	}
	speeds, err := a.ObservedValues(ts, speedElem)
	if err != nil {
		return nil, err
	}
	out := make([]WindVector, len(speeds))
	for i, s := range speeds {
		dir, err := a.Lookup(ts, s.BlockNo, dirElem)
		if err != nil {
			return nil, err
		}
		u, v := domain.WindComponents(s.Value, dir)
		out[i] = WindVector{BlockNo: s.BlockNo, Station: s.Station, Lon: s.Lon, Lat: s.Lat, U: u, V: v}
	}
	return out, nil
}
