package main

import (
	"fmt"
	"time"

	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/stations"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// unitOf returns the fetch unit a row came from.
func unitOf(c domain.Cadence, ts time.Time) time.Time {
	return c.Unit(c.ObservationDay(ts))
}

// validateUnitCompleteness checks that every fetch unit present in the
// table contributed exactly its expected row count.
func validateUnitCompleteness(t *domain.Table) *phase {
	p := &phase{name: "Unit completeness"}
	var units []time.Time
	counts := make(map[time.Time]int)
	for _, ts := range t.Index {
		u := unitOf(t.Cadence, ts)
		if _, ok := counts[u]; !ok {
			units = append(units, u)
		}
		counts[u]++
	}
	for _, u := range units {
		if want := t.Cadence.ExpectedRows(u); counts[u] != want {
			p.errorf("unit %s: %d rows, want %d", u.Format(time.DateOnly), counts[u], want)
		}
	}
	return p
}

// validateContiguity checks the step between consecutive rows of one unit.
func validateContiguity(t *domain.Table) *phase {
	p := &phase{name: "Timestamp contiguity"}
	for i := 1; i < len(t.Index); i++ {
		prev, cur := t.Index[i-1], t.Index[i]
		if !unitOf(t.Cadence, prev).Equal(unitOf(t.Cadence, cur)) {
			continue
		}
		var next time.Time
		if t.Cadence == domain.Daily {
			next = prev.AddDate(0, 0, 1)
		} else {
			next = prev.Add(t.Cadence.Interval())
		}
		if !cur.Equal(next) {
			p.errorf("row %d: %s follows %s, want %s", i+1,
				cur.Format(time.DateTime), prev.Format(time.DateTime), next.Format(time.DateTime))
		}
	}
	return p
}

var windSpeedElements = map[domain.Element]bool{
	domain.MeanWindSpeed:           true,
	domain.InstantaneousWindSpd:    true,
	domain.MaxWindSpeed:            true,
	domain.MaxInstantaneousWindSpd: true,
}

// validateCalmPlacement checks that calm cells only occur in wind columns.
func validateCalmPlacement(t *domain.Table) *phase {
	p := &phase{name: "Calm cells in wind columns only"}
	for c, k := range t.Columns {
		if windSpeedElements[k.Element] || k.Element.IsWindDirection() {
			continue
		}
		for r := range t.Rows {
			if t.Rows[r][c].IsCalm() {
				p.errorf("%s at %s is calm", k, t.Index[r].Format(time.DateTime))
			}
		}
	}
	return p
}

// validateRegistry checks that every station of the table is a registry
// station under the same label.
func validateRegistry(t *domain.Table, reg *stations.Registry) *phase {
	p := &phase{name: "Station registry agreement"}
	for _, s := range t.Stations() {
		rec, err := reg.Lookup(s.BlockNo)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		if rec.Label() != s.Station {
			p.errorf("block_no %s: column label %q, registry label %q", s.BlockNo, s.Station, rec.Label())
		}
	}
	return p
}

type cellSummary struct {
	stations int
	valid    int
	calm     int
	missing  int
}

func (s cellSummary) missingPct() float64 {
	total := s.valid + s.calm + s.missing
	if total == 0 {
		return 0
	}
	return 100 * float64(s.missing) / float64(total)
}

func summarize(t *domain.Table) cellSummary {
	s := cellSummary{stations: len(t.Stations())}
	for _, row := range t.Rows {
		for _, v := range row {
			switch {
			case v.IsMissing():
				s.missing++
			case v.IsCalm():
				s.calm++
			default:
				s.valid++
			}
		}
	}
	return s
}
