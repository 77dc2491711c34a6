package analyzer

import (
	"fmt"
	"math"
	"time"

	"github.com/couchcryptid/amedas-etl/internal/domain"
)

// Pivot is one station element laid out by time of day (rows) and
// observation day (columns).
type Pivot struct {
	TimesOfDay []string
	Days       []time.Time
	Values     [][]domain.Value
}

// PivotByTimeOfDay reshapes a sub-daily column so each observation day is
// one column. The time-of-day axis runs from the first interval after
// midnight to 00:00, which closes the previous day's cycle.
func (a *Analyzer) PivotByTimeOfDay(blockNo string, element domain.Element) (*Pivot, error) {
	c := a.table.Cadence
	if c.Interval() == 0 {
		return nil, fmt.Errorf("%w: %s tables have no time of day", domain.ErrInvalidInput, c)
	}
	col, err := a.column(blockNo, element)
	if err != nil {
		return nil, err
	}

	slots := c.ExpectedRows(time.Time{})
	p := &Pivot{TimesOfDay: make([]string, slots)}
	for i := range slots {
		p.TimesOfDay[i] = time.Date(2000, 1, 1, 0, 0, 0, 0, domain.JST).Add(time.Duration(i+1) * c.Interval()).Format("15:04")
	}

	dayCol := make(map[time.Time]int)
	for _, ts := range a.table.Index {
		d := c.ObservationDay(ts)
		if _, ok := dayCol[d]; !ok {
			dayCol[d] = len(p.Days)
			p.Days = append(p.Days, d)
		}
	}

	p.Values = make([][]domain.Value, slots)
	for i := range p.Values {
		p.Values[i] = make([]domain.Value, len(p.Days))
	}
	for r, ts := range a.table.Index {
		d := c.ObservationDay(ts)
		slot := int(ts.Sub(d)/c.Interval()) - 1
		p.Values[slot][dayCol[d]] = a.table.Rows[r][col]
	}
	return p, nil
}

// Mean returns the average of each time-of-day row across days. Missing
// cells are skipped and calm counts as zero; a row with no readings is NaN.
func (p *Pivot) Mean() []float64 {
	out := make([]float64, len(p.Values))
	for i, row := range p.Values {
		sum, n := 0.0, 0
		for _, v := range row {
			if v.IsMissing() {
				continue
			}
			sum += v.Float()
			n++
		}
		if n == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Std returns the sample standard deviation of each time-of-day row. Rows
// with fewer than two readings are NaN.
func (p *Pivot) Std() []float64 {
	means := p.Mean()
	out := make([]float64, len(p.Values))
	for i, row := range p.Values {
		ss, n := 0.0, 0
		for _, v := range row {
			if v.IsMissing() {
				continue
			}
			d := v.Float() - means[i]
			ss += d * d
			n++
		}
		if n < 2 {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Sqrt(ss / float64(n-1))
	}
	return out
}
