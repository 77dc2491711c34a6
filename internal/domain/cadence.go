package domain

import (
	"fmt"
	"time"
)

// JST is the fixed +09:00 zone every JMA timestamp is expressed in.
var JST = time.FixedZone("JST", 9*60*60)

// Cadence is the observation granularity.
type Cadence int

const (
	TenMinute Cadence = iota + 1
	Hourly
	Daily
)

// ParseCadence accepts the names used in file paths and CLI flags.
func ParseCadence(s string) (Cadence, error) {
	switch s {
	case "10min":
		return TenMinute, nil
	case "hourly":
		return Hourly, nil
	case "daily":
		return Daily, nil
	default:
		return 0, fmt.Errorf("%w: unknown cadence %q", ErrInvalidInput, s)
	}
}

func (c Cadence) String() string {
	switch c {
	case TenMinute:
		return "10min"
	case Hourly:
		return "hourly"
	case Daily:
		return "daily"
	default:
		return fmt.Sprintf("cadence(%d)", int(c))
	}
}

// Valid reports whether c is one of the defined cadences.
func (c Cadence) Valid() bool {
	return c == TenMinute || c == Hourly || c == Daily
}

// Elements returns the canonical element list for the cadence.
func (c Cadence) Elements() []Element {
	switch c {
	case TenMinute:
		return TenMinuteElements
	case Hourly:
		return HourlyElements
	case Daily:
		return DailyElements
	default:
		return nil
	}
}

// Unit normalizes a requested date to the fetch unit it belongs to: the JST
// calendar day for 10-minute and hourly data, the first of the month for
// daily data.
func (c Cadence) Unit(d time.Time) time.Time {
	y, m, day := d.Date()
	if c == Daily {
		day = 1
	}
	return time.Date(y, m, day, 0, 0, 0, 0, JST)
}

// ExpectedRows is the number of rows one fetch unit yields.
func (c Cadence) ExpectedRows(unit time.Time) int {
	switch c {
	case TenMinute:
		return 144
	case Hourly:
		return 24
	case Daily:
		u := c.Unit(unit)
		return u.AddDate(0, 1, -1).Day()
	default:
		return 0
	}
}

// Interval is the spacing between rows for sub-daily cadences and zero for daily.
func (c Cadence) Interval() time.Duration {
	switch c {
	case TenMinute:
		return 10 * time.Minute
	case Hourly:
		return time.Hour
	default:
		return 0
	}
}

// Spine returns the canonical timestamps of one fetch unit. Sub-daily units
// start one interval after midnight and end on the following midnight.
func (c Cadence) Spine(unit time.Time) []time.Time {
	u := c.Unit(unit)
	n := c.ExpectedRows(u)
	out := make([]time.Time, n)
	for i := range out {
		if c == Daily {
			out[i] = u.AddDate(0, 0, i)
			continue
		}
		out[i] = u.Add(time.Duration(i+1) * c.Interval())
	}
	return out
}

// Aligned reports whether t falls on the cadence grid.
func (c Cadence) Aligned(t time.Time) bool {
	t = t.In(JST)
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	switch c {
	case TenMinute:
		return t.Minute()%10 == 0
	case Hourly:
		return t.Minute() == 0
	case Daily:
		return t.Hour() == 0 && t.Minute() == 0
	default:
		return false
	}
}

// ObservationDay is the JST day whose fetch unit produced t. For sub-daily
// cadences the closing 00:00 row belongs to the previous day.
func (c Cadence) ObservationDay(t time.Time) time.Time {
	t = t.In(JST)
	if iv := c.Interval(); iv > 0 {
		t = t.Add(-iv)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, JST)
}
