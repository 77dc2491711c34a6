package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/stations"
)

// request is the job as given on the command line, before stations are resolved.
type request struct {
	cadence  domain.Cadence
	precNos  []string
	blockNos []string
	units    []time.Time
	out      string
}

// parseRequest validates the observation flags. Dates are YYYY-MM-DD and
// months YYYY-MM; both are folded to the cadence's fetch units.
func parseRequest(cadence, precs, blocks, dates, months, out string) (request, error) {
	c, err := domain.ParseCadence(cadence)
	if err != nil {
		return request{}, err
	}
	r := request{cadence: c, out: out}

	for _, p := range splitList(precs) {
		no, err := domain.PrecNoFor(p)
		if err != nil {
			return request{}, err
		}
		r.precNos = append(r.precNos, no)
	}
	r.blockNos = splitList(blocks)
	if len(r.precNos) == 0 && len(r.blockNos) == 0 {
		return request{}, fmt.Errorf("%w: -prec or -blocks is required", domain.ErrInvalidInput)
	}

	var days []time.Time
	for _, d := range splitList(dates) {
		t, err := time.ParseInLocation(time.DateOnly, d, domain.JST)
		if err != nil {
			return request{}, fmt.Errorf("%w: date %q: %v", domain.ErrInvalidInput, d, err)
		}
		days = append(days, t)
	}
	for _, m := range splitList(months) {
		t, err := time.ParseInLocation("2006-01", m, domain.JST)
		if err != nil {
			return request{}, fmt.Errorf("%w: month %q: %v", domain.ErrInvalidInput, m, err)
		}
		if c == domain.Daily {
			days = append(days, t)
			continue
		}
		for d := t; d.Month() == t.Month(); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
	}
	r.units = foldUnits(c, days)
	if len(r.units) == 0 {
		return request{}, fmt.Errorf("%w: -dates or -months is required", domain.ErrInvalidInput)
	}
	return r, nil
}

// foldUnits maps dates to fetch units, sorted and deduplicated.
func foldUnits(c domain.Cadence, days []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(days))
	var out []time.Time
	for _, d := range days {
		u := c.Unit(d)
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// selectStations resolves the prefecture and block filters against the
// registry. Prefecture stations come first in registry order, then explicit
// block numbers; duplicates keep their first position.
func (r request) selectStations(reg *stations.Registry) ([]domain.StationRecord, error) {
	picked := reg.ByPrefecture(r.precNos...)
	explicit, err := reg.LookupAll(r.blockNos)
	if err != nil {
		return nil, err
	}
	picked = append(picked, explicit...)

	seen := make(map[string]bool, len(picked))
	out := picked[:0]
	for _, st := range picked {
		if !seen[st.BlockNo] {
			seen[st.BlockNo] = true
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no stations match prefectures %v", domain.ErrNotFound, r.precNos)
	}
	return out, nil
}

// outputPath returns -out, or a file under DATA_DIR named after the cadence
// and the unit range.
func (r request) outputPath(dataDir string) string {
	if r.out != "" {
		return r.out
	}
	layout := time.DateOnly
	if r.cadence == domain.Daily {
		layout = "2006-01"
	}
	first, last := r.units[0].Format(layout), r.units[len(r.units)-1].Format(layout)
	name := fmt.Sprintf("%s_%s_%s.csv", r.cadence, first, last)
	return filepath.Join(dataDir, r.cadence.String()+"_data", name)
}
