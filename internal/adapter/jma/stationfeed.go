package jma

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/couchcryptid/amedas-etl/internal/domain"
)

// FeedStation is one entry of the AMeDAS station table feed.
type FeedStation struct {
	Code     string
	KjName   string
	EnName   string
	Lat      float64
	Lon      float64
	Observed domain.ElementSet
}

type feedEntry struct {
	Type   string    `json:"type"`
	Elems  string    `json:"elems"`
	Lat    []float64 `json:"lat"` // [degrees, minutes]
	Lon    []float64 `json:"lon"` // [degrees, minutes]
	Alt    float64   `json:"alt"`
	KjName string    `json:"kjName"`
	KnName string    `json:"knName"`
	EnName string    `json:"enName"`
}

// DecodeStationFeed decodes the feed keyed by AMeDAS code. Entries are
// returned sorted by code.
func DecodeStationFeed(body []byte) ([]FeedStation, error) {
	var raw map[string]feedEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode station feed: %v", domain.ErrParse, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: station feed is empty", domain.ErrParse)
	}

	codes := make([]string, 0, len(raw))
	for code := range raw {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]FeedStation, 0, len(raw))
	for _, code := range codes {
		e := raw[code]
		if e.KjName == "" {
			return nil, fmt.Errorf("%w: station %s has no kjName", domain.ErrParse, code)
		}
		if len(e.Lat) != 2 || len(e.Lon) != 2 {
			return nil, fmt.Errorf("%w: station %s coordinates are not degree/minute pairs", domain.ErrParse, code)
		}
		observed, err := domain.ParseElementSet(e.Elems)
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", code, err)
		}
		out = append(out, FeedStation{
			Code:     code,
			KjName:   e.KjName,
			EnName:   e.EnName,
			Lat:      domain.DegreesMinutes(e.Lat[0], e.Lat[1]),
			Lon:      domain.DegreesMinutes(e.Lon[0], e.Lon[1]),
			Observed: observed,
		})
	}
	return out, nil
}
