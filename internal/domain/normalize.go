package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// qualifiedRe matches a quasi-normal reading, e.g. "12.3 )". The value is kept.
	qualifiedRe = regexp.MustCompile(`^(.*?)\s*\)$`)

	// insufficientRe matches a reading computed from too few samples, e.g. "12.3 ]".
	insufficientRe = regexp.MustCompile(`\]\s*$`)

	// cloudQualifierRe matches cloud amounts rendered as "0+" or "10-".
	cloudQualifierRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)[+-]$`)
)

// missingTokens are replaced in this order after paren stripping.
var missingTokens = []string{"///", "×", "#", "--"}

// compassDegrees maps 16-point compass labels to degrees clockwise from north.
var compassDegrees = map[string]float64{
	"北": 0, "北北東": 22.5, "北東": 45, "東北東": 67.5,
	"東": 90, "東南東": 112.5, "南東": 135, "南南東": 157.5,
	"南": 180, "南南西": 202.5, "南西": 225, "西南西": 247.5,
	"西": 270, "西北西": 292.5, "北西": 315, "北北西": 337.5,

	"N": 0, "NNE": 22.5, "NE": 45, "ENE": 67.5,
	"E": 90, "ESE": 112.5, "SE": 135, "SSE": 157.5,
	"S": 180, "SSW": 202.5, "SW": 225, "WSW": 247.5,
	"W": 270, "WNW": 292.5, "NW": 315, "NNW": 337.5,
}

var calmLabels = map[string]bool{"静穏": true, "CALM": true, "Calm": true, "calm": true}

// Normalize converts a resolved frame of raw cell text into typed values.
// Every column must carry a key so wind-direction columns can be recognized.
// A cell that is neither a missing token nor a reading aborts with
// ErrUnclassifiedCell.
func Normalize(f Frame) (Block, error) {
	rows := make([][]Value, len(f.Cells))
	for i, row := range f.Cells {
		if len(row) != len(f.Keys) {
			return Block{}, fmt.Errorf("%w: row %d has %d cells for %d columns", ErrSchema, i, len(row), len(f.Keys))
		}
		out := make([]Value, len(row))
		for j, cell := range row {
			v, err := NormalizeCell(cell, f.Keys[j].Element)
			if err != nil {
				return Block{}, fmt.Errorf("row %d column %s/%s: %w", i, f.Keys[j].BlockNo, f.Keys[j].Element, err)
			}
			out[j] = v
		}
		rows[i] = out
	}
	return Block{Keys: f.Keys, Rows: rows}, nil
}

// NormalizeCell applies the missing-value and unit policy to one cell.
func NormalizeCell(raw string, elem Element) (Value, error) {
	s := strings.TrimSpace(norm.NFKC.String(raw))

	// Paren stripping runs first so a qualified reading is never nulled.
	if m := qualifiedRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	if insufficientRe.MatchString(s) {
		return MissingValue, nil
	}
	for _, tok := range missingTokens {
		if strings.Contains(s, tok) {
			return MissingValue, nil
		}
	}

	switch s {
	case "", MissingToken, "NaN":
		return MissingValue, nil
	case CalmToken:
		return CalmValue, nil
	}

	if elem.IsWindDirection() {
		if calmLabels[s] {
			return CalmValue, nil
		}
		if deg, ok := compassDegrees[s]; ok {
			return Number(deg), nil
		}
	}
	if elem == CloudCover {
		if m := cloudQualifierRe.FindStringSubmatch(s); m != nil {
			s = m[1]
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, fmt.Errorf("%w: %q", ErrUnclassifiedCell, raw)
	}
	return Number(f), nil
}
