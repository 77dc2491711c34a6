package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Text tokens used when a Value is serialized.
const (
	MissingToken = "nan"
	CalmToken    = "-888.8"
)

// ValueKind classifies an observation cell.
type ValueKind uint8

const (
	// Missing is the zero kind so synthetic columns need no initialization.
	Missing ValueKind = iota
	Valid
	// Calm is a valid zero-magnitude wind reading.
	Calm
)

// Value is one normalized observation cell. Num is meaningful only for Valid.
type Value struct {
	Kind ValueKind
	Num  float64
}

// Number wraps a valid reading.
func Number(f float64) Value { return Value{Kind: Valid, Num: f} }

// MissingValue and CalmValue are the two non-numeric cells.
var (
	MissingValue = Value{Kind: Missing}
	CalmValue    = Value{Kind: Calm}
)

func (v Value) IsMissing() bool { return v.Kind == Missing }
func (v Value) IsCalm() bool    { return v.Kind == Calm }

// Float returns the numeric reading for arithmetic: NaN when missing, 0 when calm.
func (v Value) Float() float64 {
	switch v.Kind {
	case Valid:
		return v.Num
	case Calm:
		return 0
	default:
		return math.NaN()
	}
}

// String renders the CSV text form.
func (v Value) String() string {
	switch v.Kind {
	case Valid:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case Calm:
		return CalmToken
	default:
		return MissingToken
	}
}

// ParseValue reads the CSV text form produced by String.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", MissingToken, "NaN":
		return MissingValue, nil
	case CalmToken:
		return CalmValue, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: %q", ErrUnclassifiedCell, s)
	}
	return Number(f), nil
}

// calmJSON is the JSON form of a calm cell; missing cells encode as null.
const calmJSON = `"calm"`

// MarshalJSON encodes a valid reading as a number, missing as null and calm
// as the string "calm".
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Valid:
		return json.Marshal(v.Num)
	case Calm:
		return []byte(calmJSON), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON reverses MarshalJSON.
func (v *Value) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "null":
		*v = MissingValue
		return nil
	case calmJSON:
		*v = CalmValue
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("%w: %s", ErrUnclassifiedCell, b)
	}
	*v = Number(f)
	return nil
}
