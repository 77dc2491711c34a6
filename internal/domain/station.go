package domain

import (
	"fmt"
	"strings"
)

// StationClass distinguishes the two page families JMA serves per station.
type StationClass int

const (
	// ClassPrimary stations have 4-digit block numbers and use the a1 pages.
	ClassPrimary StationClass = iota + 1
	// ClassSecondary stations have 5-digit block numbers and use the s1 pages.
	ClassSecondary
)

func (c StationClass) String() string {
	switch c {
	case ClassPrimary:
		return "primary"
	case ClassSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// PageSuffix returns the suffix of the observation page family, "a1" or "s1".
func (c StationClass) PageSuffix() string {
	if c == ClassSecondary {
		return "s1"
	}
	return "a1"
}

// ClassOf derives the station class from a block number.
func ClassOf(blockNo string) (StationClass, error) {
	for _, r := range blockNo {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: block_no %q must be numeric", ErrInvalidInput, blockNo)
		}
	}
	switch len(blockNo) {
	case 4:
		return ClassPrimary, nil
	case 5:
		return ClassSecondary, nil
	default:
		return 0, fmt.Errorf("%w: block_no must be 4 or 5 digits, got %q", ErrInvalidInput, blockNo)
	}
}

// ElementKind is one observed-element flag from the AMeDAS station table.
type ElementKind uint8

// Flags in the order they appear in the "elems" string of the station JSON.
const (
	KindTemperature ElementKind = 1 << iota
	KindPrecipitation
	KindWindDirection
	KindWind
	KindSunshine
	KindSnowDepth
	KindHumidity
	KindPressure
)

// ElementKinds lists every flag in feed order.
var ElementKinds = []ElementKind{
	KindTemperature,
	KindPrecipitation,
	KindWindDirection,
	KindWind,
	KindSunshine,
	KindSnowDepth,
	KindHumidity,
	KindPressure,
}

var elementKindNames = map[ElementKind]string{
	KindTemperature:   "temperature",
	KindPrecipitation: "precipitation",
	KindWindDirection: "wind_direction",
	KindWind:          "wind",
	KindSunshine:      "sunshine",
	KindSnowDepth:     "snow_depth",
	KindHumidity:      "humidity",
	KindPressure:      "pressure",
}

func (k ElementKind) String() string { return elementKindNames[k] }

// ElementSet is a bitmask of ElementKind flags.
type ElementSet uint8

// Has reports whether k is in the set.
func (s ElementSet) Has(k ElementKind) bool { return s&ElementSet(k) != 0 }

// With returns the set with k added.
func (s ElementSet) With(k ElementKind) ElementSet { return s | ElementSet(k) }

// ParseElementSet decodes the "elems" string of the station JSON, e.g.
// "11112010". Only the first len(ElementKinds) characters are significant;
// each must be '0' or '1'.
func ParseElementSet(elems string) (ElementSet, error) {
	if len(elems) < len(ElementKinds) {
		return 0, fmt.Errorf("%w: elems %q shorter than %d flags", ErrParse, elems, len(ElementKinds))
	}
	var set ElementSet
	for i, k := range ElementKinds {
		switch elems[i] {
		case '1':
			set = set.With(k)
		case '0':
		default:
			return 0, fmt.Errorf("%w: elems %q has non-binary flag at %d", ErrParse, elems, i)
		}
	}
	return set, nil
}

// StationRecord is one usable station in the registry. block_no is the identity key.
type StationRecord struct {
	Name     string // Japanese display name as shown on the selector page
	EnName   string
	Area     string
	PrecNo   string
	BlockNo  string
	Lon      float64
	Lat      float64
	Observed ElementSet
}

// Class derives the station class from the block number.
func (s StationRecord) Class() (StationClass, error) {
	return ClassOf(s.BlockNo)
}

// Label is the station name used in observation column keys.
func (s StationRecord) Label() string {
	if name := strings.TrimSpace(s.EnName); name != "" {
		return name
	}
	return s.Name
}

// DegreesMinutes converts a degrees + minutes pair to decimal degrees.
func DegreesMinutes(degrees, minutes float64) float64 {
	return degrees + minutes/60
}
