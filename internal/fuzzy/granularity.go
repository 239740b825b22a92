package fuzzy

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownGranularity = errors.New("unknown granularity")
	ErrInvalidNavigation  = errors.New("invalid navigation")
	ErrInvalidSequence    = errors.New("invalid granularity sequence")
	ErrOutOfRange         = errors.New("time out of range")
)

// Granularity is the unit of precision a Time is tracked at. The integer
// value doubles as the rank (finest first) and the legacy numeric key.
type Granularity int

const (
	Minute Granularity = iota
	Hour
	Day
	Week
	Month
	Year
	Forever
)

var granularityNames = [...]string{
	Minute:  "Minute",
	Hour:    "Hour",
	Day:     "Day",
	Week:    "Week",
	Month:   "Month",
	Year:    "Year",
	Forever: "Forever",
}

// Granularities returns every granularity, finest first.
func Granularities() []Granularity {
	return []Granularity{Minute, Hour, Day, Week, Month, Year, Forever}
}

func (g Granularity) Valid() bool {
	return g >= Minute && g <= Forever
}

// Name is the wire identifier. It must not change.
func (g Granularity) Name() string {
	if !g.Valid() {
		return ""
	}
	return granularityNames[g]
}

func (g Granularity) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
	return granularityNames[g]
}

func (g Granularity) Rank() int { return int(g) }

func (g Granularity) Key() int { return int(g) }

// FromKey maps a legacy numeric code (0=Minute .. 6=Forever) back to its
// granularity.
func FromKey(key int) (Granularity, error) {
	g := Granularity(key)
	if !g.Valid() {
		return 0, fmt.Errorf("%w: key %d", ErrUnknownGranularity, key)
	}
	return g, nil
}

// ParseGranularity matches a wire name exactly; "day" is not "Day".
func ParseGranularity(name string) (Granularity, error) {
	for i, n := range granularityNames {
		if n == name {
			return Granularity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGranularity, name)
}

// Compare returns 1 if a is a larger unit of time than b, -1 if it is
// smaller and 0 if they are the same.
func Compare(a, b Granularity) int {
	switch {
	case a.Rank() > b.Rank():
		return 1
	case a.Rank() < b.Rank():
		return -1
	}
	return 0
}

// FitsSquarelyIn reports whether every period of a lies entirely inside a
// single period of b. A day fits squarely in a week, a week does not fit
// squarely in a month.
func FitsSquarelyIn(a, b Granularity) bool {
	if a == b || b == Forever {
		return true
	}
	if Compare(a, b) > 0 {
		return false
	}
	// Weeks straddle month and year boundaries.
	return a != Week
}

func (g Granularity) FitsSquarelyIn(other Granularity) bool {
	return FitsSquarelyIn(g, other)
}

func (g Granularity) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGranularity, int(g))
	}
	return []byte(g.Name()), nil
}

func (g *Granularity) UnmarshalText(text []byte) error {
	parsed, err := ParseGranularity(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
