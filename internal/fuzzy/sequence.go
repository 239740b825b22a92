package fuzzy

import (
	"fmt"
	"strings"
)

// Sequence defines which granularity is one step coarser or finer than
// another. Granularities do not nest uniformly, so adjacency is listed
// explicitly instead of derived from rank.
type Sequence []Granularity

var standardSequence = Sequence{Day, Week, Month, Year, Forever}

// StandardSequence is the sequence used for due dates. Minute and Hour are
// left out: a due date is never tracked to the minute.
func StandardSequence() Sequence {
	return standardSequence.clone()
}

func NewSequence(gs ...Granularity) (Sequence, error) {
	if len(gs) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSequence)
	}
	seen := make(map[Granularity]bool, len(gs))
	for _, g := range gs {
		if !g.Valid() {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSequence, g)
		}
		if seen[g] {
			return nil, fmt.Errorf("%w: duplicate %s", ErrInvalidSequence, g)
		}
		seen[g] = true
	}
	return Sequence(gs).clone(), nil
}

// ParseSequence reads a comma separated list of granularity names, e.g.
// "Hour,Day,Week".
func ParseSequence(s string) (Sequence, error) {
	var gs []Granularity
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		g, err := ParseGranularity(part)
		if err != nil {
			return nil, err
		}
		gs = append(gs, g)
	}
	return NewSequence(gs...)
}

func (s Sequence) Index(g Granularity) int {
	for i, el := range s {
		if el == g {
			return i
		}
	}
	return -1
}

func (s Sequence) Contains(g Granularity) bool {
	return s.Index(g) >= 0
}

// Next returns the granularity after g. Past the end of the sequence
// everything is Forever, whether or not Forever is listed.
func (s Sequence) Next(g Granularity) (Granularity, error) {
	if g == Forever {
		return Forever, nil
	}
	idx := s.Index(g)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s not in sequence [%s]", ErrInvalidNavigation, g, s)
	}
	if idx+1 < len(s) {
		return s[idx+1], nil
	}
	return Forever, nil
}

// Prev returns the granularity before g.
func (s Sequence) Prev(g Granularity) (Granularity, error) {
	idx := s.Index(g)
	if idx < 0 {
		if g == Forever && len(s) > 0 {
			// Forever is the implicit terminal of every sequence.
			return s[len(s)-1], nil
		}
		return 0, fmt.Errorf("%w: %s not in sequence [%s]", ErrInvalidNavigation, g, s)
	}
	if idx == 0 {
		return 0, fmt.Errorf("%w: nothing finer than %s in sequence [%s]", ErrInvalidNavigation, g, s)
	}
	return s[idx-1], nil
}

// accepts reports whether navigation at g is defined for s.
func (s Sequence) accepts(g Granularity) bool {
	return g == Forever || s.Contains(g)
}

func (s Sequence) String() string {
	names := make([]string, len(s))
	for i, g := range s {
		names[i] = g.String()
	}
	return strings.Join(names, ",")
}

func (s Sequence) clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}
