package fuzzy

import (
	"fmt"
	"time"
)

// Calendar holds the conventions every Time built from it shares.
type Calendar struct {
	// WeekStart is the first day of a Week period.
	WeekStart time.Weekday
	// Location periods are floored in. Nil keeps the anchor's location.
	Location *time.Location
	// Sequence is used by Next, Prev, Coarser and Finer. Nil means
	// StandardSequence.
	Sequence Sequence
}

func DefaultCalendar() Calendar {
	return Calendar{
		WeekStart: time.Monday,
		Sequence:  StandardSequence(),
	}
}

func (c Calendar) sequence() Sequence {
	if len(c.Sequence) == 0 {
		return standardSequence
	}
	return c.Sequence
}

// Time is the period of a given granularity containing some instant. It is
// always stored normalized to the start of that period.
type Time struct {
	start       time.Time
	granularity Granularity
	cal         Calendar
	valid       bool
}

// Build floors anchor to the start of its period using DefaultCalendar.
func Build(anchor time.Time, g Granularity) (Time, error) {
	return DefaultCalendar().Build(anchor, g)
}

// MustBuild is like Build but panics on an invalid granularity.
func MustBuild(anchor time.Time, g Granularity) Time {
	t, err := Build(anchor, g)
	if err != nil {
		panic(err)
	}
	return t
}

func (c Calendar) Build(anchor time.Time, g Granularity) (Time, error) {
	if c.Location != nil {
		anchor = anchor.In(c.Location)
	}
	start, err := floor(anchor, g, c.WeekStart)
	if err != nil {
		return Time{}, err
	}
	return Time{start: start, granularity: g, cal: c, valid: true}, nil
}

// earliest is the lower bound for navigation; Forever starts here.
var earliest = time.Time{}

func floor(t time.Time, g Granularity, weekStart time.Weekday) (time.Time, error) {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case Minute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc), nil
	case Hour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc), nil
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	case Week:
		offset := (int(t.Weekday()) - int(weekStart) + 7) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc), nil
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), nil
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), nil
	case Forever:
		return earliest, nil
	}
	return time.Time{}, fmt.Errorf("%w: %d", ErrUnknownGranularity, int(g))
}

// step moves the start n periods forward (or backward for negative n).
func step(start time.Time, g Granularity, n int) time.Time {
	switch g {
	case Minute:
		return start.Add(time.Duration(n) * time.Minute)
	case Hour:
		return start.Add(time.Duration(n) * time.Hour)
	case Day:
		return start.AddDate(0, 0, n)
	case Week:
		return start.AddDate(0, 0, 7*n)
	case Month:
		return start.AddDate(0, n, 0)
	case Year:
		return start.AddDate(n, 0, 0)
	}
	return start
}

// Time returns the start instant of the period.
func (t Time) Time() time.Time { return t.start }

func (t Time) Granularity() Granularity { return t.granularity }

func (t Time) Calendar() Calendar { return t.cal }

// IsZero reports whether t is the zero value, which is not a usable period.
// Only Build and navigation produce usable periods.
func (t Time) IsZero() bool {
	return !t.valid
}

// WithGranularity re-floors the start instant to g. It does not check that
// the current granularity fits squarely in g.
func (t Time) WithGranularity(g Granularity) (Time, error) {
	start, err := floor(t.start, g, t.cal.WeekStart)
	if err != nil {
		return Time{}, err
	}
	return Time{start: start, granularity: g, cal: t.cal, valid: true}, nil
}

// Next returns the following period at the same granularity.
func (t Time) Next() (Time, error) {
	return t.NextIn(t.cal.sequence())
}

// Prev returns the preceding period at the same granularity.
func (t Time) Prev() (Time, error) {
	return t.PrevIn(t.cal.sequence())
}

// NextIn is Next, navigating relative to seq instead of the calendar's
// sequence. Forever has no successor and is returned unchanged.
func (t Time) NextIn(seq Sequence) (Time, error) {
	return t.shift(seq, 1)
}

func (t Time) PrevIn(seq Sequence) (Time, error) {
	return t.shift(seq, -1)
}

func (t Time) shift(seq Sequence, n int) (Time, error) {
	if !seq.accepts(t.granularity) {
		return Time{}, fmt.Errorf("%w: %s not in sequence [%s]", ErrInvalidNavigation, t.granularity, seq)
	}
	if t.granularity == Forever {
		return t, nil
	}
	moved := step(t.start, t.granularity, n)
	if moved.Before(earliest) {
		return Time{}, fmt.Errorf("%w: no %s period before %s", ErrOutOfRange, t.granularity, t.start.Format(time.RFC3339))
	}
	if t.granularity >= Day {
		var err error
		if moved, err = floor(moved, t.granularity, t.cal.WeekStart); err != nil {
			return Time{}, err
		}
	}
	return Time{start: moved, granularity: t.granularity, cal: t.cal, valid: true}, nil
}

// Coarser moves one step up seq, e.g. from the Day to its Week.
func (t Time) Coarser(seq Sequence) (Time, error) {
	g, err := seq.Next(t.granularity)
	if err != nil {
		return Time{}, err
	}
	return t.WithGranularity(g)
}

// Finer moves one step down seq to the finer period containing the start.
// Going from a Month to Week lands on the week holding the 1st, which may
// begin in the previous month.
func (t Time) Finer(seq Sequence) (Time, error) {
	g, err := seq.Prev(t.granularity)
	if err != nil {
		return Time{}, err
	}
	return t.WithGranularity(g)
}

// End returns the exclusive end of the period. Forever has no end.
func (t Time) End() (time.Time, bool) {
	if t.granularity == Forever {
		return time.Time{}, false
	}
	return step(t.start, t.granularity, 1), true
}

func (t Time) Contains(instant time.Time) bool {
	if t.granularity == Forever {
		return true
	}
	end, _ := t.End()
	return !instant.Before(t.start) && instant.Before(end)
}

// Equal reports whether both values describe the same period: same
// granularity and same start instant.
func (t Time) Equal(u Time) bool {
	return t.granularity == u.granularity && t.start.Equal(u.start)
}

// Before orders by start instant only; granularities may differ.
func (t Time) Before(u Time) bool { return t.start.Before(u.start) }

func (t Time) After(u Time) bool { return t.start.After(u.start) }

func (t Time) Compare(u Time) int { return t.start.Compare(u.start) }

func (t Time) String() string {
	if t.granularity == Forever {
		return "Forever"
	}
	return t.granularity.String() + " " + t.start.Format(time.RFC3339)
}

// Label renders the period for people, at the precision it is known to.
func (t Time) Label() string {
	switch t.granularity {
	case Minute:
		return t.start.Format("Mon Jan 2, 2006 15:04")
	case Hour:
		return t.start.Format("Mon Jan 2, 2006 15:00")
	case Day:
		return t.start.Format("Mon Jan 2, 2006")
	case Week:
		return "Week of " + t.start.Format("Jan 2, 2006")
	case Month:
		return t.start.Format("January 2006")
	case Year:
		return t.start.Format("2006")
	case Forever:
		return "Someday"
	}
	return t.String()
}
