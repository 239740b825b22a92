package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cwarden/fuzzydue/internal/fuzzy"
)

var ErrUnrecognizedPhrase = errors.New("unrecognized phrase")

// PhraseParser turns a small closed vocabulary ("today", "last week",
// "next month", ...) into fuzzy times. It is not a general date parser.
type PhraseParser struct {
	now      time.Time
	calendar fuzzy.Calendar
}

func NewPhraseParser(cal fuzzy.Calendar) *PhraseParser {
	return &PhraseParser{
		now:      time.Now(),
		calendar: cal,
	}
}

func (p *PhraseParser) SetNow(now time.Time) {
	p.now = now
}

// Parse returns false for anything outside the grammar.
func (p *PhraseParser) Parse(input string) (fuzzy.Time, bool) {
	t, err := p.ParseWithError(input)
	return t, err == nil
}

func (p *PhraseParser) ParseWithError(input string) (fuzzy.Time, error) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 {
		return fuzzy.Time{}, fmt.Errorf("%w: empty input", ErrUnrecognizedPhrase)
	}

	var (
		t   fuzzy.Time
		err error
	)
	switch words[0] {
	case "today":
		t, err = p.today()
	case "yesterday":
		t, err = p.today()
		if err == nil {
			t, err = t.Prev()
		}
	case "tomorrow":
		t, err = p.today()
		if err == nil {
			t, err = t.Next()
		}
	case "this":
		t, err = p.parseUnit(words[1:])
	case "last":
		t, err = p.parseUnit(words[1:])
		if err == nil {
			t, err = t.Prev()
		}
	case "next":
		t, err = p.parseUnit(words[1:])
		if err == nil {
			t, err = t.Next()
		}
	default:
		return fuzzy.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedPhrase, input)
	}
	if err != nil {
		return fuzzy.Time{}, err
	}
	return t, nil
}

func (p *PhraseParser) parseUnit(words []string) (fuzzy.Time, error) {
	if len(words) == 0 {
		return fuzzy.Time{}, fmt.Errorf("%w: missing unit", ErrUnrecognizedPhrase)
	}

	var g fuzzy.Granularity
	switch words[0] {
	case "week":
		g = fuzzy.Week
	case "month":
		g = fuzzy.Month
	case "year":
		g = fuzzy.Year
	default:
		return fuzzy.Time{}, fmt.Errorf("%w: unknown unit %q", ErrUnrecognizedPhrase, words[0])
	}

	today, err := p.today()
	if err != nil {
		return fuzzy.Time{}, err
	}
	return today.WithGranularity(g)
}

func (p *PhraseParser) today() (fuzzy.Time, error) {
	return p.calendar.Build(p.now, fuzzy.Day)
}
