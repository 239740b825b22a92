package fuzzy

import (
	"errors"
	"testing"
)

func TestStandardSequence(t *testing.T) {
	seq := StandardSequence()

	tests := []struct {
		from     Granularity
		expected Granularity
	}{
		{Day, Week},
		{Week, Month},
		{Month, Year},
		{Year, Forever},
		{Forever, Forever},
	}

	for _, tt := range tests {
		got, err := seq.Next(tt.from)
		if err != nil {
			t.Fatalf("Next(%v) failed: %v", tt.from, err)
		}
		if got != tt.expected {
			t.Errorf("Next(%v): got %v, want %v", tt.from, got, tt.expected)
		}
	}

	if _, err := seq.Next(Hour); !errors.Is(err, ErrInvalidNavigation) {
		t.Errorf("Next(Hour) should be invalid navigation, got %v", err)
	}
}

func TestStandardSequenceIsCopied(t *testing.T) {
	seq := StandardSequence()
	seq[0] = Hour

	if StandardSequence()[0] != Day {
		t.Error("Mutating a returned sequence changed the standard sequence")
	}
}

func TestSequencePrev(t *testing.T) {
	seq := StandardSequence()

	got, err := seq.Prev(Month)
	if err != nil {
		t.Fatalf("Prev(Month) failed: %v", err)
	}
	if got != Week {
		t.Errorf("Prev(Month): got %v, want Week", got)
	}

	if _, err := seq.Prev(Day); !errors.Is(err, ErrInvalidNavigation) {
		t.Errorf("Prev of first element should be invalid navigation, got %v", err)
	}
	if _, err := seq.Prev(Minute); !errors.Is(err, ErrInvalidNavigation) {
		t.Errorf("Prev of absent element should be invalid navigation, got %v", err)
	}
}

func TestSequenceImplicitForever(t *testing.T) {
	seq, err := NewSequence(Hour, Day)
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	next, err := seq.Next(Day)
	if err != nil {
		t.Fatalf("Next(Day) failed: %v", err)
	}
	if next != Forever {
		t.Errorf("Next past the end: got %v, want Forever", next)
	}

	prev, err := seq.Prev(Forever)
	if err != nil {
		t.Fatalf("Prev(Forever) failed: %v", err)
	}
	if prev != Day {
		t.Errorf("Prev(Forever): got %v, want Day", prev)
	}
}

func TestNewSequenceRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name string
		gs   []Granularity
	}{
		{"duplicate", []Granularity{Day, Week, Day}},
		{"invalid", []Granularity{Day, Granularity(12)}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSequence(tt.gs...); !errors.Is(err, ErrInvalidSequence) {
				t.Errorf("NewSequence(%v) should fail with ErrInvalidSequence, got %v", tt.gs, err)
			}
		})
	}
}

func TestParseSequence(t *testing.T) {
	seq, err := ParseSequence("Hour, Day,Week ,Month")
	if err != nil {
		t.Fatalf("ParseSequence failed: %v", err)
	}
	if seq.String() != "Hour,Day,Week,Month" {
		t.Errorf("Sequence mismatch: got %q", seq.String())
	}

	if _, err := ParseSequence("Day,week"); !errors.Is(err, ErrUnknownGranularity) {
		t.Errorf("Lowercase names should be rejected, got %v", err)
	}
}
