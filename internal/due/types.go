package due

import (
	"errors"
	"fmt"

	"github.com/cwarden/fuzzydue/internal/fuzzy"
)

type Task struct {
	ID           string
	Name         string
	Due          *fuzzy.Time // nil for tasks without a due date
	Completed    bool
	Tags         []string
	RecurrenceID string
	Filename     string
}

// HasDue reports whether the task carries a usable due period.
func (t Task) HasDue() bool {
	return t.Due != nil && !t.Due.IsZero()
}

// DueOrder groups the tasks sharing exactly the same due period.
type DueOrder struct {
	Due     fuzzy.Time
	TaskIDs []string
}

var ErrInvalidSchedule = errors.New("invalid recurrence schedule")

// RecurrenceSchedule is where fuzzy times cross into recurrence logic.
// Expanding it into occurrences is left to the task service.
type RecurrenceSchedule struct {
	From     fuzzy.Time        `json:"from"`
	To       fuzzy.Time        `json:"to"`
	Period   fuzzy.Granularity `json:"period"`
	Selected []int             `json:"selected,omitempty"`
}

func (s RecurrenceSchedule) Validate() error {
	if !s.Period.Valid() {
		return fmt.Errorf("%w: period %v", ErrInvalidSchedule, s.Period)
	}
	if s.From.After(s.To) {
		return fmt.Errorf("%w: from %s is after to %s", ErrInvalidSchedule, s.From, s.To)
	}
	return nil
}

// Recurrence ties a schedule to the task it repeats. The schedule fields
// are flattened on the wire.
type Recurrence struct {
	RecurrenceID string `json:"recurrenceId"`
	BaseTaskID   string `json:"baseTaskId"`
	RecurrenceSchedule
}
