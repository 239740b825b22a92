package due

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/cwarden/fuzzydue/internal/fuzzy"
)

// TaskFile is the on-disk JSON layout of a tasks file.
type TaskFile struct {
	Tasks       []TaskEntry  `json:"tasks"`
	Recurrences []Recurrence `json:"recurrences,omitempty"`
}

// TaskEntry represents a single task in the JSON
type TaskEntry struct {
	ID           string      `json:"id,omitempty"`
	Name         string      `json:"name"`
	Due          *fuzzy.Time `json:"due,omitempty"`
	Completed    bool        `json:"completed"`
	Tags         []string    `json:"tags,omitempty"`
	RecurrenceID string      `json:"recurrenceId,omitempty"`
}

// taskFileJSON mirrors TaskFile with the fuzzy times left undecoded, so
// they can be floored in the caller's calendar.
type taskFileJSON struct {
	Tasks []struct {
		ID           string          `json:"id"`
		Name         string          `json:"name"`
		Due          json.RawMessage `json:"due"`
		Completed    bool            `json:"completed"`
		Tags         []string        `json:"tags"`
		RecurrenceID string          `json:"recurrenceId"`
	} `json:"tasks"`
	Recurrences []struct {
		RecurrenceID string            `json:"recurrenceId"`
		BaseTaskID   string            `json:"baseTaskId"`
		From         json.RawMessage   `json:"from"`
		To           json.RawMessage   `json:"to"`
		Period       fuzzy.Granularity `json:"period"`
		Selected     []int             `json:"selected"`
	} `json:"recurrences"`
}

// ParseTasksJSON parses a tasks file, flooring every fuzzy time in cal.
func ParseTasksJSON(jsonData []byte, cal fuzzy.Calendar) (*TaskFile, error) {
	var raw taskFileJSON
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse tasks JSON: %w", err)
	}

	file := &TaskFile{Tasks: make([]TaskEntry, 0, len(raw.Tasks))}
	for _, t := range raw.Tasks {
		entry := TaskEntry{
			ID:           t.ID,
			Name:         t.Name,
			Completed:    t.Completed,
			Tags:         t.Tags,
			RecurrenceID: t.RecurrenceID,
		}
		if hasValue(t.Due) {
			d, err := cal.DecodeJSON(t.Due)
			if err != nil {
				return nil, fmt.Errorf("task %q: %w", t.Name, err)
			}
			entry.Due = &d
		}
		file.Tasks = append(file.Tasks, entry)
	}

	for _, r := range raw.Recurrences {
		rec := Recurrence{
			RecurrenceID: r.RecurrenceID,
			BaseTaskID:   r.BaseTaskID,
			RecurrenceSchedule: RecurrenceSchedule{
				Period:   r.Period,
				Selected: r.Selected,
			},
		}
		var err error
		if hasValue(r.From) {
			if rec.From, err = cal.DecodeJSON(r.From); err != nil {
				return nil, fmt.Errorf("recurrence %s: %w", r.RecurrenceID, err)
			}
		}
		if hasValue(r.To) {
			if rec.To, err = cal.DecodeJSON(r.To); err != nil {
				return nil, fmt.Errorf("recurrence %s: %w", r.RecurrenceID, err)
			}
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("recurrence %s: %w", r.RecurrenceID, err)
		}
		file.Recurrences = append(file.Recurrences, rec)
	}
	return file, nil
}

func hasValue(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// ConvertEntriesToTasks converts TaskEntry records to Tasks, assigning IDs
// to entries that have none.
func ConvertEntriesToTasks(entries []TaskEntry, filename string) []Task {
	tasks := make([]Task, 0, len(entries))
	for _, entry := range entries {
		id := entry.ID
		if id == "" {
			id = uuid.NewString()
		}
		tasks = append(tasks, Task{
			ID:           id,
			Name:         entry.Name,
			Due:          entry.Due,
			Completed:    entry.Completed,
			Tags:         entry.Tags,
			RecurrenceID: entry.RecurrenceID,
			Filename:     filename,
		})
	}
	return tasks
}

// LoadFile reads a tasks file. Recurrences are returned alongside the tasks
// so they survive a Save.
func LoadFile(path string, cal fuzzy.Calendar) ([]Task, []Recurrence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	file, err := ParseTasksJSON(data, cal)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return ConvertEntriesToTasks(file.Tasks, path), file.Recurrences, nil
}

// MarshalTasks renders tasks and recurrences back into the tasks file layout.
func MarshalTasks(tasks []Task, recurrences []Recurrence) ([]byte, error) {
	file := TaskFile{
		Tasks:       make([]TaskEntry, 0, len(tasks)),
		Recurrences: recurrences,
	}
	for _, t := range tasks {
		file.Tasks = append(file.Tasks, TaskEntry{
			ID:           t.ID,
			Name:         t.Name,
			Due:          t.Due,
			Completed:    t.Completed,
			Tags:         t.Tags,
			RecurrenceID: t.RecurrenceID,
		})
	}
	return json.MarshalIndent(file, "", "  ")
}
