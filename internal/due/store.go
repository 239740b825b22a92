package due

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cwarden/fuzzydue/internal/fuzzy"
	"github.com/cwarden/fuzzydue/internal/logx"
)

// FileChangeEvent represents a reload caused by a change to a tasks file.
type FileChangeEvent struct {
	Path      string
	Timestamp time.Time
}

// Store holds the tasks loaded from one or more tasks files. Tasks are
// deduplicated by ID, the first file listing an ID wins. Due dates are
// floored in the store's calendar when read.
type Store struct {
	mu          sync.RWMutex
	cal         fuzzy.Calendar
	files       []string
	tasks       []Task
	recurrences map[string][]Recurrence
	log         logx.Logger
	watcher     *FileWatcher
	events      chan FileChangeEvent
}

func NewStore(log logx.Logger, cal fuzzy.Calendar, files ...string) *Store {
	s := &Store{
		log:         log,
		cal:         cal,
		recurrences: make(map[string][]Recurrence),
	}
	s.SetFiles(files)
	return s
}

// SetFiles replaces the tasks files. An active watch follows the new set.
func (s *Store) SetFiles(files []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		for _, path := range s.files {
			if err := s.watcher.RemoveFile(path); err != nil {
				s.log.Warn().Err(err).Str("path", path).Msg("cannot stop watching tasks file")
			}
		}
		for _, path := range files {
			if err := s.watcher.AddFile(path); err != nil {
				s.log.Warn().Err(err).Str("path", path).Msg("cannot watch tasks file")
			}
		}
	}
	s.files = append([]string(nil), files...)
}

func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.files...)
}

// Reload reads every tasks file. A missing file counts as empty; a
// malformed one fails the reload and keeps the previous tasks.
func (s *Store) Reload() error {
	files := s.Files()

	seen := make(map[string]bool)
	var tasks []Task
	recurrences := make(map[string][]Recurrence)
	for _, path := range files {
		loaded, recs, err := LoadFile(path, s.cal)
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug().Str("path", path).Msg("tasks file does not exist")
			continue
		}
		if err != nil {
			return err
		}
		recurrences[path] = recs
		for _, t := range loaded {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			tasks = append(tasks, t)
		}
	}
	SortByDue(tasks)

	s.mu.Lock()
	s.tasks = tasks
	s.recurrences = recurrences
	s.mu.Unlock()

	s.log.Debug().Int("tasks", len(tasks)).Int("files", len(files)).Msg("tasks reloaded")
	return nil
}

// Tasks returns a copy of the loaded tasks in due order.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Task(nil), s.tasks...)
}

func (s *Store) InRange(from, to *fuzzy.Time) ([]Task, error) {
	return InRange(s.Tasks(), from, to)
}

func (s *Store) DueWithin(period fuzzy.Time) []Task {
	return DueWithin(s.Tasks(), period)
}

func (s *Store) Overlapping(period fuzzy.Time) []Task {
	return Overlapping(s.Tasks(), period)
}

// Save writes the tasks and recurrences that came from path back to it.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	var owned []Task
	for _, t := range s.tasks {
		if t.Filename == path {
			owned = append(owned, t)
		}
	}
	recurrences := s.recurrences[path]
	s.mu.RUnlock()

	data, err := MarshalTasks(owned, recurrences)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Add appends a task owned by path. The caller persists it with Save.
func (s *Store) Add(t Task, path string) {
	t.Filename = path
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	SortByDue(s.tasks)
	s.mu.Unlock()
}

// Watch reloads the store whenever a tasks file changes and reports each
// reload on the returned channel until ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan FileChangeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		return s.events, nil
	}

	events := make(chan FileChangeEvent, 10)
	watcher, err := NewFileWatcher(s.log, func(path string) {
		if err := s.Reload(); err != nil {
			s.log.Error().Err(err).Str("path", path).Msg("failed to reload tasks")
			return
		}
		select {
		case events <- FileChangeEvent{Path: path, Timestamp: time.Now()}:
		default:
			// Channel full, drop event
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	for _, path := range s.files {
		if err := watcher.AddFile(path); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("cannot watch tasks file")
		}
	}

	s.watcher = watcher
	s.events = events

	go func() {
		<-ctx.Done()
		s.StopWatching()
	}()

	return events, nil
}

func (s *Store) StopWatching() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	// The events channel is left open; a reload already in flight may
	// still try to send on it.
	return err
}
