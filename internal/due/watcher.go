package due

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cwarden/fuzzydue/internal/logx"
)

const debounceDelay = 100 * time.Millisecond

// FileWatcher calls onChange once per burst of writes to a watched file.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]time.Time
	onChange func(string)
	log      logx.Logger
	mu       sync.RWMutex
	done     chan struct{}
	once     sync.Once
}

func NewFileWatcher(log logx.Logger, onChange func(string)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher:  watcher,
		files:    make(map[string]time.Time),
		onChange: onChange,
		log:      log,
		done:     make(chan struct{}),
	}

	go fw.watch()
	return fw, nil
}

func (fw *FileWatcher) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, exists := fw.files[absPath]; exists {
		return nil // Already watching
	}

	if err := fw.watcher.Add(absPath); err != nil {
		return err
	}

	fw.files[absPath] = time.Now()
	fw.log.Debug().Str("path", absPath).Msg("watching tasks file")
	return nil
}

func (fw *FileWatcher) RemoveFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, exists := fw.files[absPath]; !exists {
		return nil // Not watching
	}

	if err := fw.watcher.Remove(absPath); err != nil {
		return err
	}

	delete(fw.files, absPath)
	return nil
}

func (fw *FileWatcher) Files() []string {
	fw.mu.RLock()
	defer fw.mu.RUnlock()

	files := make([]string, 0, len(fw.files))
	for path := range fw.files {
		files = append(files, path)
	}
	return files
}

func (fw *FileWatcher) watch() {
	var debounceMu sync.Mutex
	debounce := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			name := event.Name
			debounceMu.Lock()
			if timer, exists := debounce[name]; exists {
				timer.Stop()
			}
			debounce[name] = time.AfterFunc(debounceDelay, func() {
				debounceMu.Lock()
				delete(debounce, name)
				debounceMu.Unlock()

				fw.mu.RLock()
				_, watching := fw.files[name]
				fw.mu.RUnlock()

				if watching && fw.onChange != nil {
					fw.onChange(name)
				}
			})
			debounceMu.Unlock()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn().Err(err).Msg("file watcher error")

		case <-fw.done:
			return
		}
	}
}

func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
