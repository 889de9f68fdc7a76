// Package watch notifies when a new LEGI dump archive lands in the
// download directory, so that a conversion and normalization run can be
// scheduled without polling the DILA server.
package watch

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gopkg.in/fsnotify.v1"
)

// Event describes a dump archive that appeared or changed.
type Event struct {
	Path string
	Op   string // "create" or "modify"
	Time time.Time
}

// Config configures a dump directory watcher.
type Config struct {
	// Dir is the directory the DILA dumps are downloaded into.
	Dir string
	// Debounce is how long a file must stay quiet before an event is
	// emitted. Archives are written incrementally, so a fresh dump
	// produces a long burst of write events.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches a directory for new dump archives.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   *slog.Logger

	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	events   chan Event

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher. Call Start to begin receiving events.
func New(cfg Config) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("no directory configured for watching")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:      cfg.Dir,
		debounce: cfg.Debounce,
		logger:   logger,
		events:   make(chan Event, 16),
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Events returns the channel new dump events are delivered on. No
// events are delivered after Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start starts watching the dump directory for changes.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	w.watcher = watcher
	w.stopChan = make(chan struct{})

	go w.watchLoop(watcher)

	if err := watcher.Add(w.dir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("watching directory %s: %w", w.dir, err)
	}

	return nil
}

// Close stops the watcher. Pending debounce timers are dropped.
func (w *Watcher) Close() error {
	if w.watcher == nil {
		return nil
	}
	close(w.stopChan)
	err := w.watcher.Close()

	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.watcher = nil
	return err
}

// watchLoop handles file system events.
func (w *Watcher) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if !isDumpArchive(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				w.schedule(event.Name, "create")

			case event.Op&fsnotify.Write == fsnotify.Write:
				w.schedule(event.Name, "modify")

			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				w.cancel(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)
		}
	}
}

// schedule arms (or re-arms) the debounce timer for a path. The event
// fires only once the file has been quiet for the full debounce window.
func (w *Watcher) schedule(path, op string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.events <- Event{Path: path, Op: op, Time: time.Now()}:
		case <-w.stopChan:
		}
	})
}

// cancel drops a pending event for a path that went away.
func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

var archiveSuffixes = []string{".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".tar"}

func isDumpArchive(name string) bool {
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
