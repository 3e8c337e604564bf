package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the file must stay quiet before a reload is signalled
const DefaultDebounce = 200 * time.Millisecond

// Event signals that the watched document changed on disk
type Event struct {
	Path string
	Size int64
	At   time.Time
}

// Watcher reports changes to a single document file.
// The parent directory is watched so editors that replace the file by rename are seen.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger

	events chan Event
	errors chan error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period before an event is emitted
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a watcher for path. Call Start to begin delivering events.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		fs:       fsw,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		events:   make(chan Event, 1),
		errors:   make(chan error, 10),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Events returns the reload events. At most one event is pending at a time.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns watcher errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Start runs the event loop in a goroutine
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("document changed", zap.String("path", w.path), zap.Stringer("op", ev.Op))
			timer.Reset(w.debounce)

		case <-timer.C:
			w.emit()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// emit sends an event if the file is present, coalescing with any pending one
func (w *Watcher) emit() {
	info, err := os.Stat(w.path)
	if err != nil {
		// Removed mid-replace; the following create restarts the timer
		return
	}

	ev := Event{Path: w.path, Size: info.Size(), At: time.Now()}
	select {
	case w.events <- ev:
		w.logger.Info("reload signalled", zap.String("path", w.path), zap.Int64("size", ev.Size))
	default:
	}
}

// Close stops the watcher and releases the fsnotify handle
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}
