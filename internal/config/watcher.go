package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of filesystem events editors emit
// when saving a file.
const DefaultDebounce = 100 * time.Millisecond

// ReloadHandler receives the freshly loaded configuration.
type ReloadHandler func(cfg Config)

// ErrorHandler receives watch or reload failures. A failed reload keeps the
// previously active configuration.
type ErrorHandler func(err error)

// Watcher reloads a configuration file when it changes on disk.
//
// The parent directory is watched rather than the file itself, because most
// editors save by writing a temporary file and renaming it over the
// original, which drops a watch on the file's inode.
type Watcher struct {
	path     string
	loader   *Loader
	onReload ReloadHandler
	onError  ErrorHandler
	debounce time.Duration

	fsw *fsnotify.Watcher

	timerMu sync.Mutex
	timer   *time.Timer

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce interval.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets the handler for watch and reload failures.
func WithErrorHandler(h ErrorHandler) WatcherOption {
	return func(w *Watcher) {
		w.onError = h
	}
}

// NewWatcher creates a watcher for the config file at path.
// onReload is called with each successfully loaded configuration.
func NewWatcher(path string, loader *Loader, onReload ReloadHandler, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		loader:   loader,
		onReload: onReload,
		onError:  func(error) {},
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()

		w.timerMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timerMu.Unlock()
	})
	return err
}

// loop consumes filesystem events until Close.
func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// relevant reports whether ev touches the watched config file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

// schedule arms the debounce timer, replacing any pending one.
func (w *Watcher) schedule() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

// reload loads the file and hands the result to the handlers.
func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}

	cfg, err := w.loader.Load(w.path)
	if err != nil {
		w.onError(err)
		return
	}
	w.onReload(cfg)
}
