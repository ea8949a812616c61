package preview

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitebook/internal/logfields"
)

// DefaultDebounce coalesces bursts of file events into one rebuild.
const DefaultDebounce = 300 * time.Millisecond

// debouncer delivers at most one pending signal on C after the event stream
// has been quiet for delay.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	C     chan struct{}
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, C: make(chan struct{}, 1)}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) fire() {
	select {
	case d.C <- struct{}{}:
	default:
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// watchSet decides which paths are build inputs.
type watchSet struct {
	dirs  []string // watched recursively
	files []string // watched through their parent directory
}

func (ws watchSet) relevant(path string) bool {
	path = filepath.Clean(path)
	for _, f := range ws.files {
		if path == f {
			return true
		}
	}
	for _, d := range ws.dirs {
		if path == d || strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// add registers every watch root with w. Missing roots are skipped.
func (ws watchSet) add(w *fsnotify.Watcher) {
	for _, d := range ws.dirs {
		if _, err := os.Stat(d); err != nil {
			slog.Debug("Watch root missing", logfields.Path(d))
			continue
		}
		addDirsRecursive(w, d)
	}
	for _, f := range ws.files {
		if err := w.Add(filepath.Dir(f)); err != nil {
			slog.Warn("watch add failed", logfields.Path(filepath.Dir(f)), logfields.Error(err))
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// handleEvent reports whether ev should trigger a rebuild, and starts
// watching newly created input directories.
func (ws watchSet) handleEvent(w *fsnotify.Watcher, ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) || !ws.relevant(ev.Name) {
		return false
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(w, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	return true
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including .DS_Store and emacs lock files.
	if strings.HasPrefix(base, ".") {
		return true
	}
	// Editor temp/swap files.
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
