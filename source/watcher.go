package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// eventChannelBuffer is the size of the watch event channel.
const eventChannelBuffer = 500

// Operation is the kind of change a watch event reports.
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Event is one content file change, debounced and deduplicated.
type Event struct {
	// Path is relative to the watched root.
	Path      string
	AbsPath   string
	Operation Operation
}

// Watcher emits change events for content files under a root
// directory. Events are debounced: rapid successive writes to the same
// file collapse into one event, and writes that do not change the file
// content are dropped via hash comparison.
type Watcher struct {
	scanner  *Scanner
	root     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.RWMutex
	hashes map[string]string

	events chan Event

	droppedEvents atomic.Int64
}

// NewWatcher creates a Watcher over the scanner's root.
func NewWatcher(scanner *Scanner, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		scanner:  scanner,
		root:     scanner.root,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		pending:  make(map[string]fsnotify.Op),
		hashes:   make(map[string]string),
		events:   make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of debounced change events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start adds recursive watches and begins processing. The events
// channel closes when ctx is canceled or the watcher stops.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return err
	}
	if err := w.addWatchesRecursive(w.root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("content watcher started",
		slog.String("root", w.root),
		slog.Duration("debounce", w.debounce))
	return nil
}

// Stop stops the watcher. processEvents closes the events channel on
// exit.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// SetHash seeds the content hash for a file, so the initial scan does
// not re-emit unchanged files as creates.
func (w *Watcher) SetHash(relPath, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[relPath] = hash
}

func (w *Watcher) getHash(relPath string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	h, ok := w.hashes[relPath]
	return h, ok
}

// DroppedEvents returns how many events were dropped due to a full
// channel.
func (w *Watcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

// ContentHash is the hash used for change deduplication.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if base := filepath.Base(path); strings.HasPrefix(base, ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory",
				slog.String("path", path),
				slog.Any("error", err))
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", slog.Any("error", err))

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}

	if !w.scanner.Match(rel) {
		// New directories still need watches for the files they will
		// eventually contain.
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("content change detected",
		slog.String("path", rel),
		slog.String("op", event.Op.String()))
}

func (w *Watcher) handleNewDirectory(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("failed to watch new directory",
			slog.String("path", path),
			slog.Any("error", err))
	}
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		rel, _ := filepath.Rel(w.root, path)
		event := Event{Path: rel, AbsPath: path}

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			event.Operation = OpDelete
			w.hashMu.Lock()
			delete(w.hashes, rel)
			w.hashMu.Unlock()
			w.sendEvent(event)
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			event.Operation = OpDelete
			w.sendEvent(event)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			w.logger.Warn("failed to read changed file",
				slog.String("path", rel),
				slog.Any("error", err))
			continue
		}

		newHash := ContentHash(data)
		oldHash, hadHash := w.getHash(rel)
		if hadHash && oldHash == newHash {
			continue
		}
		w.SetHash(rel, newHash)

		if op.Has(fsnotify.Create) || !hadHash {
			event.Operation = OpCreate
		} else {
			event.Operation = OpModify
		}
		w.sendEvent(event)
	}
}

func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
		w.logger.Debug("sent watch event",
			slog.String("path", event.Path),
			slog.String("op", string(event.Operation)))
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("event channel full, dropping event",
			slog.String("path", event.Path),
			slog.Int64("total_dropped", dropped))
	}
}
