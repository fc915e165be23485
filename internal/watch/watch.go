// Package watch reports video files dropped into a directory once they stop changing.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// VideoExts lists the file extensions treated as videos.
var VideoExts = []string{".mp4", ".mov", ".mkv", ".webm", ".avi", ".m4v"}

// IsVideo reports whether name carries a video extension.
func IsVideo(name string) bool {
	return slices.Contains(VideoExts, strings.ToLower(filepath.Ext(name)))
}

// Handler is called once per settled video file.
type Handler func(ctx context.Context, path string)

// Watcher monitors a directory via fsnotify.
type Watcher struct {
	dir    string
	settle time.Duration
	handle Handler
	logger zerolog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func New(dir string, settle time.Duration, handle Handler, logger zerolog.Logger) *Watcher {
	return &Watcher{
		dir:     dir,
		settle:  settle,
		handle:  handle,
		logger:  logger,
		pending: make(map[string]*time.Timer),
	}
}

// Run watches the directory until ctx is cancelled. Handlers run one at a time
// in arrival order.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info().Str("dir", w.dir).Dur("settle", w.settle).Msg("watching for videos")

	ready := make(chan string, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case p := <-ready:
				w.handle(ctx, p)
			}
		}
	}()
	defer wg.Wait()
	defer w.stopAll()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsVideo(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounce(ctx, event.Name, ready)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) debounce(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
	w.pending[path] = t
}

func (w *Watcher) stopAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for p, t := range w.pending {
		t.Stop()
		delete(w.pending, p)
	}
}
