package source

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vd89/promptlog/internal/pipeline"
)

// maxWatchedFileBytes caps how large a file the watcher will diff.
const maxWatchedFileBytes = 512 * 1024

// maxTrackedDocs bounds how many file baselines are held in memory during a
// long watch session. Above the cap the least recently changed baseline is
// dropped; the next write to that file primes a fresh baseline instead of
// diffing.
const maxTrackedDocs = 128

// watchedExtensions are the file types treated as text documents.
var watchedExtensions = map[string]bool{
	".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".rs": true, ".java": true, ".rb": true, ".cs": true,
	".md": true, ".txt": true, ".json": true, ".yaml": true, ".yml": true,
	".html": true, ".css": true, ".sql": true, ".sh": true,
}

// skippedDirs are never watched. The log directories must be here or the
// watcher would observe its own output.
var skippedDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true, "dist": true,
	"target": true, "copilot-prompts": true, ".vscode-copilot-logs": true,
}

// DocumentWatcher approximates text-document change notifications by
// watching workspace files and diffing their content on write. The first
// observation of a file only primes the baseline; later writes emit the
// inserted text as a capture event with surrounding lines as context.
type DocumentWatcher struct {
	sink         Sink
	root         string
	contextLines int
	debounce     time.Duration
	logger       *slog.Logger

	prev       map[string]docBaseline
	maxTracked int
}

// docBaseline is the last observed content of a watched file, stamped so
// stale entries can be evicted.
type docBaseline struct {
	content string
	touched time.Time
}

// NewDocumentWatcher creates a watcher rooted at the workspace folder.
// contextLines is how many lines around a change are captured as context.
func NewDocumentWatcher(sink Sink, root string, contextLines int, logger *slog.Logger) *DocumentWatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if contextLines < 0 {
		contextLines = 0
	}
	return &DocumentWatcher{
		sink:         sink,
		root:         root,
		contextLines: contextLines,
		debounce:     DefaultDebounce,
		logger:       logger,
		prev:         make(map[string]docBaseline),
		maxTracked:   maxTrackedDocs,
	}
}

// Run watches until ctx is cancelled. Changed paths are collected and
// flushed on a debounce tick so editor save bursts coalesce into one event
// per file.
func (w *DocumentWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addDirs(watcher, w.root); err != nil {
		return err
	}

	dirty := make(map[string]struct{})
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.observe(watcher, ev, dirty)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Debug("watch error", "error", err)
		case <-ticker.C:
			for path := range dirty {
				delete(dirty, path)
				w.handle(path)
			}
		}
	}
}

// observe records eligible file writes and extends the watch into newly
// created directories.
func (w *DocumentWatcher) observe(watcher *fsnotify.Watcher, ev fsnotify.Event, dirty map[string]struct{}) {
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		if ev.Op&fsnotify.Create != 0 && !w.skipDir(filepath.Base(ev.Name)) {
			if err := w.addDirs(watcher, ev.Name); err != nil {
				w.logger.Debug("watch extend failed", "dir", ev.Name, "error", err)
			}
		}
		return
	}

	if watchedExtensions[filepath.Ext(ev.Name)] {
		dirty[ev.Name] = struct{}{}
	}
}

// handle diffs one changed file and feeds the inserted text through the
// pipeline.
func (w *DocumentWatcher) handle(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxWatchedFileBytes {
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		w.logger.Debug("document read failed", "path", path, "error", err)
		return
	}
	current := string(content)

	previous, seen := w.prev[path]
	w.prev[path] = docBaseline{content: current, touched: time.Now()}
	w.evictStale()
	if !seen {
		// Baseline only; nothing was typed yet as far as we know.
		return
	}

	inserted, offset := insertedText(previous.content, current)
	if strings.TrimSpace(inserted) == "" {
		return
	}

	label := path
	if rel, err := filepath.Rel(w.root, path); err == nil {
		label = rel
	}
	surrounding := surroundingLines(current, offset, offset+len(inserted), w.contextLines)

	res, err := w.sink.Capture(pipeline.Event{
		SourceLabel: label,
		Context:     surrounding,
		RawText:     inserted,
		CapturedAt:  time.Now(),
	})
	if err != nil {
		w.logger.Debug("document capture failed", "path", path, "error", err)
		return
	}
	w.logger.Debug("document change sampled", "path", label, "event", res.EventID, "outcome", res.Outcome)
}

// evictStale drops the least recently changed baselines until the cache is
// back under its cap.
func (w *DocumentWatcher) evictStale() {
	for len(w.prev) > w.maxTracked {
		var oldest string
		var oldestAt time.Time
		for path, doc := range w.prev {
			if oldest == "" || doc.touched.Before(oldestAt) {
				oldest, oldestAt = path, doc.touched
			}
		}
		delete(w.prev, oldest)
	}
}

// addDirs registers root and its eligible subdirectories with the watcher.
func (w *DocumentWatcher) addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			w.logger.Debug("watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

func (w *DocumentWatcher) skipDir(name string) bool {
	return skippedDirs[name] || strings.HasPrefix(name, ".")
}

// insertedText diffs two versions of a document and returns the inserted
// span of the new version plus its byte offset. Common prefix and suffix
// are trimmed; a pure deletion yields an empty span.
func insertedText(oldText, newText string) (string, int) {
	p := 0
	for p < len(oldText) && p < len(newText) && oldText[p] == newText[p] {
		p++
	}

	s := 0
	for s < len(oldText)-p && s < len(newText)-p &&
		oldText[len(oldText)-1-s] == newText[len(newText)-1-s] {
		s++
	}

	return newText[p : len(newText)-s], p
}

// surroundingLines returns the lines containing [start, end) plus n whole
// lines on each side, without a trailing newline.
func surroundingLines(content string, start, end, n int) string {
	if start < 0 {
		start = 0
	}
	if start > len(content) {
		start = len(content)
	}
	if end < start {
		end = start
	}
	if end > len(content) {
		end = len(content)
	}

	lo := start
	for i := 0; i <= n; i++ {
		idx := strings.LastIndexByte(content[:lo], '\n')
		if idx < 0 {
			lo = 0
			break
		}
		lo = idx
	}
	if lo > 0 {
		lo++
	}

	hi := end
	for i := 0; i <= n; i++ {
		idx := strings.IndexByte(content[hi:], '\n')
		if idx < 0 {
			hi = len(content)
			break
		}
		hi += idx + 1
	}
	if hi > lo && content[hi-1] == '\n' {
		hi--
	}

	return content[lo:hi]
}
