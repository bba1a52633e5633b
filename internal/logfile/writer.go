// Package logfile owns the dated markdown log files: directory resolution
// with fallbacks, lazy file creation with a fixed header, and retry-tolerant
// appends.
package logfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vd89/promptlog/internal/errors"
)

const (
	// workspaceDirName is the preferred, workspace-relative log directory.
	workspaceDirName = "copilot-prompts"

	// homeDirName is the home-relative fallback directory.
	homeDirName = ".vscode-copilot-logs"

	filePrefix = "prompt-log-"
	fileSuffix = ".md"

	appendAttempts = 3
	retryDelay     = 100 * time.Millisecond
)

// Options configures a Writer.
type Options struct {
	// WorkspaceRoot is the current workspace folder, empty when none.
	WorkspaceRoot string

	// HomeDir is the user home directory for the fallback location.
	HomeDir string

	// DirOverride, when set, bypasses resolution entirely.
	DirOverride string

	Logger *slog.Logger
}

// Writer appends formatted entries to one markdown file per calendar day.
// Once created a file is only ever appended to, except for the degraded
// read-rewrite fallback taken when appends keep failing.
//
// Single writer per process is assumed; nothing guards against a second
// process writing the same file.
type Writer struct {
	workspaceRoot string
	homeDir       string
	override      string
	logger        *slog.Logger

	// sleep and appendFn are seams for tests; they default to time.Sleep
	// and appendOnce.
	sleep    func(time.Duration)
	appendFn func(path, entry string) error
}

// NewWriter creates a Writer from opts.
func NewWriter(opts Options) *Writer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{
		workspaceRoot: opts.WorkspaceRoot,
		homeDir:       opts.HomeDir,
		override:      opts.DirOverride,
		logger:        logger,
		sleep:         time.Sleep,
		appendFn:      appendOnce,
	}
}

// FileName returns the dated log file name, e.g. "prompt-log-2025-01-01.md".
func FileName(day time.Time) string {
	return filePrefix + day.Format("2006-01-02") + fileSuffix
}

// Dir resolves the log directory, creating it if needed. Order: explicit
// override, workspace folder, home fallback. A location that cannot be
// created falls through to the next one.
func (w *Writer) Dir() (string, error) {
	var tried []string

	for _, dir := range w.candidates() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			w.logger.Debug("log directory unavailable", "dir", dir, "error", err)
			tried = append(tried, dir)
			continue
		}
		return dir, nil
	}

	return "", errors.NewLogDirUnavailable(tried)
}

func (w *Writer) candidates() []string {
	var dirs []string
	if w.override != "" {
		dirs = append(dirs, w.override)
	}
	if w.workspaceRoot != "" {
		dirs = append(dirs, filepath.Join(w.workspaceRoot, workspaceDirName))
	}
	if w.homeDir != "" {
		dirs = append(dirs, filepath.Join(w.homeDir, homeDirName))
	}
	return dirs
}

// EnsureFile creates the dated file with its header if absent and returns
// its path. Creation happens exactly once; an existing file is left alone.
func (w *Writer) EnsureFile(day time.Time) (string, error) {
	dir, err := w.Dir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(day))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", errors.NewInternal(err)
	}

	if err := os.WriteFile(path, []byte(fileHeader(day)), 0o644); err != nil {
		return "", errors.NewInternal(err)
	}
	w.logger.Debug("created log file", "path", path)
	return path, nil
}

// fileHeader is written exactly once, at file creation.
func fileHeader(day time.Time) string {
	return fmt.Sprintf("# Copilot Prompt Log - %s\nPrompts captured from editor activity, best effort.\n\n",
		day.Format("January 2, 2006"))
}

// Append writes one formatted entry to the dated file. Blank entries are a
// no-op. Appends are retried with a fixed delay; when all attempts fail the
// writer falls back to reading the whole file and rewriting it with the
// entry concatenated. The fallback sacrifices atomicity: a crash mid-rewrite
// can lose the file.
func (w *Writer) Append(day time.Time, entry string) (string, error) {
	if strings.TrimSpace(entry) == "" {
		return "", nil
	}

	path, err := w.EnsureFile(day)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= appendAttempts; attempt++ {
		if lastErr = w.appendFn(path, entry); lastErr == nil {
			return path, nil
		}
		w.logger.Debug("append attempt failed",
			"path", path, "attempt", attempt, "error", lastErr)
		if attempt < appendAttempts {
			w.sleep(retryDelay)
		}
	}

	if err := rewrite(path, entry); err != nil {
		return "", errors.NewAppendFailed(path, lastErr)
	}
	w.logger.Debug("append recovered via rewrite fallback", "path", path)
	return path, nil
}

// appendOnce performs a single O_APPEND write.
func appendOnce(path, entry string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// rewrite is the degraded path: read current content, concatenate, overwrite.
func rewrite(path, entry string) error {
	current, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(current, entry...), 0o644)
}
