package logfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vd89/promptlog/internal/errors"
)

var testDay = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func newTestWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	root := t.TempDir()
	w := NewWriter(Options{WorkspaceRoot: root, HomeDir: t.TempDir()})
	w.sleep = func(time.Duration) {}
	return w, root
}

func TestFileName(t *testing.T) {
	if got := FileName(testDay); got != "prompt-log-2025-01-01.md" {
		t.Errorf("FileName = %q, want prompt-log-2025-01-01.md", got)
	}
}

func TestDirPrefersWorkspace(t *testing.T) {
	w, root := newTestWriter(t)

	dir, err := w.Dir()
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if dir != filepath.Join(root, "copilot-prompts") {
		t.Errorf("Dir = %q, want workspace copilot-prompts", dir)
	}
}

func TestDirFallsBackToHome(t *testing.T) {
	home := t.TempDir()
	// A file where the workspace dir should go makes MkdirAll fail.
	root := t.TempDir()
	blocked := filepath.Join(root, "copilot-prompts")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	w := NewWriter(Options{WorkspaceRoot: root, HomeDir: home})
	dir, err := w.Dir()
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if dir != filepath.Join(home, ".vscode-copilot-logs") {
		t.Errorf("Dir = %q, want home fallback", dir)
	}
}

func TestDirNoWorkspaceUsesHome(t *testing.T) {
	home := t.TempDir()
	w := NewWriter(Options{HomeDir: home})

	dir, err := w.Dir()
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if dir != filepath.Join(home, ".vscode-copilot-logs") {
		t.Errorf("Dir = %q, want home fallback", dir)
	}
}

func TestDirOverrideWins(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom-logs")
	w := NewWriter(Options{WorkspaceRoot: t.TempDir(), DirOverride: override})

	dir, err := w.Dir()
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if dir != override {
		t.Errorf("Dir = %q, want override %q", dir, override)
	}
}

func TestDirAllCandidatesFail(t *testing.T) {
	w := NewWriter(Options{})

	_, err := w.Dir()
	if !errors.Is(err, errors.ErrLogDirUnavailable) {
		t.Errorf("Dir error = %v, want LOG_DIR_UNAVAILABLE", err)
	}
}

func TestEnsureFileWritesHeaderOnce(t *testing.T) {
	w, _ := newTestWriter(t)

	path, err := w.EnsureFile(testDay)
	if err != nil {
		t.Fatalf("EnsureFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := "# Copilot Prompt Log - January 1, 2025\nPrompts captured from editor activity, best effort.\n\n"
	if string(content) != want {
		t.Errorf("header = %q, want %q", content, want)
	}

	// Second call must leave the file untouched.
	if _, err := w.EnsureFile(testDay); err != nil {
		t.Fatalf("second EnsureFile failed: %v", err)
	}
	again, _ := os.ReadFile(path)
	if string(again) != want {
		t.Error("EnsureFile rewrote an existing file")
	}
}

func TestAppendStrictlyAppends(t *testing.T) {
	w, _ := newTestWriter(t)

	path, err := w.Append(testDay, "\nfirst entry\n")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := w.Append(testDay, "\nsecond entry\n"); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(content)

	if !strings.HasPrefix(text, "# Copilot Prompt Log - January 1, 2025\n") {
		t.Error("header missing or overwritten")
	}
	first := strings.Index(text, "first entry")
	second := strings.Index(text, "second entry")
	if first < 0 || second < 0 || second < first {
		t.Errorf("entries missing or out of order:\n%s", text)
	}
}

func TestAppendBlankEntryIsNoOp(t *testing.T) {
	w, root := newTestWriter(t)

	path, err := w.Append(testDay, "   \n\t\n")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty for no-op", path)
	}
	if _, err := os.Stat(filepath.Join(root, "copilot-prompts", FileName(testDay))); !os.IsNotExist(err) {
		t.Error("blank entry created a log file")
	}
}

func TestAppendSeparateDaysSeparateFiles(t *testing.T) {
	w, _ := newTestWriter(t)

	day2 := testDay.AddDate(0, 0, 1)
	p1, err := w.Append(testDay, "\nday one\n")
	if err != nil {
		t.Fatalf("Append day 1: %v", err)
	}
	p2, err := w.Append(day2, "\nday two\n")
	if err != nil {
		t.Fatalf("Append day 2: %v", err)
	}
	if p1 == p2 {
		t.Errorf("both days wrote to %q, want separate files", p1)
	}
}

func TestAppendRecoversFromTransientFailure(t *testing.T) {
	w, _ := newTestWriter(t)

	failures := 2
	calls := 0
	w.appendFn = func(path, entry string) error {
		calls++
		if calls <= failures {
			return os.ErrPermission
		}
		return appendOnce(path, entry)
	}
	slept := 0
	w.sleep = func(time.Duration) { slept++ }

	path, err := w.Append(testDay, "\nretried entry\n")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if calls != failures+1 {
		t.Errorf("append attempts = %d, want %d", calls, failures+1)
	}
	if slept != failures {
		t.Errorf("sleeps between attempts = %d, want %d", slept, failures)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(content), "retried entry") {
		t.Errorf("entry missing after retry:\n%s", content)
	}
}

func TestAppendFallsBackToRewrite(t *testing.T) {
	w, _ := newTestWriter(t)

	calls := 0
	w.appendFn = func(path, entry string) error {
		calls++
		return os.ErrPermission
	}

	path, err := w.Append(testDay, "\nrewritten entry\n")
	if err != nil {
		t.Fatalf("Append failed despite fallback: %v", err)
	}
	if calls != 3 {
		t.Errorf("append attempts = %d, want 3 before fallback", calls)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(content)
	if !strings.HasPrefix(text, "# Copilot Prompt Log - January 1, 2025\n") {
		t.Error("header lost during rewrite fallback")
	}
	if !strings.Contains(text, "rewritten entry") {
		t.Errorf("entry missing after rewrite fallback:\n%s", text)
	}
}

func TestAppendFailsWhenRewriteFails(t *testing.T) {
	w, _ := newTestWriter(t)

	// Removing the file makes both the append and the rewrite's read fail.
	w.appendFn = func(path, entry string) error {
		os.Remove(path)
		return os.ErrPermission
	}

	_, err := w.Append(testDay, "\nlost entry\n")
	if !errors.Is(err, errors.ErrAppendFailed) {
		t.Errorf("Append error = %v, want APPEND_FAILED", err)
	}
}

func TestCheckPath(t *testing.T) {
	w, root := newTestWriter(t)

	info, err := w.CheckPath(testDay)
	if err != nil {
		t.Fatalf("CheckPath failed: %v", err)
	}
	if info.Dir != filepath.Join(root, "copilot-prompts") {
		t.Errorf("Dir = %q, want workspace dir", info.Dir)
	}
	if !info.Writable {
		t.Error("Writable = false for a fresh temp dir")
	}
	if info.FileExists {
		t.Error("FileExists = true before any append")
	}

	if _, err := w.Append(testDay, "\nentry\n"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	info, err = w.CheckPath(testDay)
	if err != nil {
		t.Fatalf("CheckPath failed: %v", err)
	}
	if !info.FileExists {
		t.Error("FileExists = false after append")
	}
}
