package source

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestInsertedText(t *testing.T) {
	tests := []struct {
		name       string
		oldText    string
		newText    string
		want       string
		wantOffset int
	}{
		{"append", "hello", "hello world", " world", 5},
		{"prepend", "world", "hello world", "hello ", 0},
		{"middle insert", "func main() {}", "func main() { run() }", " run() ", 13},
		{"no change", "same", "same", "", 4},
		{"pure deletion", "hello world", "hello", "", 5},
		{"from empty", "", "new file", "new file", 0},
		{"full replace", "abc", "xyz", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, offset := insertedText(tt.oldText, tt.newText)
			if got != tt.want {
				t.Errorf("inserted = %q, want %q", got, tt.want)
			}
			if offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", offset, tt.wantOffset)
			}
		})
	}
}

func TestSurroundingLines(t *testing.T) {
	content := "alpha\nbravo\ncharlie\ndelta\necho"

	tests := []struct {
		name       string
		start, end int
		n          int
		want       string
	}{
		{"single line no context", 12, 19, 0, "charlie"},
		{"one line each side", 12, 19, 1, "bravo\ncharlie\ndelta"},
		{"context clamped at start", 0, 5, 2, "alpha\nbravo\ncharlie"},
		{"context clamped at end", 26, 30, 2, "charlie\ndelta\necho"},
		{"span across lines", 6, 19, 0, "bravo\ncharlie"},
		{"out of range offsets", 100, 200, 1, "delta\necho"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := surroundingLines(content, tt.start, tt.end, tt.n)
			if got != tt.want {
				t.Errorf("surroundingLines(%d, %d, %d) = %q, want %q", tt.start, tt.end, tt.n, got, tt.want)
			}
		})
	}
}

func TestDocumentWatcherBaselineThenDiff(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sink := &fakeSink{}
	w := NewDocumentWatcher(sink, dir, 1, slog.New(slog.DiscardHandler))

	// First observation primes the baseline and emits nothing.
	w.handle(path)
	if len(sink.events) != 0 {
		t.Fatalf("baseline read emitted %d events", len(sink.events))
	}

	if err := os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w.handle(path)

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event after change, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.SourceLabel != "main.go" {
		t.Errorf("source label = %q, want relative path", ev.SourceLabel)
	}
	if ev.RawText != "\nfunc main() {}\n" {
		t.Errorf("raw text = %q", ev.RawText)
	}
}

func TestDocumentWatcherSkipsWhitespaceOnlyChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte("draft"), 0o644); err != nil {
		t.Fatal(err)
	}

	sink := &fakeSink{}
	w := NewDocumentWatcher(sink, dir, 0, slog.New(slog.DiscardHandler))
	w.handle(path)

	if err := os.WriteFile(path, []byte("draft\n\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w.handle(path)

	if len(sink.events) != 0 {
		t.Fatalf("whitespace-only change emitted %d events", len(sink.events))
	}
}

func TestDocumentWatcherEvictsOldBaselines(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	sink := &fakeSink{}
	w := NewDocumentWatcher(sink, dir, 0, slog.New(slog.DiscardHandler))
	w.maxTracked = 2

	first := write("a.go", "package a\n")
	w.handle(first)
	w.handle(write("b.go", "package b\n"))
	w.handle(write("c.go", "package c\n"))

	if len(w.prev) != 2 {
		t.Fatalf("cached baselines = %d, want 2", len(w.prev))
	}
	if _, ok := w.prev[first]; ok {
		t.Error("least recently changed baseline was not evicted")
	}

	// With its baseline gone, the next change to the evicted file primes a
	// fresh baseline instead of emitting a diff.
	write("a.go", "package a\n\nfunc A() {}\n")
	w.handle(first)
	if len(sink.events) != 0 {
		t.Fatalf("change after eviction emitted %d events", len(sink.events))
	}

	// And the change after that diffs normally again.
	write("a.go", "package a\n\nfunc A() {}\n\nfunc B() {}\n")
	w.handle(first)
	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event after re-priming, got %d", len(sink.events))
	}
}

func TestDocumentWatcherSkipDir(t *testing.T) {
	sink := &fakeSink{}
	w := NewDocumentWatcher(sink, t.TempDir(), 0, nil)

	for _, name := range []string{".git", "node_modules", "copilot-prompts", ".vscode-copilot-logs", ".cache"} {
		if !w.skipDir(name) {
			t.Errorf("expected %q to be skipped", name)
		}
	}
	for _, name := range []string{"src", "internal", "docs"} {
		if w.skipDir(name) {
			t.Errorf("did not expect %q to be skipped", name)
		}
	}
}
