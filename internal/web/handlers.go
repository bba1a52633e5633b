package web

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vd89/promptlog/internal/config"
	"github.com/vd89/promptlog/internal/errors"
	"github.com/vd89/promptlog/internal/logfile"
)

// Handlers contains HTTP route handlers for the log viewer.
type Handlers struct {
	writer   *logfile.Writer
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /logs — list daily log files, newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	dir, err := h.writer.Dir()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	items := make([]LogFileItem, 0, len(entries))
	for _, entry := range entries {
		date, ok := logDate(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		items = append(items, LogFileItem{
			Date:    date,
			Entries: countEntries(filepath.Join(dir, entry.Name())),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Prompt Logs",
			Version: h.renderer.version,
		},
		Dir:   dir,
		Items: items,
	})
}

// HandleDay handles GET /logs/{date} — render one day's log as HTML.
func (h *Handlers) HandleDay(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("date must be YYYY-MM-DD"))
		return
	}

	dir, err := h.writer.Dir()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	path := filepath.Join(dir, logfile.FileName(day))
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			h.renderer.renderError(w, r, errors.NewFileNotFound(path))
			return
		}
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	h.renderer.renderPage(w, "day", DayPageData{
		PageData: PageData{
			Title:   formatDate(date),
			Version: h.renderer.version,
		},
		Date:         date,
		Path:         path,
		RenderedHTML: renderMarkdown(string(content)),
	})
}

// logDate extracts the date part from a log file name, reporting whether the
// name is a valid daily log file.
func logDate(name string) (string, bool) {
	date, ok := strings.CutPrefix(name, "prompt-log-")
	if !ok {
		return "", false
	}
	date, ok = strings.CutSuffix(date, ".md")
	if !ok {
		return "", false
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", false
	}
	return date, true
}

// countEntries counts logged prompts in a file. Best effort; a read error
// just reports zero.
func countEntries(path string) int {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	return strings.Count(string(content), "### User Prompt at ")
}
