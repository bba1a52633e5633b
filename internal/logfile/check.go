package logfile

import (
	"os"
	"path/filepath"
	"time"
)

// PathInfo describes the resolved logging destination, for the check-log-path
// diagnostic.
type PathInfo struct {
	Dir        string   `json:"dir"`
	File       string   `json:"file"`
	FileExists bool     `json:"file_exists"`
	Writable   bool     `json:"writable"`
	Candidates []string `json:"candidates"`
}

// CheckPath resolves the log directory and probes it, reporting where the
// dated file for day would land and whether the directory accepts writes.
func (w *Writer) CheckPath(day time.Time) (*PathInfo, error) {
	dir, err := w.Dir()
	if err != nil {
		return nil, err
	}

	info := &PathInfo{
		Dir:        dir,
		File:       filepath.Join(dir, FileName(day)),
		Candidates: w.candidates(),
	}

	if _, err := os.Stat(info.File); err == nil {
		info.FileExists = true
	}

	probe, err := os.CreateTemp(dir, ".promptlog-probe-*")
	if err == nil {
		probe.Close()
		os.Remove(probe.Name())
		info.Writable = true
	}

	return info, nil
}
