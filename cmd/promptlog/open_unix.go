//go:build !windows

package main

import (
	"os/exec"
	"runtime"
)

// openPath opens a file with the platform's default application.
func openPath(path string) error {
	if runtime.GOOS == "darwin" {
		return exec.Command("open", path).Start()
	}
	return exec.Command("xdg-open", path).Start()
}
