//go:build windows

package main

import "os/exec"

// openPath opens a file with the platform's default application.
func openPath(path string) error {
	return exec.Command("cmd", "/c", "start", "", path).Start()
}
