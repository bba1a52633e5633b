// Package source holds the capture-event adapters: clipboard polling,
// document-change watching, and chat-message payloads. Each adapter produces
// events on its own schedule and feeds them to a pipeline sink.
package source

import "github.com/vd89/promptlog/internal/pipeline"

// Labels for the non-file capture sources.
const (
	ClipboardLabel = "Clipboard"
	ChatLabel      = "Copilot Chat"
	ManualLabel    = "Manual Entry"
)

// Sink consumes capture events. Satisfied by *pipeline.Coordinator.
type Sink interface {
	Capture(ev pipeline.Event) (*pipeline.Result, error)
	CaptureInput(sourceLabel, text string) (*pipeline.Result, error)
}
