package pipeline

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Event is one observed candidate signal that might be a user prompt.
// Events are ephemeral: produced by a capture source, passed through the
// pipeline once, then discarded. Never persisted.
type Event struct {
	// ID is a ULID assigned at ingestion, used to trace the event through
	// debug logs.
	ID string

	// SourceLabel is free-form: a file name, "Clipboard", "Copilot Chat",
	// "Manual Entry".
	SourceLabel string

	// Context is optional surrounding text; may be large.
	Context string

	// RawText is the candidate prompt text as observed.
	RawText string

	// CapturedAt is assigned at ingestion.
	CapturedAt time.Time
}

// NewEvent creates an Event stamped with a fresh ULID and the current time.
func NewEvent(sourceLabel, context, rawText string) Event {
	return Event{
		ID:          ulid.Make().String(),
		SourceLabel: sourceLabel,
		Context:     context,
		RawText:     rawText,
		CapturedAt:  time.Now(),
	}
}

// Outcome says what the pipeline did with an event.
type Outcome string

const (
	OutcomeLogged    Outcome = "logged"
	OutcomeDisabled  Outcome = "disabled"
	OutcomeEmpty     Outcome = "empty"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// Result reports the pipeline's decision for one event.
type Result struct {
	Outcome Outcome `json:"outcome"`
	EventID string  `json:"event_id"`
	File    string  `json:"file,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}
