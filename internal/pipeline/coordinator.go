// Package pipeline wires capture events through normalization, duplicate
// filtering, classification and formatting into the log writer.
package pipeline

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vd89/promptlog/internal/config"
	"github.com/vd89/promptlog/internal/logfile"
	"github.com/vd89/promptlog/internal/prompt"
)

// Notifier receives user-visible messages for failures worth surfacing.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) { f(message) }

// nopNotifier drops messages.
type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

// Coordinator owns the capture pipeline and its dependencies. One instance
// per process; no global state. Capture sources hold a reference and feed
// events in.
type Coordinator struct {
	cfg      *config.Config
	writer   *logfile.Writer
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	// mu serializes history access so the check-then-remember pair is
	// atomic within the process. File writes happen outside the lock, so
	// two accepted events may still reach the file in either order;
	// entries carry their own timestamps and ordering is best effort.
	mu      sync.Mutex
	history *prompt.History
}

// New creates a Coordinator. A nil notifier discards messages; a nil logger
// discards debug output.
func New(cfg *config.Config, writer *logfile.Writer, notifier Notifier, logger *slog.Logger) *Coordinator {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{
		cfg:      cfg,
		writer:   writer,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		history:  prompt.NewHistory(prompt.DefaultHistorySize),
	}
}

// Enabled reports the global capture switch.
func (c *Coordinator) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Enabled
}

// SetEnabled flips the in-memory switch. Persisting the flag to the config
// file is the caller's concern.
func (c *Coordinator) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Enabled = enabled
}

// Capture runs the full pipeline for one event: enabled gate, artifact
// cleanup, duplicate check, classification, remember, format, append.
// Sources treat it as fire-and-forget; the result exists for the command
// surfaces and tests.
func (c *Coordinator) Capture(ev Event) (*Result, error) {
	if ev.ID == "" {
		ev = NewEvent(ev.SourceLabel, ev.Context, ev.RawText)
	}
	res := &Result{EventID: ev.ID}

	if !c.Enabled() {
		res.Outcome = OutcomeDisabled
		return res, nil
	}
	if strings.TrimSpace(ev.RawText) == "" {
		res.Outcome = OutcomeEmpty
		return res, nil
	}

	clean := prompt.Clean(ev.RawText)
	if clean == "" {
		res.Outcome = OutcomeRejected
		res.Reason = "no prompt text after cleanup"
		c.logger.Debug("event rejected", "event", ev.ID, "source", ev.SourceLabel, "reason", res.Reason)
		return res, nil
	}
	key := strings.ToLower(clean)

	c.mu.Lock()
	if c.history.Seen(key) {
		c.mu.Unlock()
		res.Outcome = OutcomeDuplicate
		c.logger.Debug("event dropped as duplicate", "event", ev.ID, "source", ev.SourceLabel)
		return res, nil
	}
	if !prompt.ShouldAccept(clean, c.cfg.Mode()) {
		c.mu.Unlock()
		res.Outcome = OutcomeRejected
		res.Reason = "classified as response or system noise"
		c.logger.Debug("event rejected", "event", ev.ID, "source", ev.SourceLabel, "reason", res.Reason)
		return res, nil
	}
	c.history.Remember(key)
	context := c.contextFor(ev, key)
	c.mu.Unlock()

	entry := prompt.Entry{
		Timestamp: ev.CapturedAt.Format(c.timestampFormat()),
		Source:    ev.SourceLabel,
		Context:   context,
		Text:      clean,
	}

	return c.append(ev, res, entry, key)
}

// CaptureInput runs the minimal path used for lower-confidence, chat-style
// captures: trim-only cleanup of the logged text, no context block, only the
// empty and system-signature rejection rules. Duplicate filtering and the
// history bound are shared with the full path.
func (c *Coordinator) CaptureInput(sourceLabel, text string) (*Result, error) {
	ev := NewEvent(sourceLabel, "", text)
	res := &Result{EventID: ev.ID}

	if !c.Enabled() {
		res.Outcome = OutcomeDisabled
		return res, nil
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		res.Outcome = OutcomeEmpty
		return res, nil
	}

	key := prompt.Key(trimmed)
	if key == "" || prompt.IsSystemMessage(trimmed) {
		res.Outcome = OutcomeRejected
		res.Reason = "system or artifact text"
		c.logger.Debug("input rejected", "event", ev.ID, "source", sourceLabel, "reason", res.Reason)
		return res, nil
	}

	c.mu.Lock()
	if c.history.Seen(key) {
		c.mu.Unlock()
		res.Outcome = OutcomeDuplicate
		c.logger.Debug("input dropped as duplicate", "event", ev.ID, "source", sourceLabel)
		return res, nil
	}
	c.history.Remember(key)
	c.mu.Unlock()

	entry := prompt.Entry{
		Timestamp: ev.CapturedAt.Format(c.timestampFormat()),
		Source:    sourceLabel,
		Text:      trimmed,
		Minimal:   true,
	}

	return c.append(ev, res, entry, key)
}

// append hands the rendered entry to the writer and reports failures to the
// notifier. On failure the remembered key is backed out so the history stays
// consistent with what is on disk, and the event's data is dropped; there is
// no retry queue.
func (c *Coordinator) append(ev Event, res *Result, entry prompt.Entry, key string) (*Result, error) {
	path, err := c.writer.Append(ev.CapturedAt, entry.Render())
	if err != nil {
		c.mu.Lock()
		c.history.Forget(key)
		c.mu.Unlock()
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
		c.notifier.Notify("prompt logging failed: " + err.Error())
		return res, err
	}

	res.Outcome = OutcomeLogged
	res.File = path
	c.logger.Debug("event logged", "event", ev.ID, "source", ev.SourceLabel, "file", path)
	return res, nil
}

// contextFor decides whether the event's context is worth a block: the
// include flag must be on, and the context must differ non-trivially from
// the prompt text and not look like previously captured input.
// Called with mu held.
func (c *Coordinator) contextFor(ev Event, promptKey string) string {
	if !c.cfg.IncludeContext {
		return ""
	}
	context := strings.TrimSpace(ev.Context)
	if context == "" {
		return ""
	}
	ctxKey := prompt.Key(context)
	if ctxKey == "" || ctxKey == promptKey || c.history.Seen(ctxKey) {
		return ""
	}
	return context
}

func (c *Coordinator) timestampFormat() string {
	if c.cfg.TimestampFormat == "" {
		return "2006-01-02 15:04:05"
	}
	return c.cfg.TimestampFormat
}
