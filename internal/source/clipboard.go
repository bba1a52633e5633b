package source

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/vd89/promptlog/internal/errors"
	"github.com/vd89/promptlog/internal/pipeline"
)

const (
	// DefaultPollInterval is how often the clipboard is sampled.
	DefaultPollInterval = 2 * time.Second

	// DefaultDebounce is how long new clipboard content must stay stable
	// before it is emitted, coalescing rapid repeated copies.
	DefaultDebounce = 500 * time.Millisecond
)

// ClipboardPoller samples the clipboard on a fixed interval and emits
// changed, settled content as capture events. Read failures are expected
// (clipboard permissions are flaky) and never surfaced to the user.
type ClipboardPoller struct {
	sink     Sink
	interval time.Duration
	debounce time.Duration
	logger   *slog.Logger

	// read is a seam for tests; defaults to clipboard.ReadAll.
	read func() (string, error)

	last string
}

// NewClipboardPoller creates a poller with the default interval and debounce.
func NewClipboardPoller(sink Sink, logger *slog.Logger) *ClipboardPoller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ClipboardPoller{
		sink:     sink,
		interval: DefaultPollInterval,
		debounce: DefaultDebounce,
		logger:   logger,
		read:     clipboard.ReadAll,
	}
}

// Run polls until ctx is cancelled. In-flight pipeline work is allowed to
// finish; only the sampling loop stops.
func (p *ClipboardPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll samples once, debounces, and emits if the content settled.
func (p *ClipboardPoller) poll(ctx context.Context) {
	text, err := p.read()
	if err != nil {
		p.logger.Debug("clipboard read failed", "error", err)
		return
	}
	if text == p.last || strings.TrimSpace(text) == "" {
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(p.debounce):
	}

	settled, err := p.read()
	if err != nil {
		p.logger.Debug("clipboard re-read failed", "error", err)
		return
	}
	if settled != text {
		// Still changing; the next tick will pick it up.
		return
	}

	p.last = text
	res, err := p.sink.Capture(pipeline.NewEvent(ClipboardLabel, "", text))
	if err != nil {
		p.logger.Debug("clipboard capture failed", "error", err)
		return
	}
	p.logger.Debug("clipboard sampled", "event", res.EventID, "outcome", res.Outcome)
}

// CaptureClipboard performs a one-shot clipboard capture through the full
// pipeline, for the capture-from-clipboard-now command. Unlike the poller,
// a read failure here is surfaced: the user asked explicitly.
func CaptureClipboard(sink Sink) (*pipeline.Result, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, errors.NewClipboardUnavailable(err)
	}
	return sink.Capture(pipeline.NewEvent(ClipboardLabel, "", text))
}
