package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vd89/promptlog/internal/config"
	"github.com/vd89/promptlog/internal/errors"
	"github.com/vd89/promptlog/internal/logfile"
	"github.com/vd89/promptlog/internal/pipeline"
	"github.com/vd89/promptlog/internal/source"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	coord   *pipeline.Coordinator
	cfg     *config.Config
	writer  *logfile.Writer
	baseDir string
}

// NewHandlers creates a new Handlers instance. baseDir is where the config
// file is persisted by prompt_enable and prompt_disable.
func NewHandlers(coord *pipeline.Coordinator, cfg *config.Config, writer *logfile.Writer, baseDir string) *Handlers {
	return &Handlers{coord: coord, cfg: cfg, writer: writer, baseDir: baseDir}
}

// Request types for each tool

// LogRequest represents the arguments for prompt_log.
type LogRequest struct {
	Text    string `json:"text"`
	Source  string `json:"source,omitempty"`
	Context string `json:"context,omitempty"`
}

// LogInputRequest represents the arguments for prompt_log_input.
type LogInputRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// ChatEventRequest represents the arguments for prompt_chat_event.
type ChatEventRequest struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Handler implementations

// HandleLog handles the prompt_log tool call.
func (h *Handlers) HandleLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LogRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	label := input.Source
	if label == "" {
		label = source.ManualLabel
	}

	result, err := h.coord.Capture(pipeline.NewEvent(label, input.Context, input.Text))
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleLogInput handles the prompt_log_input tool call.
func (h *Handlers) HandleLogInput(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LogInputRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	label := input.Source
	if label == "" {
		label = source.ManualLabel
	}

	result, err := h.coord.CaptureInput(label, input.Text)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCaptureClipboard handles the prompt_capture_clipboard tool call.
func (h *Handlers) HandleCaptureClipboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := source.CaptureClipboard(h.coord)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleChatEvent handles the prompt_chat_event tool call.
func (h *Handlers) HandleChatEvent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ChatEventRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	payload, err := json.Marshal(source.ChatMessage{Type: input.Type, Text: input.Text})
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}

	result, err := source.DispatchChatMessage(h.coord, payload)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleEnable handles the prompt_enable tool call.
func (h *Handlers) HandleEnable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.setEnabled(true)
}

// HandleDisable handles the prompt_disable tool call.
func (h *Handlers) HandleDisable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.setEnabled(false)
}

func (h *Handlers) setEnabled(enabled bool) (*mcp.CallToolResult, error) {
	h.coord.SetEnabled(enabled)
	if err := config.Save(h.baseDir, h.cfg); err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}

	return successResult(map[string]any{"enabled": enabled})
}

// HandleStatus handles the prompt_status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := map[string]any{
		"enabled":     h.coord.Enabled(),
		"captureMode": string(h.cfg.Mode()),
	}

	if info, err := h.writer.CheckPath(time.Now()); err == nil {
		status["logDir"] = info.Dir
		status["logFile"] = info.File
		status["fileExists"] = info.FileExists
		status["writable"] = info.Writable
	} else {
		status["logDirError"] = err.Error()
	}

	return successResult(status)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if logErr, ok := err.(*errors.LogError); ok {
		errorObj := map[string]any{
			"code":    logErr.Code,
			"message": logErr.Message,
			"status":  logErr.Status,
		}
		if logErr.Code != errors.ErrInternal && logErr.Details != nil {
			errorObj["details"] = logErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
