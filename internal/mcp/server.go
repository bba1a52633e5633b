package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"prompt_log": {
		def:     logToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLog },
	},
	"prompt_log_input": {
		def:     logInputToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLogInput },
	},
	"prompt_capture_clipboard": {
		def:     captureClipboardToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureClipboard },
	},
	"prompt_chat_event": {
		def:     chatEventToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleChatEvent },
	},
	"prompt_enable": {
		def:     enableToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleEnable },
	},
	"prompt_disable": {
		def:     disableToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDisable },
	},
	"prompt_status": {
		def:     statusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatus },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates a new MCP server with the prompt tools registered.
func NewServer(h *Handlers, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"promptlog",
		version,
		server.WithToolCapabilities(true),
	)

	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(h *Handlers, version string) error {
	s := NewServer(h, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
