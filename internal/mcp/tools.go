package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Descriptions are written for the model calling them, so
// they spell out when a call will be a no-op (duplicates, disabled logging).

var logToolDef = mcp.NewTool("prompt_log",
	mcp.WithDescription("Log a captured prompt through the full pipeline: cleanup, response filtering, and duplicate suppression. Returns the outcome and the log file path. Duplicates of recently logged prompts are silently skipped."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The raw captured text."),
	),
	mcp.WithString("source",
		mcp.Description("Where the text came from, e.g. a file path or 'Copilot Chat'. Defaults to 'Manual Entry'."),
	),
	mcp.WithString("context",
		mcp.Description("Surrounding text to record alongside the prompt. Truncated to 500 characters."),
	),
)

var logInputToolDef = mcp.NewTool("prompt_log_input",
	mcp.WithDescription("Log user-typed input through the minimal path: the text is kept verbatim, only duplicate suppression and the system-message check apply. Use for chat-box keystrokes where cleanup would lose intent."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The typed input, recorded as-is."),
	),
	mcp.WithString("source",
		mcp.Description("Where the input was typed. Defaults to 'Manual Entry'."),
	),
)

var captureClipboardToolDef = mcp.NewTool("prompt_capture_clipboard",
	mcp.WithDescription("Read the system clipboard once and log its content through the full pipeline. Fails if the clipboard is unreadable."),
)

var chatEventToolDef = mcp.NewTool("prompt_chat_event",
	mcp.WithDescription("Route a chat webview event. Type 'userInput' takes the minimal path; 'prompt' and 'chatMessage' take the full pipeline. Other types are rejected."),
	mcp.WithString("type",
		mcp.Required(),
		mcp.Description("Event type: userInput, prompt, or chatMessage."),
	),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The event text."),
	),
)

var enableToolDef = mcp.NewTool("prompt_enable",
	mcp.WithDescription("Enable prompt logging and persist the setting."),
)

var disableToolDef = mcp.NewTool("prompt_disable",
	mcp.WithDescription("Disable prompt logging and persist the setting. Capture calls return a disabled outcome until re-enabled."),
)

var statusToolDef = mcp.NewTool("prompt_status",
	mcp.WithDescription("Report whether logging is enabled, the capture mode, and where today's log file lives."),
)
