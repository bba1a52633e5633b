package source

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vd89/promptlog/internal/errors"
	"github.com/vd89/promptlog/internal/pipeline"
)

// ChatMessage is the payload shape posted by chat webviews. Only type and
// text are read; other fields are ignored.
type ChatMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Chat message types routed through the pipeline. Anything else is rejected
// at the boundary rather than trusted by shape.
const (
	// TypeUserInput is a keystroke-level chat-box capture: low confidence,
	// minimal-path formatting.
	TypeUserInput = "userInput"

	// TypePrompt is a submitted prompt: full-path capture.
	TypePrompt = "prompt"

	// TypeChatMessage is a message observed in the chat transcript:
	// full-path capture, subject to response filtering.
	TypeChatMessage = "chatMessage"
)

// ParseChatMessage validates a raw webview payload. Malformed JSON, a
// missing type, or blank text is an error; the payload is never partially
// trusted.
func ParseChatMessage(data []byte) (*ChatMessage, error) {
	var msg ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("malformed chat payload: %v", err))
	}
	if msg.Type == "" {
		return nil, errors.NewInvalidRequest("chat payload missing type")
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil, errors.NewInvalidRequest("chat payload missing text")
	}
	return &msg, nil
}

// DispatchChatMessage parses a payload and routes it to the sink:
// userInput takes the minimal path, prompt and chatMessage the full path.
func DispatchChatMessage(sink Sink, data []byte) (*pipeline.Result, error) {
	msg, err := ParseChatMessage(data)
	if err != nil {
		return nil, err
	}
	return routeChatMessage(sink, msg)
}

func routeChatMessage(sink Sink, msg *ChatMessage) (*pipeline.Result, error) {
	switch msg.Type {
	case TypeUserInput:
		return sink.CaptureInput(ChatLabel, msg.Text)
	case TypePrompt, TypeChatMessage:
		return sink.Capture(pipeline.NewEvent(ChatLabel, "", msg.Text))
	default:
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown chat payload type %q", msg.Type))
	}
}
