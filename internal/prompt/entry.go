package prompt

import "strings"

const (
	// ContextMaxChars caps the context block of an entry, in runes.
	ContextMaxChars = 500

	// truncationMarker is appended when context is cut at ContextMaxChars.
	truncationMarker = "... [truncated]"
)

// Entry is one formatted log record. Entries are append-only; once rendered
// and written they are never edited or removed.
type Entry struct {
	// Timestamp is already formatted per the configured layout.
	Timestamp string

	// Source is a free-form label: file name, "Clipboard", "Copilot Chat",
	// "Manual Entry". Empty omits the Source line.
	Source string

	// Context is optional surrounding text; truncated at render time.
	// Only rendered on the full path.
	Context string

	// Text is the prompt text. Cleaned on the full path, trim-only on the
	// minimal path.
	Text string

	// Minimal selects the lighter chat-capture format: source plus a single
	// fenced block, no Context/Input headings.
	Minimal bool
}

// TruncateContext cuts s at ContextMaxChars runes, appending the literal
// truncation marker when anything was cut.
func TruncateContext(s string) string {
	runes := []rune(s)
	if len(runes) <= ContextMaxChars {
		return s
	}
	return string(runes[:ContextMaxChars]) + truncationMarker
}

// Render produces the markdown fragment appended to the dated log file.
func (e Entry) Render() string {
	var b strings.Builder

	b.WriteString("\n### User Prompt at ")
	b.WriteString(e.Timestamp)
	b.WriteString("\n\n")

	if e.Source != "" {
		b.WriteString("Source: ")
		b.WriteString(e.Source)
		b.WriteString("\n\n")
	}

	if e.Minimal {
		b.WriteString("```\n")
		b.WriteString(e.Text)
		b.WriteString("\n```\n\n---\n")
		return b.String()
	}

	if e.Context != "" {
		b.WriteString("#### Context\n\n```\n")
		b.WriteString(TruncateContext(e.Context))
		b.WriteString("\n```\n\n")
	}

	b.WriteString("#### Input\n\n```\n")
	b.WriteString(e.Text)
	b.WriteString("\n```\n\n---\n")

	return b.String()
}
