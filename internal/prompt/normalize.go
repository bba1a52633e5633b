package prompt

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// timestampLineRegex matches lines that are nothing but a timestamp,
// e.g. "2025-01-01 12:34:56".
var timestampLineRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}$`)

// separatorLineRegex matches markdown horizontal-rule lines of 3+ dashes.
var separatorLineRegex = regexp.MustCompile(`^-{3,}$`)

// artifactMarkers identify lines echoed back from a previous log file or a
// session banner. They are literal strings the logger itself emits at the
// start of a banner or heading, so matching is case-sensitive and anchored
// to the line start: ordinary prompt text that mentions one mid-sentence
// is not an artifact.
var artifactMarkers = []string{
	"Session Started",
	"Session Ended",
	"User Prompt at",
	"Prompt at",
}

// artifactHeadings are heading names (with any leading #'s stripped) that
// belong to the entry format, not to prompt text.
var artifactHeadings = map[string]bool{
	"context": true,
	"input":   true,
}

// noisePrefixes mark processing chatter. Compared case-insensitively against
// the start of a line.
var noisePrefixes = []string{
	"processing",
	"thinking",
	"analyzing",
	"context:",
	"received:",
}

// Clean strips log artifacts and processing noise from captured text and
// collapses the remainder onto a single whitespace-normalized line.
//
// Fenced code blocks keep their inner content; only the fence marker lines
// are removed, so a prompt that embeds a code sample still counts as prompt
// text. An empty result means the input was entirely artifact or noise and
// the caller must treat it as "no prompt found".
//
// Clean is idempotent: Clean(Clean(x)) == Clean(x). Collapsing lines can
// place an artifact marker at the start of the joined text ("Session" on one
// line, "Started" on the next), so the pass repeats until the output is
// stable.
func Clean(text string) string {
	for {
		next := cleanPass(text)
		if next == text {
			return next
		}
		text = next
	}
}

func cleanPass(text string) string {
	if text == "" {
		return ""
	}

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			continue
		}
		if isArtifactLine(trimmed) {
			continue
		}
		if hasNoisePrefix(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}

	joined := strings.Join(kept, " ")
	joined = whitespaceRegex.ReplaceAllString(joined, " ")
	return strings.TrimSpace(joined)
}

// Key derives the comparison key used for duplicate detection:
// the cleaned text, lowercased. Never written to the log.
func Key(text string) string {
	return strings.ToLower(Clean(text))
}

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// isArtifactLine reports whether a trimmed line is log-format residue.
func isArtifactLine(line string) bool {
	heading := strings.TrimSpace(strings.TrimLeft(line, "#"))
	for _, marker := range artifactMarkers {
		if strings.HasPrefix(heading, marker) {
			return true
		}
	}

	if artifactHeadings[strings.ToLower(heading)] {
		return true
	}
	if strings.HasPrefix(heading, "Source:") {
		return true
	}

	if timestampLineRegex.MatchString(line) {
		return true
	}
	if separatorLineRegex.MatchString(line) {
		return true
	}
	return false
}

// hasNoisePrefix reports whether a trimmed line starts with processing
// chatter, case-insensitively.
func hasNoisePrefix(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
