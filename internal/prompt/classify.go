package prompt

import (
	"strings"

	"github.com/vd89/promptlog/internal/config"
)

// longResponseChars is the length above which declarative or code-laden text
// is treated as an assistant response under userInputOnly.
const longResponseChars = 100

// responsePhrases are literal substrings that only ever appear in assistant
// responses, never in prompts.
var responsePhrases = []string{
	"Here is the implementation",
	"Here's the implementation",
	"Here is the updated",
	"Updated content goes here",
	"I've updated the",
	"The following code",
}

// responseStarters open long declarative sentences.
var responseStarters = []string{"The ", "This ", "Updates "}

// codeKeywords hint that a code-laden blob is generated code rather than a
// prompt quoting a snippet.
var codeKeywords = []string{"function", "class", "method", "implements"}

// ShouldAccept decides whether cleaned text is a loggable prompt under the
// given capture mode. Rules apply in order; any match rejects:
//
//  1. empty after cleanup
//  2. system-message signature
//  3. under userInputOnly only: response heuristic
//
// The heuristic trades recall for precision. Prompts are typically short and
// imperative; responses long, declarative and code-laden. It is a filter,
// not a classifier with guaranteed accuracy.
func ShouldAccept(cleanText string, mode config.CaptureMode) bool {
	if cleanText == "" {
		return false
	}
	if IsSystemMessage(cleanText) {
		return false
	}
	if mode == config.ModeUserInputOnly && LooksLikeResponse(cleanText) {
		return false
	}
	return true
}

// IsSystemMessage reports whether text carries a system-message signature:
// a session banner, an entry heading echo, or a "system:" prefix. Banner and
// heading markers must open the text; a prompt that merely quotes one is not
// a system message. All checks are case-sensitive.
func IsSystemMessage(text string) bool {
	if strings.HasPrefix(text, "system:") {
		return true
	}
	for _, marker := range artifactMarkers {
		if strings.HasPrefix(text, marker) {
			return true
		}
	}
	return false
}

// LooksLikeResponse applies the assistant-response heuristic: a known
// response phrase, or long text that is either declarative prose or
// code-laden with programming keywords.
func LooksLikeResponse(text string) bool {
	for _, phrase := range responsePhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}

	if CountChars(text) <= longResponseChars {
		return false
	}

	for _, starter := range responseStarters {
		if strings.HasPrefix(text, starter) && strings.Contains(text, ".") {
			return true
		}
	}

	codeLaden := strings.Contains(text, "```") ||
		(strings.Contains(text, "{") && strings.Contains(text, ";"))
	if codeLaden {
		lower := strings.ToLower(text)
		for _, kw := range codeKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}

	return false
}
