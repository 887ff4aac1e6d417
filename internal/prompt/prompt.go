// Package prompt handles LLM prompt construction and response parsing for
// the advisor. The parser is the reliability layer — it defensively handles
// LLM output quirks (code fences, backticks, explanatory text) regardless
// of how well the system prompt constrains the model.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// ExplainSystemPrompt returns the system prompt for explaining a boundary
// verdict. envContext is the formatted snapshot from shellenv.Snapshot.Format().
func ExplainSystemPrompt(envContext string) string {
	return fmt.Sprintf(`You are PathFence, a guard that reviews shell commands before an automated agent runs them. Filesystem-mutating commands must only target paths inside the approved directory.

Current environment:
%s
Guidelines:
- Explain in plain language what the command does and why it was allowed or denied.
- If it was denied, suggest an alternative that stays inside the approved directory, in a fenced code block (triple backticks).
- Suggest at most one command per code block.
- Be concise. Don't over-explain.
- Never suggest disabling the boundary check or escalating privileges.`, envContext)
}

// ExplainUserPrompt returns the user message asking for an explanation of
// one verdict. reason is empty for allowed commands.
func ExplainUserPrompt(command, decision, reason string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command: `%s`\nVerdict: %s\n", command, decision)
	if reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", reason)
	}
	b.WriteString("Explain this verdict. If it was denied, suggest an in-bounds alternative.")
	return b.String()
}

// ParsedResponse represents a structured LLM response.
type ParsedResponse struct {
	Text        string   // full response text for display
	Suggestions []string // commands extracted from code blocks
}

// codeBlockRe matches fenced code blocks: ```lang\n...\n``` or ```\n...\n```
var codeBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\n(.*?)```")

// ParseResponse parses an LLM response, extracting suggested commands
// from fenced code blocks while preserving the full text. Suggestions are
// candidates only — callers boundary-check them before offering to run.
func ParseResponse(raw string) ParsedResponse {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ParsedResponse{}
	}

	var suggestions []string
	matches := codeBlockRe.FindAllStringSubmatch(text, -1)
	for _, m := range matches {
		cmd := strings.TrimSpace(m[1])
		if cmd != "" {
			suggestions = append(suggestions, cmd)
		}
	}

	return ParsedResponse{
		Text:        text,
		Suggestions: suggestions,
	}
}
