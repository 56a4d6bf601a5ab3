// Package utils holds small helpers for sanitizing model output before it is
// served: markdown cleanup and lenient JSON parsing.
package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown strips an outer fenced code block from model output. Models
// often wrap an entire memo in ```markdown fences even when asked not to.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	if !strings.HasPrefix(cleaned, "```") || !strings.HasSuffix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence together with its language tag, if any.
	if idx := strings.Index(cleaned, "\n"); idx != -1 {
		cleaned = cleaned[idx+1:]
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	return strings.TrimSpace(cleaned)
}

// ValidateMarkdown reports whether goldmark can parse the input. Goldmark is
// permissive, so this mostly guards against empty or binary garbage output.
func ValidateMarkdown(input string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}
	parser := goldmark.DefaultParser()
	doc := parser.Parse(text.NewReader([]byte(input)))
	return doc != nil
}
