package scan

import (
	"strings"

	"github.com/n0madic/go-thinkgate/internal/types"
)

// Text flattens message content into plain text for scanning. String content
// is returned as-is; block-list content concatenates the text of "text"
// blocks joined by a single space, skipping images and other block types.
// Anything not matching the two known shapes yields an empty string.
func Text(msg types.ChatMessage) string {
	return ContentText(msg.Content)
}

// ContentText flattens a raw content value the same way Text does.
func ContentText(content any) string {
	switch c := content.(type) {
	case string:
		return c
	case []types.ContentPart:
		var parts []string
		for _, p := range c {
			if p.Type == "text" && p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
		return strings.Join(parts, " ")
	case []any:
		var parts []string
		for _, raw := range c {
			if text, ok := blockText(raw); ok && text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// blockText extracts the text of a single content block decoded from JSON.
func blockText(raw any) (string, bool) {
	switch b := raw.(type) {
	case map[string]any:
		typ, _ := b["type"].(string)
		if typ != "text" {
			return "", false
		}
		text, _ := b["text"].(string)
		return text, true
	case types.ContentPart:
		if b.Type != "text" {
			return "", false
		}
		return b.Text, true
	default:
		return "", false
	}
}
