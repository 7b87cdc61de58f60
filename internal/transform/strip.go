package transform

import (
	"regexp"
	"strings"

	"github.com/n0madic/go-thinkgate/internal/types"
)

// tagRe matches every control tag the scanner recognizes, case-insensitively.
var tagRe = regexp.MustCompile(`(?i)<(?:thinking:(?:on|off)|effort:(?:low|medium|high))>`)

// spaceRunRe collapses the gap left behind by a mid-string tag removal.
var spaceRunRe = regexp.MustCompile(`[ \t]{2,}`)

// StripText removes all control tags from text and cleans up the resulting
// whitespace. Text without tags is returned unchanged, which makes the
// operation idempotent.
func StripText(text string) (string, bool) {
	removed := tagRe.ReplaceAllString(text, "")
	if removed == text {
		return text, false
	}
	removed = spaceRunRe.ReplaceAllString(removed, " ")
	return strings.TrimSpace(removed), true
}

// StripContent applies tag stripping to message content of either known
// shape. Block-list content is cloned only when a text block actually
// changes; non-text blocks are carried over untouched. Unrecognized content
// is returned as-is.
func StripContent(content any) (any, bool) {
	switch c := content.(type) {
	case string:
		return stripString(c)
	case []types.ContentPart:
		return stripParts(c)
	case []any:
		return stripBlocks(c)
	default:
		return content, false
	}
}

func stripString(s string) (any, bool) {
	out, changed := StripText(s)
	return out, changed
}

func stripParts(parts []types.ContentPart) (any, bool) {
	changed := false
	out := parts
	for i, p := range parts {
		if p.Type != "text" {
			continue
		}
		stripped, ok := StripText(p.Text)
		if !ok {
			continue
		}
		if !changed {
			out = append([]types.ContentPart(nil), parts...)
			changed = true
		}
		out[i].Text = stripped
	}
	return out, changed
}

func stripBlocks(blocks []any) (any, bool) {
	changed := false
	out := blocks
	for i, raw := range blocks {
		block, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := block["type"].(string)
		text, _ := block["text"].(string)
		if typ != "text" {
			continue
		}
		stripped, ok := StripText(text)
		if !ok {
			continue
		}
		if !changed {
			out = append([]any(nil), blocks...)
			changed = true
		}
		cloned := make(map[string]any, len(block))
		for k, v := range block {
			cloned[k] = v
		}
		cloned["text"] = stripped
		out[i] = cloned
	}
	return out, changed
}
