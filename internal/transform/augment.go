package transform

import (
	"github.com/n0madic/go-thinkgate/internal/types"
)

// Instruction is prepended to the augmentation target when analytical
// keywords are detected and reasoning is enabled.
const Instruction = "Think through this step by step before answering. " +
	"Lay out the relevant facts, work through the logic, then give the answer."

// UltrathinkInstruction replaces Instruction when the ultrathink keyword was
// detected: a longer, more directive variant for maximum reasoning depth.
const UltrathinkInstruction = "Engage maximum reasoning depth on this request. " +
	"Decompose the problem into its smallest parts, reason through each part " +
	"explicitly, verify every intermediate result, consider alternative " +
	"interpretations and edge cases, and double-check the final answer " +
	"before responding."

// prependInstruction prefixes content with an instruction string. String
// content is prefixed directly; block-list content gets the prefix on its
// first text block. Content without any text to prefix is returned
// unchanged.
func prependInstruction(content any, instruction string) (any, bool) {
	prefix := instruction + "\n\n"
	switch c := content.(type) {
	case string:
		return prefix + c, true
	case []types.ContentPart:
		for i, p := range c {
			if p.Type != "text" {
				continue
			}
			out := append([]types.ContentPart(nil), c...)
			out[i].Text = prefix + out[i].Text
			return out, true
		}
		return content, false
	case []any:
		for i, raw := range c {
			block, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if typ, _ := block["type"].(string); typ != "text" {
				continue
			}
			text, _ := block["text"].(string)
			out := append([]any(nil), c...)
			cloned := make(map[string]any, len(block))
			for k, v := range block {
				cloned[k] = v
			}
			cloned["text"] = prefix + text
			out[i] = cloned
			return out, true
		}
		return content, false
	default:
		return content, false
	}
}
