package stream

import "github.com/tidwall/gjson"

// ChunkPreview is the best-effort summary of one chat-completion SSE chunk.
type ChunkPreview struct {
	Role         string
	Content      string
	Reasoning    string
	FinishReason string
}

// Empty reports whether the chunk carried nothing worth previewing.
func (p ChunkPreview) Empty() bool {
	return p.Role == "" && p.Content == "" && p.Reasoning == "" && p.FinishReason == ""
}

// ParseChunk extracts preview fields from a raw SSE payload. Payloads that
// are not valid JSON yield ok=false and are skipped by the caller.
func ParseChunk(payload []byte) (ChunkPreview, bool) {
	if !gjson.ValidBytes(payload) {
		return ChunkPreview{}, false
	}
	choice := gjson.GetBytes(payload, "choices.0")
	if !choice.Exists() {
		return ChunkPreview{}, false
	}
	return ChunkPreview{
		Role:         choice.Get("delta.role").String(),
		Content:      choice.Get("delta.content").String(),
		Reasoning:    choice.Get("delta.reasoning_content").String(),
		FinishReason: choice.Get("finish_reason").String(),
	}, true
}
