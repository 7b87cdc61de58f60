package types

// --- Request types ---

// ChatCompletionRequest represents an OpenAI-compatible chat completion request.
// Content of fields the engine does not model (stream_options, user, vendor
// extras) survives at the transport layer; this struct covers only what the
// transformation touches or inspects.
type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []ChatMessage   `json:"messages,omitempty"`
	Stream      bool            `json:"stream,omitempty"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
	TopP        *float64        `json:"top_p,omitempty"`
	DoSample    *bool           `json:"do_sample,omitempty"`
	Tools       []ChatTool      `json:"tools,omitempty"`
	ToolChoice  any             `json:"tool_choice,omitempty"`
	Reasoning   *ReasoningParam `json:"reasoning,omitempty"`
	Thinking    *ThinkingParam  `json:"thinking,omitempty"`
}

// ChatMessage represents a single chat message. Content is either a plain
// string or a list of typed content blocks as decoded from JSON.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    any        `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ContentPart represents a part of a multimodal content array.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL holds an image URL reference.
type ImageURL struct {
	URL string `json:"url"`
}

// ChatTool represents a tool in the OpenAI format.
type ChatTool struct {
	Type     string       `json:"type"`
	Function *FunctionDef `json:"function,omitempty"`
}

// FunctionDef defines a function tool.
type FunctionDef struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

// ToolCall represents a tool call in a message.
type ToolCall struct {
	Index    int          `json:"index,omitempty"`
	ID       string       `json:"id,omitempty"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall holds the function name and arguments string.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ReasoningParam is the generic reasoning block attached to the outbound
// request when a decision enables or disables reasoning.
type ReasoningParam struct {
	Enabled bool   `json:"enabled"`
	Effort  string `json:"effort,omitempty"`
}

// ThinkingParam is the vendor-specific thinking block set by a provider
// formatter (e.g. {"type":"enabled"} for GLM endpoints).
type ThinkingParam struct {
	Type string `json:"type"`
}

// Clone returns a shallow structural copy of the request. The messages slice
// is shared with the original; the mutator replaces it only when a message
// actually changes.
func (r *ChatCompletionRequest) Clone() *ChatCompletionRequest {
	if r == nil {
		return nil
	}
	out := *r
	return &out
}
