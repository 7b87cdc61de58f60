package engine

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/n0madic/go-thinkgate/internal/transform"
	"github.com/n0madic/go-thinkgate/internal/types"
)

var zaiProvider = Provider{Name: "zai", BaseURL: "https://api.z.ai/api/paas/v4"}

func userRequest(model, text string) *types.ChatCompletionRequest {
	return &types.ChatCompletionRequest{
		Model:    model,
		Messages: []types.ChatMessage{{Role: "user", Content: text}},
	}
}

func messageText(t *testing.T, req *types.ChatCompletionRequest, i int) string {
	t.Helper()
	s, ok := req.Messages[i].Content.(string)
	if !ok {
		t.Fatalf("message %d content is not a string: %#v", i, req.Messages[i].Content)
	}
	return s
}

// TestTransformGLMAnalyticalQuestion covers the reference scenario: a
// reasoning-capable model with an analytical question, no tags, no
// overrides.
func TestTransformGLMAnalyticalQuestion(t *testing.T) {
	e := New(Options{}, nil, nil)
	out, err := e.TransformRequest(context.Background(),
		userRequest("glm-4.6", "How many characters are in this string?"), zaiProvider)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	if out.MaxTokens == nil || *out.MaxTokens != 131072 {
		t.Errorf("max_tokens: got %v, want 131072", out.MaxTokens)
	}
	if out.Temperature == nil || *out.Temperature != 1.0 {
		t.Errorf("temperature: got %v, want 1.0", out.Temperature)
	}
	if out.TopP == nil || *out.TopP != 0.95 {
		t.Errorf("top_p: got %v, want 0.95", out.TopP)
	}
	if out.Reasoning == nil || !out.Reasoning.Enabled || out.Reasoning.Effort != "high" {
		t.Errorf("reasoning: got %+v, want enabled high", out.Reasoning)
	}
	if out.Thinking == nil || out.Thinking.Type != "enabled" {
		t.Errorf("thinking: got %+v, want provider field", out.Thinking)
	}
	want := transform.Instruction + "\n\nHow many characters are in this string?"
	if got := messageText(t, out, 0); got != want {
		t.Errorf("augmented text: got %q, want %q", got, want)
	}
}

// TestTransformThinkingOff covers the explicit-off scenario: tag removed,
// reasoning disabled, no provider field.
func TestTransformThinkingOff(t *testing.T) {
	e := New(Options{}, nil, nil)
	out, err := e.TransformRequest(context.Background(),
		userRequest("glm-4.6", "<Thinking:Off> just say hi"), zaiProvider)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	if out.Reasoning == nil || out.Reasoning.Enabled {
		t.Errorf("reasoning: got %+v, want disabled", out.Reasoning)
	}
	if out.Thinking != nil {
		t.Errorf("thinking field must be absent, got %+v", out.Thinking)
	}
	if got := messageText(t, out, 0); got != "just say hi" {
		t.Errorf("message text: got %q, want %q", got, "just say hi")
	}
}

// TestTransformUnknownModelUltrathink covers the unknown-model scenario:
// safe defaults, ultrathink forcing reasoning, no formatter, directive
// instruction variant.
func TestTransformUnknownModelUltrathink(t *testing.T) {
	e := New(Options{}, nil, nil)
	out, err := e.TransformRequest(context.Background(),
		userRequest("foo-bar", "ultrathink, solve this"), Provider{Name: "acme"})
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	if out.MaxTokens == nil || *out.MaxTokens != 131072 {
		t.Errorf("max_tokens: got %v, want 131072", out.MaxTokens)
	}
	if out.Reasoning == nil || !out.Reasoning.Enabled || out.Reasoning.Effort != "high" {
		t.Errorf("reasoning: got %+v, want enabled high", out.Reasoning)
	}
	if out.Thinking != nil {
		t.Errorf("unknown provider must have no thinking field, got %+v", out.Thinking)
	}
	want := transform.UltrathinkInstruction + "\n\nultrathink, solve this"
	if got := messageText(t, out, 0); got != want {
		t.Errorf("augmented text: got %q, want %q", got, want)
	}
	if out.Temperature != nil || out.TopP != nil {
		t.Error("unknown model must not gain sampling parameters")
	}
}

// TestTransformForcePermanentThinking verifies level 0 beats tags and
// message content.
func TestTransformForcePermanentThinking(t *testing.T) {
	e := New(Options{ForcePermanentThinking: true}, nil, nil)
	out, err := e.TransformRequest(context.Background(),
		userRequest("foo-bar", "<Thinking:Off> keep it short"), Provider{Name: "acme"})
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if out.Reasoning == nil || !out.Reasoning.Enabled || out.Reasoning.Effort != "high" {
		t.Errorf("reasoning: got %+v, want enabled high", out.Reasoning)
	}
	if got := messageText(t, out, 0); got != "keep it short" {
		t.Errorf("tag not stripped: %q", got)
	}
}

// TestTransformGlobalOverrides verifies operator overrides for parameters
// and reasoning.
func TestTransformGlobalOverrides(t *testing.T) {
	off := false
	e := New(Options{
		OverrideMaxTokens:   types.IntPtr(2048),
		OverrideTemperature: types.Float64Ptr(0.1),
		OverrideReasoning:   &off,
	}, nil, nil)
	out, err := e.TransformRequest(context.Background(),
		userRequest("glm-4.6", "hello there"), zaiProvider)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if *out.MaxTokens != 2048 {
		t.Errorf("max_tokens override: got %d", *out.MaxTokens)
	}
	if *out.Temperature != 0.1 {
		t.Errorf("temperature override: got %v", *out.Temperature)
	}
	if out.Reasoning == nil || out.Reasoning.Enabled {
		t.Errorf("reasoning override off: got %+v", out.Reasoning)
	}
}

// TestTransformCustomKeywords verifies the custom keyword list drives
// augmentation.
func TestTransformCustomKeywords(t *testing.T) {
	e := New(Options{CustomKeywords: []string{"frobnicate"}, OverrideKeywords: true}, nil, nil)
	out, err := e.TransformRequest(context.Background(),
		userRequest("glm-4.6", "please frobnicate the config"), zaiProvider)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if got := messageText(t, out, 0); !strings.HasPrefix(got, transform.Instruction) {
		t.Errorf("expected augmentation for custom keyword, got %q", got)
	}

	// With OverrideKeywords the default list is gone.
	out, err = e.TransformRequest(context.Background(),
		userRequest("glm-4.6", "how many items?"), zaiProvider)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if got := messageText(t, out, 0); got != "how many items?" {
		t.Errorf("default keyword still active: %q", got)
	}
}

// TestTransformNoMessages verifies that a request without a messages array
// still resolves reasoning and parameters.
func TestTransformNoMessages(t *testing.T) {
	e := New(Options{}, nil, nil)
	out, err := e.TransformRequest(context.Background(),
		&types.ChatCompletionRequest{Model: "glm-4.6"}, zaiProvider)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if out.Reasoning == nil || !out.Reasoning.Enabled {
		t.Errorf("reasoning: got %+v", out.Reasoning)
	}
	if *out.MaxTokens != 131072 {
		t.Errorf("max_tokens: got %d", *out.MaxTokens)
	}
}

// TestTransformNilRequest verifies the nil-request error.
func TestTransformNilRequest(t *testing.T) {
	e := New(Options{}, nil, nil)
	if _, err := e.TransformRequest(context.Background(), nil, zaiProvider); err == nil {
		t.Error("expected error for nil request")
	}
}

// TestHandleResponsePassthrough verifies that responses are returned
// unchanged.
func TestHandleResponsePassthrough(t *testing.T) {
	e := New(Options{}, nil, nil)
	resp := &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
	}
	got := e.HandleResponse(context.Background(), resp)
	if got != resp {
		t.Error("response object was replaced")
	}
	body, _ := io.ReadAll(got.Body)
	if string(body) != `{"ok":true}` {
		t.Errorf("body altered: %q", body)
	}
}
