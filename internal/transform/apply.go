// Package transform produces the outbound request body: parameter
// injection, control-tag stripping and keyword-driven prompt augmentation,
// always on a structural copy of the caller's request.
package transform

import (
	"github.com/n0madic/go-thinkgate/internal/models"
	"github.com/n0madic/go-thinkgate/internal/reasoning"
	"github.com/n0madic/go-thinkgate/internal/scan"
	"github.com/n0madic/go-thinkgate/internal/types"
)

// Params carries everything the mutation needs besides the request itself.
type Params struct {
	Config   models.Config
	Signals  scan.Signals
	Decision reasoning.Decision
	// UserConditions gates whether the decision overrides the caller's own
	// reasoning field (levels 0-3) or defers to model-config/passthrough
	// behavior (levels 4-5).
	UserConditions bool

	OverrideMaxTokens        *int
	OverrideTemperature      *float64
	OverrideTopP             *float64
	OverrideKeywordDetection *bool
}

// Apply builds the outbound request. The input request is never mutated;
// the messages slice is replaced only when at least one message actually
// changed, preserving referential sharing otherwise.
func Apply(req *types.ChatCompletionRequest, p Params) *types.ChatCompletionRequest {
	out := req.Clone()

	// max_tokens: operator override beats the model table.
	maxTokens := p.Config.MaxTokens
	if p.OverrideMaxTokens != nil {
		maxTokens = *p.OverrideMaxTokens
	}
	out.MaxTokens = types.IntPtr(maxTokens)

	msgs := newMessageEditor(out.Messages)
	for i, msg := range out.Messages {
		if msg.Role != "user" {
			continue
		}
		if content, changed := StripContent(msg.Content); changed {
			msgs.setContent(i, content)
		}
	}

	applyReasoning(out, p)

	if p.OverrideTemperature != nil {
		out.Temperature = types.Float64Ptr(*p.OverrideTemperature)
	} else if p.Config.Temperature != nil {
		out.Temperature = types.Float64Ptr(*p.Config.Temperature)
	}
	if p.OverrideTopP != nil {
		out.TopP = types.Float64Ptr(*p.OverrideTopP)
	} else if p.Config.TopP != nil {
		out.TopP = types.Float64Ptr(*p.Config.TopP)
	}

	// Always enable sampling so temperature/top_p take effect downstream.
	out.DoSample = types.BoolPtr(true)

	if shouldAugment(p) {
		if idx := scan.LastEligibleIndex(msgs.current()); idx >= 0 {
			instruction := Instruction
			if p.Signals.Ultrathink {
				instruction = UltrathinkInstruction
			}
			// Augmentation operates on the already-stripped copy.
			if content, ok := prependInstruction(msgs.current()[idx].Content, instruction); ok {
				msgs.setContent(idx, content)
			}
		}
	}

	out.Messages = msgs.current()
	return out
}

// applyReasoning attaches the resolved decision and, when enabled, the
// provider-specific thinking block.
func applyReasoning(out *types.ChatCompletionRequest, p Params) {
	switch {
	case p.UserConditions:
		// Authoritative: the user-level decision replaces whatever the
		// caller sent.
		out.Reasoning = &types.ReasoningParam{Enabled: p.Decision.Enabled, Effort: p.Decision.Effort}
	case p.Decision.Level == reasoning.LevelModel:
		out.Reasoning = &types.ReasoningParam{Enabled: true, Effort: reasoning.EffortHigh}
	default:
		// Passthrough: the caller's own reasoning field, already carried by
		// the clone, stays as-is (or stays absent).
	}

	if p.Decision.Enabled {
		if format := reasoning.FormatterFor(p.Config.Provider); format != nil {
			format(out, p.Decision)
		}
	}
}

// shouldAugment applies the gate for prompt augmentation: keywords present,
// reasoning enabled, and keyword detection active for this request. An
// explicit ultrathink request bypasses the detection setting, which is a
// heuristic knob, not a user override.
func shouldAugment(p Params) bool {
	if !p.Signals.KeywordsDetected || !p.Decision.Enabled {
		return false
	}
	if p.Signals.Ultrathink {
		return true
	}
	if p.OverrideKeywordDetection != nil {
		return *p.OverrideKeywordDetection
	}
	return p.Config.KeywordDetection
}

// messageEditor implements copy-on-write for the messages slice.
type messageEditor struct {
	msgs   []types.ChatMessage
	cloned bool
}

func newMessageEditor(msgs []types.ChatMessage) *messageEditor {
	return &messageEditor{msgs: msgs}
}

func (e *messageEditor) setContent(i int, content any) {
	if !e.cloned {
		e.msgs = append([]types.ChatMessage(nil), e.msgs...)
		e.cloned = true
	}
	e.msgs[i].Content = content
}

func (e *messageEditor) current() []types.ChatMessage {
	return e.msgs
}
