// Package engine wires the scanner, resolver and mutator into the two entry
// points the host calls: one transforming outbound requests, one passing
// responses through (with optional diagnostics).
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/n0madic/go-thinkgate/internal/diag"
	"github.com/n0madic/go-thinkgate/internal/models"
	"github.com/n0madic/go-thinkgate/internal/reasoning"
	"github.com/n0madic/go-thinkgate/internal/scan"
	"github.com/n0madic/go-thinkgate/internal/transform"
	"github.com/n0madic/go-thinkgate/internal/types"
)

// Options is the constructor-time configuration record.
type Options struct {
	// ForcePermanentThinking enables reasoning at high effort for every
	// request, overriding all other signals.
	ForcePermanentThinking bool

	// Operator-level parameter overrides; nil defers to the model table.
	OverrideMaxTokens   *int
	OverrideTemperature *float64
	OverrideTopP        *float64

	// OverrideReasoning is the level-3 global reasoning override.
	OverrideReasoning *bool

	// OverrideKeywordDetection replaces the per-model keyword-detection
	// default when set.
	OverrideKeywordDetection *bool

	// CustomKeywords extends (or, with OverrideKeywords, replaces) the
	// default analytical keyword list.
	CustomKeywords   []string
	OverrideKeywords bool
}

// Provider is the host-supplied provider metadata for a request.
type Provider struct {
	Name    string
	BaseURL string
	Models  []string
}

// Engine is the request-transformation engine. It is pure and synchronous;
// all instance state is read-only after construction, so a single Engine is
// safe for concurrent use across requests.
type Engine struct {
	opts     Options
	table    *models.Table
	keywords []string
	log      *diag.Logger
}

// New creates an engine. A nil table selects the built-in catalog; a nil
// logger disables diagnostics.
func New(opts Options, table *models.Table, log *diag.Logger) *Engine {
	if table == nil {
		table = models.DefaultTable()
	}
	return &Engine{
		opts:     opts,
		table:    table,
		keywords: scan.Keywords(opts.CustomKeywords, opts.OverrideKeywords),
		log:      log,
	}
}

// TransformRequest rewrites a chat completion request per the resolved
// reasoning decision. The input request is never mutated.
func (e *Engine) TransformRequest(_ context.Context, req *types.ChatCompletionRequest, prov Provider) (*types.ChatCompletionRequest, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}

	cfg := e.table.Get(req.Model)
	sig := scan.Messages(req.Messages, e.keywords)
	in := reasoning.Input{
		Force:        e.opts.ForcePermanentThinking,
		Override:     e.opts.OverrideReasoning,
		Signals:      sig,
		ModelCapable: cfg.ReasoningCapable,
	}
	decision := reasoning.Resolve(in)

	out := transform.Apply(req, transform.Params{
		Config:                   cfg,
		Signals:                  sig,
		Decision:                 decision,
		UserConditions:           in.UserConditions(),
		OverrideMaxTokens:        e.opts.OverrideMaxTokens,
		OverrideTemperature:      e.opts.OverrideTemperature,
		OverrideTopP:             e.opts.OverrideTopP,
		OverrideKeywordDetection: e.opts.OverrideKeywordDetection,
	})

	slog.Debug("engine.request",
		"model", req.Model,
		"provider", prov.Name,
		"reasoning_enabled", decision.Enabled,
		"reasoning_effort", decision.Effort,
		"level", decision.Level,
		"keywords_detected", sig.KeywordsDetected,
	)

	if e.log != nil {
		id := e.log.NextRequestID()
		e.log.Section(fmt.Sprintf("REQUEST #%d", id))
		e.log.Printf("request #%d model=%s provider=%s messages=%d",
			id, req.Model, prov.Name, len(req.Messages))
		e.log.Printf("request #%d signals ultrathink=%v thinking_tag=%d effort_tag=%q keywords=%v",
			id, sig.Ultrathink, sig.ThinkingTag, sig.EffortTag, sig.KeywordsDetected)
		e.log.Printf("request #%d decision enabled=%v effort=%s level=%d user_conditions=%v",
			id, decision.Enabled, decision.Effort, decision.Level, in.UserConditions())
		e.log.JSON(fmt.Sprintf("request #%d outbound", id), out)
	}

	return out, nil
}

// HandleResponse returns the response to the caller unchanged. With
// diagnostics enabled it additionally kicks off the detached,
// non-consuming stream preview.
func (e *Engine) HandleResponse(_ context.Context, resp *http.Response) *http.Response {
	if resp == nil {
		return nil
	}
	if e.log != nil {
		id := e.log.NextResponseID()
		e.log.Section(fmt.Sprintf("RESPONSE #%d", id))
		e.log.Printf("response #%d status=%d content_type=%s",
			id, resp.StatusCode, resp.Header.Get("Content-Type"))
		e.log.PreviewResponse(resp, id)
	}
	return resp
}
