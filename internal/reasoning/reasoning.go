package reasoning

import (
	"github.com/n0madic/go-thinkgate/internal/scan"
)

// Effort levels passed to the provider.
const (
	EffortLow    = "low"
	EffortMedium = "medium"
	EffortHigh   = "high"
)

// Precedence levels, highest first. The level is used only for mutation
// branching and diagnostics, never returned to the client.
const (
	LevelForced      = 0 // permanent-thinking option
	LevelUltrathink  = 1 // in-band ultrathink keyword
	LevelTags        = 2 // <Thinking:...> / <Effort:...> tags
	LevelOverride    = 3 // global operator override
	LevelModel       = 4 // model config capability
	LevelPassthrough = 5 // caller's own reasoning field, if any
)

// Input gathers everything the precedence chain consumes.
type Input struct {
	// Force is the nuclear option: reasoning always on at high effort.
	Force bool
	// Override is the operator-level reasoning override; nil defers to the
	// model config.
	Override *bool
	// Signals is the scanner output for this request.
	Signals scan.Signals
	// ModelCapable is the model config's reasoning capability.
	ModelCapable bool
}

// Decision is the single resolved output of the precedence chain.
type Decision struct {
	Enabled bool
	Effort  string
	Level   int
}

// UserConditions reports whether any of levels 0-3 applies. When true the
// mutator treats the decision as authoritative over the caller's own
// reasoning field; otherwise levels 4-5 fall back to model-config or
// passthrough behavior.
func (in Input) UserConditions() bool {
	return in.Force ||
		in.Signals.Ultrathink ||
		in.Signals.ThinkingTag != scan.TagAbsent ||
		in.Signals.EffortTag != "" ||
		in.Override != nil
}

// rule is one entry of the ordered precedence chain.
type rule struct {
	applies func(Input) bool
	decide  func(Input) Decision
}

// rules is evaluated top to bottom; the first applicable rule wins and all
// lower rules are ignored.
var rules = []rule{
	{
		applies: func(in Input) bool { return in.Force },
		decide: func(Input) Decision {
			return Decision{Enabled: true, Effort: EffortHigh, Level: LevelForced}
		},
	},
	{
		applies: func(in Input) bool { return in.Signals.Ultrathink },
		decide: func(Input) Decision {
			return Decision{Enabled: true, Effort: EffortHigh, Level: LevelUltrathink}
		},
	},
	{
		applies: func(in Input) bool {
			return in.Signals.ThinkingTag != scan.TagAbsent || in.Signals.EffortTag != ""
		},
		decide: decideTags,
	},
	{
		applies: func(in Input) bool { return in.Override != nil },
		decide: func(in Input) Decision {
			return Decision{Enabled: *in.Override, Effort: EffortHigh, Level: LevelOverride}
		},
	},
	{
		applies: func(in Input) bool { return in.ModelCapable },
		decide: func(Input) Decision {
			return Decision{Enabled: true, Effort: EffortHigh, Level: LevelModel}
		},
	},
}

// decideTags implements the tag sub-rule: an effort tag always enables
// reasoning and outranks an explicit <Thinking:Off>; a thinking tag of On
// enables reasoning with effort defaulting to high.
func decideTags(in Input) Decision {
	effort := in.Signals.EffortTag
	if effort == "" {
		effort = EffortHigh
	}
	enabled := in.Signals.EffortTag != "" || in.Signals.ThinkingTag == scan.TagOn
	return Decision{Enabled: enabled, Effort: effort, Level: LevelTags}
}

// Resolve collapses the six precedence levels into one decision. When no
// rule applies the result is the passthrough level: the mutator keeps the
// caller's own reasoning field (or omits reasoning entirely).
func Resolve(in Input) Decision {
	for _, r := range rules {
		if r.applies(in) {
			return r.decide(in)
		}
	}
	return Decision{Level: LevelPassthrough}
}
