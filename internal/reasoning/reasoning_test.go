package reasoning

import (
	"testing"

	"github.com/n0madic/go-thinkgate/internal/scan"
	"github.com/n0madic/go-thinkgate/internal/types"
)

func boolPtr(b bool) *bool { return &b }

// TestResolveForcedWinsOverEverything verifies level 0: the permanent
// thinking option beats tags, overrides and model config.
func TestResolveForcedWinsOverEverything(t *testing.T) {
	d := Resolve(Input{
		Force:        true,
		Override:     boolPtr(false),
		Signals:      scan.Signals{ThinkingTag: scan.TagOff},
		ModelCapable: false,
	})
	if !d.Enabled || d.Effort != EffortHigh || d.Level != LevelForced {
		t.Errorf("forced decision: %+v", d)
	}
}

// TestResolveUltrathink verifies level 1.
func TestResolveUltrathink(t *testing.T) {
	d := Resolve(Input{
		Override: boolPtr(false),
		Signals:  scan.Signals{Ultrathink: true, ThinkingTag: scan.TagOff},
	})
	if !d.Enabled || d.Effort != EffortHigh || d.Level != LevelUltrathink {
		t.Errorf("ultrathink decision: %+v", d)
	}
}

// TestResolveThinkingOffAlone verifies that an Off tag alone disables
// reasoning.
func TestResolveThinkingOffAlone(t *testing.T) {
	d := Resolve(Input{Signals: scan.Signals{ThinkingTag: scan.TagOff}, ModelCapable: true})
	if d.Enabled {
		t.Error("expected reasoning disabled for <Thinking:Off> alone")
	}
	if d.Level != LevelTags {
		t.Errorf("level: got %d, want %d", d.Level, LevelTags)
	}
}

// TestResolveEffortOutranksOff verifies the tag sub-rule: an effort tag
// overrides an explicit Off.
func TestResolveEffortOutranksOff(t *testing.T) {
	d := Resolve(Input{Signals: scan.Signals{ThinkingTag: scan.TagOff, EffortTag: EffortMedium}})
	if !d.Enabled || d.Effort != EffortMedium {
		t.Errorf("effort-over-off decision: %+v", d)
	}
}

// TestResolveThinkingOnDefaultsHigh verifies On with no effort tag defaults
// to high effort.
func TestResolveThinkingOnDefaultsHigh(t *testing.T) {
	d := Resolve(Input{Signals: scan.Signals{ThinkingTag: scan.TagOn}})
	if !d.Enabled || d.Effort != EffortHigh {
		t.Errorf("thinking-on decision: %+v", d)
	}
}

// TestResolveEffortTagAlone verifies that an effort tag by itself enables
// reasoning at that effort.
func TestResolveEffortTagAlone(t *testing.T) {
	d := Resolve(Input{Signals: scan.Signals{EffortTag: EffortLow}})
	if !d.Enabled || d.Effort != EffortLow || d.Level != LevelTags {
		t.Errorf("effort-only decision: %+v", d)
	}
}

// TestResolveGlobalOverride verifies level 3 in both polarities.
func TestResolveGlobalOverride(t *testing.T) {
	d := Resolve(Input{Override: boolPtr(true), ModelCapable: false})
	if !d.Enabled || d.Effort != EffortHigh || d.Level != LevelOverride {
		t.Errorf("override-on decision: %+v", d)
	}

	d = Resolve(Input{Override: boolPtr(false), ModelCapable: true})
	if d.Enabled || d.Level != LevelOverride {
		t.Errorf("override-off decision: %+v", d)
	}
}

// TestResolveModelCapability verifies level 4 with its fixed high effort.
func TestResolveModelCapability(t *testing.T) {
	d := Resolve(Input{ModelCapable: true})
	if !d.Enabled || d.Effort != EffortHigh || d.Level != LevelModel {
		t.Errorf("model-capability decision: %+v", d)
	}
}

// TestResolvePassthrough verifies level 5 when nothing applies.
func TestResolvePassthrough(t *testing.T) {
	d := Resolve(Input{})
	if d.Enabled || d.Level != LevelPassthrough {
		t.Errorf("passthrough decision: %+v", d)
	}
}

// TestUserConditions verifies the gate between authoritative decisions
// (levels 0-3) and fallback behavior (levels 4-5).
func TestUserConditions(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want bool
	}{
		{"none", Input{ModelCapable: true}, false},
		{"force", Input{Force: true}, true},
		{"ultrathink", Input{Signals: scan.Signals{Ultrathink: true}}, true},
		{"thinking tag", Input{Signals: scan.Signals{ThinkingTag: scan.TagOff}}, true},
		{"effort tag", Input{Signals: scan.Signals{EffortTag: EffortLow}}, true},
		{"override", Input{Override: boolPtr(false)}, true},
	}
	for _, tc := range cases {
		if got := tc.in.UserConditions(); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

// TestFormatterForZai verifies that the GLM formatter sets the vendor
// thinking block and unknown providers have no formatter.
func TestFormatterForZai(t *testing.T) {
	f := FormatterFor("zai")
	if f == nil {
		t.Fatal("expected a formatter for zai")
	}
	req := &types.ChatCompletionRequest{Model: "glm-4.6"}
	f(req, Decision{Enabled: true, Effort: EffortHigh})
	if req.Thinking == nil || req.Thinking.Type != "enabled" {
		t.Errorf("thinking block: %+v", req.Thinking)
	}

	if FormatterFor("Unknown") != nil {
		t.Error("unknown provider must not have a formatter")
	}
}
