package scan

import (
	"regexp"
	"strings"

	"github.com/n0madic/go-thinkgate/internal/types"
)

// SystemReminderPrefix marks host-injected messages that must be ignored by
// tag and keyword detection.
const SystemReminderPrefix = "<system-reminder>"

// TagState is the tri-state result of thinking-tag detection.
type TagState int

const (
	// TagAbsent means no thinking tag was found in any message.
	TagAbsent TagState = iota
	// TagOn means the last thinking tag seen was <Thinking:On>.
	TagOn
	// TagOff means the last thinking tag seen was <Thinking:Off>.
	TagOff
)

// Signals is the per-request result of scanning all eligible user messages.
type Signals struct {
	Ultrathink       bool
	ThinkingTag      TagState
	EffortTag        string // "", "low", "medium" or "high"
	KeywordsDetected bool
}

var (
	ultrathinkRe  = regexp.MustCompile(`(?i)\bultrathink\b`)
	thinkingTagRe = regexp.MustCompile(`(?i)<thinking:(on|off)>`)
	effortTagRe   = regexp.MustCompile(`(?i)<effort:(low|medium|high)>`)
)

// Messages scans all user-role messages in array order for in-band control
// tokens and analytical keywords. System-reminder messages are skipped
// entirely. The last tag occurrence across messages wins; ultrathink and
// keyword detection are sticky once true.
func Messages(messages []types.ChatMessage, keywords []string) Signals {
	var sig Signals
	for _, msg := range messages {
		if !Eligible(msg) {
			continue
		}
		text := Text(msg)

		if !sig.Ultrathink && ultrathinkRe.MatchString(text) {
			sig.Ultrathink = true
		}
		if m := lastSubmatch(thinkingTagRe, text); m != "" {
			if strings.EqualFold(m, "on") {
				sig.ThinkingTag = TagOn
			} else {
				sig.ThinkingTag = TagOff
			}
		}
		if m := lastSubmatch(effortTagRe, text); m != "" {
			sig.EffortTag = strings.ToLower(m)
		}
		if !sig.KeywordsDetected && containsKeyword(text, keywords) {
			sig.KeywordsDetected = true
		}
	}
	return sig
}

// Eligible reports whether a message participates in scanning: user role and
// not a host-injected system reminder.
func Eligible(msg types.ChatMessage) bool {
	if msg.Role != "user" {
		return false
	}
	return !strings.HasPrefix(strings.TrimSpace(Text(msg)), SystemReminderPrefix)
}

// LastEligibleIndex returns the index of the highest eligible user message,
// or -1 when none exists. This is the augmentation target for keyword-driven
// prompt enhancement.
func LastEligibleIndex(messages []types.ChatMessage) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if Eligible(messages[i]) {
			return i
		}
	}
	return -1
}

// lastSubmatch returns the first capture group of the final match of re in
// text, or "" when there is no match.
func lastSubmatch(re *regexp.Regexp, text string) string {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1]
}

// containsKeyword checks text against the keyword list. All keywords use
// plain case-insensitive substring matching except "ultrathink", which is
// word-boundary matched.
func containsKeyword(text string, keywords []string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.EqualFold(kw, "ultrathink") {
			if ultrathinkRe.MatchString(text) {
				return true
			}
			continue
		}
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// DefaultKeywords returns the built-in analytical keyword list used for
// reasoning-prompt augmentation.
func DefaultKeywords() []string {
	return []string{
		"ultrathink",
		"think step by step",
		"step-by-step",
		"how many",
		"count the",
		"calculate",
		"compute",
		"solve",
		"prove",
		"analyze",
		"analyse",
		"compare",
		"evaluate",
		"logic puzzle",
		"riddle",
		"algorithm",
		"complexity",
		"edge case",
		"root cause",
		"why does",
		"what happens if",
	}
}

// Keywords builds the effective keyword list for a request: the default list
// merged with custom entries, or the custom list alone when customOnly is
// set. Duplicates are dropped case-insensitively.
func Keywords(custom []string, customOnly bool) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(kws []string) {
		for _, kw := range kws {
			kw = strings.TrimSpace(kw)
			key := strings.ToLower(kw)
			if kw == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, kw)
		}
	}
	if !customOnly {
		add(DefaultKeywords())
	}
	add(custom)
	return out
}
