package reasoning

import (
	"github.com/n0madic/go-thinkgate/internal/models"
	"github.com/n0madic/go-thinkgate/internal/types"
)

// Formatter adds a provider-specific structural field to the outbound
// request when the resolved decision enables reasoning. Providers without a
// registered formatter get only the generic reasoning block.
type Formatter func(req *types.ChatCompletionRequest, d Decision)

var formatters = map[string]Formatter{
	models.ProviderZai: formatZai,
}

// FormatterFor returns the formatter registered for a provider name, or nil.
func FormatterFor(provider string) Formatter {
	return formatters[provider]
}

// RegisterFormatter installs a formatter for a provider name. Intended for
// wiring future providers without touching the mutation code.
func RegisterFormatter(provider string, f Formatter) {
	formatters[provider] = f
}

// formatZai sets the GLM-style thinking block expected by z.ai endpoints.
func formatZai(req *types.ChatCompletionRequest, _ Decision) {
	req.Thinking = &types.ThinkingParam{Type: "enabled"}
}
