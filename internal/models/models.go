package models

import "strings"

// ProviderZai is the provider name for the GLM family endpoints.
const ProviderZai = "zai"

// ProviderUnknown is the provider assigned to models not in the table.
const ProviderUnknown = "Unknown"

// DefaultMaxTokens is the max_tokens value applied when neither the table
// nor an operator override supplies one.
const DefaultMaxTokens = 131072

// Config holds the static per-model parameters consulted by the resolver
// and mutator. Nil pointer fields mean "do not set this parameter".
type Config struct {
	MaxTokens        int
	ContextWindow    *int
	Temperature      *float64
	TopP             *float64
	ReasoningCapable bool
	KeywordDetection bool
	Provider         string
}

// Table is an immutable model-name keyed lookup of Config values.
type Table struct {
	entries map[string]Config
}

// NewTable builds a table from the given entries. The map is copied so the
// caller cannot mutate the table afterwards.
func NewTable(entries map[string]Config) *Table {
	copied := make(map[string]Config, len(entries))
	for name, cfg := range entries {
		copied[strings.ToLower(strings.TrimSpace(name))] = cfg
	}
	return &Table{entries: copied}
}

// DefaultTable returns the built-in catalog covering the GLM model family.
func DefaultTable() *Table {
	return NewTable(map[string]Config{
		"glm-4.6": {
			MaxTokens:        131072,
			ContextWindow:    intPtr(200000),
			Temperature:      floatPtr(1.0),
			TopP:             floatPtr(0.95),
			ReasoningCapable: true,
			KeywordDetection: true,
			Provider:         ProviderZai,
		},
		"glm-4.5": {
			MaxTokens:        98304,
			ContextWindow:    intPtr(131072),
			Temperature:      floatPtr(0.6),
			TopP:             floatPtr(0.95),
			ReasoningCapable: true,
			KeywordDetection: true,
			Provider:         ProviderZai,
		},
		"glm-4.5-air": {
			MaxTokens:        98304,
			ContextWindow:    intPtr(131072),
			Temperature:      floatPtr(0.6),
			TopP:             floatPtr(0.95),
			ReasoningCapable: true,
			KeywordDetection: true,
			Provider:         ProviderZai,
		},
		"glm-4.5-flash": {
			MaxTokens:        98304,
			ContextWindow:    intPtr(131072),
			Temperature:      floatPtr(0.6),
			TopP:             floatPtr(0.95),
			ReasoningCapable: true,
			KeywordDetection: true,
			Provider:         ProviderZai,
		},
		"glm-4.5v": {
			MaxTokens:        16384,
			ContextWindow:    intPtr(65536),
			Temperature:      floatPtr(0.8),
			TopP:             floatPtr(0.6),
			ReasoningCapable: true,
			KeywordDetection: false,
			Provider:         ProviderZai,
		},
	})
}

// Get returns the config for a model name, falling back to a safe default
// for unknown models. Lookup is case-insensitive.
func (t *Table) Get(name string) Config {
	if t != nil {
		if cfg, ok := t.entries[strings.ToLower(strings.TrimSpace(name))]; ok {
			return cfg
		}
	}
	return Config{
		MaxTokens:        DefaultMaxTokens,
		ReasoningCapable: false,
		KeywordDetection: false,
		Provider:         ProviderUnknown,
	}
}

// Known reports whether the model is present in the table.
func (t *Table) Known(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.entries[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names returns the model names in the table.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	return names
}

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
