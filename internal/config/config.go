package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultBaseURL is the upstream endpoint used when none is configured.
const DefaultBaseURL = "https://api.z.ai/api/paas/v4"

// DefaultProviderName matches the built-in model table's GLM entries.
const DefaultProviderName = "zai"

// ServerConfig holds all server configuration.
type ServerConfig struct {
	Host    string
	Port    int
	Verbose bool

	// Upstream provider.
	ProviderName string
	BaseURL      string
	APIKey       string

	// Engine options.
	ForcePermanentThinking   bool
	OverrideMaxTokens        *int
	OverrideTemperature      *float64
	OverrideTopP             *float64
	OverrideReasoning        *bool
	OverrideKeywordDetection *bool
	CustomKeywords           []string
	OverrideKeywords         bool

	// Diagnostics.
	Debug      bool
	LogDir     string
	MaxLogSize int64
}

// DefaultFromEnv creates a ServerConfig with defaults from environment
// variables.
func DefaultFromEnv() *ServerConfig {
	return &ServerConfig{
		Host:                     "127.0.0.1",
		Port:                     8790,
		ProviderName:             envOrDefault("THINKGATE_PROVIDER", DefaultProviderName),
		BaseURL:                  envOrDefault("THINKGATE_BASE_URL", DefaultBaseURL),
		APIKey:                   strings.TrimSpace(os.Getenv("THINKGATE_API_KEY")),
		ForcePermanentThinking:   envBool("THINKGATE_FORCE_THINKING"),
		OverrideMaxTokens:        envIntPtr("THINKGATE_MAX_TOKENS"),
		OverrideTemperature:      envFloatPtr("THINKGATE_TEMPERATURE"),
		OverrideTopP:             envFloatPtr("THINKGATE_TOP_P"),
		OverrideReasoning:        envBoolPtr("THINKGATE_REASONING"),
		OverrideKeywordDetection: envBoolPtr("THINKGATE_KEYWORD_DETECTION"),
		CustomKeywords:           envList("THINKGATE_KEYWORDS"),
		OverrideKeywords:         envBool("THINKGATE_KEYWORDS_ONLY"),
		Debug:                    envBool("THINKGATE_DEBUG"),
		LogDir:                   envOrDefault("THINKGATE_LOG_DIR", defaultLogDir()),
		MaxLogSize:               envInt64("THINKGATE_MAX_LOG_SIZE", 0),
	}
}

func defaultLogDir() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return dir + string(os.PathSeparator) + "thinkgate"
	}
	return "."
}

func envOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func envBoolPtr(key string) *bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return nil
	}
	b := v == "1" || v == "true" || v == "yes" || v == "on"
	return &b
}

func envIntPtr(key string) *int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &i
}

func envInt64(key string, defaultVal int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloatPtr(key string) *float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func envList(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
