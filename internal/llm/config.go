// Package llm provides the text-generation client used by the link classifier.
package llm

import (
	"fmt"
	"strconv"
	"strings"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple judgments such as link classification
	TierLite ModelTier = "lite"
	// TierStandard is for structured output that needs more reasoning
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// DefaultTemperature keeps verdicts close to deterministic.
const DefaultTemperature float32 = 0.1

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: DefaultTemperature,
	}
}

// ConfigFromEnv starts from DefaultConfig and applies GEMINI_MODEL (lite
// tier) and GEMINI_TEMPERATURE.
func ConfigFromEnv(getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()
	if model := strings.TrimSpace(getenv("GEMINI_MODEL")); model != "" {
		cfg = cfg.WithModel(TierLite, model)
	}
	if raw := strings.TrimSpace(getenv("GEMINI_TEMPERATURE")); raw != "" {
		t, err := strconv.ParseFloat(raw, 32)
		if err != nil || t < 0 || t > 2 {
			return nil, fmt.Errorf("GEMINI_TEMPERATURE must be a number between 0 and 2, got %q", raw)
		}
		cfg.Temperature = float32(t)
	}
	return cfg, nil
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
