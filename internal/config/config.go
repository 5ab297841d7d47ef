// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resutrack/internal/logger"
	"gopkg.in/yaml.v3"
)

// Classifier modes.
const (
	ClassifierAuto  = "auto"  // model when an API key is present, rules otherwise
	ClassifierLLM   = "llm"   // always the model
	ClassifierRules = "rules" // never the model
)

// Config represents the configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults, then
// environment variables, then CLI flags win.
type Config struct {
	// Storage
	Backend     string `json:"backend,omitempty" yaml:"backend,omitempty"`           // file, redis or postgres
	StoreDir    string `json:"store_dir,omitempty" yaml:"store_dir,omitempty"`       // Directory for the file backend
	SlotKey     string `json:"slot_key,omitempty" yaml:"slot_key,omitempty"`         // Slot key holding the entries
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`       // redis:// URL
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL

	// Classifier
	Classifier            string  `json:"classifier,omitempty" yaml:"classifier,omitempty"`                             // auto, llm or rules
	APIKey                string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`                                   // Gemini API key
	Model                 string  `json:"model,omitempty" yaml:"model,omitempty"`                                       // Gemini model for link checks
	ClassifyTimeoutSec    int     `json:"classify_timeout_seconds,omitempty" yaml:"classify_timeout_seconds,omitempty"` // Per-call timeout
	ClassifyRatePerMinute float64 `json:"classify_rate_per_minute,omitempty" yaml:"classify_rate_per_minute,omitempty"` // Model calls per minute, 0 = unlimited
	ClassifyConcurrency   int     `json:"classify_concurrency,omitempty" yaml:"classify_concurrency,omitempty"`         // Parallel calls for classify --all

	// Server
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"` // Listen address for serve

	// Logging
	Log logger.Config `json:"log,omitempty" yaml:"log,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Backend:               "file",
		StoreDir:              defaultStoreDir(),
		SlotKey:               "resumeEntries",
		Classifier:            ClassifierAuto,
		ClassifyTimeoutSec:    30,
		ClassifyRatePerMinute: 15,
		ClassifyConcurrency:   4,
		Addr:                  ":8080",
		Log:                   logger.Config{Level: "info", Format: "json"},
	}
}

func defaultStoreDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "resutrack")
	}
	return ".resutrack"
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by
// extension (.yaml and .yml are YAML, anything else JSON).
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv reads the environment layer. Unset variables leave fields empty.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Backend:     getenv("RESUTRACK_BACKEND"),
		StoreDir:    getenv("RESUTRACK_STORE"),
		SlotKey:     getenv("RESUTRACK_SLOT_KEY"),
		RedisURL:    getenv("REDIS_URL"),
		DatabaseURL: getenv("DATABASE_URL"),
		Classifier:  getenv("RESUTRACK_CLASSIFIER"),
		APIKey:      getenv("GEMINI_API_KEY"),
		Model:       getenv("GEMINI_MODEL"),
		Addr:        getenv("RESUTRACK_ADDR"),
		Log: logger.Config{
			Level:  getenv("LOG_LEVEL"),
			Format: getenv("LOG_FORMAT"),
		},
	}
	if raw := getenv("RESUTRACK_CLASSIFY_TIMEOUT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("RESUTRACK_CLASSIFY_TIMEOUT must be whole seconds, got %q", raw)
		}
		cfg.ClassifyTimeoutSec = n
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", "file":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis backend")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config error: unknown backend %q (want file, redis or postgres)", c.Backend)
	}

	switch c.Classifier {
	case "", ClassifierAuto, ClassifierRules:
	case ClassifierLLM:
		if c.APIKey == "" {
			return fmt.Errorf("config error: 'api_key' is required for the llm classifier")
		}
	default:
		return fmt.Errorf("config error: unknown classifier %q (want auto, llm or rules)", c.Classifier)
	}

	// Validate numeric ranges
	if c.ClassifyTimeoutSec < 0 {
		return fmt.Errorf("config error: 'classify_timeout_seconds' must be non-negative")
	}
	if c.ClassifyRatePerMinute < 0 {
		return fmt.Errorf("config error: 'classify_rate_per_minute' must be non-negative")
	}
	if c.ClassifyConcurrency < 0 {
		return fmt.Errorf("config error: 'classify_concurrency' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Backend, defaults.Backend)
	fill(&result.StoreDir, defaults.StoreDir)
	fill(&result.SlotKey, defaults.SlotKey)
	fill(&result.RedisURL, defaults.RedisURL)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.Classifier, defaults.Classifier)
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.Model, defaults.Model)
	fill(&result.Addr, defaults.Addr)
	fill(&result.Log.Level, defaults.Log.Level)
	fill(&result.Log.Format, defaults.Log.Format)

	// Numeric fields: use default if zero
	if result.ClassifyTimeoutSec == 0 {
		result.ClassifyTimeoutSec = defaults.ClassifyTimeoutSec
	}
	if result.ClassifyRatePerMinute == 0 {
		result.ClassifyRatePerMinute = defaults.ClassifyRatePerMinute
	}
	if result.ClassifyConcurrency == 0 {
		result.ClassifyConcurrency = defaults.ClassifyConcurrency
	}

	return result
}

// ClassifyTimeout returns the per-call classifier timeout.
func (c *Config) ClassifyTimeout() time.Duration {
	return time.Duration(c.ClassifyTimeoutSec) * time.Second
}

// Resolve layers flags over env over file over defaults. file may be nil.
func Resolve(flags Config, file *Config, getenv func(string) string) (Config, error) {
	return ResolveWithDefaults(Defaults(), flags, file, getenv)
}

// ResolveWithDefaults is Resolve with a caller-supplied bottom layer.
func ResolveWithDefaults(defaults, flags Config, file *Config, getenv func(string) string) (Config, error) {
	env, err := FromEnv(getenv)
	if err != nil {
		return Config{}, err
	}

	merged := env.MergeWithDefaults(defaults)
	if file != nil {
		fileLayer := file.MergeWithDefaults(defaults)
		merged = env.MergeWithDefaults(fileLayer)
	}
	merged = flags.MergeWithDefaults(merged)

	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}
