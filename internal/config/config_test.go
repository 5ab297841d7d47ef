package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"backend": "redis",
		"redis_url": "redis://localhost:6379/0",
		"classify_timeout_seconds": 10,
		"log": {"level": "debug", "format": "pretty"}
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "redis", cfg.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 10, cfg.ClassifyTimeoutSec)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "pretty", cfg.Log.Format)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
backend: postgres
database_url: postgres://localhost/resutrack
classifier: rules
classify_rate_per_minute: 30
log:
  level: warn
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Backend)
	assert.Equal(t, "postgres://localhost/resutrack", cfg.DatabaseURL)
	assert.Equal(t, ClassifierRules, cfg.Classifier)
	assert.Equal(t, 30.0, cfg.ClassifyRatePerMinute)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("backend: [unclosed"), 0644))

	_, err := LoadConfig(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"empty", Config{}, ""},
		{"unknown backend", Config{Backend: "s3"}, "unknown backend"},
		{"redis without url", Config{Backend: "redis"}, "redis_url"},
		{"postgres without url", Config{Backend: "postgres"}, "database_url"},
		{"llm without key", Config{Classifier: ClassifierLLM}, "api_key"},
		{"unknown classifier", Config{Classifier: "oracle"}, "unknown classifier"},
		{"negative timeout", Config{ClassifyTimeoutSec: -1}, "classify_timeout_seconds"},
		{"negative rate", Config{ClassifyRatePerMinute: -1}, "classify_rate_per_minute"},
		{"negative concurrency", Config{ClassifyConcurrency: -2}, "classify_concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Backend: "redis", ClassifyConcurrency: 8}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "redis", merged.Backend)
	assert.Equal(t, 8, merged.ClassifyConcurrency)
	assert.Equal(t, "resumeEntries", merged.SlotKey)
	assert.Equal(t, 30*time.Second, merged.ClassifyTimeout())
	assert.Equal(t, "info", merged.Log.Level)
	assert.Equal(t, "", cfg.SlotKey, "receiver must not change")
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"RESUTRACK_BACKEND":          "postgres",
		"DATABASE_URL":               "postgres://db/resutrack",
		"GEMINI_API_KEY":             "secret",
		"LOG_LEVEL":                  "debug",
		"RESUTRACK_CLASSIFY_TIMEOUT": "5",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Backend)
	assert.Equal(t, "postgres://db/resutrack", cfg.DatabaseURL)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.ClassifyTimeoutSec)
}

func TestFromEnv_BadTimeout(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"RESUTRACK_CLASSIFY_TIMEOUT": "soon"}))
	assert.Error(t, err)
}

func TestResolve_Precedence(t *testing.T) {
	file := &Config{Backend: "redis", RedisURL: "redis://file:6379", SlotKey: "from-file", Addr: ":9000"}
	env := envMap(map[string]string{"REDIS_URL": "redis://env:6379", "RESUTRACK_ADDR": ":9100"})
	flags := Config{Addr: ":9200"}

	cfg, err := Resolve(flags, file, env)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Backend, "file beats defaults")
	assert.Equal(t, "redis://env:6379", cfg.RedisURL, "env beats file")
	assert.Equal(t, "from-file", cfg.SlotKey)
	assert.Equal(t, ":9200", cfg.Addr, "flags beat env")
	assert.Equal(t, ClassifierAuto, cfg.Classifier)
}

func TestResolve_Invalid(t *testing.T) {
	_, err := Resolve(Config{Backend: "postgres"}, nil, envMap(nil))
	assert.Error(t, err)
}

func TestResolveWithDefaults(t *testing.T) {
	defaults := Defaults()
	defaults.Log.Level = "warn"

	cfg, err := ResolveWithDefaults(defaults, Config{}, nil, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	cfg, err = ResolveWithDefaults(defaults, Config{}, nil, envMap(map[string]string{"LOG_LEVEL": "debug"}))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level, "env beats the supplied defaults")
}
