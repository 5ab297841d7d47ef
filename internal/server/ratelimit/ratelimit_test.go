package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestLimiter(cfg *Config) (*Limiter, *time.Time) {
	now := t0
	l := NewLimiter(cfg)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/entries/classify", Method: "POST", Limit: 6, Window: time.Minute, Burst: 3},
		},
	})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("10.0.0.1", "/entries/classify", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 6, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/entries/classify", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 10*time.Second, info.RetryAfter)
	assert.Equal(t, t0.Add(10*time.Second), info.ResetTime)
}

func TestLimiter_Refill(t *testing.T) {
	l, now := newTestLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/entries", Method: "POST", Limit: 60, Window: time.Minute, Burst: 1},
		},
	})
	defer l.Stop()

	allowed, _ := l.Allow("c", "/entries", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("c", "/entries", "POST")
	require.False(t, allowed)

	*now = now.Add(time.Second)
	allowed, _ = l.Allow("c", "/entries", "POST")
	assert.True(t, allowed)
}

func TestLimiter_WildcardSharesBucket(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/entries/*/classify", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
		},
	})
	defer l.Stop()

	allowed, _ := l.Allow("c", "/entries/a/classify", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("c", "/entries/b/classify", "POST")
	assert.False(t, allowed)

	allowed, _ = l.Allow("other", "/entries/b/classify", "POST")
	assert.True(t, allowed, "buckets are per client")
}

func TestLimiter_DefaultAndUnlimited(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer l.Stop()

	allowed, _ := l.Allow("c", "/entries", "GET")
	require.True(t, allowed)
	allowed, _ = l.Allow("c", "/entries", "GET")
	assert.False(t, allowed)

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("c", "/health", "GET")
		assert.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_Lists(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:      true,
		DefaultLimit: 1, DefaultWindow: time.Hour,
		Whitelist: map[string]bool{"trusted": true},
		Blacklist: map[string]bool{"banned": true},
	})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("trusted", "/entries", "GET")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("banned", "/entries", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("c", "/entries/classify", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/entries", "GET"); ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, granted)
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	l, now := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("client-%d", i), "/entries", "GET")
	}
	*now = now.Add(2 * time.Hour)
	l.Allow("fresh", "/entries", "GET")

	l.cleanupBuckets(now.Add(-time.Hour))
	assert.Len(t, l.buckets, 1)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		wantPath     string
	}{
		{"/entries/abc/classify", "POST", "/entries/*/classify"},
		{"/entries/classify", "POST", "/entries/classify"},
		{"/entries", "POST", "/entries"},
		{"/entries/abc", "PUT", "/entries/"},
		{"/entries/abc", "DELETE", "/entries/"},
		{"/entries/abc", "GET", ""},
		{"/export.xlsx", "GET", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantPath == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}

	health := MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, health)
	assert.Zero(t, health.Limit)
}

func TestLoadConfig(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT": "42",
		"RATE_LIMIT_WHITELIST":     " 127.0.0.1 , ::1 ,",
	}
	cfg := LoadConfig(func(k string) string { return env[k] })

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"127.0.0.1": true, "::1": true}, cfg.Whitelist)
	assert.NotEmpty(t, cfg.EndpointConfigs)

	off := LoadConfig(func(k string) string {
		if k == "RATE_LIMIT_ENABLED" {
			return "false"
		}
		return ""
	})
	assert.False(t, off.Enabled)
}
