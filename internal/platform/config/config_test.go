package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"NETRA_ADDR", "NETRA_LOCKOUT_ATTEMPTS", "NETRA_VERIFY_RATE", "REDIS_URL", "DATABASE_URL", "NETRA_TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DefaultLockout(), cfg.Lockout)
	assert.Equal(t, 2.0, cfg.VerifyRatePerSecond)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("NETRA_ADDR", ":9090")
	t.Setenv("NETRA_LOCKOUT_ATTEMPTS", "3")
	t.Setenv("NETRA_LOCKOUT_WINDOW", "1m")
	t.Setenv("NETRA_LOCKOUT_ENABLED", "false")
	t.Setenv("NETRA_VERIFY_RATE", "0")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("NETRA_TRUSTED_PROXIES", "10.0.0.0/8, ,192.0.2.1")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 3, cfg.Lockout.AttemptsPerWindow)
	assert.Equal(t, time.Minute, cfg.Lockout.Window)
	assert.False(t, cfg.Lockout.Enabled)
	assert.Zero(t, cfg.VerifyRatePerSecond)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.TrustedProxies)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("NETRA_LOCKOUT_ATTEMPTS", "many")
	t.Setenv("NETRA_SHUTDOWN_TIMEOUT", "soon")

	cfg := FromEnv()

	assert.Equal(t, 5, cfg.Lockout.AttemptsPerWindow)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
