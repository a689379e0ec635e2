package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr            string
	LogLevel        string
	RegistryFile    string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration

	// VerifyRatePerSecond and VerifyBurst size the per-IP token bucket on the
	// verification route. A zero rate disables the throttle.
	VerifyRatePerSecond float64
	VerifyBurst         int

	// TrustedProxies lists IPs or CIDRs of reverse proxies whose forwarding
	// headers identify the client. Empty means RemoteAddr is authoritative.
	TrustedProxies []string

	Lockout  LockoutConfig
	Redis    RedisConfig
	Database DatabaseConfig
}

// LockoutConfig bounds repeated failed verification attempts per client.
type LockoutConfig struct {
	Enabled           bool
	AttemptsPerWindow int
	Window            time.Duration
	LockDuration      time.Duration
}

// RedisConfig configures the optional Redis backend for lockout records.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig configures the optional Postgres account store.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultLockout matches the auth lockout defaults: 5 failures per 15 minutes.
func DefaultLockout() LockoutConfig {
	return LockoutConfig{
		Enabled:           true,
		AttemptsPerWindow: 5,
		Window:            15 * time.Minute,
		LockDuration:      15 * time.Minute,
	}
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	lockout := DefaultLockout()
	lockout.Enabled = envBool("NETRA_LOCKOUT_ENABLED", lockout.Enabled)
	lockout.AttemptsPerWindow = envInt("NETRA_LOCKOUT_ATTEMPTS", lockout.AttemptsPerWindow)
	lockout.Window = envDuration("NETRA_LOCKOUT_WINDOW", lockout.Window)
	lockout.LockDuration = envDuration("NETRA_LOCKOUT_DURATION", lockout.LockDuration)

	return Server{
		Addr:                envString("NETRA_ADDR", ":8080"),
		LogLevel:            envString("NETRA_LOG_LEVEL", "info"),
		RegistryFile:        os.Getenv("NETRA_REGISTRY_FILE"),
		ShutdownTimeout:     envDuration("NETRA_SHUTDOWN_TIMEOUT", 10*time.Second),
		RequestTimeout:      envDuration("NETRA_REQUEST_TIMEOUT", 30*time.Second),
		VerifyRatePerSecond: envFloat("NETRA_VERIFY_RATE", 2),
		VerifyBurst:         envInt("NETRA_VERIFY_BURST", 5),
		TrustedProxies:      envList("NETRA_TRUSTED_PROXIES"),
		Lockout:             lockout,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
