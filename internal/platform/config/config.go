// Package config builds runtime configuration from environment variables so
// main stays lean. Rule-variant knobs (plate format, phone requirement,
// guard policy) live in the registration preset; this package only selects
// the preset and applies environment overrides.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr string

	// Preset selects the validation rule variant: "strict" or "lenient".
	Preset string

	// Guard and success-window overrides. Zero means "use the preset value".
	GuardTimeout    time.Duration
	GuardRetryPause time.Duration
	SuccessTTL      time.Duration

	// Dashboard.
	PollInterval  time.Duration
	PublicBaseURL string
	CampaignName  string

	// Persistence. Empty PostgresURL selects the in-memory store.
	PostgresURL string

	// Rate limiting. Empty RedisURL selects the in-memory limiter.
	RedisURL          string
	RateLimitDisabled bool
	RateLimitMax      int
	RateLimitWindow   time.Duration

	// Audit. Empty brokers disables the Kafka publisher.
	KafkaBrokers []string
	AuditTopic   string
}

// FromEnv reads configuration from MOTOREG_* environment variables, applying
// development-friendly defaults.
func FromEnv() Config {
	return Config{
		Addr:              getenv("MOTOREG_ADDR", ":8080"),
		Preset:            getenv("MOTOREG_PRESET", "strict"),
		GuardTimeout:      getenvDuration("MOTOREG_GUARD_TIMEOUT", 0),
		GuardRetryPause:   getenvDuration("MOTOREG_GUARD_RETRY_PAUSE", 0),
		SuccessTTL:        getenvDuration("MOTOREG_SUCCESS_TTL", 0),
		PollInterval:      getenvDuration("MOTOREG_POLL_INTERVAL", 3*time.Second),
		PublicBaseURL:     getenv("MOTOREG_PUBLIC_BASE_URL", "http://localhost:8080"),
		CampaignName:      getenv("MOTOREG_CAMPAIGN_NAME", "Inscripción de Motos"),
		PostgresURL:       os.Getenv("MOTOREG_POSTGRES_URL"),
		RedisURL:          os.Getenv("MOTOREG_REDIS_URL"),
		RateLimitDisabled: os.Getenv("MOTOREG_RATELIMIT_DISABLED") == "true",
		RateLimitMax:      getenvInt("MOTOREG_RATELIMIT_MAX", 10),
		RateLimitWindow:   getenvDuration("MOTOREG_RATELIMIT_WINDOW", time.Minute),
		KafkaBrokers:      getenvList("MOTOREG_KAFKA_BROKERS"),
		AuditTopic:        getenv("MOTOREG_AUDIT_TOPIC", "motoreg.audit"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
