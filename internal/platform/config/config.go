package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	Environment string
	HTTPPort    string
	PostgresDSN string

	// QueueProcessSecret authorizes internal triggers of queued background
	// processing; QueueProcessIPAllowlist further restricts where secret-mode
	// calls may originate (comma-separated IPs/CIDRs).
	QueueProcessSecret      string
	QueueProcessIPAllowlist string

	SignalStreamRateLimit  int
	SignalStreamRateWindow time.Duration
	RateWindowSweepEvery   time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "lawdesk"
	}

	environment := strings.TrimSpace(strings.ToLower(os.Getenv("APP_ENV")))
	if environment == "" {
		environment = "development"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		Environment: environment,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		QueueProcessSecret:      strings.TrimSpace(os.Getenv("QUEUE_PROCESS_SECRET")),
		QueueProcessIPAllowlist: strings.TrimSpace(os.Getenv("QUEUE_PROCESS_IP_ALLOWLIST")),

		SignalStreamRateLimit:  envInt("SIGNAL_STREAM_RATE_LIMIT", 30),
		SignalStreamRateWindow: envDuration("SIGNAL_STREAM_RATE_WINDOW", time.Minute),
		RateWindowSweepEvery:   envDuration("RATE_WINDOW_SWEEP_EVERY", 5*time.Minute),
	}, nil
}

// IsProduction gates the fail-closed paths that only matter outside local
// development, like refusing secret-mode triggers without an allowlist.
func (c Config) IsProduction() bool { return c.Environment == "production" }

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
