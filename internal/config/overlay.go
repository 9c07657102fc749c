package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// OverlayEnv applies JOBMATCH_* environment overrides on top of cfg.
func OverlayEnv(cfg *Config) {
	if v := os.Getenv("JOBMATCH_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	if v := os.Getenv("JOBMATCH_LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("JOBMATCH_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("JOBMATCH_REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := os.Getenv("JOBMATCH_POSTGRES_URL"); v != "" {
		cfg.Cache.PostgresURL = v
	}
	if v := os.Getenv("JOBMATCH_NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v := os.Getenv("JOBMATCH_DISABLED_SOURCES"); v != "" {
		cfg.Sources.Disabled = append(cfg.Sources.Disabled, strings.Split(v, ",")...)
	}
}
