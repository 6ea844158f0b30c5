package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first (missing file is fine; real
// environment variables win over .env entries, per godotenv semantics).
//
// Variables:
//
//	EVENTHUB_API_URL     base URL of the backend API
//	EVENTHUB_TIMEOUT     request timeout as a Go duration ("10s")
//	EVENTHUB_STATE_DSN   local state database path
//	EVENTHUB_LOG_LEVEL   debug | info | warn | error
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("EVENTHUB_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("EVENTHUB_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("EVENTHUB_STATE_DSN"); v != "" {
		cfg.StateDSN = v
	}
	if v := os.Getenv("EVENTHUB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
