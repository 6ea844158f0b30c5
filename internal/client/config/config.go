package config

import "time"

// Config holds runtime settings for the EventHub CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API, including the version
//     prefix (e.g. "http://localhost:6000/api/v1").
//   - RequestTimeout: per-request HTTP timeout.
//   - StateDSN: path/DSN of the local sqlite state database.
//   - LogLevel: debug | info | warn | error.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	StateDSN       string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:6000/api/v1"
	c.RequestTimeout = 10 * time.Second
	c.StateDSN = "eventhub.db"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including a .env file if present), a JSON file (if given
// via -c/-config) and command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
