package config

import "time"

// Config holds runtime settings for the fileshare CLI.
//
// Fields:
//   - ServerURL: base URL of the backend, e.g. "http://localhost:8080".
//   - DownloadDir: directory where downloaded files are saved.
//   - DatabaseDSN: path of the local SQLite database holding the session.
//   - HTTPTimeout: per-request ceiling; zero disables the client-side
//     timeout and leaves deadlines to the backend and context.
type Config struct {
	ServerURL   string        `env:"FILESHARE_SERVER_URL"`
	DownloadDir string        `env:"FILESHARE_DOWNLOAD_DIR"`
	DatabaseDSN string        `env:"FILESHARE_DATABASE_DSN"`
	HTTPTimeout time.Duration `env:"FILESHARE_HTTP_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.DownloadDir = "downloads"
	c.DatabaseDSN = "fileshare.db"
	c.HTTPTimeout = 0
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
