package config

import "time"

// Config holds runtime settings for the gophdrive client.
//
// Fields:
//   - ServerBaseURL: base URL of the REST API, paths such as /auth/login are appended.
//   - RequestTimeout: limit for API calls other than upload and download bodies.
//   - SessionDBPath: SQLite file keeping the session between runs.
//   - DownloadDir: where downloaded files are written.
//   - StartPath: screen to open first, e.g. /activate/<token> from an email link.
//   - Verbose: log flow diagnostics to stderr.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	SessionDBPath  string
	DownloadDir    string
	StartPath      string
	Verbose        bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 30 * time.Second
	c.SessionDBPath = "session.db"
	c.DownloadDir = "download"
	c.StartPath = "/"
	c.Verbose = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
