package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrNilConfig is returned when a nil config is passed to a function.
var ErrNilConfig = errors.New("nil config")

// APIConfig is the configuration for the platform API.
type APIConfig struct {
	// URL is the base URL of the platform API, including the /api prefix.
	URL string `env:"URL" yaml:"url"`

	// Session is the value of the platform session cookie.
	// It is sent with every request to authenticate the user.
	Session string `env:"SESSION" yaml:"session"`

	// SessionCookie is the name of the session cookie.
	SessionCookie string `env:"SESSION_COOKIE" yaml:"session_cookie"`

	// Timeout is the maximum time a request can take.
	// A value of 0 means no timeout.
	Timeout Duration `env:"TIMEOUT" yaml:"timeout"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Format is the format of the logs.
	// Valid values are "json", "logfmt", and "text".
	Format string `env:"FORMAT" yaml:"format"`

	// Time format for the log `ts` field.
	// Format must be described in Golang's time format.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path to a file to write logs to.
	// If not set, logs will be written to stderr.
	Path string `env:"PATH" yaml:"path"`
}

// CacheConfig is the configuration for the bot and team lookup cache.
type CacheConfig struct {
	// Backend is the cache backend. Valid values are "lru" and "noop".
	Backend string `env:"BACKEND" yaml:"backend"`

	// Size is the maximum number of entries kept by the lru backend.
	Size int `env:"SIZE" yaml:"size"`

	// TTL is how long a cached bot or team is trusted before it is looked
	// up again. Zero keeps entries until they are evicted.
	TTL Duration `env:"TTL" yaml:"ttl"`
}

// UploadConfig is the configuration for bot and picture uploads.
type UploadConfig struct {
	// RefreshDelay is how long to wait after a successful upload before
	// refetching dependent data, when the server doesn't return a version.
	RefreshDelay Duration `env:"REFRESH_DELAY" yaml:"refresh_delay"`
}

// StatsConfig is the configuration for the stats server.
type StatsConfig struct {
	// ListenAddr is the address on which the stats server will listen.
	// Leave empty to disable the stats server.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
}

// JobsConfig is the configuration for periodic jobs.
type JobsConfig struct {
	// Refresh is the cron spec used to refresh team data periodically.
	Refresh string `env:"REFRESH" yaml:"refresh"`
}

// UIConfig is the configuration for the terminal UI.
type UIConfig struct {
	// AutoRefresh enables periodic refreshes in the UI using the jobs
	// refresh spec.
	AutoRefresh bool `env:"AUTO_REFRESH" yaml:"auto_refresh"`
}

// Config is the configuration for the pokerbots client.
type Config struct {
	// API is the platform API configuration.
	API APIConfig `envPrefix:"API_" yaml:"api"`

	// Log is the logger configuration.
	Log LogConfig `envPrefix:"LOG_" yaml:"log"`

	// Cache is the lookup cache configuration.
	Cache CacheConfig `envPrefix:"CACHE_" yaml:"cache"`

	// Upload is the upload configuration.
	Upload UploadConfig `envPrefix:"UPLOAD_" yaml:"upload"`

	// Stats is the configuration for the stats server.
	Stats StatsConfig `envPrefix:"STATS_" yaml:"stats"`

	// Jobs is the configuration for periodic jobs.
	Jobs JobsConfig `envPrefix:"JOBS_" yaml:"jobs"`

	// UI is the terminal UI configuration.
	UI UIConfig `envPrefix:"UI_" yaml:"ui"`

	// DataPath is the path to the directory where pokerbots stores its
	// config and logs.
	DataPath string `env:"DATA_PATH" yaml:"-"`
}

// Environ returns the config as a list of environment variables.
func (c *Config) Environ() []string {
	if c == nil {
		return nil
	}

	return []string{
		fmt.Sprintf("POKERBOTS_DATA_PATH=%s", c.DataPath),
		fmt.Sprintf("POKERBOTS_API_URL=%s", c.API.URL),
		fmt.Sprintf("POKERBOTS_API_SESSION_COOKIE=%s", c.API.SessionCookie),
		fmt.Sprintf("POKERBOTS_API_TIMEOUT=%s", c.API.Timeout),
		fmt.Sprintf("POKERBOTS_LOG_FORMAT=%s", c.Log.Format),
		fmt.Sprintf("POKERBOTS_LOG_TIME_FORMAT=%s", c.Log.TimeFormat),
		fmt.Sprintf("POKERBOTS_LOG_PATH=%s", c.Log.Path),
		fmt.Sprintf("POKERBOTS_CACHE_BACKEND=%s", c.Cache.Backend),
		fmt.Sprintf("POKERBOTS_CACHE_SIZE=%d", c.Cache.Size),
		fmt.Sprintf("POKERBOTS_CACHE_TTL=%s", c.Cache.TTL),
		fmt.Sprintf("POKERBOTS_UPLOAD_REFRESH_DELAY=%s", c.Upload.RefreshDelay),
		fmt.Sprintf("POKERBOTS_STATS_LISTEN_ADDR=%s", c.Stats.ListenAddr),
		fmt.Sprintf("POKERBOTS_JOBS_REFRESH=%s", c.Jobs.Refresh),
		fmt.Sprintf("POKERBOTS_UI_AUTO_REFRESH=%t", c.UI.AutoRefresh),
	}
}

// IsDebug returns true if the client is running in debug mode.
func IsDebug() bool {
	debug, _ := strconv.ParseBool(os.Getenv("POKERBOTS_DEBUG"))
	return debug
}

// IsVerbose returns true if the client is running in verbose mode.
// Verbose mode is only enabled if debug mode is enabled.
func IsVerbose() bool {
	verbose, _ := strconv.ParseBool(os.Getenv("POKERBOTS_VERBOSE"))
	return IsDebug() && verbose
}

// parseFile parses the given file as a configuration file.
// The file must be in YAML format.
func parseFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close() // nolint: errcheck
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	return cfg.Validate()
}

// ParseFile parses the config from the default file path.
// This also calls Validate() on the config.
func (c *Config) ParseFile() error {
	return parseFile(c, c.ConfigPath())
}

// ParseFileAt parses the config from the given file path.
// This also calls Validate() on the config.
func (c *Config) ParseFileAt(path string) error {
	return parseFile(c, path)
}

// parseEnv parses the environment variables as a configuration file.
// Variables from a .env file in the working directory or the data path are
// loaded first. They never override variables already set.
func parseEnv(cfg *Config) error {
	for _, p := range []string{".env", filepath.Join(cfg.DataPath, ".env")} {
		if exist(p) {
			if err := godotenv.Load(p); err != nil {
				return fmt.Errorf("load %s: %w", p, err)
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix: "POKERBOTS_",
	}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	return cfg.Validate()
}

// ParseEnv parses the config from the environment variables.
// This also calls Validate() on the config.
func (c *Config) ParseEnv() error {
	return parseEnv(c)
}

// Parse parses the config from the default file path and environment variables.
// This also calls Validate() on the config.
func (c *Config) Parse() error {
	if c.Exist() {
		if err := c.ParseFile(); err != nil {
			return err
		}
	}

	return c.ParseEnv()
}

// writeConfig writes the configuration to the given file.
func writeConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(newConfigFile(cfg)), 0o600) // nolint: gosec
}

// WriteConfig writes the configuration to the default file.
func (c *Config) WriteConfig() error {
	return writeConfig(c, c.ConfigPath())
}

// DefaultDataPath returns the path to the data directory.
// It uses the POKERBOTS_DATA_PATH environment variable if set, otherwise it
// uses "~/.pokerbots".
func DefaultDataPath() string {
	dp := os.Getenv("POKERBOTS_DATA_PATH")
	if dp != "" {
		return dp
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".pokerbots"
	}

	return filepath.Join(home, ".pokerbots")
}

// ConfigPath returns the path to the config file.
func (c *Config) ConfigPath() string { // nolint:revive
	return filepath.Join(c.DataPath, "config.yaml")
}

func exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exist returns true if the config file exists.
func (c *Config) Exist() bool {
	return exist(c.ConfigPath())
}

// DefaultConfig returns the default Config. All the path values are relative
// to the data directory.
// Use Validate() to validate the config and ensure absolute paths.
func DefaultConfig() *Config {
	return &Config{
		DataPath: DefaultDataPath(),
		API: APIConfig{
			URL:           "http://localhost:3000/api",
			SessionCookie: "id",
		},
		Log: LogConfig{
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		Cache: CacheConfig{
			Backend: "lru",
			Size:    1000,
			TTL:     Duration(5 * time.Minute),
		},
		Upload: UploadConfig{
			RefreshDelay: Duration(100 * time.Millisecond),
		},
		Jobs: JobsConfig{
			Refresh: "@every 30s",
		},
	}
}

// Validate validates the configuration.
// It updates the configuration with absolute paths.
func (c *Config) Validate() error {
	// Use absolute paths
	if !filepath.IsAbs(c.DataPath) {
		dp, err := filepath.Abs(c.DataPath)
		if err != nil {
			return err
		}
		c.DataPath = dp
	}

	c.API.URL = strings.TrimSuffix(c.API.URL, "/")
	u, err := url.Parse(c.API.URL)
	if err != nil {
		return fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api url %q: scheme must be http or https", c.API.URL)
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid api timeout: %s", c.API.Timeout)
	}

	switch c.Cache.Backend {
	case "", "noop", "lru":
	default:
		return fmt.Errorf("invalid cache backend: %q", c.Cache.Backend)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("invalid cache ttl: %s", c.Cache.TTL)
	}

	if c.Log.Path != "" && !filepath.IsAbs(c.Log.Path) {
		c.Log.Path = filepath.Join(c.DataPath, c.Log.Path)
	}

	return nil
}

// Origin returns the scheme and host of the API URL, the site the API is
// mounted on.
func (c *Config) Origin() string {
	u, err := url.Parse(c.API.URL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
