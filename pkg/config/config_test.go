package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestParseEnv(t *testing.T) {
	is := is.New(t)
	td := t.TempDir()
	is.NoErr(os.Setenv("POKERBOTS_DATA_PATH", td))
	is.NoErr(os.Setenv("POKERBOTS_API_URL", "https://pokerbots.example.com/api"))
	is.NoErr(os.Setenv("POKERBOTS_API_SESSION", "s3cr3t"))
	is.NoErr(os.Setenv("POKERBOTS_UPLOAD_REFRESH_DELAY", "1d"))
	t.Cleanup(func() {
		is.NoErr(os.Unsetenv("POKERBOTS_DATA_PATH"))
		is.NoErr(os.Unsetenv("POKERBOTS_API_URL"))
		is.NoErr(os.Unsetenv("POKERBOTS_API_SESSION"))
		is.NoErr(os.Unsetenv("POKERBOTS_UPLOAD_REFRESH_DELAY"))
	})
	cfg := DefaultConfig()
	is.NoErr(cfg.ParseEnv())
	is.Equal(cfg.DataPath, td)
	is.Equal(cfg.API.URL, "https://pokerbots.example.com/api")
	is.Equal(cfg.API.Session, "s3cr3t")
	is.Equal(cfg.Upload.RefreshDelay.Std(), 24*time.Hour)
	is.Equal(cfg.Origin(), "https://pokerbots.example.com")
}

func TestParseFileAt(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.DataPath = t.TempDir()
	is.NoErr(cfg.ParseFileAt("testdata/config.yaml"))
	is.Equal(cfg.API.URL, "https://pokerbots.example.com/api") // trailing slash is trimmed
	is.Equal(cfg.API.SessionCookie, "sid")
	is.Equal(cfg.API.Timeout.Std(), 14*24*time.Hour)
	is.Equal(cfg.Log.Format, "json")
	is.Equal(cfg.Cache.Backend, "noop")
	is.Equal(cfg.Cache.Size, 1000) // untouched default
	is.Equal(cfg.Cache.TTL.Std(), time.Hour)
	is.Equal(cfg.Upload.RefreshDelay.Std(), 250*time.Millisecond)
	is.Equal(cfg.Jobs.Refresh, "@every 1m")
	is.True(cfg.UI.AutoRefresh)
}

func TestValidateBadCacheBackend(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.DataPath = t.TempDir()
	is.True(cfg.ParseFileAt("testdata/bad_cache.yaml") != nil)
}

func TestValidateBadURL(t *testing.T) {
	for _, u := range []string{
		"ftp://example.com/api",
		"localhost:3000",
		"://nope",
	} {
		cfg := DefaultConfig()
		cfg.API.URL = u
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate() with url %q => nil, want error", u)
		}
	}
}

func TestWriteAndParseConfig(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.API.URL = "https://bots.example.org/api"
	cfg.Upload.RefreshDelay = Duration(2 * time.Second)
	is.NoErr(cfg.WriteConfig())
	is.True(cfg.Exist())

	parsed := &Config{DataPath: cfg.DataPath}
	is.NoErr(parsed.ParseFile())
	is.Equal(parsed.API.URL, "https://bots.example.org/api")
	is.Equal(parsed.API.SessionCookie, "id")
	is.Equal(parsed.Upload.RefreshDelay.Std(), 2*time.Second)
	is.Equal(parsed.Cache.Backend, "lru")
	is.Equal(parsed.Jobs.Refresh, "@every 30s")
}

func TestDotEnv(t *testing.T) {
	is := is.New(t)
	td := t.TempDir()
	is.NoErr(os.WriteFile(filepath.Join(td, ".env"), []byte("POKERBOTS_API_SESSION=from-dotenv\n"), 0o600))
	t.Cleanup(func() { is.NoErr(os.Unsetenv("POKERBOTS_API_SESSION")) })
	cfg := DefaultConfig()
	cfg.DataPath = td
	is.NoErr(cfg.ParseEnv())
	is.Equal(cfg.API.Session, "from-dotenv")
}

func TestEnviron(t *testing.T) {
	is := is.New(t)
	var nilcfg *Config
	is.Equal(len(nilcfg.Environ()), 0)
	envs := DefaultConfig().Environ()
	is.True(len(envs) > 0)
	is.Equal(envs[1], "POKERBOTS_API_URL=http://localhost:3000/api")
}
