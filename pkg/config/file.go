package config

import (
	"bytes"
	"text/template"
)

var configFileTmpl = template.Must(template.New("config").Parse(`# pokerbots client configuration

# Platform API configuration.
api:
  # The base URL of the platform API, including the /api prefix.
  url: "{{ .API.URL }}"

  # The value of the session cookie issued by the platform after login.
  # Prefer setting POKERBOTS_API_SESSION instead of storing it here.
  #session: ""

  # The name of the session cookie.
  session_cookie: "{{ .API.SessionCookie }}"

  # The maximum time a request can take. 0 means no timeout.
  timeout: "{{ .API.Timeout }}"

# Logging configuration.
log:
  # Log format to use. Valid values are "json", "logfmt", and "text".
  format: "{{ .Log.Format }}"
  # Time format for the log "timestamp" field.
  # Should be described in Golang's time format.
  time_format: "{{ .Log.TimeFormat }}"
  # Path to the log file. Leave empty to write to stderr.
  #path: "{{ .Log.Path }}"

# Bot and team lookup cache used when resolving games.
cache:
  # Valid values are "lru" and "noop".
  backend: "{{ .Cache.Backend }}"
  # Maximum number of cached entries.
  size: {{ .Cache.Size }}
  # How long a cached bot or team is used before it is fetched again.
  # Use "0s" to keep entries until they are evicted.
  ttl: "{{ .Cache.TTL }}"

# Upload configuration.
upload:
  # How long to wait before refreshing after an upload, when the server
  # doesn't report a version for the uploaded content.
  refresh_delay: "{{ .Upload.RefreshDelay }}"

# The stats server configuration.
stats:
  # The address on which the stats server will listen.
  # Leave empty to disable.
  listen_addr: "{{ .Stats.ListenAddr }}"

# Periodic jobs.
jobs:
  # Cron spec used by "watch" and the UI auto refresh.
  refresh: "{{ .Jobs.Refresh }}"

# Terminal UI configuration.
ui:
  # Periodically refresh team data while the UI is open.
  auto_refresh: {{ .UI.AutoRefresh }}
`))

func newConfigFile(cfg *Config) string {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	var b bytes.Buffer
	configFileTmpl.Execute(&b, cfg) // nolint: errcheck
	return b.String()
}
