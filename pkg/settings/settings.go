// Package settings loads the preview server's own settings file (YAML) and
// applies defaults and NGXPREVIEW_* environment overrides. Every field is
// optional; zero-value settings plus a conf path are enough to serve.
package settings

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultListenHost = "127.0.0.1"
	defaultMaxConns   = 256
	defaultDebounceMs = 300
)

// Settings mirrors the YAML settings file.
type Settings struct {
	Server struct {
		// ConfPath points at the nginx-style config to preview.
		ConfPath string `yaml:"conf_path"`
		// BaseDir is the directory relative roots resolve against.
		// Defaults to the conf file's directory.
		BaseDir string `yaml:"base_dir"`
		// ListenHost is the bind host; the port comes from the conf's
		// listen directive unless Port overrides it.
		ListenHost string `yaml:"listen_host"`
		// Port overrides the config-derived listen port. 0 means use the
		// config's port.
		Port     int `yaml:"port"`
		MaxConns int `yaml:"max_conns"`
	} `yaml:"server"`

	// Watch restarts the server when the conf file changes.
	Watch struct {
		Enabled    bool `yaml:"enabled"`
		DebounceMs int  `yaml:"debounce_ms"`
	} `yaml:"watch"`

	Logging struct {
		AccessLog             bool   `yaml:"access_log"`
		AccessLogPath         string `yaml:"access_log_path"`
		AccessLogFormat       string `yaml:"access_log_format"`
		AccessLogFormatPreset string `yaml:"access_log_format_preset"`
	} `yaml:"logging"`
}

// Default returns usable settings without reading any file.
func Default() *Settings {
	var s Settings
	applyDefaults(&s)
	applyEnvOverrides(&s)
	return &s
}

// Load reads a settings file, then applies defaults and env overrides.
func Load(path string) (*Settings, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	applyDefaults(&s)
	applyEnvOverrides(&s)
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func applyDefaults(s *Settings) {
	if strings.TrimSpace(s.Server.ListenHost) == "" {
		s.Server.ListenHost = defaultListenHost
	}
	if s.Server.MaxConns <= 0 {
		s.Server.MaxConns = defaultMaxConns
	}
	if s.Watch.DebounceMs <= 0 {
		s.Watch.DebounceMs = defaultDebounceMs
	}
	// default true for local debugging
	if !s.Logging.AccessLog {
		s.Logging.AccessLog = true
	}
}

func applyEnvOverrides(s *Settings) {
	if v := strings.TrimSpace(os.Getenv("NGXPREVIEW_CONF")); v != "" {
		s.Server.ConfPath = v
	}
	if v := strings.TrimSpace(os.Getenv("NGXPREVIEW_BASE_DIR")); v != "" {
		s.Server.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("NGXPREVIEW_LISTEN_HOST")); v != "" {
		s.Server.ListenHost = v
	}
	if n, ok := envInt("NGXPREVIEW_PORT"); ok {
		s.Server.Port = n
	}
	if n, ok := envInt("NGXPREVIEW_MAX_CONNS"); ok && n > 0 {
		s.Server.MaxConns = n
	}
	s.Watch.Enabled = envBool("NGXPREVIEW_WATCH_ENABLED", s.Watch.Enabled)
	if n, ok := envInt("NGXPREVIEW_WATCH_DEBOUNCE_MS"); ok {
		s.Watch.DebounceMs = n
	}
	s.Logging.AccessLog = envBool("NGXPREVIEW_ACCESS_LOG", s.Logging.AccessLog)
	if v := strings.TrimSpace(os.Getenv("NGXPREVIEW_ACCESS_LOG_PATH")); v != "" {
		s.Logging.AccessLogPath = v
	}
	if v := os.Getenv("NGXPREVIEW_ACCESS_LOG_FORMAT"); strings.TrimSpace(v) != "" {
		s.Logging.AccessLogFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("NGXPREVIEW_ACCESS_LOG_FORMAT_PRESET")); v != "" {
		s.Logging.AccessLogFormatPreset = v
	}
}

func validate(s *Settings) error {
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return errors.New("server.port must be in 0-65535 (0 = use config-derived port)")
	}
	if s.Server.MaxConns <= 0 {
		return errors.New("server.max_conns must be > 0")
	}
	if s.Watch.Enabled && s.Watch.DebounceMs <= 0 {
		return errors.New("watch.debounce_ms must be > 0 when watch.enabled=true")
	}
	return nil
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
