package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ngxpreview.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestDefaultSettings(t *testing.T) {
	s := Default()
	if s.Server.ListenHost != "127.0.0.1" {
		t.Fatalf("ListenHost=%q", s.Server.ListenHost)
	}
	if s.Server.Port != 0 {
		t.Fatalf("Port should default to 0 (config-derived), got %d", s.Server.Port)
	}
	if s.Server.MaxConns != 256 {
		t.Fatalf("MaxConns=%d", s.Server.MaxConns)
	}
	if !s.Logging.AccessLog {
		t.Fatalf("access log should default on")
	}
	if s.Watch.Enabled || s.Watch.DebounceMs != 300 {
		t.Fatalf("watch defaults wrong: %+v", s.Watch)
	}
}

func TestLoad(t *testing.T) {
	p := writeSettings(t, `
server:
  conf_path: ./nginx.conf
  listen_host: 0.0.0.0
  port: 9999
watch:
  enabled: true
`)
	s, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Server.ConfPath != "./nginx.conf" || s.Server.ListenHost != "0.0.0.0" || s.Server.Port != 9999 {
		t.Fatalf("unexpected server settings: %+v", s.Server)
	}
	if !s.Watch.Enabled || s.Watch.DebounceMs != 300 {
		t.Fatalf("watch debounce default not applied: %+v", s.Watch)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})
	t.Run("bad yaml", func(t *testing.T) {
		if _, err := Load(writeSettings(t, "server: [")); err == nil {
			t.Fatalf("expected error")
		}
	})
	t.Run("port out of range", func(t *testing.T) {
		_, err := Load(writeSettings(t, "server:\n  port: 70000\n"))
		if err == nil || !strings.Contains(err.Error(), "server.port") {
			t.Fatalf("expected port validation error, got %v", err)
		}
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NGXPREVIEW_CONF", "/etc/ngx/preview.conf")
	t.Setenv("NGXPREVIEW_LISTEN_HOST", "0.0.0.0")
	t.Setenv("NGXPREVIEW_PORT", "8123")
	t.Setenv("NGXPREVIEW_WATCH_ENABLED", "yes")
	t.Setenv("NGXPREVIEW_ACCESS_LOG", "off")

	s := Default()
	if s.Server.ConfPath != "/etc/ngx/preview.conf" {
		t.Fatalf("ConfPath=%q", s.Server.ConfPath)
	}
	if s.Server.ListenHost != "0.0.0.0" || s.Server.Port != 8123 {
		t.Fatalf("server overrides not applied: %+v", s.Server)
	}
	if !s.Watch.Enabled {
		t.Fatalf("watch override not applied")
	}
	if s.Logging.AccessLog {
		t.Fatalf("access log override not applied")
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("NGXPREVIEW_TEST_BOOL", "garbage")
	if envBool("NGXPREVIEW_TEST_BOOL", true) != true {
		t.Fatalf("garbage value should keep default")
	}
	t.Setenv("NGXPREVIEW_TEST_BOOL", "0")
	if envBool("NGXPREVIEW_TEST_BOOL", true) != false {
		t.Fatalf("0 should be false")
	}
}
