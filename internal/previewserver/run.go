// Package previewserver runs the preview HTTP server: it derives a routing
// table from an nginx-style config file and dispatches every request through
// it, logging one access line per request.
package previewserver

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/netutil"

	"github.com/ngxkit/ngxpreview/internal/logx"
	"github.com/ngxkit/ngxpreview/pkg/ngxconf"
	"github.com/ngxkit/ngxpreview/pkg/routing"
	"github.com/ngxkit/ngxpreview/pkg/settings"
)

// Options overrides individual settings from the command line. Zero values
// leave the settings-file (or default) value in place.
type Options struct {
	SettingsPath string
	ConfPath     string
	BaseDir      string
	ListenHost   string
	// Port overrides the config-derived listen port; 0 keeps the config's.
	Port  int
	Watch bool
}

// Run starts the server and blocks until SIGINT/SIGTERM or a fatal error.
// When config watching is enabled, a change to the config file stops the
// listener, terminates live connections, rebuilds the routing table from
// scratch and listens again.
func Run(opts Options) error {
	s, err := loadSettings(opts)
	if err != nil {
		return err
	}

	confPath := strings.TrimSpace(s.Server.ConfPath)
	if confPath == "" {
		return errors.New("no config file given (use --conf or settings server.conf_path)")
	}
	baseDir := strings.TrimSpace(s.Server.BaseDir)
	if baseDir == "" {
		baseDir = filepath.Dir(confPath)
	}
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}

	accessLogger, accessClose, accessColor, err := openAccessLogger(s)
	if err != nil {
		return fmt.Errorf("init access log: %w", err)
	}
	if accessClose != nil {
		defer func() { _ = accessClose.Close() }()
	}

	format, err := logx.ResolveAccessLogFormat(s.Logging.AccessLogFormat, s.Logging.AccessLogFormatPreset)
	if err != nil {
		return fmt.Errorf("resolve access log format: %w", err)
	}
	accessFormatter, err := logx.CompileAccessLogFormat(format)
	if err != nil {
		return fmt.Errorf("compile access_log_format: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		restart, err := serveOnce(s, confPath, baseDir, accessLogger, accessColor, accessFormatter, sigCh)
		if err != nil || !restart {
			return err
		}
		log.Printf("config changed, restarting: conf=%q", confPath)
	}
}

func loadSettings(opts Options) (*settings.Settings, error) {
	var s *settings.Settings
	if p := strings.TrimSpace(opts.SettingsPath); p != "" {
		loaded, err := settings.Load(p)
		if err != nil {
			return nil, fmt.Errorf("load settings %q: %w", p, err)
		}
		s = loaded
	} else {
		s = settings.Default()
	}
	if v := strings.TrimSpace(opts.ConfPath); v != "" {
		s.Server.ConfPath = v
	}
	if v := strings.TrimSpace(opts.BaseDir); v != "" {
		s.Server.BaseDir = v
	}
	if v := strings.TrimSpace(opts.ListenHost); v != "" {
		s.Server.ListenHost = v
	}
	if opts.Port != 0 {
		s.Server.Port = opts.Port
	}
	if opts.Watch {
		s.Watch.Enabled = true
	}
	return s, nil
}

// LoadRoutingConfig reads, tokenizes, parses and builds the routing table for
// a config file. It returns (nil, nil) when the file holds no http>server
// block; that absence is a normal outcome, not an error.
func LoadRoutingConfig(confPath, baseDir string) (*routing.ServerConfig, error) {
	// #nosec G304 -- conf path comes from trusted config/flag.
	b, err := os.ReadFile(confPath)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", confPath, err)
	}
	cfg, err := routing.Build(ngxconf.Parse(ngxconf.Tokenize(string(b))), baseDir)
	if err != nil {
		return nil, fmt.Errorf("build config %q: %w", confPath, err)
	}
	return cfg, nil
}

// serveOnce runs one listener lifetime. It returns restart=true when the
// config watcher fired and the caller should rebuild and listen again.
func serveOnce(
	s *settings.Settings,
	confPath string,
	baseDir string,
	accessLogger *log.Logger,
	accessColor bool,
	accessFormatter *logx.AccessLogFormatter,
	sigCh <-chan os.Signal,
) (bool, error) {
	cfg, err := LoadRoutingConfig(confPath, baseDir)
	if err != nil {
		return false, err
	}
	if cfg == nil {
		return false, fmt.Errorf("no server configuration found in %q", confPath)
	}

	port := cfg.ListenPort
	if s.Server.Port != 0 {
		port = s.Server.Port
	}
	addr := net.JoinHostPort(s.Server.ListenHost, strconv.Itoa(port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return false, fmt.Errorf("listen %s: port already in use", addr)
		}
		return false, fmt.Errorf("listen %s: %w", addr, err)
	}
	ln = netutil.LimitListener(ln, s.Server.MaxConns)

	reg := newConnRegistry()
	srv := &http.Server{
		Handler:           NewRouter(cfg, accessLogger, accessColor, accessFormatter),
		ConnState:         reg.track,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()
	log.Printf("ngxpreview listening on http://%s (root=%q locations=%d)", addr, cfg.DocumentRoot, len(cfg.Locations))

	var watchCh <-chan struct{}
	if s.Watch.Enabled {
		ch, closer, err := watchConfig(confPath, time.Duration(s.Watch.DebounceMs)*time.Millisecond)
		if err != nil {
			stopListener(ln, reg, serveErr)
			return false, fmt.Errorf("init config watch: %w", err)
		}
		defer func() { _ = closer.Close() }()
		watchCh = ch
	}

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			return false, fmt.Errorf("serve: %w", err)
		}
		return false, nil
	case <-sigCh:
		log.Printf("shutting down, terminating %d live connection(s)", reg.Len())
		stopListener(ln, reg, serveErr)
		return false, nil
	case <-watchCh:
		stopListener(ln, reg, serveErr)
		return true, nil
	}
}

// stopListener stops accepting first, then force-closes live connections, and
// only returns once the serve loop has exited. A replacement listener may
// start only after this completes.
func stopListener(ln net.Listener, reg *connRegistry, serveErr <-chan error) {
	_ = ln.Close()
	reg.TerminateAll()
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
		log.Printf("serve stopped: %v", err)
	}
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

func openAccessLogger(s *settings.Settings) (*log.Logger, io.Closer, bool, error) {
	if s == nil || !s.Logging.AccessLog {
		return nil, nil, false, nil
	}

	path := strings.TrimSpace(s.Logging.AccessLogPath)
	if path == "" {
		return log.New(os.Stdout, "", log.LstdFlags), nil, logx.ColorEnabled(), nil
	}

	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, false, err
		}
	}
	// #nosec G304 -- access_log_path comes from trusted config/env.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, false, err
	}
	return log.New(f, "", log.LstdFlags), f, false, nil
}
