// Package routing derives a routing table from a parsed nginx-style config
// and answers, per request path, which location rule wins and what terminal
// outcome (file, proxy echo, not-found, forbidden) the request gets.
package routing

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ngxkit/ngxpreview/pkg/ngxconf"
)

// MatchKind selects one of the three location matching strategies.
type MatchKind int

const (
	MatchPrefix MatchKind = iota
	MatchExact
	MatchRegex
)

// DefaultIndexFiles is used when a server block has no index directive.
var DefaultIndexFiles = []string{"index.html", "index.htm"}

// LocationRule is one location block reduced to routing form.
type LocationRule struct {
	Kind            MatchKind
	Matcher         string
	CaseInsensitive bool
	// StopOnMatch is set for the ^~ modifier: a winning prefix suppresses
	// regex evaluation. Meaningless for other kinds.
	StopOnMatch bool
	// Pattern is the compiled matcher, set for MatchRegex only.
	Pattern *regexp.Regexp

	// ProxyTarget is the proxy_pass argument, empty when absent.
	ProxyTarget string
	// RootOverride is the location-level root, kept unresolved; it is
	// resolved per request against the config's base directory.
	RootOverride string
	// TryFiles holds the try_files candidates, nil when absent.
	TryFiles []string
}

// Label renders the rule the way it appeared in the config, for log lines.
func (r *LocationRule) Label() string {
	if r == nil {
		return "default"
	}
	switch r.Kind {
	case MatchExact:
		return "= " + r.Matcher
	case MatchRegex:
		if r.CaseInsensitive {
			return "~* " + r.Matcher
		}
		return "~ " + r.Matcher
	default:
		if r.StopOnMatch {
			return "^~ " + r.Matcher
		}
		return r.Matcher
	}
}

// ServerConfig is the routing table derived from the first http>server block.
// It is built once per start, held read-only while the server runs, and is
// safe for concurrent use.
type ServerConfig struct {
	ListenPort   int
	DocumentRoot string
	IndexFiles   []string
	// Locations preserves source order; order breaks ties among same-length
	// prefixes and drives regex first-match.
	Locations []LocationRule

	// BaseDir is the directory location-level root overrides resolve against.
	BaseDir string
}

// Build derives a ServerConfig from parsed statements and a base directory.
//
// A missing http or server block is a normal empty outcome and returns
// (nil, nil). An invalid regex in a location modifier is a construction
// failure: the config is unusable and the error names the bad pattern.
func Build(nodes []ngxconf.Node, baseDir string) (*ServerConfig, error) {
	httpBlock, ok := ngxconf.FirstBlock(nodes, "http")
	if !ok {
		return nil, nil
	}
	srv, ok := ngxconf.FirstBlock(httpBlock.Children, "server")
	if !ok {
		return nil, nil
	}

	cfg := &ServerConfig{
		ListenPort:   listenPort(srv.Children),
		DocumentRoot: resolveRoot(baseDir, firstArg(srv.Children, "root")),
		IndexFiles:   indexFiles(srv.Children),
		BaseDir:      baseDir,
	}
	for _, loc := range ngxconf.Blocks(srv.Children, "location") {
		rule, err := buildLocation(loc)
		if err != nil {
			return nil, err
		}
		cfg.Locations = append(cfg.Locations, rule)
	}
	return cfg, nil
}

// listenPort parses the first listen directive: "host:port" takes the trailing
// numeric group, a bare number is taken directly, anything else defaults to 80.
func listenPort(nodes []ngxconf.Node) int {
	const def = 80
	d, ok := ngxconf.FirstDirective(nodes, "listen")
	if !ok || len(d.Args) == 0 {
		return def
	}
	v := d.Args[0]
	if i := strings.LastIndex(v, ":"); i >= 0 {
		v = v[i+1:]
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 65535 {
		return def
	}
	return n
}

func indexFiles(nodes []ngxconf.Node) []string {
	d, ok := ngxconf.FirstDirective(nodes, "index")
	if !ok || len(d.Args) == 0 {
		return append([]string(nil), DefaultIndexFiles...)
	}
	return append([]string(nil), d.Args...)
}

// resolveRoot joins v onto baseDir unless v is already absolute. An empty v
// means the base directory itself.
func resolveRoot(baseDir, v string) string {
	if v == "" {
		return filepath.Clean(baseDir)
	}
	if filepath.IsAbs(v) {
		return filepath.Clean(v)
	}
	return filepath.Join(baseDir, v)
}

func buildLocation(b *ngxconf.Block) (LocationRule, error) {
	rule := LocationRule{Kind: MatchPrefix}
	mod := ""
	if len(b.Args) > 0 {
		mod = b.Args[0]
	}
	switch mod {
	case "=":
		rule.Kind = MatchExact
		rule.Matcher = argOr(b.Args, 1, "/")
	case "~", "~*":
		rule.Kind = MatchRegex
		rule.CaseInsensitive = mod == "~*"
		rule.Matcher = argOr(b.Args, 1, "")
		expr := rule.Matcher
		if rule.CaseInsensitive {
			expr = "(?i)" + expr
		}
		pat, err := regexp.Compile(expr)
		if err != nil {
			return LocationRule{}, fmt.Errorf("location %s %q: %w", mod, rule.Matcher, err)
		}
		rule.Pattern = pat
	case "^~":
		rule.StopOnMatch = true
		rule.Matcher = argOr(b.Args, 1, "/")
	default:
		rule.Matcher = argOr(b.Args, 0, "/")
	}

	if d, ok := ngxconf.FirstDirective(b.Children, "proxy_pass"); ok && len(d.Args) > 0 {
		rule.ProxyTarget = d.Args[0]
	}
	if d, ok := ngxconf.FirstDirective(b.Children, "root"); ok && len(d.Args) > 0 {
		rule.RootOverride = d.Args[0]
	}
	if d, ok := ngxconf.FirstDirective(b.Children, "try_files"); ok && len(d.Args) > 0 {
		rule.TryFiles = append([]string(nil), d.Args...)
	}
	return rule, nil
}

func firstArg(nodes []ngxconf.Node, name string) string {
	d, ok := ngxconf.FirstDirective(nodes, name)
	if !ok || len(d.Args) == 0 {
		return ""
	}
	return d.Args[0]
}

func argOr(args []string, i int, def string) string {
	if i < len(args) {
		return args[i]
	}
	return def
}
