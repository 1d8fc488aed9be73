package routing

import (
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// OutcomeKind classifies the terminal decision for one request.
type OutcomeKind int

const (
	// OutcomeServe serves a regular file with a derived content type.
	OutcomeServe OutcomeKind = iota
	// OutcomeProxy echoes the configured proxy target; no proxying happens.
	OutcomeProxy
	// OutcomeNotFound is the 404 case.
	OutcomeNotFound
	// OutcomeForbidden is the traversal-rejection 403 case.
	OutcomeForbidden
	// OutcomeError is an unexpected per-request filesystem failure (500).
	OutcomeError
)

// Outcome is the terminal routing decision for one request path.
type Outcome struct {
	Kind        OutcomeKind
	FilePath    string
	ContentType string
	ProxyTarget string
	Err         error
}

const defaultContentType = "application/octet-stream"

// Dispatch produces the terminal outcome for a request path under the given
// rule (nil means no location matched). A proxy_pass rule short-circuits
// before any filesystem access. Dispatch performs no mutation and is safe to
// call concurrently; resolving the same path twice against an unchanged
// config and filesystem yields the same outcome.
func (c *ServerConfig) Dispatch(rule *LocationRule, reqPath string) Outcome {
	if rule != nil && rule.ProxyTarget != "" {
		return Outcome{Kind: OutcomeProxy, ProxyTarget: rule.ProxyTarget}
	}

	root := c.DocumentRoot
	if rule != nil && rule.RootOverride != "" {
		root = resolveRoot(c.BaseDir, rule.RootOverride)
	}
	candidate, ok := SafeJoin(root, reqPath)
	if !ok {
		return Outcome{Kind: OutcomeForbidden}
	}

	fi, err := os.Stat(candidate)
	switch {
	case err == nil && fi.Mode().IsRegular():
		return serveOutcome(candidate)
	case err == nil && fi.IsDir():
		for _, name := range c.IndexFiles {
			idx := filepath.Join(candidate, name)
			if isRegular(idx) {
				return serveOutcome(idx)
			}
		}
		return c.tryFilesOutcome(rule, root)
	case err == nil:
		// Neither regular file nor directory (socket, device).
		return Outcome{Kind: OutcomeNotFound}
	case os.IsNotExist(err):
		return c.tryFilesOutcome(rule, root)
	default:
		return Outcome{Kind: OutcomeError, Err: err}
	}
}

// tryFilesOutcome probes the rule's try_files candidates in order. Only
// absolute-style entries (leading '/') are considered; they resolve against
// the rule's own root.
func (c *ServerConfig) tryFilesOutcome(rule *LocationRule, root string) Outcome {
	if rule == nil {
		return Outcome{Kind: OutcomeNotFound}
	}
	for _, entry := range rule.TryFiles {
		if !strings.HasPrefix(entry, "/") {
			continue
		}
		candidate, ok := SafeJoin(root, entry)
		if !ok {
			continue
		}
		if isRegular(candidate) {
			return serveOutcome(candidate)
		}
	}
	return Outcome{Kind: OutcomeNotFound}
}

func serveOutcome(p string) Outcome {
	return Outcome{Kind: OutcomeServe, FilePath: p, ContentType: ContentType(p)}
}

func isRegular(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

// ContentType derives a content type from the file extension, falling back to
// application/octet-stream for unknown extensions.
func ContentType(p string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(p))); ct != "" {
		return ct
	}
	return defaultContentType
}
