package routing

import (
	"path"
	"path/filepath"
	"strings"
)

// SafeJoin resolves a request path under root and guarantees the result stays
// inside root; ok is false for any path that escapes. This is the sole defense
// against traversal, so '..' segments are collapsed relative to the request
// path itself (never clamped at a virtual root) and the containment check
// compares canonical absolute forms case-insensitively, since the server
// targets case-insensitive filesystems.
func SafeJoin(root, reqPath string) (string, bool) {
	p := strings.ReplaceAll(reqPath, "\\", "/")
	p = strings.TrimLeft(p, "/")
	p = path.Clean(p)
	if p == "." {
		p = ""
	}

	absRoot, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", false
	}
	candidate, err := filepath.Abs(filepath.Join(absRoot, filepath.FromSlash(p)))
	if err != nil {
		return "", false
	}

	lowerRoot := strings.ToLower(absRoot)
	lowerCand := strings.ToLower(candidate)
	if lowerCand == lowerRoot || strings.HasPrefix(lowerCand, lowerRoot+string(filepath.Separator)) {
		return candidate, true
	}
	return "", false
}
