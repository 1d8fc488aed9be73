package routing

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeJoinAccepts(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"root itself", "/", root},
		{"empty path", "", root},
		{"plain file", "/index.html", filepath.Join(root, "index.html")},
		{"nested", "/a/b/c.txt", filepath.Join(root, "a", "b", "c.txt")},
		{"repeated slashes", "//a///b", filepath.Join(root, "a", "b")},
		{"dot segments inside", "/a/./b/../c", filepath.Join(root, "a", "c")},
		{"backslash separators", `\a\b.txt`, filepath.Join(root, "a", "b.txt")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SafeJoin(root, tt.in)
			if !ok {
				t.Fatalf("SafeJoin(%q) rejected", tt.in)
			}
			if got != tt.want {
				t.Fatalf("SafeJoin(%q)=%q want=%q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeJoinRejectsTraversal(t *testing.T) {
	root := t.TempDir()

	tests := []string{
		"/../../etc/passwd",
		"../../etc/passwd",
		"/..",
		"/a/../../etc/passwd",
		`..\..\etc\passwd`,
		`/..\../etc/passwd`,
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			if got, ok := SafeJoin(root, in); ok {
				t.Fatalf("SafeJoin(%q) accepted %q, want rejection", in, got)
			}
		})
	}
}

func TestSafeJoinSiblingPrefixRejected(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "web")
	// "web-secrets" shares the "web" string prefix but is outside the root.
	if _, ok := SafeJoin(root, "/../web-secrets/key.txt"); ok {
		t.Fatalf("sibling directory sharing a name prefix must be rejected")
	}
}

func TestSafeJoinCaseInsensitiveContainment(t *testing.T) {
	root := t.TempDir()
	upper := strings.ToUpper(root)
	got, ok := SafeJoin(upper, "/file.txt")
	if !ok {
		t.Fatalf("case difference between root spellings should not reject")
	}
	if !strings.EqualFold(got, filepath.Join(root, "file.txt")) {
		t.Fatalf("unexpected candidate: %q", got)
	}
}
