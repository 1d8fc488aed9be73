// Package version exposes build version information, overridable at link time.
package version

var (
	Version = "0.2.0"
	Commit  = ""
)

// Get returns the human-readable version string.
func Get() string {
	if Commit != "" {
		return Version + " (" + Commit + ")"
	}
	return Version
}
