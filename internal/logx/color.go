package logx

import (
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether access log color should be used: stdout is a
// terminal and NO_COLOR is unset.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorizeStatusWith renders an HTTP status code, ANSI-colored by class when
// color is enabled.
func ColorizeStatusWith(status int, color bool) string {
	s := strconv.Itoa(status)
	if !color {
		return s
	}
	switch {
	case status >= 500:
		return "\x1b[1;31m" + s + "\x1b[0m"
	case status >= 400:
		return "\x1b[1;33m" + s + "\x1b[0m"
	case status >= 300:
		return "\x1b[1;36m" + s + "\x1b[0m"
	default:
		return "\x1b[1;32m" + s + "\x1b[0m"
	}
}
