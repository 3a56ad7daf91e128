// Package envutil expands user-supplied paths from config files and flags.
package envutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~" to the user's home directory and expands
// $VAR / ${VAR} references. Unset variables expand to the empty string.
func ExpandPath(path string) string {
	return expandWith(path, os.Getenv, homeDir())
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

func expandWith(path string, getenv func(string) string, home string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}

	switch {
	case path == "~":
		path = home
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(home, path[2:])
	}

	path = os.Expand(path, getenv)
	return filepath.Clean(path)
}
