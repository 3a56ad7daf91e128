package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrProtectedPath marks a target that was refused because it is, or holds,
// a path that must never be removed.
var ErrProtectedPath = errors.New("refusing to delete protected path")

// maxDeleteFailures caps how many per-file failures a PartialDeleteError keeps.
const maxDeleteFailures = 50

// PartialDeleteError reports files under Path that could not be removed.
// Whatever else could be removed was removed.
type PartialDeleteError struct {
	Path     string
	Failures []error
	Dropped  int // failures beyond the cap
}

func (e *PartialDeleteError) Error() string {
	n := len(e.Failures) + e.Dropped
	if n == 1 {
		return fmt.Sprintf("%s: 1 entry could not be removed: %v", e.Path, e.Failures[0])
	}
	return fmt.Sprintf("%s: %d entries could not be removed (first: %v)", e.Path, n, e.Failures[0])
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *PartialDeleteError) Unwrap() []error {
	return e.Failures
}

// failures collects per-file errors during a best-effort delete.
type failures struct {
	errs    []error
	dropped int
}

func (f *failures) add(err error) {
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	if len(f.errs) < maxDeleteFailures {
		f.errs = append(f.errs, err)
		return
	}
	f.dropped++
}

func (f *failures) err(path string) error {
	if len(f.errs) == 0 {
		return nil
	}
	return &PartialDeleteError{Path: path, Failures: f.errs, Dropped: f.dropped}
}

// IsProtected reports whether path equals one of the protected paths, or is an
// ancestor of one. Descendants of a protected path are not protected by this
// check; callers decide which subtrees are fair game.
func IsProtected(path string, protected []string) bool {
	clean := filepath.Clean(path)
	if clean == string(filepath.Separator) || clean == "." || clean == "" {
		return true
	}
	// APFS volumes are case-insensitive by default.
	clean = strings.ToLower(clean)
	for _, p := range protected {
		if p == "" {
			continue
		}
		pc := strings.ToLower(filepath.Clean(p))
		if clean == pc {
			return true
		}
		if rel, err := filepath.Rel(clean, pc); err == nil && rel != ".." && !strings.HasPrefix(rel, "../") {
			return true
		}
	}
	return false
}

// RemoveEntirely deletes path and everything beneath it, continuing past
// entries that can't be removed. A missing path is not an error.
func RemoveEntirely(path string) error {
	var f failures
	removeTree(path, &f)
	return f.err(path)
}

// ClearContents deletes every direct child of dir but keeps dir itself.
// Children for which keep returns true are left alone; keep may be nil.
func ClearContents(dir string, keep func(path string) bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("cannot read %s: %w", dir, err)
	}

	var f failures
	for _, e := range entries {
		child := filepath.Join(dir, e.Name())
		if keep != nil && keep(child) {
			continue
		}
		removeTree(child, &f)
	}
	return f.err(dir)
}

// ClearOlderThan deletes regular files and symlinks under dir whose
// modification time is before cutoff. Directories and newer files are kept,
// as is any entry for which keep returns true.
func ClearOlderThan(dir string, cutoff time.Time, keep func(path string) bool) error {
	var f failures
	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			f.add(err)
			if d != nil && d.IsDir() && p != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if keep != nil && p != dir && keep(p) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			f.add(err)
			return nil
		}
		if info.ModTime().Before(cutoff) {
			f.add(os.Remove(p))
		}
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, fs.ErrNotExist) {
		f.add(walkErr)
	}
	return f.err(dir)
}

// removeTree removes path depth-first, recording every failure instead of
// stopping at the first one.
func removeTree(path string, f *failures) {
	info, err := os.Lstat(path)
	if err != nil {
		f.add(err)
		return
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			f.add(err)
		}
		for _, e := range entries {
			removeTree(filepath.Join(path, e.Name()), f)
		}
	}

	f.add(os.Remove(path))
}
