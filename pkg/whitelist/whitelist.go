// Package whitelist matches paths the user has asked never to clean.
package whitelist

import (
	"path/filepath"
	"strings"
)

// Whitelist holds protected path patterns. A pattern protects the path it
// names and everything beneath it; patterns may use filepath.Match globs.
type Whitelist struct {
	patterns []string
}

// New builds a Whitelist from already-expanded patterns. Empty entries are
// ignored.
func New(patterns []string) *Whitelist {
	wl := &Whitelist{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		wl.patterns = append(wl.patterns, p)
		// A literal pattern naming a symlink also protects where it points.
		if !hasMeta(p) {
			if r, err := filepath.EvalSymlinks(p); err == nil && r != p {
				wl.patterns = append(wl.patterns, r)
			}
		}
	}
	return wl
}

// Patterns returns a copy of the configured patterns.
func (w *Whitelist) Patterns() []string {
	if w == nil {
		return nil
	}
	return append([]string(nil), w.patterns...)
}

// IsWhitelisted reports whether path, or any of its ancestors, matches a
// pattern. Comparison is case-insensitive to match the default APFS volume.
func (w *Whitelist) IsWhitelisted(path string) bool {
	if w == nil || len(w.patterns) == 0 {
		return false
	}
	target := strings.ToLower(filepath.Clean(path))

	for _, pat := range w.patterns {
		lp := strings.ToLower(pat)
		if within(target, lp) {
			return true
		}
		if hasMeta(lp) && matchAncestors(lp, target) {
			return true
		}
	}
	return false
}

// Contains reports whether a pattern lies strictly beneath path, meaning
// removing path wholesale would take a protected entry with it.
func (w *Whitelist) Contains(path string) bool {
	if w == nil || len(w.patterns) == 0 {
		return false
	}
	target := strings.ToLower(filepath.Clean(path))

	for _, pat := range w.patterns {
		lp := strings.ToLower(pat)
		if lp != target && within(lp, target) {
			return true
		}
		if hasMeta(lp) && matchesBeneath(lp, target) {
			return true
		}
	}
	return false
}

// Keeps reports whether path must survive a clean of its parent: it is
// whitelisted itself or holds a whitelisted entry.
func (w *Whitelist) Keeps(path string) bool {
	return w.IsWhitelisted(path) || w.Contains(path)
}

// within reports whether p equals root or lies beneath it.
func within(p, root string) bool {
	if p == root {
		return true
	}
	return strings.HasPrefix(p, strings.TrimSuffix(root, "/")+"/")
}

// matchAncestors tries the glob against path and each of its parents.
func matchAncestors(pattern, path string) bool {
	for p := path; ; p = filepath.Dir(p) {
		if ok, _ := filepath.Match(pattern, p); ok {
			return true
		}
		parent := filepath.Dir(p)
		if parent == p {
			return false
		}
	}
}

// matchesBeneath reports whether a glob could match an entry strictly below
// root: it has more components than root and its leading components match
// root's one by one.
func matchesBeneath(pattern, root string) bool {
	pc := strings.Split(strings.Trim(pattern, "/"), "/")
	rc := strings.Split(strings.Trim(root, "/"), "/")
	if root == "/" {
		rc = nil
	}
	if len(pc) <= len(rc) {
		return false
	}
	for i, c := range rc {
		if ok, _ := filepath.Match(pc[i], c); !ok {
			return false
		}
	}
	return true
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, `*?[`)
}
