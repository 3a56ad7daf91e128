package clean

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
)

// ─── External Volumes ────────────────────────────────────────────────────────

// ExternalVolumeTargets returns the per-user trash of every volume mounted
// under volumesDir. Symlinked entries are skipped since the boot volume shows
// up as a link to "/" and is already covered by the user trash.
func ExternalVolumeTargets(volumesDir string, uid int) []config.Target {
	entries, err := os.ReadDir(volumesDir)
	if err != nil {
		return nil
	}

	var targets []config.Target
	for _, e := range entries {
		if e.Type()&fs.ModeSymlink != 0 || !e.IsDir() {
			continue
		}
		trash := filepath.Join(volumesDir, e.Name(), ".Trashes", strconv.Itoa(uid))
		info, err := os.Stat(trash)
		if err != nil || !info.IsDir() {
			continue
		}
		targets = append(targets, config.Target{
			Label:    "Trash on " + e.Name(),
			Path:     trash,
			Mode:     config.ClearContents,
			Category: "trash",
		})
	}
	return targets
}

// ─── Glob Expansion ──────────────────────────────────────────────────────────

// ExpandTargets replaces every target whose path contains a glob with one
// target per match. The label of each expansion is suffixed with the path
// elements the wildcards matched. Globs with no match are dropped.
func ExpandTargets(targets []config.Target) []config.Target {
	out := make([]config.Target, 0, len(targets))
	for _, t := range targets {
		if !hasGlob(t.Path) {
			out = append(out, t)
			continue
		}
		matches, err := filepath.Glob(t.Path)
		if err != nil {
			out = append(out, t)
			continue
		}
		for _, m := range matches {
			e := t
			e.Path = m
			if suffix := globSuffix(t.Path, m); suffix != "" {
				e.Label = fmt.Sprintf("%s (%s)", t.Label, suffix)
			}
			out = append(out, e)
		}
	}
	return out
}

func hasGlob(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

// globSuffix returns the elements of match that correspond to wildcard
// elements of pattern, joined with "/".
func globSuffix(pattern, match string) string {
	sep := string(filepath.Separator)
	pp := strings.Split(filepath.Clean(pattern), sep)
	mp := strings.Split(filepath.Clean(match), sep)
	if len(pp) != len(mp) {
		return filepath.Base(match)
	}
	var parts []string
	for i := range pp {
		if hasGlob(pp[i]) {
			parts = append(parts, mp[i])
		}
	}
	return strings.Join(parts, "/")
}
