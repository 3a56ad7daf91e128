package clean

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
)

// systemTempDir holds temporary files that survive reboots.
const systemTempDir = "/private/var/tmp"

// ─── Temporary Files ─────────────────────────────────────────────────────────

// TempDirTargets returns age-filtered targets for the per-user and system
// temp directories, deduplicated after resolving symlinks ($TMPDIR and
// os.TempDir usually agree, /var is a link to /private/var).
func TempDirTargets(maxAge time.Duration, threshold int64) []config.Target {
	return tempDirTargets([]string{os.Getenv("TMPDIR"), os.TempDir(), systemTempDir}, maxAge, threshold)
}

func tempDirTargets(dirs []string, maxAge time.Duration, threshold int64) []config.Target {
	seen := make(map[string]bool)
	var targets []config.Target
	for _, d := range dirs {
		if d == "" {
			continue
		}
		resolved, err := filepath.EvalSymlinks(d)
		if err != nil {
			continue
		}
		resolved = filepath.Clean(resolved)
		if seen[resolved] {
			continue
		}
		seen[resolved] = true

		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			continue
		}
		targets = append(targets, config.Target{
			Label:          fmt.Sprintf("Temporary files in %s", resolved),
			Path:           resolved,
			Mode:           config.ClearContents,
			ThresholdBytes: threshold,
			MaxAge:         maxAge,
			Category:       "system",
		})
	}
	return targets
}
