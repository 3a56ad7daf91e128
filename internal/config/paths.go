package config

import (
	"os"
	"path/filepath"
	"time"
)

// Mode selects how a target is reclaimed.
type Mode int

const (
	// ClearContents deletes everything inside the directory and keeps it.
	ClearContents Mode = iota
	// RemoveEntirely deletes the path itself along with all descendants.
	RemoveEntirely
)

func (m Mode) String() string {
	if m == RemoveEntirely {
		return "remove"
	}
	return "clear"
}

// Target represents one filesystem location that can be reclaimed.
type Target struct {
	// Label is the human-readable name used in reports.
	Label string

	// Path is the absolute location. It may not exist, and may contain a
	// glob that is expanded into one target per match at run time.
	Path string

	// Mode is ClearContents or RemoveEntirely.
	Mode Mode

	// RequiresConfirmation gates the target behind an explicit prompt.
	RequiresConfirmation bool

	// ThresholdBytes skips the target when it is smaller. Zero disables it.
	ThresholdBytes int64

	// MaxAge, when non-zero, turns the target into an age-filtered scan:
	// only files older than MaxAge are removed.
	MaxAge time.Duration

	// Category groups related targets (e.g., "user", "system", "browser", "dev").
	Category string
}

// ToolAction delegates cleanup to a third-party tool's own subcommand.
type ToolAction struct {
	// Tool is the executable looked up on PATH.
	Tool string

	// Args are passed verbatim.
	Args []string

	// Label is the human-readable name used in reports.
	Label string

	// MeasurePath, if set, is measured before and after the call so the
	// freed bytes can be attributed.
	MeasurePath string

	// RequiresConfirmation gates the call behind an explicit prompt.
	RequiresConfirmation bool
}

// Section is a named, ordered group processed together for reporting.
// Tools run first, then targets, then the local snapshot step.
type Section struct {
	Name      string
	Title     string
	Tools     []ToolAction
	Targets   []Target
	Snapshots bool
}

const mb = int64(1) << 20

// userHome returns the user's home directory.
func userHome() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

// GetSections returns the full cleanup table for the given home directory,
// in run order.
func GetSections(home string) []Section {
	if home == "" {
		home = userHome()
	}
	lib := filepath.Join(home, "Library")
	caches := filepath.Join(lib, "Caches")
	appSupport := filepath.Join(lib, "Application Support")
	developer := filepath.Join(lib, "Developer")
	// Chromium browsers keep one directory per profile ("Default", "Profile 1").
	chrome := filepath.Join(appSupport, "Google", "Chrome")
	brave := filepath.Join(appSupport, "BraveSoftware", "Brave-Browser")
	edge := filepath.Join(appSupport, "Microsoft Edge")

	return []Section{
		// ── User Caches ─────────────────────────────────────────
		{
			Name:  "caches",
			Title: "User Caches",
			Targets: []Target{
				{Label: "User cache files", Path: caches, Mode: ClearContents, Category: "user"},
			},
		},

		// ── Logs ────────────────────────────────────────────────
		{
			Name:  "logs",
			Title: "Logs & Crash Reports",
			Targets: []Target{
				{Label: "User logs", Path: filepath.Join(lib, "Logs"), Mode: ClearContents, Category: "user"},
				{Label: "System diagnostic reports", Path: "/Library/Logs/DiagnosticReports", Mode: ClearContents, Category: "system"},
				{Label: "Old system logs", Path: "/Library/Logs", Mode: ClearContents, MaxAge: 7 * 24 * time.Hour, Category: "system"},
			},
		},

		// ── Browser Caches ──────────────────────────────────────
		{
			Name:  "browsers",
			Title: "Browser Caches",
			Targets: []Target{
				{Label: "Chrome cache", Path: filepath.Join(chrome, "*", "Cache"), Mode: ClearContents, Category: "browser"},
				{Label: "Chrome code cache", Path: filepath.Join(chrome, "*", "Code Cache"), Mode: ClearContents, Category: "browser"},
				{Label: "Chrome GPU cache", Path: filepath.Join(chrome, "*", "GPUCache"), Mode: ClearContents, Category: "browser"},
				{Label: "Brave cache", Path: filepath.Join(brave, "*", "Cache"), Mode: ClearContents, Category: "browser"},
				{Label: "Brave code cache", Path: filepath.Join(brave, "*", "Code Cache"), Mode: ClearContents, Category: "browser"},
				{Label: "Brave GPU cache", Path: filepath.Join(brave, "*", "GPUCache"), Mode: ClearContents, Category: "browser"},
				{Label: "Edge cache", Path: filepath.Join(edge, "*", "Cache"), Mode: ClearContents, Category: "browser"},
				{Label: "Edge code cache", Path: filepath.Join(edge, "*", "Code Cache"), Mode: ClearContents, Category: "browser"},
				{Label: "Edge GPU cache", Path: filepath.Join(edge, "*", "GPUCache"), Mode: ClearContents, Category: "browser"},
				{Label: "Firefox cache", Path: filepath.Join(caches, "Firefox", "Profiles", "*", "cache2"), Mode: ClearContents, Category: "browser"},
			},
		},

		// ── Developer Tools ─────────────────────────────────────
		{
			Name:  "xcode",
			Title: "Xcode & Simulators",
			Targets: []Target{
				{Label: "Xcode DerivedData", Path: filepath.Join(developer, "Xcode", "DerivedData"), Mode: ClearContents, Category: "dev"},
				{Label: "Simulator caches", Path: filepath.Join(developer, "CoreSimulator", "Caches"), Mode: ClearContents, Category: "dev"},
				{Label: "iOS DeviceSupport", Path: filepath.Join(developer, "Xcode", "iOS DeviceSupport"), Mode: ClearContents, ThresholdBytes: 100 * mb, Category: "dev"},
				{Label: "Xcode archives", Path: filepath.Join(developer, "Xcode", "Archives"), Mode: ClearContents, RequiresConfirmation: true, Category: "backup"},
			},
		},

		// ── Package Managers ────────────────────────────────────
		{
			Name:  "packages",
			Title: "Package Managers",
			Tools: []ToolAction{
				{Tool: "brew", Args: []string{"cleanup", "--prune=all", "-s"}, Label: "Homebrew cleanup", MeasurePath: filepath.Join(caches, "Homebrew")},
				{Tool: "npm", Args: []string{"cache", "clean", "--force"}, Label: "npm cache", MeasurePath: filepath.Join(home, ".npm", "_cacache")},
				{Tool: "yarn", Args: []string{"cache", "clean"}, Label: "Yarn cache", MeasurePath: filepath.Join(caches, "Yarn")},
				{Tool: "pnpm", Args: []string{"store", "prune"}, Label: "pnpm store", MeasurePath: filepath.Join(lib, "pnpm", "store")},
				{Tool: "pip3", Args: []string{"cache", "purge"}, Label: "pip cache", MeasurePath: filepath.Join(caches, "pip")},
				{Tool: "gem", Args: []string{"cleanup"}, Label: "RubyGems old versions"},
			},
		},

		// ── Containers ──────────────────────────────────────────
		{
			Name:  "docker",
			Title: "Docker",
			Tools: []ToolAction{
				{Tool: "docker", Args: []string{"system", "prune", "-f"}, Label: "Docker unused data", RequiresConfirmation: true},
			},
		},

		// ── Device Backups ──────────────────────────────────────
		{
			Name:  "backups",
			Title: "iOS Device Backups",
			Targets: []Target{
				{Label: "iOS device backups", Path: filepath.Join(appSupport, "MobileSync", "Backup"), Mode: ClearContents, RequiresConfirmation: true, Category: "backup"},
			},
		},

		// ── Local Snapshots ─────────────────────────────────────
		{
			Name:      "snapshots",
			Title:     "Time Machine Local Snapshots",
			Snapshots: true,
		},

		// ── Temporary Files ─────────────────────────────────────
		// Filled in at run time by clean.TempDirTargets; the directories
		// depend on $TMPDIR and symlink resolution.
		{
			Name:  "temp",
			Title: "Old Temporary Files",
		},

		// ── Mail ────────────────────────────────────────────────
		{
			Name:  "mail",
			Title: "Mail Downloads",
			Targets: []Target{
				{Label: "Mail attachments cache", Path: filepath.Join(lib, "Containers", "com.apple.mail", "Data", "Library", "Mail Downloads"), Mode: ClearContents, Category: "user"},
			},
		},

		// ── Trash ───────────────────────────────────────────────
		{
			Name:  "trash",
			Title: "Trash",
			Targets: []Target{
				{Label: "User Trash", Path: filepath.Join(home, ".Trash"), Mode: ClearContents, Category: "trash"},
			},
		},
	}
}

// SectionNames returns the names of every section in run order.
func SectionNames() []string {
	var names []string
	for _, s := range GetSections("/nonexistent") {
		names = append(names, s.Name)
	}
	return names
}

// GetNeverDeletePaths returns paths that must NEVER be deleted under any
// circumstances, nor any of their ancestors.
func GetNeverDeletePaths(home string) []string {
	if home == "" {
		home = userHome()
	}
	lib := filepath.Join(home, "Library")
	return []string{
		"/System",
		"/Library",
		"/Applications",
		"/usr",
		"/bin",
		"/sbin",
		"/private/etc",
		"/private/var/db",
		"/Volumes",
		home,
		lib,
		filepath.Join(lib, "Application Support"),
		filepath.Join(lib, "Containers"),
		filepath.Join(lib, "Mobile Documents"),
		filepath.Join(lib, "Keychains"),
		filepath.Join(home, "Documents"),
		filepath.Join(home, "Desktop"),
		filepath.Join(home, "Pictures"),
	}
}
