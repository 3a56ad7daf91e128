package analyze

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
)

// Entry is one measured location in the preflight report.
type Entry struct {
	Section string `json:"section"`
	Label   string `json:"label"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`

	// Tool is set for package-manager caches that are cleaned by their tool.
	Tool bool `json:"tool,omitempty"`
	// Partial is set for age-filtered targets, where only part of Size would
	// be freed.
	Partial bool `json:"partial,omitempty"`
	// Confirm is set for targets that will prompt before deletion.
	Confirm bool `json:"confirm,omitempty"`
	// Nested is set when another entry's path already encloses this one, so
	// its size is shown but not added to the total.
	Nested bool `json:"nested,omitempty"`

	Err error `json:"-"`
}

// Report is the advisory estimate shown before cleaning. Nothing is modified
// while building it.
type Report struct {
	Entries   []Entry `json:"entries"`
	Total     int64   `json:"estimated_total"`
	Threshold int64   `json:"display_threshold"`
	Hidden    int     `json:"hidden"` // measured but below the threshold
}

// BuildPreflightReport measures every target and measurable tool cache of
// sections with at most workers measurements in flight. Entries larger than
// threshold are kept, largest first, and summed into Total. Entries inside
// another entry's path count once, through the enclosing entry.
func BuildPreflightReport(ctx context.Context, sections []config.Section, threshold int64, workers int) (*Report, error) {
	var entries []Entry
	for _, s := range sections {
		for _, tool := range s.Tools {
			if tool.MeasurePath == "" {
				continue
			}
			entries = append(entries, Entry{Section: s.Name, Label: tool.Label, Path: tool.MeasurePath, Tool: true, Confirm: tool.RequiresConfirmation})
		}
		for _, t := range s.Targets {
			entries = append(entries, Entry{Section: s.Name, Label: t.Label, Path: t.Path, Partial: t.MaxAge > 0, Confirm: t.RequiresConfirmation})
		}
	}

	if workers <= 0 {
		workers = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range entries {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i].Size, entries[i].Err = core.MeasureSize(entries[i].Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	markNested(entries)

	report := &Report{Threshold: threshold}
	for _, e := range entries {
		if e.Size <= threshold || e.Size == 0 {
			report.Hidden++
			continue
		}
		report.Entries = append(report.Entries, e)
		if !e.Nested {
			report.Total += e.Size
		}
	}
	sort.SliceStable(report.Entries, func(i, j int) bool {
		return report.Entries[i].Size > report.Entries[j].Size
	})
	return report, nil
}

// markNested flags entries whose path lies beneath another entry's path. Of
// two entries with the same path, the later one is flagged.
func markNested(entries []Entry) {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = strings.ToLower(filepath.Clean(e.Path))
	}
	for i, p := range paths {
		for j, root := range paths {
			if i == j {
				continue
			}
			if (p == root && j < i) || strings.HasPrefix(p, strings.TrimSuffix(root, "/")+"/") {
				entries[i].Nested = true
				break
			}
		}
	}
}
