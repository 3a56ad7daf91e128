package analyze

import (
	"fmt"
	"io"
	"strings"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

// PrintPreflight prints the preflight report as a plain table, largest
// first. Used when stdout is not a terminal or --static is given.
func PrintPreflight(w io.Writer, r *Report) {
	if r == nil || len(r.Entries) == 0 {
		fmt.Fprintf(w, "  Nothing larger than %s to reclaim.\n", core.FormatSize(r.threshold()))
		return
	}

	fmt.Fprintf(w, "  %-10s %-20s %-38s %s\n", "SIZE", "", "ITEM", "SECTION")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 78))
	for _, e := range r.Entries {
		label := e.Label
		if len(label) > 38 {
			label = label[:37] + "…"
		}
		size := core.FormatSize(e.Size)
		if e.Partial {
			size = "≤" + size
		}
		bar := ui.GradientBar(percent(e.Size, r.Total), 20)
		marker := ""
		if e.Confirm {
			marker = " (asks first)"
		}
		if e.Nested {
			marker += " (counted above)"
		}
		fmt.Fprintf(w, "  %-10s %s %-38s %s%s\n", size, bar, label, e.Section, marker)
	}
	fmt.Fprintln(w, "  "+strings.Repeat("-", 78))
	fmt.Fprintf(w, "  Estimated reclaimable: %s", core.FormatSize(r.Total))
	if r.Hidden > 0 {
		fmt.Fprintf(w, "  (%d smaller locations not shown)", r.Hidden)
	}
	fmt.Fprintln(w)
}

// PrintStaticTree prints a directory listing with the largest children
// first, limited to the top 20.
func PrintStaticTree(w io.Writer, root *DirEntry, minSize int64) {
	if root == nil {
		fmt.Fprintln(w, "  No data to display.")
		return
	}

	fmt.Fprintf(w, "  Disk usage: %s\n", root.Path)
	fmt.Fprintln(w, "  "+strings.Repeat("-", 58))

	const maxShow = 20
	shown := 0
	for _, child := range root.Children {
		if minSize > 0 && child.Size < minSize {
			continue
		}
		if shown == maxShow {
			fmt.Fprintf(w, "  \\-- ... and %d more entries\n", len(root.Children)-shown)
			break
		}
		connector := "+-- "
		if shown == len(root.Children)-1 {
			connector = "\\-- "
		}
		marker := ""
		if child.IsDir {
			marker = "/"
		}
		fmt.Fprintf(w, "  %s%-40s %10s  %5.1f%%\n", connector, child.Name+marker, core.FormatSize(child.Size), child.Percentage(root.Size))
		shown++
	}

	fmt.Fprintln(w, "  "+strings.Repeat("-", 58))
	fmt.Fprintf(w, "  Total: %s\n", core.FormatSize(root.Size))
}

func (r *Report) threshold() int64 {
	if r == nil {
		return 0
	}
	return r.Threshold
}

func percent(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
