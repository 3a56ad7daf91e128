package status

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	clrGreen  = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	clrYellow = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	clrOrange = lipgloss.AdaptiveColor{Light: "#ea580c", Dark: "#fb923c"}
	clrRed    = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	clrCyan   = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
)

// ─── Top-level renderer ─────────────────────────────────────────────────────

func (m StatusModel) renderView() string {
	w := max(m.Width, 50)

	var s strings.Builder
	s.WriteString(m.renderTabs(w))
	s.WriteString("\n")

	if m.Metrics == nil {
		s.WriteString(lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  Collecting metrics…"))
		s.WriteString("\n")
		s.WriteString(m.renderStatusFooter())
		return s.String()
	}

	switch m.Tab {
	case TabOverview:
		s.WriteString(renderOverview(m.Metrics, w, m.FreeHistory))
	case TabVolumes:
		s.WriteString(renderVolumes(m.Metrics, w))
	case TabSnapshots:
		s.WriteString(renderSnapshots(m.Metrics))
	}

	s.WriteString("\n")
	s.WriteString(m.renderStatusFooter())
	return s.String()
}

// RenderStatic writes every section once, for non-interactive use.
func RenderStatic(w io.Writer, met *SystemMetrics, width int) {
	width = max(width, 50)
	fmt.Fprintln(w, renderOverview(met, width, nil))
	fmt.Fprintln(w, renderVolumes(met, width))
	fmt.Fprintln(w, renderSnapshots(met))
}

// ─── Tab bar ─────────────────────────────────────────────────────────────────

func (m StatusModel) renderTabs(w int) string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ui.ColorPrimary).
		Padding(0, 2)

	inactive := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Padding(0, 2)

	var tabs []string
	for i, name := range TabNames {
		label := fmt.Sprintf("%d·%s", i+1, name)
		if Tab(i) == m.Tab {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
	divider := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render(strings.Repeat("─", w))

	return bar + "\n" + divider
}

// ─── Overview ────────────────────────────────────────────────────────────────

func renderOverview(met *SystemMetrics, w int, history []uint64) string {
	boot := met.Boot
	label := Pressure(boot.UsedPercent)
	labelColor := clrGreen
	switch label {
	case "CRITICAL":
		labelColor = clrRed
	case "LOW SPACE":
		labelColor = clrOrange
	case "FAIR":
		labelColor = clrYellow
	}

	headline := lipgloss.NewStyle().
		Bold(true).
		Foreground(labelColor).
		Render(fmt.Sprintf("  %s free  %s", core.FormatSize(int64(boot.Free)), label))

	hw := met.Host
	hwLines := []string{
		fmt.Sprintf("  Computer   %s", hw.Hostname),
		fmt.Sprintf("  OS         %s", hw.OSVersion),
		fmt.Sprintf("  Arch       %s", hw.Architecture),
	}
	if hw.Uptime > 0 {
		hwLines = append(hwLines, fmt.Sprintf("  Uptime     %s", hw.Uptime.Truncate(time.Minute)))
	}
	hwCard := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorSecondary).
		Padding(0, 1).
		Render(strings.Join(hwLines, "\n"))

	barW := 24
	if w > 100 {
		barW = 32
	}
	lines := []string{
		fmt.Sprintf("  DSK  %s  %5.1f%%  %s / %s  (%s)",
			colorBar(boot.UsedPercent, barW), boot.UsedPercent,
			core.FormatSize(int64(boot.Used)), core.FormatSize(int64(boot.Total)), boot.Path),
	}
	if met.Memory.Total > 0 {
		lines = append(lines, fmt.Sprintf("  MEM  %s  %5.1f%%  %s / %s",
			colorBar(met.Memory.UsedPercent, barW), met.Memory.UsedPercent,
			core.FormatSize(int64(met.Memory.Used)), core.FormatSize(int64(met.Memory.Total))))
	}
	lines = append(lines, fmt.Sprintf("  SNP  %d local %s", len(met.Snapshots), pluralize(len(met.Snapshots), "snapshot", "snapshots")))
	if len(history) > 1 {
		lines = append(lines, "  FREE "+sparklineU64(history, 30))
	}

	summaryCard := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, "", headline, "", hwCard, "", summaryCard)
}

// ─── Volumes ─────────────────────────────────────────────────────────────────

func renderVolumes(met *SystemMetrics, w int) string {
	barW := 36
	if w > 110 {
		barW = 48
	}

	lines := []string{"", lipgloss.NewStyle().Bold(true).Foreground(ui.ColorSecondary).Render("  Volumes")}
	for _, v := range append([]core.DiskSpace{met.Boot}, met.Volumes...) {
		lines = append(lines,
			fmt.Sprintf("  %-22s %s  %5.1f%%  %s free of %s",
				truncate(v.Path, 22), colorBar(v.UsedPercent, barW), v.UsedPercent,
				core.FormatSize(int64(v.Free)), core.FormatSize(int64(v.Total))))
	}
	return strings.Join(lines, "\n")
}

// ─── Snapshots ───────────────────────────────────────────────────────────────

func renderSnapshots(met *SystemMetrics) string {
	lines := []string{"", lipgloss.NewStyle().Bold(true).Foreground(ui.ColorSecondary).Render("  Local snapshots")}
	if met.SnapshotNote != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(ui.ColorWarning).Render("  "+ui.IconWarning+" "+met.SnapshotNote))
	}
	if len(met.Snapshots) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Render("  (none)"))
		return strings.Join(lines, "\n")
	}
	for _, s := range met.Snapshots {
		lines = append(lines, fmt.Sprintf("  %s %-20s %s",
			ui.IconBullet, s.ID, lipgloss.NewStyle().Foreground(ui.ColorTextDim).Render(s.Age(met.CollectedAt))))
	}
	return strings.Join(lines, "\n")
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m StatusModel) renderStatusFooter() string {
	hints := "  Tab/Shift-Tab switch  " + ui.IconPipe + "  1-3 jump  " + ui.IconPipe + "  q quit"
	footer := ui.HintBarStyle().Render(hints)

	if m.Err != nil {
		errStr := lipgloss.NewStyle().
			Foreground(ui.ColorError).
			Render("  " + ui.IconError + " " + m.Err.Error())
		return errStr + "\n" + footer
	}
	return footer
}

// ─── Drawing primitives ─────────────────────────────────────────────────────

// colorBar renders a ████░░░░ bar colored by severity.
func colorBar(pct float64, width int) string {
	pct = max(0, min(100, pct))
	filled := min(int(pct/100*float64(width)), width)

	barColor := clrGreen
	switch {
	case pct >= 90:
		barColor = clrRed
	case pct >= 75:
		barColor = clrOrange
	case pct >= 50:
		barColor = clrYellow
	}

	fStr := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled))
	eStr := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(strings.Repeat("░", width-filled))
	return fStr + eStr
}

// sparklineU64 renders a mini chart from uint64 data.
func sparklineU64(data []uint64, width int) string {
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	var minVal, maxVal uint64
	for i, v := range data {
		if i == 0 || v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	span := maxVal - minVal
	if span == 0 {
		span = 1
	}

	d := data
	if len(d) > width {
		d = d[len(d)-width:]
	}

	var b strings.Builder
	for _, v := range d {
		idx := min(int(float64(v-minVal)/float64(span)*7), 7)
		b.WriteRune(blocks[idx])
	}
	for i := len(d); i < width; i++ {
		b.WriteRune(blocks[0])
	}
	return lipgloss.NewStyle().Foreground(clrCyan).Render(b.String())
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
