package analyze

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

// ─── Top-level view ──────────────────────────────────────────────────────────

func (m AnalyzeModel) renderView() string {
	if m.quitting {
		return ""
	}
	w := max(m.width, 40)

	var s strings.Builder
	s.WriteString(m.renderHeader(w))
	s.WriteString("\n")

	switch {
	case m.loading != "":
		s.WriteString("  " + m.spinner.View() + " " +
			lipgloss.NewStyle().Foreground(ui.ColorTextDim).Render(m.loading))
	case len(m.rows) == 0:
		s.WriteString(lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  (nothing to show)"))
	default:
		s.WriteString(m.table.View())
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m AnalyzeModel) renderHeader(w int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorCoral).
		Render("  " + ui.IconDiamond + " Reclaimable Space")

	var info, trail string
	if cur := m.current(); cur != nil {
		info = fmt.Sprintf("  %s    %s", cur.Path, core.FormatSize(cur.Size))
		var crumbs []string
		if m.report != nil {
			crumbs = append(crumbs, "report")
		}
		for _, e := range m.stack {
			crumbs = append(crumbs, e.Name)
		}
		trail = strings.Join(crumbs, " "+ui.IconChevron+" ")
	} else if m.report != nil {
		info = fmt.Sprintf("  Estimated total    %s", core.FormatSize(m.report.Total))
		trail = fmt.Sprintf("%d locations above %s", len(m.report.Entries), core.FormatSize(m.report.Threshold))
		if m.report.Hidden > 0 {
			trail += fmt.Sprintf(", %d smaller hidden", m.report.Hidden)
		}
	}

	inner := lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.NewStyle().Foreground(ui.ColorTextDim).Render(info),
		lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  "+trail),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorCoral).
		Width(w - 2).
		Render(inner)
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m AnalyzeModel) renderFooter() string {
	var parts []string

	if m.err != nil {
		parts = append(parts,
			lipgloss.NewStyle().
				Foreground(ui.ColorError).
				Render("  "+ui.IconError+" "+m.err.Error()))
	}

	if m.largeOnly {
		parts = append(parts,
			"  "+ui.TagWarningStyle().Render(" >100 MiB filter "))
	}

	hints := []string{
		"↑↓ nav",
		"→ drill",
		"← back",
		"o reveal",
		"L large",
		"q quit",
	}
	hintStr := strings.Join(hints, " "+ui.IconPipe+" ")
	parts = append(parts, ui.HintBarStyle().Render("  "+hintStr))

	return strings.Join(parts, "\n")
}
