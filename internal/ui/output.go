package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/macmole/internal/clean"
	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
)

// divergenceRatio is how far the estimate and the free-space delta may drift
// apart before the summary explains why.
const divergenceRatio = 0.2

// Printer renders cleanup progress and the final summary. It implements
// clean.Reporter.
type Printer struct {
	out   io.Writer
	debug bool
}

// NewPrinter writes to out (os.Stdout when nil). With debug set, silent
// skips such as absent tools are shown too.
func NewPrinter(out io.Writer, debug bool) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out, debug: debug}
}

var (
	styleOK    = lipgloss.NewStyle().Foreground(ColorSuccess)
	styleWarn  = lipgloss.NewStyle().Foreground(ColorWarning)
	styleErr   = lipgloss.NewStyle().Foreground(ColorError)
	styleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	styleSize  = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	styleInfo  = lipgloss.NewStyle().Foreground(ColorPrimary)
)

// Banner prints the tool title.
func (p *Printer) Banner(title string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, lipgloss.NewStyle().Bold(true).Foreground(ColorCoral).Render("  "+IconDiamond+" "+title))
}

// Infof prints an informational line.
func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintln(p.out, "  "+styleInfo.Render(IconArrow)+" "+fmt.Sprintf(format, args...))
}

// ─── clean.Reporter ──────────────────────────────────────────────────────────

func (p *Printer) SectionStart(s config.Section) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, SectionHeaderStyle().Render("  "+IconChevron+" "+s.Title))
}

func (p *Printer) Result(r clean.Result) {
	line, ok := p.resultLine(r)
	if !ok {
		return
	}
	if n := len(r.Warnings); n > 0 {
		line += styleWarn.Render(fmt.Sprintf("  (%d %s)", n, plural(n, "warning", "warnings")))
	}
	fmt.Fprintln(p.out, "    "+line)
}

func (p *Printer) SectionEnd(s clean.SectionReport) {
	if freed := s.Freed(); freed > 0 {
		fmt.Fprintln(p.out, "    "+styleMuted.Render("section total ")+styleSize.Render(core.FormatSize(freed)))
	}
}

// resultLine formats one result; ok is false for results that are only shown
// in debug mode.
func (p *Printer) resultLine(r clean.Result) (string, bool) {
	label := r.Label
	switch r.Outcome {
	case clean.Cleaned:
		return styleOK.Render(IconSuccess) + " " + label + "  " + styleSize.Render(core.FormatSize(r.Freed)), true
	case clean.AlreadyClean:
		return styleOK.Render(IconSuccess) + " " + label + "  " + styleMuted.Render("already clean"), true
	case clean.Delegated:
		detail := "done"
		if r.Kind == clean.KindSnapshots {
			detail = fmt.Sprintf("deleted %d %s", r.Items, plural(r.Items, "snapshot", "snapshots"))
		}
		return styleOK.Render(IconSuccess) + " " + label + "  " + styleMuted.Render(detail), true
	case clean.Failed:
		return styleErr.Render(IconError) + " " + label + "  " + styleErr.Render("failed"), true
	}

	// Skipped.
	skip := styleMuted.Render(IconSkip) + " " + label + "  "
	switch r.Reason {
	case clean.SkipNotFound:
		return skip + styleMuted.Render("not found"), p.debug
	case clean.SkipToolAbsent:
		return skip + styleMuted.Render("not installed"), p.debug
	case clean.SkipBelowThreshold:
		return skip + styleMuted.Render("only "+core.FormatSize(r.SizeBefore)+", below threshold"), true
	case clean.SkipDeclined:
		return skip + styleMuted.Render("skipped"), true
	case clean.SkipDryRun:
		what := "would free " + core.FormatSize(r.SizeBefore)
		if r.Kind == clean.KindSnapshots {
			what = fmt.Sprintf("would delete %d %s", r.Items, plural(r.Items, "snapshot", "snapshots"))
		} else if r.Kind == clean.KindTool {
			what = "would run"
		}
		return styleInfo.Render(IconArrow) + " " + label + "  " + styleSize.Render(what), true
	case clean.SkipProtected:
		return styleWarn.Render(IconWarning) + " " + label + "  " + styleWarn.Render("protected path, skipped"), true
	case clean.SkipWhitelisted:
		return skip + styleMuted.Render("whitelisted"), true
	}
	return skip + styleMuted.Render(r.Reason.String()), true
}

// ─── Summary ─────────────────────────────────────────────────────────────────

// Summary prints the totals of a run. freeNow is the current free space, or
// zero when unknown.
func (p *Printer) Summary(r *clean.RunReport, freeNow uint64) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, styleMuted.Render("  "+strings.Repeat("─", 50)))

	if r.DryRun {
		fmt.Fprintf(p.out, "  Dry run, nothing was deleted. Would free %s\n", styleSize.Render(core.FormatSize(r.WouldFree())))
	} else {
		est := r.EstimatedTotalFreed()
		act := r.ActualFreedBytes()
		fmt.Fprintf(p.out, "  Estimated freed   %s\n", styleSize.Render(core.FormatSize(est)))
		fmt.Fprintf(p.out, "  Free space delta  %s\n", styleSize.Render(core.FormatSize(act)))
		if note := DivergenceNote(est, act); note != "" {
			fmt.Fprintln(p.out, "  "+styleMuted.Render(note))
		}
	}
	if freeNow > 0 {
		fmt.Fprintf(p.out, "  Free space now    %s\n", core.FormatSize(int64(freeNow)))
	}

	warnings := r.Warnings()
	if len(warnings) > 0 {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, styleWarn.Render(fmt.Sprintf("  %d %s:", len(warnings), plural(len(warnings), "warning", "warnings"))))
		for _, w := range warnings {
			fmt.Fprintln(p.out, "    "+styleWarn.Render(IconWarning)+" "+w.Error())
		}
	}
	fmt.Fprintln(p.out)
}

// DivergenceNote explains a large gap between the per-target estimate and
// the observed free-space delta. It returns "" when they roughly agree.
func DivergenceNote(estimated, actual int64) string {
	hi := max(estimated, actual)
	if hi == 0 {
		return ""
	}
	diff := estimated - actual
	if diff < 0 {
		diff = -diff
	}
	if float64(diff)/float64(hi) <= divergenceRatio {
		return ""
	}
	if actual < estimated {
		return "Less space was returned than deleted. Local snapshots, hard links or open files can hold blocks until they are released."
	}
	return "More space was returned than measured. Other processes or purgeable space may have changed free space during the run."
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
