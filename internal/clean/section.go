package clean

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
)

// Reporter receives progress as a run proceeds.
type Reporter interface {
	SectionStart(s config.Section)
	Result(r Result)
	SectionEnd(s SectionReport)
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) SectionStart(config.Section) {}
func (NopReporter) Result(Result)               {}
func (NopReporter) SectionEnd(SectionReport)    {}

// ─── Section Runner ──────────────────────────────────────────────────────────

// RunSection processes a section's tools, then its targets, then its
// snapshot step. A failing step never stops the ones after it.
func (p *Processor) RunSection(ctx context.Context, s config.Section, rep Reporter) SectionReport {
	if rep == nil {
		rep = NopReporter{}
	}
	sr := SectionReport{Name: s.Name, Title: s.Title}
	rep.SectionStart(s)

	record := func(r Result) {
		sr.Results = append(sr.Results, r)
		rep.Result(r)
	}

	for _, tool := range s.Tools {
		record(p.RunTool(ctx, tool))
	}
	for _, t := range s.Targets {
		record(p.Process(ctx, t))
	}
	if s.Snapshots {
		record(p.RunSnapshots(ctx))
	}

	rep.SectionEnd(sr)
	return sr
}

// Run processes every section in order, bracketed by free-space readings.
// Failing to read the baseline is fatal and nothing is touched. Failing to
// read the final value is recorded as a warning and the actual delta is 0.
func (p *Processor) Run(ctx context.Context, sections []config.Section, rep Reporter) (*RunReport, error) {
	report := &RunReport{DryRun: p.dryRun, StartedAt: p.now()}

	before, err := p.freeSpace(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFreeSpaceUnavailable, err)
	}
	report.FreeBefore = before

	for _, s := range sections {
		report.Sections = append(report.Sections, p.RunSection(ctx, s, rep))
	}

	after, err := p.freeSpace(ctx)
	if err != nil {
		p.log.Warn("reading free space after run", "error", err)
		report.RunWarnings = append(report.RunWarnings, fmt.Errorf("%w after run: %w", ErrFreeSpaceUnavailable, err))
		after = before
	}
	report.FreeAfter = after
	report.FinishedAt = p.now()
	return report, nil
}

// ─── Section Preparation ─────────────────────────────────────────────────────

// Discovery parameterizes the targets that are only known at run time.
type Discovery struct {
	TempMaxAge    time.Duration
	TempThreshold int64
	VolumesDir    string
	UID           int
}

// Prepare fills in run-time targets (temp directories, external volume
// trashes) and expands globbed paths. The input is not modified.
func Prepare(sections []config.Section, d Discovery) []config.Section {
	out := make([]config.Section, 0, len(sections))
	for _, s := range sections {
		targets := slices.Clone(s.Targets)
		switch s.Name {
		case "temp":
			targets = append(targets, TempDirTargets(d.TempMaxAge, d.TempThreshold)...)
		case "trash":
			if d.VolumesDir != "" {
				targets = append(targets, ExternalVolumeTargets(d.VolumesDir, d.UID)...)
			}
		}
		s.Targets = ExpandTargets(targets)
		out = append(out, s)
	}
	return out
}

// Filter keeps the sections named in only (all when empty) minus those in
// skip. Unknown names are an error.
func Filter(sections []config.Section, only, skip []string) ([]config.Section, error) {
	known := make(map[string]bool, len(sections))
	for _, s := range sections {
		known[s.Name] = true
	}
	norm := func(names []string) (map[string]bool, error) {
		set := make(map[string]bool)
		for _, n := range names {
			n = strings.ToLower(strings.TrimSpace(n))
			if n == "" {
				continue
			}
			if !known[n] {
				return nil, fmt.Errorf("unknown section %q (available: %s)", n, strings.Join(sectionNames(sections), ", "))
			}
			set[n] = true
		}
		return set, nil
	}

	onlySet, err := norm(only)
	if err != nil {
		return nil, err
	}
	skipSet, err := norm(skip)
	if err != nil {
		return nil, err
	}

	var out []config.Section
	for _, s := range sections {
		if len(onlySet) > 0 && !onlySet[s.Name] {
			continue
		}
		if skipSet[s.Name] {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func sectionNames(sections []config.Section) []string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	return names
}
