package clean

import (
	"encoding/json"
	"time"
)

// SectionReport holds the results of one section, in processing order.
type SectionReport struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Results []Result `json:"results"`
}

// Freed sums the bytes freed by the section.
func (s SectionReport) Freed() int64 {
	var n int64
	for _, r := range s.Results {
		n += r.Freed
	}
	return n
}

// RunReport summarizes a whole cleanup run. The estimate is the sum of
// per-target measurements; the actual figure is the free-space delta seen by
// the OS. They can disagree and both are kept.
type RunReport struct {
	Sections   []SectionReport `json:"sections"`
	DryRun     bool            `json:"dry_run"`
	FreeBefore uint64          `json:"free_before"`
	FreeAfter  uint64          `json:"free_after"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`

	// RunWarnings are failures that belong to the run rather than a target,
	// such as the final free-space read.
	RunWarnings []error `json:"-"`
}

// EstimatedTotalFreed is the sum of the bytes freed by every target.
func (r *RunReport) EstimatedTotalFreed() int64 {
	var n int64
	for _, s := range r.Sections {
		n += s.Freed()
	}
	return n
}

// ActualFreedBytes is the growth in free space over the run, never negative.
func (r *RunReport) ActualFreedBytes() int64 {
	if r.FreeAfter <= r.FreeBefore {
		return 0
	}
	return int64(r.FreeAfter - r.FreeBefore)
}

// WouldFree sums the sizes of targets skipped only because of dry-run.
func (r *RunReport) WouldFree() int64 {
	var n int64
	for _, s := range r.Sections {
		for _, res := range s.Results {
			if res.Outcome == Skipped && res.Reason == SkipDryRun {
				n += res.SizeBefore
			}
		}
	}
	return n
}

// PerTargetFreed maps each label to the bytes it freed. Absent and already
// empty targets map to zero.
func (r *RunReport) PerTargetFreed() map[string]int64 {
	m := make(map[string]int64)
	for _, s := range r.Sections {
		for _, res := range s.Results {
			m[res.Label] += res.Freed
		}
	}
	return m
}

// Warnings returns every soft failure of the run, target warnings first.
func (r *RunReport) Warnings() []error {
	var out []error
	for _, s := range r.Sections {
		for _, res := range s.Results {
			out = append(out, res.Warnings...)
		}
	}
	return append(out, r.RunWarnings...)
}

// MarshalJSON includes the derived totals.
func (r *RunReport) MarshalJSON() ([]byte, error) {
	type plain RunReport
	warnings := []string{}
	for _, w := range r.Warnings() {
		warnings = append(warnings, w.Error())
	}
	return json.Marshal(struct {
		*plain
		EstimatedFreed int64            `json:"estimated_freed"`
		ActualFreed    int64            `json:"actual_freed"`
		WouldFree      int64            `json:"would_free,omitempty"`
		PerTarget      map[string]int64 `json:"per_target_freed"`
		Warnings       []string         `json:"warnings"`
	}{
		plain:          (*plain)(r),
		EstimatedFreed: r.EstimatedTotalFreed(),
		ActualFreed:    r.ActualFreedBytes(),
		WouldFree:      r.WouldFree(),
		PerTarget:      r.PerTargetFreed(),
		Warnings:       warnings,
	})
}
