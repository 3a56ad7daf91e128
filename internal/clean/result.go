package clean

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ─── Outcomes ────────────────────────────────────────────────────────────────

// Outcome is the terminal state of one processed target, tool or snapshot step.
type Outcome int

const (
	// Cleaned means bytes were freed.
	Cleaned Outcome = iota
	// AlreadyClean means the step ran but there was nothing to free.
	AlreadyClean
	// Skipped means nothing was touched; Reason says why.
	Skipped
	// Delegated means an external tool did the work and the amount freed is
	// unknown.
	Delegated
	// Failed means deletion was attempted, nothing was freed and errors were
	// recorded.
	Failed
)

var outcomeNames = map[Outcome]string{
	Cleaned:      "cleaned",
	AlreadyClean: "already_clean",
	Skipped:      "skipped",
	Delegated:    "delegated",
	Failed:       "failed",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MarshalText renders the outcome by name in JSON reports.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// SkipReason qualifies a Skipped outcome.
type SkipReason int

const (
	NoReason SkipReason = iota
	SkipNotFound
	SkipBelowThreshold
	SkipDeclined
	SkipDryRun
	SkipProtected
	SkipWhitelisted
	SkipToolAbsent
)

var reasonNames = map[SkipReason]string{
	NoReason:           "",
	SkipNotFound:       "not_found",
	SkipBelowThreshold: "below_threshold",
	SkipDeclined:       "declined",
	SkipDryRun:         "dry_run",
	SkipProtected:      "protected",
	SkipWhitelisted:    "whitelisted",
	SkipToolAbsent:     "tool_absent",
}

func (r SkipReason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// MarshalText renders the reason by name in JSON reports.
func (r SkipReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Kind tells what produced a Result.
type Kind string

const (
	KindTarget    Kind = "target"
	KindTool      Kind = "tool"
	KindSnapshots Kind = "snapshots"
)

// ─── Result ──────────────────────────────────────────────────────────────────

// Result is the per-step record produced by the processor.
type Result struct {
	Label      string     `json:"label"`
	Path       string     `json:"path,omitempty"`
	Kind       Kind       `json:"kind"`
	Outcome    Outcome    `json:"outcome"`
	Reason     SkipReason `json:"reason,omitempty"`
	SizeBefore int64      `json:"size_before"`
	SizeAfter  int64      `json:"size_after"`
	Freed      int64      `json:"freed"`
	Items      int        `json:"items,omitempty"`
	Warnings   []error    `json:"-"`
}

// MarshalJSON adds the warnings as plain strings.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	warnings := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		warnings = append(warnings, w.Error())
	}
	return json.Marshal(struct {
		plain
		Warnings []string `json:"warnings,omitempty"`
	}{plain(r), warnings})
}

func (r Result) skip(reason SkipReason) Result {
	r.Outcome = Skipped
	r.Reason = reason
	return r
}

func (r *Result) warn(err error) {
	if err != nil {
		r.Warnings = append(r.Warnings, err)
	}
}

// ─── Error Taxonomy ──────────────────────────────────────────────────────────

// ErrFreeSpaceUnavailable is returned by Run when the free-space baseline
// can't be read. It aborts the whole run before anything is touched.
var ErrFreeSpaceUnavailable = errors.New("free space unavailable")

// MeasurementError is a soft failure while sizing a path. The size that
// accompanies it is the best-effort sum of what could be read.
type MeasurementError struct {
	Path string
	Err  error
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("measuring %s: %v", e.Path, e.Err)
}

func (e *MeasurementError) Unwrap() error { return e.Err }

// ToolError reports an external tool that ran but exited non-zero, or could
// not be started.
type ToolError struct {
	Tool     string
	ExitCode int    // -1 when the process never ran to exit
	Output   string // combined output, truncated
	Err      error
}

func (e *ToolError) Error() string {
	switch {
	case e.ExitCode >= 0 && e.Output != "":
		return fmt.Sprintf("%s failed (exit code %d): %s", e.Tool, e.ExitCode, e.Output)
	case e.ExitCode >= 0:
		return fmt.Sprintf("%s failed (exit code %d)", e.Tool, e.ExitCode)
	default:
		return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	}
}

func (e *ToolError) Unwrap() error { return e.Err }
