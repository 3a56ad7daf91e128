package clean

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrToolAbsent is returned by a SnapshotManager whose backing tool is not
// installed.
var ErrToolAbsent = errors.New("tool not installed")

// SnapshotManager lists and deletes local filesystem snapshots.
type SnapshotManager interface {
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// snapshotPattern matches Time Machine local snapshot names and captures the
// date that tmutil accepts as an identifier.
var snapshotPattern = regexp.MustCompile(`com\.apple\.TimeMachine\.(\d{4}-\d{2}-\d{2}-\d{6})\.local`)

// snapshotLayout is the time layout of a snapshot identifier.
const snapshotLayout = "2006-01-02-150405"

// ParseSnapshotIDs extracts snapshot identifiers from tmutil listing output,
// in listing order, without duplicates.
func ParseSnapshotIDs(output string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range snapshotPattern.FindAllStringSubmatch(output, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}

// SnapshotTime returns the creation time encoded in a snapshot identifier.
func SnapshotTime(id string) (time.Time, bool) {
	t, err := time.ParseInLocation(snapshotLayout, id, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ─── tmutil ──────────────────────────────────────────────────────────────────

// Tmutil manages APFS local snapshots through tmutil.
type Tmutil struct {
	runner Runner
	volume string
}

// NewTmutil returns a manager for the snapshots of the boot volume.
func NewTmutil(r Runner) *Tmutil {
	return &Tmutil{runner: r, volume: "/"}
}

// List returns the identifiers of every local snapshot on the volume.
func (t *Tmutil) List(ctx context.Context) ([]string, error) {
	exe, err := t.runner.LookPath("tmutil")
	if err != nil {
		return nil, fmt.Errorf("tmutil: %w", ErrToolAbsent)
	}
	out, err := t.runner.Run(ctx, exe, "listlocalsnapshots", t.volume)
	if err != nil {
		return nil, toolError("tmutil", err, out)
	}
	return ParseSnapshotIDs(string(out)), nil
}

// Delete removes one snapshot by identifier.
func (t *Tmutil) Delete(ctx context.Context, id string) error {
	exe, err := t.runner.LookPath("tmutil")
	if err != nil {
		return fmt.Errorf("tmutil: %w", ErrToolAbsent)
	}
	out, err := t.runner.Run(ctx, exe, "deletelocalsnapshots", id)
	if err != nil {
		return toolError("tmutil", err, out)
	}
	return nil
}

// ─── Snapshot Step ───────────────────────────────────────────────────────────

// RunSnapshots deletes every local snapshot after a single confirmation for
// the set. A failed delete is recorded and the rest are still attempted.
func (p *Processor) RunSnapshots(ctx context.Context) Result {
	res := Result{Label: "Local snapshots", Kind: KindSnapshots}

	ids, err := p.snapshots.List(ctx)
	if err != nil {
		if errors.Is(err, ErrToolAbsent) {
			p.log.Debug("snapshot tool not installed")
			return res.skip(SkipToolAbsent)
		}
		p.log.Warn("listing snapshots failed", "error", err)
		res.warn(err)
		res.Outcome = Failed
		return res
	}
	if len(ids) == 0 {
		return res.skip(SkipNotFound)
	}

	noun := "snapshots"
	if len(ids) == 1 {
		noun = "snapshot"
	}
	if !p.confirm.Confirm(fmt.Sprintf("Delete %d local %s?", len(ids), noun)) {
		return res.skip(SkipDeclined)
	}
	if p.dryRun {
		res.Items = len(ids)
		return res.skip(SkipDryRun)
	}

	for _, id := range ids {
		if err := p.snapshots.Delete(ctx, id); err != nil {
			p.log.Warn("deleting snapshot failed", "snapshot", id, "error", err)
			res.warn(fmt.Errorf("snapshot %s: %w", id, err))
			continue
		}
		res.Items++
	}

	if res.Items == 0 {
		res.Outcome = Failed
	} else {
		res.Outcome = Delegated
	}
	return res
}
