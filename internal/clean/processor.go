package clean

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/pkg/whitelist"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// declineAll is used when no Confirmer is configured.
type declineAll struct{}

func (declineAll) Confirm(string) bool { return false }

// FreeSpaceFunc returns the bytes currently free on the volume being cleaned.
type FreeSpaceFunc func(ctx context.Context) (uint64, error)

// Options configures a Processor. Zero values select the host defaults.
type Options struct {
	DryRun    bool
	Protected []string
	Whitelist *whitelist.Whitelist
	Confirmer Confirmer
	Runner    Runner
	Snapshots SnapshotManager
	FreeSpace FreeSpaceFunc
	Logger    *slog.Logger
	Now       func() time.Time
}

// Processor measures, confirms, deletes and accounts for reclaimable targets.
// It is not safe for concurrent use; cleanup runs strictly in order.
type Processor struct {
	dryRun    bool
	protected []string
	wl        *whitelist.Whitelist
	confirm   Confirmer
	runner    Runner
	snapshots SnapshotManager
	freeSpace FreeSpaceFunc
	log       *slog.Logger
	now       func() time.Time
}

// NewProcessor builds a Processor from opts.
func NewProcessor(opts Options) *Processor {
	p := &Processor{
		dryRun:    opts.DryRun,
		protected: opts.Protected,
		wl:        opts.Whitelist,
		confirm:   opts.Confirmer,
		runner:    opts.Runner,
		snapshots: opts.Snapshots,
		freeSpace: opts.FreeSpace,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if p.protected == nil {
		p.protected = config.GetNeverDeletePaths("")
	}
	p.protected = withResolved(p.protected)
	if p.confirm == nil {
		p.confirm = declineAll{}
	}
	if p.runner == nil {
		p.runner = ExecRunner{}
	}
	if p.snapshots == nil {
		p.snapshots = NewTmutil(p.runner)
	}
	if p.freeSpace == nil {
		p.freeSpace = func(ctx context.Context) (uint64, error) {
			return core.FreeSpace(ctx, "/")
		}
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// ─── Target Processing ───────────────────────────────────────────────────────

// Process reclaims one target and reports what happened. It never returns an
// error: soft failures are logged and attached to the result as warnings.
func (p *Processor) Process(_ context.Context, t config.Target) Result {
	path := resolveTarget(t.Path)
	res := Result{Label: t.Label, Path: path, Kind: KindTarget}

	if core.IsProtected(path, p.protected) {
		p.log.Warn("refusing protected path", "path", path)
		res.warn(fmt.Errorf("%w: %s", core.ErrProtectedPath, path))
		return res.skip(SkipProtected)
	}
	if p.wl.IsWhitelisted(path) || (t.Mode == config.RemoveEntirely && p.wl.Contains(path)) {
		return res.skip(SkipWhitelisted)
	}

	if _, err := os.Lstat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			res.warn(&MeasurementError{Path: path, Err: err})
			p.log.Warn("cannot stat target", "path", path, "error", err)
		}
		return res.skip(SkipNotFound)
	}

	before := p.measure(&res, path)
	res.SizeBefore = before

	if t.ThresholdBytes > 0 && before < t.ThresholdBytes {
		return res.skip(SkipBelowThreshold)
	}

	if t.RequiresConfirmation {
		msg := fmt.Sprintf("Delete %s (%s)?", t.Label, core.FormatSize(before))
		if !p.confirm.Confirm(msg) {
			return res.skip(SkipDeclined)
		}
	}

	if p.dryRun {
		return res.skip(SkipDryRun)
	}

	delErr := p.delete(t, path)
	if delErr != nil {
		p.log.Warn("partial delete", "path", path, "error", delErr)
		res.warn(delErr)
	}

	var after int64
	if _, err := os.Lstat(path); err == nil {
		after = p.measure(&res, path)
	}
	res.SizeAfter = after
	res.Freed = max(0, before-after)

	switch {
	case res.Freed > 0:
		res.Outcome = Cleaned
	case delErr != nil:
		res.Outcome = Failed
	default:
		res.Outcome = AlreadyClean
	}
	return res
}

// resolveTarget cleans path and follows symlinks, so measurement, the
// protection checks and deletion all see the directory that is actually
// emptied. Paths that can't be resolved (missing, dangling) are returned as is.
func resolveTarget(path string) string {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// withResolved adds the resolved form of every path that is reached through
// a symlink.
func withResolved(paths []string) []string {
	out := slices.Clone(paths)
	for _, p := range paths {
		if r := resolveTarget(p); r != filepath.Clean(p) {
			out = append(out, r)
		}
	}
	return out
}

// delete applies the target's mode. Whitelisted children survive in every
// mode that keeps the directory.
func (p *Processor) delete(t config.Target, path string) error {
	keep := p.wl.Keeps
	switch {
	case t.MaxAge > 0:
		return core.ClearOlderThan(path, p.now().Add(-t.MaxAge), keep)
	case t.Mode == config.RemoveEntirely:
		return core.RemoveEntirely(path)
	default:
		return core.ClearContents(path, keep)
	}
}

// measure sizes path, recording any soft failure on res.
func (p *Processor) measure(res *Result, path string) int64 {
	n, err := core.MeasureSize(path)
	if err != nil {
		merr := &MeasurementError{Path: path, Err: err}
		p.log.Warn("measurement incomplete", "path", path, "error", err)
		res.warn(merr)
	}
	return n
}
