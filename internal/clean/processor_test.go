package clean

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/pkg/whitelist"
)

const mib = 1 << 20

func approx(t *testing.T, got, want, slack int64) {
	t.Helper()
	if got < want-slack || got > want+slack {
		t.Errorf("expected ~%d bytes (±%d), got %d", want, slack, got)
	}
}

func TestProcess_NotFound(t *testing.T) {
	p := newTestProcessor(t, Options{})
	res := p.Process(context.Background(), config.Target{
		Label: "missing",
		Path:  filepath.Join(t.TempDir(), "does-not-exist"),
	})
	if res.Outcome != Skipped || res.Reason != SkipNotFound {
		t.Fatalf("expected Skipped(NotFound), got %s(%s)", res.Outcome, res.Reason)
	}
	if res.Freed != 0 {
		t.Errorf("expected freed 0, got %d", res.Freed)
	}
}

func TestProcess_ClearContents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	writeRandom(t, filepath.Join(dir, "a.bin"), 6*mib)
	writeRandom(t, filepath.Join(dir, "nested", "b.bin"), 4*mib)

	p := newTestProcessor(t, Options{})
	res := p.Process(context.Background(), config.Target{Label: "cache", Path: dir, Mode: config.ClearContents})

	if res.Outcome != Cleaned {
		t.Fatalf("expected Cleaned, got %s (warnings %v)", res.Outcome, res.Warnings)
	}
	approx(t, res.Freed, 10*mib, mib/2)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("expected directory to survive: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, got %d entries", len(entries))
	}
}

func TestProcess_RemoveEntirely(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "derived")
	writeRandom(t, filepath.Join(dir, "x", "big.bin"), 8*mib)

	p := newTestProcessor(t, Options{})
	res := p.Process(context.Background(), config.Target{Label: "derived", Path: dir, Mode: config.RemoveEntirely})

	if res.Outcome != Cleaned {
		t.Fatalf("expected Cleaned, got %s", res.Outcome)
	}
	if res.SizeAfter != 0 {
		t.Errorf("expected size after 0, got %d", res.SizeAfter)
	}
	approx(t, res.Freed, 8*mib, mib/2)
	if _, err := os.Lstat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected path to be gone, got %v", err)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeRandom(t, filepath.Join(dir, "f"), mib)

	p := newTestProcessor(t, Options{})
	target := config.Target{Label: "dir", Path: dir}
	first := p.Process(context.Background(), target)
	second := p.Process(context.Background(), target)

	if first.Outcome != Cleaned {
		t.Fatalf("expected first run Cleaned, got %s", first.Outcome)
	}
	if second.Outcome != AlreadyClean || second.Freed != 0 {
		t.Errorf("expected second run AlreadyClean with 0 freed, got %s with %d", second.Outcome, second.Freed)
	}
}

func TestProcess_BelowThreshold(t *testing.T) {
	dir := t.TempDir()
	writeRandom(t, filepath.Join(dir, "small"), 64<<10)

	p := newTestProcessor(t, Options{})
	res := p.Process(context.Background(), config.Target{Label: "support", Path: dir, ThresholdBytes: 100 * mib})

	if res.Outcome != Skipped || res.Reason != SkipBelowThreshold {
		t.Fatalf("expected Skipped(BelowThreshold), got %s(%s)", res.Outcome, res.Reason)
	}
	if _, err := os.Stat(filepath.Join(dir, "small")); err != nil {
		t.Errorf("expected file to survive: %v", err)
	}
}

func TestProcess_Declined(t *testing.T) {
	dir := t.TempDir()
	writeRandom(t, filepath.Join(dir, "backup.db"), mib)

	conf := &fakeConfirmer{answer: false}
	p := newTestProcessor(t, Options{Confirmer: conf})
	res := p.Process(context.Background(), config.Target{Label: "iOS backups", Path: dir, RequiresConfirmation: true})

	if res.Outcome != Skipped || res.Reason != SkipDeclined {
		t.Fatalf("expected Skipped(Declined), got %s(%s)", res.Outcome, res.Reason)
	}
	if res.Freed != 0 {
		t.Errorf("expected freed 0, got %d", res.Freed)
	}
	if len(conf.prompts) != 1 {
		t.Fatalf("expected one prompt, got %v", conf.prompts)
	}
	if _, err := os.Stat(filepath.Join(dir, "backup.db")); err != nil {
		t.Errorf("expected file untouched: %v", err)
	}
}

func TestProcess_ConfirmedPromptShowsSize(t *testing.T) {
	dir := t.TempDir()
	writeRandom(t, filepath.Join(dir, "archive"), 2*mib)

	conf := &fakeConfirmer{answer: true}
	p := newTestProcessor(t, Options{Confirmer: conf})
	res := p.Process(context.Background(), config.Target{Label: "Xcode archives", Path: dir, RequiresConfirmation: true})

	if res.Outcome != Cleaned {
		t.Fatalf("expected Cleaned, got %s", res.Outcome)
	}
	want := "Delete Xcode archives (" + core.FormatSize(res.SizeBefore) + ")?"
	if conf.prompts[0] != want {
		t.Errorf("expected prompt %q, got %q", want, conf.prompts[0])
	}
}

func TestProcess_DryRun(t *testing.T) {
	dir := t.TempDir()
	writeRandom(t, filepath.Join(dir, "f"), mib)

	p := newTestProcessor(t, Options{DryRun: true})
	res := p.Process(context.Background(), config.Target{Label: "dir", Path: dir})

	if res.Outcome != Skipped || res.Reason != SkipDryRun {
		t.Fatalf("expected Skipped(DryRun), got %s(%s)", res.Outcome, res.Reason)
	}
	if res.SizeBefore < mib {
		t.Errorf("expected size recorded, got %d", res.SizeBefore)
	}
	if _, err := os.Stat(filepath.Join(dir, "f")); err != nil {
		t.Errorf("expected dry run to keep file: %v", err)
	}
}

func TestProcess_Protected(t *testing.T) {
	dir := t.TempDir()
	writeRandom(t, filepath.Join(dir, "precious"), 4096)

	p := newTestProcessor(t, Options{Protected: []string{dir}})
	res := p.Process(context.Background(), config.Target{Label: "home", Path: dir, Mode: config.RemoveEntirely})

	if res.Outcome != Skipped || res.Reason != SkipProtected {
		t.Fatalf("expected Skipped(Protected), got %s(%s)", res.Outcome, res.Reason)
	}
	if _, err := os.Stat(filepath.Join(dir, "precious")); err != nil {
		t.Errorf("expected file untouched: %v", err)
	}

	root := p.Process(context.Background(), config.Target{Label: "root", Path: "/"})
	if root.Reason != SkipProtected {
		t.Errorf("expected / to be protected, got %s", root.Reason)
	}
}

func TestProcess_WhitelistedChildSurvives(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "com.example.keep")
	writeRandom(t, filepath.Join(keep, "data"), 4096)
	writeRandom(t, filepath.Join(dir, "junk", "data"), 2*mib)

	p := newTestProcessor(t, Options{Whitelist: whitelist.New([]string{keep})})
	res := p.Process(context.Background(), config.Target{Label: "caches", Path: dir})

	if res.Outcome != Cleaned {
		t.Fatalf("expected Cleaned, got %s", res.Outcome)
	}
	if _, err := os.Stat(filepath.Join(keep, "data")); err != nil {
		t.Errorf("expected whitelisted entry to survive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "junk")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected junk removed, got %v", err)
	}

	whole := p.Process(context.Background(), config.Target{Label: "whole", Path: dir, Mode: config.RemoveEntirely})
	if whole.Reason != SkipWhitelisted {
		t.Errorf("expected removal of a dir holding a whitelisted entry to be skipped, got %s(%s)", whole.Outcome, whole.Reason)
	}
	direct := p.Process(context.Background(), config.Target{Label: "keep", Path: keep})
	if direct.Reason != SkipWhitelisted {
		t.Errorf("expected whitelisted target to be skipped, got %s(%s)", direct.Outcome, direct.Reason)
	}
}

func TestProcess_DeepScanRemovesOnlyOldFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "sub", "old.tmp")
	fresh := filepath.Join(dir, "fresh.tmp")
	writeRandom(t, old, mib)
	writeRandom(t, fresh, mib)

	now := time.Now()
	stale := now.Add(-30 * 24 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	p := newTestProcessor(t, Options{Now: func() time.Time { return now }})
	res := p.Process(context.Background(), config.Target{Label: "tmp", Path: dir, MaxAge: 7 * 24 * time.Hour})

	if res.Outcome != Cleaned {
		t.Fatalf("expected Cleaned, got %s", res.Outcome)
	}
	approx(t, res.Freed, mib, 64<<10)
	if _, err := os.Stat(old); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected old file removed, got %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("expected fresh file kept: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "sub")); err != nil {
		t.Errorf("expected directories kept: %v", err)
	}
}

func TestProcess_DeepScanGatedByTotalSize(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.tmp")
	writeRandom(t, old, 4096)
	stale := time.Now().Add(-30 * 24 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	p := newTestProcessor(t, Options{})
	res := p.Process(context.Background(), config.Target{Label: "tmp", Path: dir, MaxAge: time.Hour, ThresholdBytes: 1 << 30})
	if res.Reason != SkipBelowThreshold {
		t.Fatalf("expected Skipped(BelowThreshold), got %s(%s)", res.Outcome, res.Reason)
	}
	if _, err := os.Stat(old); err != nil {
		t.Errorf("expected file kept: %v", err)
	}
}

func TestProcess_FailedWhenNothingRemovable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	writeRandom(t, filepath.Join(locked, "f"), 64<<10)
	if err := os.Chmod(locked, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	p := newTestProcessor(t, Options{})
	res := p.Process(context.Background(), config.Target{Label: "locked", Path: locked})

	if res.Outcome != Failed {
		t.Fatalf("expected Failed, got %s", res.Outcome)
	}
	var pde *core.PartialDeleteError
	if len(res.Warnings) == 0 || !errors.As(res.Warnings[0], &pde) {
		t.Errorf("expected a PartialDeleteError warning, got %v", res.Warnings)
	}
	if res.Freed != 0 {
		t.Errorf("expected freed 0, got %d", res.Freed)
	}
}

func TestScenarioC_RemoveEntirelyReportsFreed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "big")
	for i, name := range []string{"a", "b", "c", "d"} {
		writeRandom(t, filepath.Join(dir, name), 4*mib+i)
	}

	p := newTestProcessor(t, Options{})
	res := p.Process(context.Background(), config.Target{Label: "big", Path: dir, Mode: config.RemoveEntirely})

	if _, err := os.Lstat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected path removed, got %v", err)
	}
	approx(t, res.Freed, 16*mib, mib/2)
	if core.FormatSize(1<<30) != "1.0GB" {
		t.Errorf("expected 1 GiB to display as 1.0GB, got %s", core.FormatSize(1<<30))
	}
}

func TestProcess_SymlinkedTargetAccountsForRealDirectory(t *testing.T) {
	base := t.TempDir()
	realDir := filepath.Join(base, "external", "Caches")
	writeRandom(t, filepath.Join(realDir, "blob"), 4*mib)
	link := filepath.Join(base, "Caches")
	if err := os.Symlink(realDir, link); err != nil {
		t.Fatal(err)
	}

	p := newTestProcessor(t, Options{})
	res := p.Process(context.Background(), config.Target{Label: "caches", Path: link, Mode: config.ClearContents})

	if res.Outcome != Cleaned {
		t.Fatalf("expected Cleaned, got %s(%s)", res.Outcome, res.Reason)
	}
	approx(t, res.Freed, 4*mib, 64*1024)
	if _, err := os.Stat(filepath.Join(realDir, "blob")); !os.IsNotExist(err) {
		t.Errorf("expected file removed, got %v", err)
	}
	if _, err := os.Lstat(link); err != nil {
		t.Errorf("expected link kept: %v", err)
	}
	if _, err := os.Stat(realDir); err != nil {
		t.Errorf("expected realDir directory kept: %v", err)
	}
}

func TestProcess_SymlinkToProtectedPath(t *testing.T) {
	base := t.TempDir()
	realDir := filepath.Join(base, "precious")
	writeRandom(t, filepath.Join(realDir, "f"), 4096)
	link := filepath.Join(base, "innocent")
	if err := os.Symlink(realDir, link); err != nil {
		t.Fatal(err)
	}

	p := newTestProcessor(t, Options{Protected: []string{realDir}})
	res := p.Process(context.Background(), config.Target{Label: "innocent", Path: link, Mode: config.ClearContents})

	if res.Outcome != Skipped || res.Reason != SkipProtected {
		t.Fatalf("expected Skipped(Protected), got %s(%s)", res.Outcome, res.Reason)
	}
	if len(res.Warnings) != 1 || !errors.Is(res.Warnings[0], core.ErrProtectedPath) {
		t.Errorf("expected ErrProtectedPath warning, got %v", res.Warnings)
	}
	if _, err := os.Stat(filepath.Join(realDir, "f")); err != nil {
		t.Errorf("expected file untouched: %v", err)
	}
}

func TestProcess_SymlinkIntoWhitelistedPath(t *testing.T) {
	base := t.TempDir()
	realDir := filepath.Join(base, "keep")
	writeRandom(t, filepath.Join(realDir, "f"), 4096)
	link := filepath.Join(base, "alias")
	if err := os.Symlink(realDir, link); err != nil {
		t.Fatal(err)
	}

	p := newTestProcessor(t, Options{Whitelist: whitelist.New([]string{realDir})})
	res := p.Process(context.Background(), config.Target{Label: "alias", Path: link, Mode: config.ClearContents})

	if res.Reason != SkipWhitelisted {
		t.Fatalf("expected Skipped(Whitelisted), got %s(%s)", res.Outcome, res.Reason)
	}
	if _, err := os.Stat(filepath.Join(realDir, "f")); err != nil {
		t.Errorf("expected file untouched: %v", err)
	}
}
