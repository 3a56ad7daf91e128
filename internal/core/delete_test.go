package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClearContents_KeepsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeRandom(t, filepath.Join(dir, "a.bin"), 4096)
	writeRandom(t, filepath.Join(dir, "nested", "deep", "b.bin"), 4096)

	if err := ClearContents(dir, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory to survive, stat err: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, got %d entries", len(entries))
	}
}

func TestClearContents_Keep(t *testing.T) {
	dir := t.TempDir()
	writeRandom(t, filepath.Join(dir, "drop.bin"), 1024)
	writeRandom(t, filepath.Join(dir, "keep", "inner.bin"), 1024)

	keep := func(p string) bool { return filepath.Base(p) == "keep" }
	if err := ClearContents(dir, keep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "drop.bin")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected drop.bin removed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "keep", "inner.bin")); err != nil {
		t.Errorf("expected kept subtree to survive, got %v", err)
	}
}

func TestClearContents_Missing(t *testing.T) {
	if err := ClearContents(filepath.Join(t.TempDir(), "missing"), nil); err != nil {
		t.Errorf("expected nil for missing directory, got %v", err)
	}
}

func TestRemoveEntirely(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "victim")
	writeRandom(t, filepath.Join(dir, "x", "y.bin"), 4096)

	if err := RemoveEntirely(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Lstat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected path to be gone, got %v", err)
	}

	// Second call on a missing path is a no-op.
	if err := RemoveEntirely(dir); err != nil {
		t.Errorf("expected nil on missing path, got %v", err)
	}
}

func TestRemoveEntirely_LeavesSymlinkTarget(t *testing.T) {
	outside := t.TempDir()
	keep := filepath.Join(outside, "keep.txt")
	writeRandom(t, keep, 128)

	dir := filepath.Join(t.TempDir(), "victim")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	if err := RemoveEntirely(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("expected symlink target to survive, got %v", err)
	}
}

func TestClearOlderThan(t *testing.T) {
	dir := t.TempDir()
	oldFile := filepath.Join(dir, "sub", "old.log")
	newFile := filepath.Join(dir, "new.log")
	writeRandom(t, oldFile, 1024)
	writeRandom(t, newFile, 1024)

	past := time.Now().Add(-10 * 24 * time.Hour)
	if err := os.Chtimes(oldFile, past, past); err != nil {
		t.Fatal(err)
	}

	if err := ClearOlderThan(dir, time.Now().Add(-7*24*time.Hour), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(oldFile); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected old file removed, got %v", err)
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Errorf("expected new file kept, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "sub")); err != nil {
		t.Errorf("expected directories kept, got %v", err)
	}
}

func TestIsProtected(t *testing.T) {
	protected := []string{"/System", "/Users/me", "/Users/me/Library"}

	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/System", true},
		{"/system", true},
		{"/Users", true}, // ancestor of a protected path
		{"/Users/me/", true},
		{"/Users/me/Library", true},
		{"/Users/me/Library/Caches", false},
		{"/Users/me/.Trash", false},
		{"/Volumes/Data/.Trashes/501", false},
		{"/users", true},
		{"/USERS/ME", true},
		{"/users/Me/library", true},
		{"/users/me/library/caches", false},
		{"/Users/me/..Trash", false},
	}

	for _, tt := range tests {
		if got := IsProtected(tt.path, protected); got != tt.want {
			t.Errorf("IsProtected(%q): expected %v, got %v", tt.path, tt.want, got)
		}
	}
}

func TestPartialDeleteError(t *testing.T) {
	inner := os.ErrPermission
	err := error(&PartialDeleteError{Path: "/x", Failures: []error{inner}})

	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("expected errors.Is to find ErrPermission")
	}
	var pde *PartialDeleteError
	if !errors.As(err, &pde) || pde.Path != "/x" {
		t.Errorf("expected errors.As to extract PartialDeleteError, got %v", pde)
	}
}
