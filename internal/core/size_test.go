package core

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// writeRandom writes n incompressible bytes so allocated blocks track n.
func writeRandom(t *testing.T, path string, n int) {
	t.Helper()
	buf := make([]byte, n)
	rand.New(rand.NewSource(int64(n))).Read(buf)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestMeasureSize_Missing(t *testing.T) {
	size, err := MeasureSize(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != 0 {
		t.Errorf("expected 0, got %d", size)
	}
}

func TestMeasureSize_Tree(t *testing.T) {
	dir := t.TempDir()
	writeRandom(t, filepath.Join(dir, "a.bin"), 1<<20)
	writeRandom(t, filepath.Join(dir, "sub", "b.bin"), 2<<20)

	size, err := MeasureSize(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size < 3<<20 {
		t.Errorf("expected at least %d bytes, got %d", 3<<20, size)
	}
	if size > 4<<20 {
		t.Errorf("expected at most %d bytes, got %d", 4<<20, size)
	}
}

func TestMeasureSize_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	writeRandom(t, path, 64<<10)

	size, err := MeasureSize(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size < 64<<10 {
		t.Errorf("expected at least %d bytes, got %d", 64<<10, size)
	}
}

func TestMeasureSize_HardLinksCountedOnce(t *testing.T) {
	dir := t.TempDir()
	orig := filepath.Join(dir, "orig.bin")
	writeRandom(t, orig, 1<<20)

	single, err := MeasureSize(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.Link(orig, filepath.Join(dir, "link.bin")); err != nil {
		t.Skipf("hard links unsupported: %v", err)
	}

	linked, err := MeasureSize(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if linked >= single+(1<<20) {
		t.Errorf("expected hard link to be counted once: before %d, after %d", single, linked)
	}
}

func TestMeasureSize_DoesNotFollowSymlinks(t *testing.T) {
	outside := t.TempDir()
	writeRandom(t, filepath.Join(outside, "big.bin"), 2<<20)

	dir := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	size, err := MeasureSize(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size >= 2<<20 {
		t.Errorf("expected symlink target to be ignored, got %d bytes", size)
	}
}
