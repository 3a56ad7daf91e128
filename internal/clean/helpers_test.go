package clean

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeRandom writes n bytes of incompressible data so allocated blocks
// follow the logical size.
func writeRandom(t *testing.T, path string, n int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, n)
	rand.New(rand.NewSource(int64(n))).Read(buf)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (f *fakeConfirmer) Confirm(prompt string) bool {
	f.prompts = append(f.prompts, prompt)
	return f.answer
}

type fakeRunner struct {
	installed map[string]bool
	exitErr   map[string]error
	output    map[string]string
	onRun     func(name string, args []string)
	calls     []string
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.installed[name] {
		return "/usr/local/bin/" + name, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	tool := filepath.Base(name)
	f.calls = append(f.calls, strings.TrimSpace(tool+" "+strings.Join(args, " ")))
	if f.onRun != nil {
		f.onRun(tool, args)
	}
	return []byte(f.output[tool]), f.exitErr[tool]
}

type fakeSnapshots struct {
	ids     []string
	listErr error
	failing map[string]bool
	deleted []string
}

func (f *fakeSnapshots) List(context.Context) ([]string, error) {
	return f.ids, f.listErr
}

func (f *fakeSnapshots) Delete(_ context.Context, id string) error {
	if f.failing[id] {
		return errors.New("snapshot busy")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// freeSpaceSeq returns the given readings in order, repeating the last.
func freeSpaceSeq(readings ...uint64) FreeSpaceFunc {
	i := 0
	return func(context.Context) (uint64, error) {
		v := readings[min(i, len(readings)-1)]
		i++
		return v, nil
	}
}

// newTestProcessor returns a processor with no host dependencies.
func newTestProcessor(t *testing.T, opts Options) *Processor {
	t.Helper()
	if opts.Protected == nil {
		opts.Protected = []string{"/System"}
	}
	if opts.Runner == nil {
		opts.Runner = &fakeRunner{}
	}
	if opts.Snapshots == nil {
		opts.Snapshots = &fakeSnapshots{}
	}
	if opts.FreeSpace == nil {
		opts.FreeSpace = freeSpaceSeq(100)
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return NewProcessor(opts)
}
