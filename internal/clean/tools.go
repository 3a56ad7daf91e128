package clean

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
)

// maxToolOutput bounds how much tool output is kept in a ToolError.
const maxToolOutput = 200

// Runner locates and executes external programs.
type Runner interface {
	// LookPath returns the resolved executable or an error if it is absent.
	LookPath(name string) (string, error)
	// Run executes the program to completion and returns its combined output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ─── Public API ──────────────────────────────────────────────────────────────

// RunTool delegates cleanup to an external tool. An absent tool is skipped
// without a warning. A non-zero exit is a soft failure recorded on the result.
// With a MeasurePath the freed bytes are the measured delta; otherwise the
// result is Delegated.
func (p *Processor) RunTool(ctx context.Context, action config.ToolAction) Result {
	res := Result{Label: action.Label, Path: action.MeasurePath, Kind: KindTool}

	exe, err := p.runner.LookPath(action.Tool)
	if err != nil {
		p.log.Debug("tool not installed", "tool", action.Tool)
		return res.skip(SkipToolAbsent)
	}

	var before int64
	if action.MeasurePath != "" {
		before = p.measure(&res, action.MeasurePath)
		res.SizeBefore = before
	}

	if action.RequiresConfirmation {
		msg := fmt.Sprintf("Run %s %s?", action.Tool, strings.Join(action.Args, " "))
		if !p.confirm.Confirm(msg) {
			return res.skip(SkipDeclined)
		}
	}

	if p.dryRun {
		return res.skip(SkipDryRun)
	}

	p.log.Debug("running tool", "tool", exe, "args", action.Args)
	out, err := p.runner.Run(ctx, exe, action.Args...)
	if err != nil {
		terr := toolError(action.Tool, err, out)
		p.log.Warn("external tool failed", "tool", action.Tool, "error", terr)
		res.warn(terr)
	}

	if action.MeasurePath == "" {
		res.Outcome = Delegated
		return res
	}

	after := p.measure(&res, action.MeasurePath)
	res.SizeAfter = after
	res.Freed = max(0, before-after)
	if res.Freed > 0 {
		res.Outcome = Cleaned
	} else {
		res.Outcome = AlreadyClean
	}
	return res
}

// ─── Internal Helpers ────────────────────────────────────────────────────────

// toolError wraps an exec error with the exit code and a truncated copy of
// the tool's output.
func toolError(tool string, err error, output []byte) *ToolError {
	te := &ToolError{Tool: tool, ExitCode: -1, Err: err}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		te.ExitCode = exitErr.ExitCode()
	}
	te.Output = truncateOutput(output)
	return te
}

// truncateOutput trims output to maxToolOutput bytes at a valid UTF-8
// boundary.
func truncateOutput(output []byte) string {
	s := strings.TrimSpace(string(output))
	if len(s) <= maxToolOutput {
		return s
	}
	s = s[:maxToolOutput]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s + "..."
}
