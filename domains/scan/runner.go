package scan

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// CommandRunner runs one external toolchain command to completion and
// reports its exit status. Build systems, test runners and the scanner
// binary are all opaque commands behind this interface.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands as child processes, streaming their output
// through to the tool's own stdout/stderr.
type ExecRunner struct {
	l *zap.Logger
}

// NewExecRunner creates a runner that logs every invocation
func NewExecRunner(l *zap.Logger) *ExecRunner {
	return &ExecRunner{l: l}
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	r.l.Info("running command",
		zap.String("dir", dir),
		zap.String("command", name+" "+strings.Join(args, " ")),
	)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// RunShell runs a shell command line, used for per-repository override
// commands that arrive as single strings.
func RunShell(ctx context.Context, r CommandRunner, dir, command string) error {
	return r.Run(ctx, dir, "sh", "-c", command)
}
