// Package termux bridges tool calls into a Termux environment on the device.
// Commands are dispatched through Termux's RUN_COMMAND intent with output and
// exit status redirected to files in a shared directory both adb shell and
// Termux can reach; the bridge polls for the exit-status file and pulls the
// output back. When Termux is unreachable (not installed, RUN_COMMAND
// permission missing, or the command never completes) each tool takes a
// single fallback branch over plain adb shell.
//
// There is no concurrency control: concurrent calls are isolated only by
// their per-call output files, and files written to the shared directory are
// last-writer-wins.
package termux

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
	"github.com/google/uuid"
)

// Termux filesystem and intent constants.
const (
	Home              = "/data/data/com.termux/files/home"
	bashPath          = "/data/data/com.termux/files/usr/bin/bash"
	runCommandService = "com.termux/com.termux.app.RunCommandService"
	runCommandAction  = "com.termux.RUN_COMMAND"
)

const pollInterval = 500 * time.Millisecond

// ErrUnreachable reports that the RUN_COMMAND dispatch failed or the command
// never produced an exit status within the timeout.
var ErrUnreachable = errors.New("termux: unreachable")

// Manager is the device surface the bridge needs. *adb.Manager implements it.
type Manager interface {
	Shell(ctx context.Context, command string) (string, error)
	Push(ctx context.Context, data []byte, remotePath string) error
	Pull(ctx context.Context, remotePath string) ([]byte, error)
}

// Termux provides the Termux bridge toolbox.
type Termux struct {
	mgr       Manager
	sharedDir string
	timeout   time.Duration
}

// New creates a Termux bridge using sharedDir for staging and output files
// and timeout as the per-command completion deadline.
func New(mgr Manager, sharedDir string, timeout time.Duration) *Termux {
	return &Termux{mgr: mgr, sharedDir: sharedDir, timeout: timeout}
}

// Tools returns a ToolBox containing the Termux bridge tools.
func (t *Termux) Tools() *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(
		t.runCommandTool(), t.writeFileTool(), t.readFileTool(),
		t.listFilesTool(), t.deleteFileTool(),
	)

	return tb
}

// resolvePath maps a user-supplied path into the Termux home. Absolute paths
// pass through; relative paths are joined under the home directory.
func resolvePath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("path is required")
	}
	if strings.ContainsAny(p, "'\"\n") {
		return "", fmt.Errorf("path must not contain quotes or newlines")
	}
	if !strings.HasPrefix(p, "/") {
		p = path.Join(Home, p)
	}

	return path.Clean(p), nil
}

// shQuote single-quotes s for safe embedding in a shell command line.
func shQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// buildRunCommand assembles the `am startservice` line that asks Termux to
// run script under bash. Literal commas must be escaped: the --esa extra is
// comma-separated.
func buildRunCommand(script string) string {
	arg := "-c," + strings.ReplaceAll(script, ",", `\,`)

	return "am startservice --user 0 -n " + runCommandService +
		" -a " + runCommandAction +
		" --es com.termux.RUN_COMMAND_PATH " + shQuote(bashPath) +
		" --esa com.termux.RUN_COMMAND_ARGUMENTS " + shQuote(arg) +
		" --ez com.termux.RUN_COMMAND_BACKGROUND true"
}

// runTermux executes script inside Termux and returns its output and exit
// status. It returns ErrUnreachable when the dispatch fails or no exit status
// appears within the timeout; callers then take their fallback branch.
func (t *Termux) runTermux(ctx context.Context, script string) (string, int, error) {
	id := uuid.NewString()
	outFile := path.Join(t.sharedDir, "out-"+id)
	doneFile := path.Join(t.sharedDir, "done-"+id)

	if _, err := t.mgr.Shell(ctx, "mkdir -p "+shQuote(t.sharedDir)); err != nil {
		return "", 0, fmt.Errorf("termux: prepare shared dir: %w", err)
	}

	wrapped := fmt.Sprintf("{ %s; } > %s 2>&1; echo $? > %s", script, outFile, doneFile)

	out, err := t.mgr.Shell(ctx, buildRunCommand(wrapped))
	if err != nil || strings.Contains(out, "Error") || strings.Contains(out, "Failure") {
		return "", 0, fmt.Errorf("%w: startservice: %s", ErrUnreachable, strings.TrimSpace(out))
	}

	code, err := t.waitDone(ctx, doneFile)
	if err != nil {
		t.cleanup(ctx, outFile, doneFile)
		return "", 0, err
	}

	output, err := t.mgr.Shell(ctx, "cat "+outFile+" 2>/dev/null")
	t.cleanup(ctx, outFile, doneFile)
	if err != nil {
		return "", 0, fmt.Errorf("termux: read output: %w", err)
	}

	return output, code, nil
}

// waitDone polls for the exit-status file until the timeout elapses.
func (t *Termux) waitDone(ctx context.Context, doneFile string) (int, error) {
	deadline := time.Now().Add(t.timeout)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		out, err := t.mgr.Shell(ctx, "cat "+doneFile+" 2>/dev/null")
		if err == nil {
			if s := strings.TrimSpace(out); s != "" {
				if code, convErr := strconv.Atoi(s); convErr == nil {
					return code, nil
				}
			}
		}

		if time.Now().After(deadline) {
			return 0, fmt.Errorf("%w: no exit status after %s", ErrUnreachable, t.timeout)
		}

		time.Sleep(pollInterval)
	}
}

// cleanup removes per-call bridge files. Best effort.
func (t *Termux) cleanup(ctx context.Context, files ...string) {
	_, _ = t.mgr.Shell(ctx, "rm -f "+strings.Join(files, " "))
}

// stagePath returns a unique staging path in the shared directory for the
// given target file name.
func (t *Termux) stagePath(target string) string {
	return path.Join(t.sharedDir, "stage-"+uuid.NewString()+"-"+path.Base(target))
}
