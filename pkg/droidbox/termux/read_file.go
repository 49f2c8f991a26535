package termux

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

type readFileInput struct {
	Path string `json:"path"`
}

func (t *Termux) readFileTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "termux_read_file",
		Description: "Read a file from the Termux home directory. The file is copied into the shared directory by Termux and pulled from there. When Termux is unreachable, the copy of the same name in the shared directory is read instead.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"File to read; relative paths are under the Termux home"}},"required":["path"]}`),
		Handler:     t.handleReadFile,
	}
}

func (t *Termux) handleReadFile(ctx context.Context, input json.RawMessage) (toolbox.Result, error) {
	var in readFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_read_file: invalid input: %w", err)
	}

	target, err := resolvePath(in.Path)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_read_file: %w", err)
	}

	staged := t.stagePath(target)
	script := fmt.Sprintf("cp %s %s && chmod 644 %s", shQuote(target), staged, staged)

	output, code, err := t.runTermux(ctx, script)
	if err != nil {
		if !errors.Is(err, ErrUnreachable) {
			return toolbox.Result{}, fmt.Errorf("termux_read_file: %w", err)
		}

		// Fallback: pull the shared-directory copy. The Termux home is not
		// readable over plain adb shell, and termux_write_file's fallback
		// leaves content under this name.
		sharedCopy := path.Join(t.sharedDir, path.Base(target))

		data, pullErr := t.mgr.Pull(ctx, sharedCopy)
		if pullErr != nil {
			return toolbox.Result{}, fmt.Errorf("termux_read_file: Termux unreachable and no shared directory copy at %s: %w", sharedCopy, pullErr)
		}

		return toolbox.Result{Text: string(data)}, nil
	}
	if code != 0 {
		return toolbox.Result{}, fmt.Errorf("termux_read_file: %s: %s", target, output)
	}

	data, err := t.mgr.Pull(ctx, staged)
	t.cleanup(ctx, staged)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_read_file: %w", err)
	}

	return toolbox.Result{Text: string(data)}, nil
}
