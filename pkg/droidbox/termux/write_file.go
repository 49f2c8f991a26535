package termux

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

type writeFileInput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (t *Termux) writeFileTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "termux_write_file",
		Description: "Write a file into the Termux home directory. Content is staged in the shared directory and copied into place by Termux. When Termux is unreachable the content is left in the shared directory under the file's base name.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Target path; relative paths are under the Termux home"},"content":{"type":"string","description":"File content"}},"required":["path","content"]}`),
		Handler:     t.handleWriteFile,
	}
}

func (t *Termux) handleWriteFile(ctx context.Context, input json.RawMessage) (toolbox.Result, error) {
	var in writeFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_write_file: invalid input: %w", err)
	}

	target, err := resolvePath(in.Path)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_write_file: %w", err)
	}

	if _, err := t.mgr.Shell(ctx, "mkdir -p "+shQuote(t.sharedDir)); err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_write_file: prepare shared dir: %w", err)
	}

	staged := t.stagePath(target)
	if err := t.mgr.Push(ctx, []byte(in.Content), staged); err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_write_file: %w", err)
	}

	script := fmt.Sprintf("mkdir -p %s && cp %s %s", shQuote(path.Dir(target)), staged, shQuote(target))

	output, code, err := t.runTermux(ctx, script)
	if err != nil {
		if !errors.Is(err, ErrUnreachable) {
			return toolbox.Result{}, fmt.Errorf("termux_write_file: %w", err)
		}

		// Fallback: leave the content in the shared directory under the base
		// name, where termux_read_file's fallback looks for it.
		shared := path.Join(t.sharedDir, path.Base(target))
		if pushErr := t.mgr.Push(ctx, []byte(in.Content), shared); pushErr != nil {
			return toolbox.Result{}, fmt.Errorf("termux_write_file: fallback: %w", pushErr)
		}
		t.cleanup(ctx, staged)

		return toolbox.Result{Text: fmt.Sprintf("Termux unreachable; content left at %s", shared)}, nil
	}
	if code != 0 {
		return toolbox.Result{}, fmt.Errorf("termux_write_file: copy into place failed (exit %d): %s", code, output)
	}

	t.cleanup(ctx, staged)

	return toolbox.Result{Text: fmt.Sprintf("Wrote %d bytes to %s", len(in.Content), target)}, nil
}
