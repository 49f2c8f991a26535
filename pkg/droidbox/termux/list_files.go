package termux

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

type listFilesInput struct {
	Path string `json:"path"`
}

func (t *Termux) listFilesTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "termux_list_files",
		Description: "List a directory in the Termux home (ls -la). Falls back to listing the shared directory when Termux is unreachable.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Directory to list; empty or relative paths are under the Termux home"}}}`),
		Handler:     t.handleListFiles,
	}
}

func (t *Termux) handleListFiles(ctx context.Context, input json.RawMessage) (toolbox.Result, error) {
	var in listFilesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_list_files: invalid input: %w", err)
	}

	if in.Path == "" {
		in.Path = Home
	}

	target, err := resolvePath(in.Path)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_list_files: %w", err)
	}

	output, code, err := t.runTermux(ctx, "ls -la "+shQuote(target))
	if err != nil {
		if !errors.Is(err, ErrUnreachable) {
			return toolbox.Result{}, fmt.Errorf("termux_list_files: %w", err)
		}

		// Fallback: the shared directory is the only Termux-adjacent place
		// adb shell can see.
		output, err := t.mgr.Shell(ctx, "ls -la "+shQuote(t.sharedDir))
		if err != nil {
			return toolbox.Result{}, fmt.Errorf("termux_list_files: fallback: %w", err)
		}

		return toolbox.Result{Text: output + "\n(Termux unreachable; listed shared directory instead)"}, nil
	}
	if code != 0 {
		return toolbox.Result{}, fmt.Errorf("termux_list_files: %s: %s", target, output)
	}

	return toolbox.Result{Text: output}, nil
}
