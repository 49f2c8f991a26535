package termux

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

type deleteFileInput struct {
	Path string `json:"path"`
}

func (t *Termux) deleteFileTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "termux_delete_file",
		Description: "Delete a file from the Termux home directory, plus any staged copy of it left in the shared directory.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"File to delete; relative paths are under the Termux home"}},"required":["path"]}`),
		Handler:     t.handleDeleteFile,
	}
}

func (t *Termux) handleDeleteFile(ctx context.Context, input json.RawMessage) (toolbox.Result, error) {
	var in deleteFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_delete_file: invalid input: %w", err)
	}

	target, err := resolvePath(in.Path)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_delete_file: %w", err)
	}

	// Shared-directory copies share the target's base name; clear them
	// regardless of whether the Termux-side delete succeeds. Only the glob
	// star is left outside the quotes so a hostile base name cannot expand.
	base := path.Base(target)
	staged := shQuote(t.sharedDir+"/stage-") + "*" + shQuote("-"+base)
	shared := shQuote(path.Join(t.sharedDir, base))
	_, _ = t.mgr.Shell(ctx, "rm -f "+staged+" "+shared)

	output, code, err := t.runTermux(ctx, "rm -f "+shQuote(target))
	if err != nil {
		if !errors.Is(err, ErrUnreachable) {
			return toolbox.Result{}, fmt.Errorf("termux_delete_file: %w", err)
		}

		return toolbox.Result{Text: fmt.Sprintf("Termux unreachable; removed staged copies of %s from the shared directory", base)}, nil
	}
	if code != 0 {
		return toolbox.Result{}, fmt.Errorf("termux_delete_file: %s: %s", target, output)
	}

	return toolbox.Result{Text: "Deleted " + target}, nil
}
