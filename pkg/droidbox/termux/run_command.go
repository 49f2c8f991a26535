package termux

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

type runCommandInput struct {
	Command string `json:"command"`
}

func (t *Termux) runCommandTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "termux_run_command",
		Description: "Run a shell command inside the Termux environment on the device and return its output and exit status. Falls back to plain adb shell when Termux is unreachable.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"command":{"type":"string","description":"The command to run in Termux (bash -c)"}},"required":["command"]}`),
		Handler:     t.handleRunCommand,
	}
}

func (t *Termux) handleRunCommand(ctx context.Context, input json.RawMessage) (toolbox.Result, error) {
	var in runCommandInput
	if err := json.Unmarshal(input, &in); err != nil {
		return toolbox.Result{}, fmt.Errorf("termux_run_command: invalid input: %w", err)
	}

	if in.Command == "" {
		return toolbox.Result{}, fmt.Errorf("termux_run_command: command is required")
	}

	output, code, err := t.runTermux(ctx, in.Command)
	if err != nil {
		if !errors.Is(err, ErrUnreachable) {
			return toolbox.Result{}, fmt.Errorf("termux_run_command: %w", err)
		}

		// Fallback: run over plain adb shell instead.
		output, err := t.mgr.Shell(ctx, in.Command)
		if err != nil {
			return toolbox.Result{}, fmt.Errorf("termux_run_command: fallback: %w", err)
		}

		return toolbox.Result{Text: output + "\n(Termux unreachable; ran via adb shell)"}, nil
	}

	if code != 0 {
		output += fmt.Sprintf("\n(exit status %d)", code)
	}

	return toolbox.Result{Text: output}, nil
}
