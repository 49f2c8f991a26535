package device

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

type shellInput struct {
	Command string `json:"command"`
}

func (d *Device) shellTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "execute_adb_shell_command",
		Description: "Execute a raw shell command on the device via ADB and return its output. The command runs as the shell user.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"command":{"type":"string","description":"The shell command to run (e.g. \"ls /sdcard\")"}},"required":["command"]}`),
		Handler:     d.handleShell,
	}
}

func (d *Device) handleShell(ctx context.Context, input json.RawMessage) (toolbox.Result, error) {
	var in shellInput
	if err := json.Unmarshal(input, &in); err != nil {
		return toolbox.Result{}, fmt.Errorf("execute_adb_shell_command: invalid input: %w", err)
	}

	if in.Command == "" {
		return toolbox.Result{}, fmt.Errorf("execute_adb_shell_command: command is required")
	}

	out, err := d.mgr.Shell(ctx, in.Command)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("execute_adb_shell_command: %w", err)
	}

	return toolbox.Result{Text: out}, nil
}
