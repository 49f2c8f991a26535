package device

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

type intentsInput struct {
	PackageName string `json:"package_name"`
}

func (d *Device) intentsTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "get_package_action_intents",
		Description: "List the intent actions a package's activities resolve, taken from the package manager's activity resolver table.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"package_name":{"type":"string","description":"Package to inspect (e.g. com.android.settings)"}},"required":["package_name"]}`),
		Handler:     d.handleIntents,
	}
}

func (d *Device) handleIntents(ctx context.Context, input json.RawMessage) (toolbox.Result, error) {
	var in intentsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return toolbox.Result{}, fmt.Errorf("get_package_action_intents: invalid input: %w", err)
	}

	if in.PackageName == "" {
		return toolbox.Result{}, fmt.Errorf("get_package_action_intents: package_name is required")
	}

	actions, err := d.mgr.ActionIntents(ctx, in.PackageName)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("get_package_action_intents: %w", err)
	}

	if len(actions) == 0 {
		return toolbox.Result{Text: "No action intents found for " + in.PackageName}, nil
	}

	return toolbox.Result{Text: strings.Join(actions, "\n")}, nil
}
