package device

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

type packagesInput struct {
	Filter string `json:"filter"`
}

func (d *Device) packagesTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "get_packages",
		Description: "List all installed packages on the device. Optional filter: \"user\" for third-party apps only, \"system\" for system apps only, \"all\" (default) for everything. Disabled packages are marked.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"filter":{"type":"string","enum":["all","user","system"],"description":"Which packages to list"}}}`),
		Handler:     d.handlePackages,
	}
}

func (d *Device) handlePackages(ctx context.Context, input json.RawMessage) (toolbox.Result, error) {
	var in packagesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return toolbox.Result{}, fmt.Errorf("get_packages: invalid input: %w", err)
	}

	packages, err := d.mgr.Packages(ctx, in.Filter)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("get_packages: %w", err)
	}

	if len(packages) == 0 {
		return toolbox.Result{Text: "No packages found"}, nil
	}

	var b strings.Builder
	for _, p := range packages {
		b.WriteString(p.Name)
		if p.Disabled {
			b.WriteString(" (disabled)")
		}
		b.WriteString("\n")
	}

	return toolbox.Result{Text: strings.TrimRight(b.String(), "\n")}, nil
}
