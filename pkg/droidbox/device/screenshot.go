package device

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

func (d *Device) screenshotTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "get_screenshot",
		Description: "Capture the device screen and return it as a PNG image.",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler:     d.handleScreenshot,
	}
}

func (d *Device) handleScreenshot(ctx context.Context, _ json.RawMessage) (toolbox.Result, error) {
	png, err := d.mgr.Screenshot(ctx)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("get_screenshot: %w", err)
	}

	return toolbox.Result{PNG: png}, nil
}
