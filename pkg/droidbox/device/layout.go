package device

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/germanamz/droidly/pkg/adb"
	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

func (d *Device) layoutTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "get_uilayout",
		Description: "Dump the current UI hierarchy and return the clickable elements that carry text or a content description, with their bounds and tap coordinates.",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler:     d.handleLayout,
	}
}

func (d *Device) handleLayout(ctx context.Context, _ json.RawMessage) (toolbox.Result, error) {
	elements, err := d.mgr.UILayout(ctx)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("get_uilayout: %w", err)
	}

	return toolbox.Result{Text: adb.FormatElements(elements)}, nil
}
