package device

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

type infoOutput struct {
	Serial         string `json:"serial"`
	Model          string `json:"model"`
	Brand          string `json:"brand"`
	AndroidVersion string `json:"android_version"`
	SDK            string `json:"sdk"`
}

func (d *Device) infoTool() toolbox.Tool {
	return toolbox.Tool{
		Name:        "get_device_info",
		Description: "Get the bound device's identity: serial, model, brand, Android version and SDK level.",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler:     d.handleInfo,
	}
}

func (d *Device) handleInfo(ctx context.Context, _ json.RawMessage) (toolbox.Result, error) {
	info, err := d.mgr.Info(ctx)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("get_device_info: %w", err)
	}

	out := infoOutput{
		Serial:         info.Serial,
		Model:          info.Model,
		Brand:          info.Brand,
		AndroidVersion: info.AndroidVersion,
		SDK:            info.SDK,
	}

	data, err := json.Marshal(out)
	if err != nil {
		return toolbox.Result{}, fmt.Errorf("get_device_info: marshal: %w", err)
	}

	return toolbox.Result{Text: string(data)}, nil
}
