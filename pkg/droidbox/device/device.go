// Package device provides the ADB-backed device tools: package listing, raw
// shell execution, UI layout dumps, screenshots, and intent queries. Each
// tool is a thin wrapper over the device manager; the heavy lifting (shell
// transport, parsing) lives in pkg/adb.
package device

import (
	"context"

	"github.com/germanamz/droidly/pkg/adb"
	"github.com/germanamz/droidly/pkg/tools/toolbox"
)

// Manager is the device surface the tools need. *adb.Manager implements it;
// tests substitute a fake.
type Manager interface {
	Shell(ctx context.Context, command string) (string, error)
	Packages(ctx context.Context, filter string) ([]adb.Package, error)
	UILayout(ctx context.Context) ([]adb.Element, error)
	Screenshot(ctx context.Context) ([]byte, error)
	ActionIntents(ctx context.Context, packageName string) ([]string, error)
	Info(ctx context.Context) (adb.DeviceInfo, error)
}

// Device provides the device toolbox.
type Device struct {
	mgr Manager
}

// New creates a Device backed by the given manager.
func New(mgr Manager) *Device {
	return &Device{mgr: mgr}
}

// Tools returns a ToolBox containing the device tools.
func (d *Device) Tools() *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(
		d.packagesTool(), d.shellTool(), d.layoutTool(),
		d.screenshotTool(), d.intentsTool(), d.infoTool(),
	)

	return tb
}
