// Package defaults provides a plug-and-play default toolbox builder. It
// composes the device and Termux toolboxes into the single one the MCP server
// exposes.
package defaults

import "github.com/germanamz/droidly/pkg/tools/toolbox"

// New builds a default toolbox by merging the given toolboxes together. Each
// toolbox is merged in order so later entries overwrite earlier ones when tool
// names collide.
func New(toolboxes ...*toolbox.ToolBox) *toolbox.ToolBox {
	tb := toolbox.New()
	for _, other := range toolboxes {
		tb.Merge(other)
	}

	return tb
}
