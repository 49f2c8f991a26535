package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolBox orchestrates a collection of tools. It allows registering,
// retrieving, listing, and calling tools. The MCP server registers the
// contents of a ToolBox as its exposed tool set.
type ToolBox struct {
	tools map[string]Tool
}

// New creates a new ToolBox ready for use.
func New() *ToolBox {
	return &ToolBox{
		tools: make(map[string]Tool),
	}
}

// Register adds one or more tools to the ToolBox. If a tool with the same name
// already exists, it is replaced.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		tb.tools[t.Name] = t
	}
}

// Get returns a tool by name and a boolean indicating whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Merge registers all tools from another ToolBox into this one. If a tool
// with the same name already exists, it is replaced.
func (tb *ToolBox) Merge(other *ToolBox) {
	for _, t := range other.tools {
		tb.tools[t.Name] = t
	}
}

// Tools returns all registered tools as a slice.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}
	return result
}

// Filter returns a ToolBox containing only the named tools. Names that are
// not registered are skipped. An empty or nil name list returns the receiver
// unchanged.
func (tb *ToolBox) Filter(names []string) *ToolBox {
	if len(names) == 0 {
		return tb
	}

	filtered := New()
	for _, name := range names {
		if t, ok := tb.tools[name]; ok {
			filtered.Register(t)
		}
	}

	return filtered
}

// Call executes the named tool with the given JSON arguments. It returns an
// error if the tool is not registered or its handler fails.
func (tb *ToolBox) Call(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	t, ok := tb.tools[name]
	if !ok {
		return Result{}, fmt.Errorf("tool not found: %s", name)
	}

	return t.Handler(ctx, args)
}
