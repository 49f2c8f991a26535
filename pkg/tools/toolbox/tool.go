package toolbox

import (
	"context"
	"encoding/json"
)

// Result is the outcome of a tool invocation. Text is the human/model-facing
// output; PNG optionally carries a binary image payload (used by
// screenshot-style tools that return pictures rather than text).
type Result struct {
	Text string
	PNG  []byte
}

// Handler executes a tool with the given JSON input.
type Handler func(ctx context.Context, input json.RawMessage) (Result, error)

// Tool represents an executable tool with a name, description, JSON Schema, and handler.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}
