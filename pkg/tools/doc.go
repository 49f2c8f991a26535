// Package tools provides tool execution and MCP (Model Context Protocol) integration.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/droidly/pkg/tools/toolbox]: Tool type and ToolBox orchestrator for registering, listing, and calling tools
//   - [github.com/germanamz/droidly/pkg/tools/mcpserver]: MCP server using the official MCP Go SDK for exposing tools over stdio or streamable HTTP
//
// The toolbox sub-package is the foundation layer. The mcpserver package is a
// thin wrapper around the official MCP Go SDK
// (github.com/modelcontextprotocol/go-sdk).
package tools
