// Package droidbox provides the built-in device tools the MCP server
// exposes. Each sub-package implements a specific tool category:
//
//   - [github.com/germanamz/droidly/pkg/droidbox/device]: ADB device tools (packages, shell, UI layout, screenshot, intents, device info)
//   - [github.com/germanamz/droidly/pkg/droidbox/termux]: Termux bridge tools (run command, file read/write/list/delete via the shared directory)
//   - [github.com/germanamz/droidly/pkg/droidbox/defaults]: default toolbox builder that merges the built-in toolboxes
package droidbox
