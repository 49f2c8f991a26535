package adb

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ActionIntents queries the package manager for the intent actions the given
// package's activities resolve, as listed in the Activity Resolver Table of
// `dumpsys package`.
func (m *Manager) ActionIntents(ctx context.Context, packageName string) ([]string, error) {
	if packageName == "" {
		return nil, fmt.Errorf("adb: package name is required")
	}

	out, err := m.Shell(ctx, "dumpsys package "+packageName)
	if err != nil {
		return nil, err
	}

	if strings.Contains(out, "Unable to find package") {
		return nil, fmt.Errorf("adb: package %s not found", packageName)
	}

	return parseActionIntents(out), nil
}

// parseActionIntents walks the Activity Resolver Table section of dumpsys
// output. Action names appear as indented `<action>:` header lines (e.g.
// `android.intent.action.MAIN:`) inside the table's sub-blocks.
func parseActionIntents(out string) []string {
	seen := make(map[string]struct{})
	inTable := false

	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "Activity Resolver Table:" {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}
		// The table ends at the next top-level (non-indented) section.
		if trimmed != "" && !strings.HasPrefix(line, " ") {
			break
		}

		action, ok := strings.CutSuffix(trimmed, ":")
		if !ok || action == "" {
			continue
		}
		if !strings.Contains(action, ".") || strings.ContainsAny(action, " /") {
			continue
		}

		seen[action] = struct{}{}
	}

	actions := make([]string, 0, len(seen))
	for a := range seen {
		actions = append(actions, a)
	}
	sort.Strings(actions)

	return actions
}
