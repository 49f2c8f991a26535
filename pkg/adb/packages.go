package adb

import (
	"context"
	"fmt"
	"strings"
)

// Package filters accepted by Packages.
const (
	PackagesAll    = "all"
	PackagesUser   = "user"
	PackagesSystem = "system"
)

// Package is one installed package as reported by the package manager.
type Package struct {
	Name     string
	Disabled bool
}

// Packages lists installed packages. filter is one of "all" (or empty),
// "user" (third-party only) or "system". Disabled packages are marked via a
// second `pm list packages -d` query.
func (m *Manager) Packages(ctx context.Context, filter string) ([]Package, error) {
	var flag string
	switch filter {
	case "", PackagesAll:
	case PackagesUser:
		flag = " -3"
	case PackagesSystem:
		flag = " -s"
	default:
		return nil, fmt.Errorf("adb: unknown package filter %q", filter)
	}

	out, err := m.Shell(ctx, "pm list packages"+flag)
	if err != nil {
		return nil, err
	}

	names := parsePackageList(out)

	disabled := make(map[string]bool)
	if out, err := m.Shell(ctx, "pm list packages -d"); err == nil {
		for _, name := range parsePackageList(out) {
			disabled[name] = true
		}
	}

	packages := make([]Package, 0, len(names))
	for _, name := range names {
		packages = append(packages, Package{Name: name, Disabled: disabled[name]})
	}

	return packages, nil
}

// parsePackageList extracts package names from `pm list packages` output,
// which is one `package:<name>` entry per line.
func parsePackageList(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if name, ok := strings.CutPrefix(line, "package:"); ok && name != "" {
			names = append(names, name)
		}
	}

	return names
}
