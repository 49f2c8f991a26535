package adb

import (
	"context"
	"strings"
)

// DeviceInfo is the basic identity of the bound device.
type DeviceInfo struct {
	Serial         string
	Model          string
	Brand          string
	AndroidVersion string
	SDK            string
}

// Info reads the device identity from system properties.
func (m *Manager) Info(ctx context.Context) (DeviceInfo, error) {
	info := DeviceInfo{Serial: m.dev.Serial()}

	props := []struct {
		name string
		dst  *string
	}{
		{"ro.product.model", &info.Model},
		{"ro.product.brand", &info.Brand},
		{"ro.build.version.release", &info.AndroidVersion},
		{"ro.build.version.sdk", &info.SDK},
	}

	for _, p := range props {
		out, err := m.Shell(ctx, "getprop "+p.name)
		if err != nil {
			return DeviceInfo{}, err
		}
		*p.dst = strings.TrimSpace(out)
	}

	return info, nil
}
