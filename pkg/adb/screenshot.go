package adb

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Screenshot captures the screen with screencap and returns the PNG bytes.
// The capture goes through a unique file on /sdcard which is removed after
// the pull; piping screencap output through the shell service mangles binary
// data on some devices.
func (m *Manager) Screenshot(ctx context.Context) ([]byte, error) {
	remote := fmt.Sprintf("/sdcard/droidly-screen-%s.png", uuid.NewString())

	if _, err := m.Shell(ctx, "screencap -p "+remote); err != nil {
		return nil, err
	}
	defer m.removeRemote(remote)

	data, err := m.Pull(ctx, remote)
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(data, pngMagic) {
		return nil, fmt.Errorf("adb: screencap produced %d bytes that are not a PNG", len(data))
	}

	return data, nil
}
