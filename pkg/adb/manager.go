// Package adb binds droidly to a single Android device through the ADB
// server's smart socket. The Manager wraps a gadb device connection and
// exposes the device operations the tool layer needs: raw shell commands,
// package listing, UI hierarchy dumps, screenshots, intent queries, and sync
// file transfer.
//
// Device selection happens once, at construction: a configured serial must be
// attached, and with no configured serial exactly one attached device is
// required.
package adb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/electricbubble/gadb"
	"go.uber.org/zap"
)

// deviceConn is the subset of gadb.Device the Manager uses. Tests substitute
// a fake; production always uses a real gadb device.
type deviceConn interface {
	Serial() string
	RunShellCommand(cmd string, args ...string) (string, error)
	Push(source io.Reader, remotePath string, modification time.Time, mode ...os.FileMode) error
	Pull(remotePath string, dest io.Writer) error
}

// Manager executes operations against the selected device.
type Manager struct {
	dev deviceConn
	log *zap.Logger
}

// NewManager connects to the ADB server at host:port and binds to a device.
// serial selects a specific device; when empty, exactly one attached device
// is required and it is auto-selected.
func NewManager(host string, port int, serial string, log *zap.Logger) (*Manager, error) {
	client, err := gadb.NewClientWith(host, port)
	if err != nil {
		return nil, fmt.Errorf("adb: connect %s:%d: %w", host, port, err)
	}

	devices, err := client.DeviceList()
	if err != nil {
		return nil, fmt.Errorf("adb: list devices: %w", err)
	}

	attached := make([]string, 0, len(devices))
	for i := range devices {
		attached = append(attached, devices[i].Serial())
	}

	chosen, err := pickSerial(attached, serial)
	if err != nil {
		return nil, err
	}

	var dev deviceConn
	for i := range devices {
		if devices[i].Serial() == chosen {
			dev = devices[i]
			break
		}
	}

	log.Info("device selected", zap.String("serial", chosen))

	return &Manager{dev: dev, log: log}, nil
}

// pickSerial resolves the target device serial from the attached list. An
// explicit want must be attached. With no explicit serial, exactly one
// attached device is required.
func pickSerial(attached []string, want string) (string, error) {
	if want != "" {
		for _, s := range attached {
			if s == want {
				return s, nil
			}
		}

		return "", fmt.Errorf("adb: device %s not found (attached: %s)", want, joinOrNone(attached))
	}

	switch len(attached) {
	case 0:
		return "", fmt.Errorf("adb: no devices attached")
	case 1:
		return attached[0], nil
	default:
		return "", fmt.Errorf("adb: multiple devices attached (%s), set device.serial in the config", joinOrNone(attached))
	}
}

func joinOrNone(serials []string) string {
	if len(serials) == 0 {
		return "none"
	}

	sorted := append([]string(nil), serials...)
	sort.Strings(sorted)

	return strings.Join(sorted, ", ")
}

// Serial returns the serial of the bound device.
func (m *Manager) Serial() string {
	return m.dev.Serial()
}

// Shell runs a raw shell command string on the device and returns its
// combined output. The gadb shell service is blocking; ctx is checked before
// dispatch.
func (m *Manager) Shell(ctx context.Context, command string) (string, error) {
	if command == "" {
		return "", fmt.Errorf("adb: empty shell command")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.log.Debug("adb shell", zap.String("serial", m.dev.Serial()), zap.String("command", command))

	out, err := m.dev.RunShellCommand(command)
	if err != nil {
		return "", fmt.Errorf("adb: shell %q: %w", command, err)
	}

	return out, nil
}

// Push writes data to remotePath on the device via the sync service.
func (m *Manager) Push(ctx context.Context, data []byte, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.log.Debug("adb push", zap.String("remote", remotePath), zap.Int("bytes", len(data)))

	if err := m.dev.Push(bytes.NewReader(data), remotePath, time.Now()); err != nil {
		return fmt.Errorf("adb: push %s: %w", remotePath, err)
	}

	return nil
}

// Pull reads remotePath from the device via the sync service.
func (m *Manager) Pull(ctx context.Context, remotePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.log.Debug("adb pull", zap.String("remote", remotePath))

	var buf bytes.Buffer
	if err := m.dev.Pull(remotePath, &buf); err != nil {
		return nil, fmt.Errorf("adb: pull %s: %w", remotePath, err)
	}

	return buf.Bytes(), nil
}

// removeRemote deletes a temp file on the device. Failures are logged, not
// returned: the file lives under /sdcard and a leftover is harmless.
func (m *Manager) removeRemote(remotePath string) {
	if _, err := m.dev.RunShellCommand("rm", "-f", remotePath); err != nil {
		m.log.Warn("remove remote temp file", zap.String("remote", remotePath), zap.Error(err))
	}
}
