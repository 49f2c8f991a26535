package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "droidly.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
device:
  serial: emulator-5554
adb:
  host: 10.0.0.2
  port: 5038
termux:
  shared_dir: /sdcard/bridge
  timeout: 45s
server:
  name: my-droid
  version: 1.2.3
  tools:
    - get_screenshot
http:
  addr: :8080
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "emulator-5554", cfg.Device.Serial)
	assert.Equal(t, "10.0.0.2", cfg.ADB.Host)
	assert.Equal(t, 5038, cfg.ADB.Port)
	assert.Equal(t, "/sdcard/bridge", cfg.Termux.SharedDir)
	assert.Equal(t, "45s", cfg.Termux.Timeout)
	assert.Equal(t, "my-droid", cfg.Server.Name)
	assert.Equal(t, []string{"get_screenshot"}, cfg.Server.Tools)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoadMissingFileReturnsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "device: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("DROIDLY_SERIAL", "R58M123ABC")
	path := writeConfig(t, "device:\n  serial: ${DROIDLY_SERIAL}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "R58M123ABC", cfg.Device.Serial)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())

	err := Config{ADB: ADBConfig{Port: 70000}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	err = Config{Termux: TermuxConfig{Timeout: "soon"}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "termux timeout")

	err = Config{Termux: TermuxConfig{SharedDir: "relative/dir"}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be absolute")
}

func TestDefaults(t *testing.T) {
	var cfg Config

	host, port := cfg.ADBAddr()
	assert.Equal(t, DefaultADBHost, host)
	assert.Equal(t, DefaultADBPort, port)

	assert.Equal(t, DefaultServerName, cfg.ServerName())
	assert.Equal(t, DefaultServerVersion, cfg.ServerVersion())
	assert.Equal(t, DefaultTermuxSharedDir, cfg.TermuxSharedDir())
	assert.Equal(t, DefaultTermuxTimeout, cfg.TermuxTimeout())
}

func TestTermuxTimeoutParsed(t *testing.T) {
	cfg := Config{Termux: TermuxConfig{Timeout: "2m"}}
	assert.Equal(t, 2*time.Minute, cfg.TermuxTimeout())
}

func TestOverriddenAccessors(t *testing.T) {
	cfg := Config{
		ADB:    ADBConfig{Host: "adb.local", Port: 5555},
		Server: ServerConfig{Name: "n", Version: "v"},
		Termux: TermuxConfig{SharedDir: "/sdcard/x"},
	}

	host, port := cfg.ADBAddr()
	assert.Equal(t, "adb.local", host)
	assert.Equal(t, 5555, port)
	assert.Equal(t, "n", cfg.ServerName())
	assert.Equal(t, "v", cfg.ServerVersion())
	assert.Equal(t, "/sdcard/x", cfg.TermuxSharedDir())
}
