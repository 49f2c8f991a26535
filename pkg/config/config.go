// Package config loads and validates the droidly YAML configuration. The
// config file is optional: a missing file yields the zero config, and every
// consumer falls back to sensible defaults.
package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied where the YAML leaves fields unset.
const (
	DefaultADBHost         = "127.0.0.1"
	DefaultADBPort         = 5037
	DefaultServerName      = "droidly"
	DefaultServerVersion   = "0.2.0"
	DefaultTermuxSharedDir = "/sdcard/Download/.droidly"
	DefaultTermuxTimeout   = 30 * time.Second
)

// Config is the top-level droidly configuration.
type Config struct {
	Device DeviceConfig `yaml:"device"`
	ADB    ADBConfig    `yaml:"adb"`
	Termux TermuxConfig `yaml:"termux"`
	Server ServerConfig `yaml:"server"`
	HTTP   HTTPConfig   `yaml:"http"`
}

// DeviceConfig selects the target device. An empty serial means auto-select:
// exactly one attached device is required in that case.
type DeviceConfig struct {
	Serial string `yaml:"serial"`
}

// ADBConfig points at the ADB server smart socket.
type ADBConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TermuxConfig holds Termux bridge settings.
type TermuxConfig struct {
	SharedDir string `yaml:"shared_dir"` // On-device directory both adb shell and Termux can reach.
	Timeout   string `yaml:"timeout"`    // Duration string, e.g. "30s".
}

// ServerConfig names the MCP server implementation and optionally restricts
// the exposed tool set.
type ServerConfig struct {
	Name    string   `yaml:"name"`
	Version string   `yaml:"version"`
	Tools   []string `yaml:"tools"` // Empty means all registered tools.
}

// HTTPConfig enables the streamable HTTP transport when Addr is set.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads a YAML file and returns a Config. A missing file is not an
// error: the zero Config is returned so defaults apply. Environment variables
// referenced as ${VAR} or $VAR in the YAML are expanded before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}

		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.ADB.Port < 0 || c.ADB.Port > 65535 {
		return fmt.Errorf("config: adb port %d out of range", c.ADB.Port)
	}

	if c.Termux.Timeout != "" {
		if _, err := time.ParseDuration(c.Termux.Timeout); err != nil {
			return fmt.Errorf("config: termux timeout: %w", err)
		}
	}

	if c.Termux.SharedDir != "" && !path.IsAbs(c.Termux.SharedDir) {
		return fmt.Errorf("config: termux shared_dir %q must be absolute", c.Termux.SharedDir)
	}

	return nil
}

// ADBAddr returns the ADB server host and port, defaulted.
func (c Config) ADBAddr() (string, int) {
	host := c.ADB.Host
	if host == "" {
		host = DefaultADBHost
	}

	port := c.ADB.Port
	if port == 0 {
		port = DefaultADBPort
	}

	return host, port
}

// ServerName returns the MCP implementation name, defaulted.
func (c Config) ServerName() string {
	if c.Server.Name == "" {
		return DefaultServerName
	}

	return c.Server.Name
}

// ServerVersion returns the MCP implementation version, defaulted.
func (c Config) ServerVersion() string {
	if c.Server.Version == "" {
		return DefaultServerVersion
	}

	return c.Server.Version
}

// TermuxSharedDir returns the on-device shared directory, defaulted.
func (c Config) TermuxSharedDir() string {
	if c.Termux.SharedDir == "" {
		return DefaultTermuxSharedDir
	}

	return c.Termux.SharedDir
}

// TermuxTimeout returns the Termux command timeout, defaulted. Validate must
// have been called first; unparseable values fall back to the default.
func (c Config) TermuxTimeout() time.Duration {
	if c.Termux.Timeout == "" {
		return DefaultTermuxTimeout
	}

	d, err := time.ParseDuration(c.Termux.Timeout)
	if err != nil {
		return DefaultTermuxTimeout
	}

	return d
}
