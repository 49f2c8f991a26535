// Command droidly is an MCP server that exposes a connected Android device as
// a set of tools: package listing, raw shell access, UI layout dumps,
// screenshots, intent queries, and a Termux bridge for on-device files and
// commands.
//
// By default it speaks MCP over stdio; with -http (or http.addr in the
// config) it serves the streamable HTTP transport instead. Logs go to stderr
// so stdout stays clean for the protocol.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/germanamz/droidly/pkg/adb"
	"github.com/germanamz/droidly/pkg/config"
	"github.com/germanamz/droidly/pkg/droidbox/defaults"
	"github.com/germanamz/droidly/pkg/droidbox/device"
	"github.com/germanamz/droidly/pkg/droidbox/termux"
	"github.com/germanamz/droidly/pkg/tools/mcpserver"
	"github.com/germanamz/droidly/pkg/tools/toolbox"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 && os.Args[1] == "tools" {
		toolsCmd := flag.NewFlagSet("tools", flag.ExitOnError)
		toolsCmd.Usage = func() {
			fmt.Fprintf(os.Stderr, "Usage: droidly tools [flags]\n\nPrint the tool catalog the server would expose.\n\nFlags:\n")
			toolsCmd.PrintDefaults()
		}
		cfgPath := toolsCmd.String("config", "droidly.yaml", "path to configuration file")
		_ = toolsCmd.Parse(os.Args[2:])

		if err := runToolCatalog(*cfgPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		return
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: droidly [flags]\n       droidly tools [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  tools  Print the tool catalog the server would expose\n")
	}

	configPath := flag.String("config", "droidly.yaml", "path to configuration file (missing file uses defaults)")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	httpAddr := flag.String("http", "", "serve MCP over streamable HTTP on this address instead of stdio (overrides http.addr in config)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(*configPath, *httpAddr, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, httpAddr string, verbose bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tb, err := buildToolbox(cfg, log)
	if err != nil {
		return err
	}

	srv := mcpserver.New(cfg.ServerName(), cfg.ServerVersion())
	srv.Register(tb.Tools()...)

	if httpAddr == "" {
		httpAddr = cfg.HTTP.Addr
	}

	if httpAddr != "" {
		log.Info("serving MCP over HTTP", zap.String("addr", httpAddr))

		err := srv.ServeHTTP(ctx, httpAddr)
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	}

	log.Info("serving MCP over stdio")

	err = srv.Serve(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// buildToolbox connects to the device and assembles the exposed tool set.
func buildToolbox(cfg config.Config, log *zap.Logger) (*toolbox.ToolBox, error) {
	host, port := cfg.ADBAddr()

	mgr, err := adb.NewManager(host, port, cfg.Device.Serial, log)
	if err != nil {
		return nil, err
	}

	bridge := termux.New(mgr, cfg.TermuxSharedDir(), cfg.TermuxTimeout())

	tb := defaults.New(device.New(mgr).Tools(), bridge.Tools())

	return tb.Filter(cfg.Server.Tools), nil
}

// runToolCatalog prints the registered tools without touching a device: the
// catalog is static, so a nil manager is never invoked.
func runToolCatalog(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	bridge := termux.New(nil, cfg.TermuxSharedDir(), cfg.TermuxTimeout())
	tb := defaults.New(device.New(nil).Tools(), bridge.Tools())

	tools := tb.Filter(cfg.Server.Tools).Tools()
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })

	for _, t := range tools {
		fmt.Printf("%s\n    %s\n", t.Name, t.Description)
	}

	return nil
}

// newLogger builds the process logger. Everything goes to stderr: stdout is
// reserved for the MCP stdio transport.
func newLogger(verbose bool) (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stderr"}
	logCfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	log, err := logCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	return log, nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
