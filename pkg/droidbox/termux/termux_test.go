package termux

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/germanamz/droidly/pkg/tools/toolbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirectRe extracts the output and exit-status file paths from the wrapped
// script embedded in the am startservice command line.
var redirectRe = regexp.MustCompile(`> ([^\s']+) 2>&1; echo \$\? > ([^\s']+)`)

// fakeManager emulates the device side of the bridge protocol. When reachable
// is true, am startservice succeeds and the exit-status and output files
// appear immediately (unless writeDone is false). onScript lets tests emulate
// side effects of the Termux-side script.
type fakeManager struct {
	reachable   bool
	writeDone   bool
	exitCode    int
	output      string
	fallbackOut string
	onScript    func(f *fakeManager, cmd string)
	files       map[string][]byte
	pushed      map[string][]byte
	cmds        []string
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		reachable: true,
		writeDone: true,
		files:     map[string][]byte{},
		pushed:    map[string][]byte{},
	}
}

func (f *fakeManager) Shell(_ context.Context, cmd string) (string, error) {
	f.cmds = append(f.cmds, cmd)

	switch {
	case strings.HasPrefix(cmd, "mkdir -p "):
		return "", nil
	case strings.HasPrefix(cmd, "am startservice"):
		if !f.reachable {
			return "Error: Not found; no service started.", nil
		}
		if f.writeDone {
			m := redirectRe.FindStringSubmatch(cmd)
			if m == nil {
				return "", fmt.Errorf("no redirect in %q", cmd)
			}
			f.files[m[1]] = []byte(f.output)
			f.files[m[2]] = []byte(fmt.Sprintf("%d\n", f.exitCode))
			if f.onScript != nil {
				f.onScript(f, cmd)
			}
		}
		return "Starting service: Intent { act=com.termux.RUN_COMMAND }", nil
	case strings.HasPrefix(cmd, "cat "):
		name := strings.TrimSuffix(strings.TrimPrefix(cmd, "cat "), " 2>/dev/null")
		name = strings.Trim(name, "'")
		if data, ok := f.files[name]; ok {
			return string(data), nil
		}
		return "", nil
	case strings.HasPrefix(cmd, "rm -f"):
		return "", nil
	}

	return f.fallbackOut, nil
}

func (f *fakeManager) Push(_ context.Context, data []byte, remotePath string) error {
	f.pushed[remotePath] = data
	return nil
}

func (f *fakeManager) Pull(_ context.Context, remotePath string) ([]byte, error) {
	data, ok := f.files[remotePath]
	if !ok {
		return nil, fmt.Errorf("remote object %q does not exist", remotePath)
	}

	return data, nil
}

func newTestBridge(f *fakeManager) *Termux {
	return New(f, "/sdcard/Download/.droidly", 5*time.Second)
}

func callTool(t *testing.T, tx *Termux, name, args string) (toolbox.Result, error) {
	t.Helper()

	tool, ok := tx.Tools().Get(name)
	require.True(t, ok, "tool %s not registered", name)

	return tool.Handler(context.Background(), json.RawMessage(args))
}

func TestToolsRegistered(t *testing.T) {
	tb := newTestBridge(newFakeManager()).Tools()

	for _, name := range []string{
		"termux_run_command",
		"termux_write_file",
		"termux_read_file",
		"termux_list_files",
		"termux_delete_file",
	} {
		_, ok := tb.Get(name)
		assert.True(t, ok, "missing tool %s", name)
	}
	assert.Len(t, tb.Tools(), 5)
}

func TestShQuote(t *testing.T) {
	assert.Equal(t, `'plain'`, shQuote("plain"))
	assert.Equal(t, `'it'\''s'`, shQuote("it's"))
}

func TestResolvePath(t *testing.T) {
	p, err := resolvePath("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, Home+"/notes.txt", p)

	p, err = resolvePath("/sdcard/x")
	require.NoError(t, err)
	assert.Equal(t, "/sdcard/x", p)

	p, err = resolvePath("a/../b")
	require.NoError(t, err)
	assert.Equal(t, Home+"/b", p)

	_, err = resolvePath("")
	require.Error(t, err)

	_, err = resolvePath("bad'name")
	require.Error(t, err)
}

func TestBuildRunCommand(t *testing.T) {
	cmd := buildRunCommand("echo a,b")

	assert.Contains(t, cmd, "am startservice --user 0 -n com.termux/com.termux.app.RunCommandService")
	assert.Contains(t, cmd, "-a com.termux.RUN_COMMAND")
	assert.Contains(t, cmd, "--es com.termux.RUN_COMMAND_PATH '/data/data/com.termux/files/usr/bin/bash'")
	// Literal commas must be escaped for the --esa string array extra.
	assert.Contains(t, cmd, `echo a\,b`)
	assert.Contains(t, cmd, "--ez com.termux.RUN_COMMAND_BACKGROUND true")
}

func TestRunCommand(t *testing.T) {
	f := newFakeManager()
	f.output = "hello from termux\n"

	result, err := callTool(t, newTestBridge(f), "termux_run_command", `{"command":"echo hello"}`)
	require.NoError(t, err)
	assert.Equal(t, "hello from termux\n", result.Text)
}

func TestRunCommandNonZeroExit(t *testing.T) {
	f := newFakeManager()
	f.output = "no such file\n"
	f.exitCode = 2

	result, err := callTool(t, newTestBridge(f), "termux_run_command", `{"command":"ls /nope"}`)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "no such file")
	assert.Contains(t, result.Text, "(exit status 2)")
}

func TestRunCommandFallback(t *testing.T) {
	f := newFakeManager()
	f.reachable = false
	f.fallbackOut = "ran on adb shell\n"

	result, err := callTool(t, newTestBridge(f), "termux_run_command", `{"command":"whoami"}`)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "ran on adb shell")
	assert.Contains(t, result.Text, "Termux unreachable; ran via adb shell")

	// The raw command must have been re-run over plain adb shell.
	assert.Contains(t, f.cmds, "whoami")
}

func TestRunCommandTimeoutFallsBack(t *testing.T) {
	f := newFakeManager()
	f.writeDone = false // startservice succeeds but no exit status ever appears
	f.fallbackOut = "fallback output"

	tx := New(f, "/sdcard/Download/.droidly", 0)

	result, err := callTool(t, tx, "termux_run_command", `{"command":"sleep 999"}`)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "fallback output")
	assert.Contains(t, result.Text, "Termux unreachable")
}

func TestRunCommandRequired(t *testing.T) {
	_, err := callTool(t, newTestBridge(newFakeManager()), "termux_run_command", `{}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command is required")
}

func TestWriteFile(t *testing.T) {
	f := newFakeManager()
	tx := newTestBridge(f)

	result, err := callTool(t, tx, "termux_write_file", `{"path":"notes.txt","content":"hello"}`)
	require.NoError(t, err)
	assert.Equal(t, "Wrote 5 bytes to "+Home+"/notes.txt", result.Text)

	// Content was staged in the shared directory before the Termux-side copy.
	var staged string
	for p, data := range f.pushed {
		assert.Equal(t, []byte("hello"), data)
		staged = p
	}
	require.NotEmpty(t, staged)
	assert.True(t, strings.HasPrefix(staged, "/sdcard/Download/.droidly/stage-"))
	assert.True(t, strings.HasSuffix(staged, "-notes.txt"))
}

func TestWriteFileFallback(t *testing.T) {
	f := newFakeManager()
	f.reachable = false

	result, err := callTool(t, newTestBridge(f), "termux_write_file", `{"path":"notes.txt","content":"hello"}`)
	require.NoError(t, err)
	assert.Equal(t, "Termux unreachable; content left at /sdcard/Download/.droidly/notes.txt", result.Text)
	assert.Equal(t, []byte("hello"), f.pushed["/sdcard/Download/.droidly/notes.txt"])
}

func TestWriteFileCopyFailure(t *testing.T) {
	f := newFakeManager()
	f.exitCode = 1
	f.output = "cp: permission denied\n"

	_, err := callTool(t, newTestBridge(f), "termux_write_file", `{"path":"notes.txt","content":"hello"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy into place failed (exit 1)")
}

func TestWriteFilePathRequired(t *testing.T) {
	_, err := callTool(t, newTestBridge(newFakeManager()), "termux_write_file", `{"content":"x"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestReadFile(t *testing.T) {
	f := newFakeManager()
	f.onScript = func(f *fakeManager, cmd string) {
		// Emulate the Termux-side `cp target staged`.
		m := regexp.MustCompile(`chmod 644 ([^\s;']+)`).FindStringSubmatch(cmd)
		if m != nil {
			f.files[m[1]] = []byte("file content")
		}
	}

	result, err := callTool(t, newTestBridge(f), "termux_read_file", `{"path":"notes.txt"}`)
	require.NoError(t, err)
	assert.Equal(t, "file content", result.Text)
}

func TestReadFileFallback(t *testing.T) {
	f := newFakeManager()
	f.reachable = false
	f.files["/sdcard/Download/.droidly/notes.txt"] = []byte("shared content")

	// Relative path: the target resolves into the Termux home, which plain
	// adb shell cannot read, so the fallback must pull the shared-dir copy.
	result, err := callTool(t, newTestBridge(f), "termux_read_file", `{"path":"notes.txt"}`)
	require.NoError(t, err)
	assert.Equal(t, "shared content", result.Text)
	assert.NotContains(t, f.cmds, "cat '"+Home+"/notes.txt'")
}

func TestReadFileFallbackMissingCopy(t *testing.T) {
	f := newFakeManager()
	f.reachable = false

	_, err := callTool(t, newTestBridge(f), "termux_read_file", `{"path":"notes.txt"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no shared directory copy at /sdcard/Download/.droidly/notes.txt")
}

func TestWriteThenReadFallback(t *testing.T) {
	f := newFakeManager()
	f.reachable = false
	tx := newTestBridge(f)

	_, err := callTool(t, tx, "termux_write_file", `{"path":"notes.txt","content":"hello"}`)
	require.NoError(t, err)

	// What the write fallback left behind is what the read fallback returns.
	f.files["/sdcard/Download/.droidly/notes.txt"] = f.pushed["/sdcard/Download/.droidly/notes.txt"]

	result, err := callTool(t, tx, "termux_read_file", `{"path":"notes.txt"}`)
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Text)
}

func TestReadFileCopyFailure(t *testing.T) {
	f := newFakeManager()
	f.exitCode = 1
	f.output = "cp: no such file\n"

	_, err := callTool(t, newTestBridge(f), "termux_read_file", `{"path":"missing.txt"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such file")
}

func TestListFiles(t *testing.T) {
	f := newFakeManager()
	f.output = "total 8\n-rw------- 1 u0_a123 u0_a123 5 notes.txt\n"

	result, err := callTool(t, newTestBridge(f), "termux_list_files", `{}`)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "notes.txt")
}

func TestListFilesFallback(t *testing.T) {
	f := newFakeManager()
	f.reachable = false
	f.fallbackOut = "total 0\n"

	result, err := callTool(t, newTestBridge(f), "termux_list_files", `{"path":"projects"}`)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "listed shared directory instead")
	assert.Contains(t, f.cmds, "ls -la '/sdcard/Download/.droidly'")
}

func TestDeleteFile(t *testing.T) {
	f := newFakeManager()

	result, err := callTool(t, newTestBridge(f), "termux_delete_file", `{"path":"notes.txt"}`)
	require.NoError(t, err)
	assert.Equal(t, "Deleted "+Home+"/notes.txt", result.Text)

	// Shared-directory copies are cleared before the Termux-side delete.
	assert.Contains(t, f.cmds, "rm -f '/sdcard/Download/.droidly/stage-'*'-notes.txt' '/sdcard/Download/.droidly/notes.txt'")
}

func TestDeleteFileQuotesSharedCleanup(t *testing.T) {
	f := newFakeManager()

	// A base name with spaces and glob characters must stay inside the
	// quotes; only the stage wildcard may expand.
	_, err := callTool(t, newTestBridge(f), "termux_delete_file", `{"path":"weird * name.txt"}`)
	require.NoError(t, err)
	assert.Contains(t, f.cmds, "rm -f '/sdcard/Download/.droidly/stage-'*'-weird * name.txt' '/sdcard/Download/.droidly/weird * name.txt'")
}

func TestDeleteFileFallback(t *testing.T) {
	f := newFakeManager()
	f.reachable = false

	result, err := callTool(t, newTestBridge(f), "termux_delete_file", `{"path":"notes.txt"}`)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "removed staged copies of notes.txt")
}

func TestRunTermuxCancelledContext(t *testing.T) {
	f := newFakeManager()
	f.writeDone = false
	tx := newTestBridge(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := tx.runTermux(ctx, "echo hi")
	require.Error(t, err)
}
