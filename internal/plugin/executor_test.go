package plugin

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeScriptPlugin creates a plugin whose executable is a shell script.
func writeScriptPlugin(t *testing.T, root, name, script string) *Plugin {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script plugins not supported on windows")
	}

	pluginDir := filepath.Join(root, name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("create plugin dir: %v", err)
	}

	execPath := filepath.Join(pluginDir, name)
	if err := os.WriteFile(execPath, []byte("#!/bin/sh\n"+script+"\n"), 0755); err != nil {
		t.Fatalf("write executable: %v", err)
	}

	return &Plugin{
		Manifest:   Manifest{Name: name, Executable: name},
		Path:       pluginDir,
		Executable: execPath,
	}
}

func TestExecutor_Execute(t *testing.T) {
	p := writeScriptPlugin(t, t.TempDir(), "echo-ok",
		`echo '{"success": true, "data": {"volume": 0.55}}'`)

	e := NewExecutor(0)
	resp, err := e.Execute(p, &Request{Action: "volume_up", Fingers: 3})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if !strings.Contains(string(resp.Data), "0.55") {
		t.Errorf("Data = %s, want volume payload", resp.Data)
	}
}

func TestExecutor_Execute_ReadsRequest(t *testing.T) {
	// The script echoes the request action back in the response data.
	p := writeScriptPlugin(t, t.TempDir(), "echo-req",
		`req=$(cat)
printf '{"success": true, "data": %s}' "$req"`)

	e := NewExecutor(0)
	resp, err := e.Execute(p, &Request{Action: "next", Fingers: 1})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(string(resp.Data), `"action":"next"`) {
		t.Errorf("plugin did not receive request on stdin, data = %s", resp.Data)
	}
	if !strings.Contains(string(resp.Data), `"fingers":1`) {
		t.Errorf("plugin did not receive fingers on stdin, data = %s", resp.Data)
	}
}

func TestExecutor_Execute_PluginError(t *testing.T) {
	p := writeScriptPlugin(t, t.TempDir(), "fails",
		`echo "boom" >&2
exit 1`)

	e := NewExecutor(0)
	_, err := e.Execute(p, &Request{Action: "play", Fingers: 5})
	if err == nil {
		t.Fatal("Execute() should fail for non-zero exit")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error should carry stderr, got %v", err)
	}
}

func TestExecutor_Execute_BadOutput(t *testing.T) {
	p := writeScriptPlugin(t, t.TempDir(), "garbage", `echo "not json"`)

	e := NewExecutor(0)
	_, err := e.Execute(p, &Request{Action: "pause", Fingers: 0})
	if err == nil {
		t.Fatal("Execute() should fail for unparseable output")
	}
}

func TestExecutor_Execute_Timeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timeout test in short mode")
	}

	p := writeScriptPlugin(t, t.TempDir(), "sleepy", `sleep 10`)

	e := NewExecutor(200 * time.Millisecond)

	start := time.Now()
	_, err := e.Execute(p, &Request{Action: "play", Fingers: 5})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Execute() should time out")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %v, want timeout", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout took %v, plugin was not killed", elapsed)
	}
}
