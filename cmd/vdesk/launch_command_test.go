package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"vdesk/internal/session"
	"vdesk/internal/testsupport"
)

func TestLaunchWaitsForViewerAndUnlocks(t *testing.T) {
	viewerPath, argLog := testsupport.RecordingViewer(t, 0)
	env := setupCLITestEnv(t, testsupport.WithViewerBinary(viewerPath), testsupport.WithWait(true))

	out, stderr, err := runCLI(t, []string{"launch", "alpha"}, env.configPath)
	if err != nil {
		t.Fatalf("launch: %v\n%s", err, stderr)
	}
	requireContains(t, out, "State:    Exited")
	requireContains(t, stderr, "alpha: Unlocked")

	want := []string{
		"POST /machines/alpha/start",
		"POST /machines/alpha/lock",
		"POST /machines/alpha/spice",
		"POST /machines/alpha/unlock",
	}
	if got := env.api.seen(); !slices.Equal(got, want) {
		t.Fatalf("requests = %v, want %v", got, want)
	}

	args := testsupport.ReadLines(t, argLog)
	if len(args) == 0 || !strings.HasSuffix(args[0], "alpha__.vv") {
		t.Fatalf("unexpected viewer args %v", args)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	requireContains(t, string(data), "[virt-viewer]\n")
	requireContains(t, string(data), "title=alpha\n")
}

func TestLaunchViewerMissingStillUnlocks(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithViewerBinary("/nonexistent/remote-viewer"))

	_, _, err := runCLI(t, []string{"launch", "--quiet", "alpha"}, env.configPath)
	if err == nil {
		t.Fatal("expected viewer not found")
	}
	requireContains(t, err.Error(), "remote viewer not found")
	if got := env.api.seen(); got[len(got)-1] != "POST /machines/alpha/unlock" {
		t.Fatalf("expected a final unlock, got %v", got)
	}
}

func TestLaunchFlagsAreExclusive(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"launch", "--wait", "--detach", "alpha"}, env.configPath); err == nil {
		t.Fatal("expected --wait and --detach to conflict")
	}
	if len(env.api.seen()) != 0 {
		t.Fatal("no request expected")
	}
}

func TestStateLabel(t *testing.T) {
	if got := stateLabel(session.StateFetchingParams); got != "Fetching Params" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := stateLabel(session.StateDetached); got != "Detached" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestLogsFiltersBySession(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}
	logPath := filepath.Join(env.cfg.Paths.LogDir, "vdesk.log")
	content := "2026-01-02 10:00:00 INFO  [s-1] session@alpha: launch requested\n2026-01-02 10:00:01 INFO  [s-2] session@beta: launch requested\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "--session", "s-2"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if strings.Contains(out, "s-1") || !strings.Contains(out, "session@beta") {
		t.Fatalf("unexpected output %q", out)
	}
}
