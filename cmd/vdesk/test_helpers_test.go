package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vdesk/internal/account"
	"vdesk/internal/config"
	"vdesk/internal/testsupport"
)

const testInventory = `[
  {"id": 1, "name": "alpha", "vmid": "101", "node": {"id": 7, "ip": "10.0.0.7", "name": "pve-1"}, "locked_by": null},
  {"id": 2, "name": "beta", "vmid": "102", "node": {"id": 7, "ip": "10.0.0.7", "name": "pve-1"}, "locked_by": {"id": 3, "name": "carol"}}
]`

type fakeAPI struct {
	mu       sync.Mutex
	requests []string
	status   map[string]int
}

func (a *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if user, pass, ok := r.BasicAuth(); !ok || user != "app-1" || pass != "s3cret" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	a.mu.Lock()
	a.requests = append(a.requests, r.Method+" "+r.URL.Path)
	status, ok := a.status[r.URL.Path]
	a.mu.Unlock()
	if ok {
		w.WriteHeader(status)
		return
	}
	switch {
	case r.URL.Path == "/machines/":
		_, _ = w.Write([]byte(testInventory))
	case strings.HasSuffix(r.URL.Path, "/spice"):
		_, _ = w.Write([]byte(`{"type":"spice","host":"10.0.0.7","port":5901}`))
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (a *fakeAPI) seen() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.requests)
}

type cliTestEnv struct {
	cfg        *config.Config
	api        *fakeAPI
	server     *httptest.Server
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("VDESK_ACCOUNT_FILE", "")

	api := &fakeAPI{status: map[string]int{}}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	testsupport.WriteAccount(t, cfg, account.Account{
		AppID:     "app-1",
		AppSecret: "s3cret",
		URL:       server.URL,
		Name:      "tester",
		Server:    "local",
	})

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		api:        api,
		server:     server,
		configPath: configPath,
		baseDir:    base,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
