package account

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"vdesk/internal/services"
)

func sampleAccount() Account {
	return Account{
		AppID:     "app-1",
		AppSecret: "s3cret: with colon",
		URL:       "https://vdesk.knd.io",
		Name:      "Zhang Wei",
		Server:    EndpointBeijing,
	}
}

func TestWriteReadRoundTripYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	store := NewStore(path)
	ctx := context.Background()

	if store.Exists() {
		t.Fatal("expected no account file yet")
	}
	if err := store.Write(ctx, sampleAccount()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !store.Exists() {
		t.Fatal("expected account file after write")
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != sampleAccount() {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	for _, key := range []string{"appid:", "appsecret:", "url:", "name:", "server:"} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected key %q in %s", key, data)
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != FileMode {
		t.Fatalf("expected mode %o, got %o", FileMode, info.Mode().Perm())
	}
}

func TestWriteReadRoundTripTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "account.toml")
	store := NewStore(path)
	if err := store.Write(context.Background(), sampleAccount()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(data), "appid = ") {
		t.Fatalf("expected toml encoding, got %s", data)
	}
	got, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != sampleAccount() {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestReadsHandWrittenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := "appid: a1\nappsecret: s1\nurl: https://vdesk-tj.knd.io\nname: ops\nserver: tianjing\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := NewStore(path).Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := Account{AppID: "a1", AppSecret: "s1", URL: "https://vdesk-tj.knd.io", Name: "ops", Server: "tianjing"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewStore(filepath.Join(dir, "missing.yml")).Read(context.Background())
	if !errors.Is(err, services.ErrFileSystem) {
		t.Fatalf("expected file system error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(bad, []byte("appid: [unterminated\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewStore(bad).Read(context.Background()); !errors.Is(err, services.ErrConfigFormat) {
		t.Fatalf("expected config format error, got %v", err)
	}

	empty := filepath.Join(dir, "empty.yml")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewStore(empty).Read(context.Background()); !errors.Is(err, services.ErrConfigFormat) {
		t.Fatalf("expected config format error for empty file, got %v", err)
	}
}

func TestSwitchEndpointPreservesOtherFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	store := NewStore(path)
	ctx := context.Background()
	original := sampleAccount()
	if err := store.Write(ctx, original); err != nil {
		t.Fatalf("Write: %v", err)
	}

	switched, err := store.SwitchEndpoint(ctx, EndpointTianjing)
	if err != nil {
		t.Fatalf("SwitchEndpoint: %v", err)
	}
	want := original
	want.URL = "https://vdesk-tj.knd.io"
	want.Server = EndpointTianjing
	if switched != want {
		t.Fatalf("returned %+v, want %+v", switched, want)
	}
	persisted, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if persisted != want {
		t.Fatalf("persisted %+v, want %+v", persisted, want)
	}
}

func TestSwitchEndpointUnknownLabelKeepsURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	store := NewStore(path)
	ctx := context.Background()
	if err := store.Write(ctx, sampleAccount()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := store.SwitchEndpoint(ctx, "shanghai")
	if err != nil {
		t.Fatalf("SwitchEndpoint: %v", err)
	}
	if got.URL != sampleAccount().URL || got.Server != "shanghai" {
		t.Fatalf("unexpected account after unknown label: %+v", got)
	}
	if _, ok := LookupEndpoint("shanghai"); ok {
		t.Fatal("shanghai should not be a known endpoint")
	}

	if _, err := store.SwitchEndpoint(ctx, "  "); !errors.Is(err, services.ErrConfigFormat) {
		t.Fatalf("expected config format error for blank label, got %v", err)
	}
}

func TestConcurrentWritersNeverTearTheFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	ctx := context.Background()
	if err := NewStore(path).Write(ctx, sampleAccount()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := range 20 {
		store := NewStore(path)
		wg.Add(2)
		go func() {
			defer wg.Done()
			acct := sampleAccount()
			acct.Name = fmt.Sprintf("writer-%d", i)
			errs <- store.Write(ctx, acct)
		}()
		go func() {
			defer wg.Done()
			label := EndpointBeijing
			if i%2 == 0 {
				label = EndpointTianjing
			}
			_, err := store.SwitchEndpoint(ctx, label)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent operation failed: %v", err)
		}
	}

	got, err := NewStore(path).Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.AppID != "app-1" || got.AppSecret != sampleAccount().AppSecret {
		t.Fatalf("credentials corrupted: %+v", got)
	}
	if wantURL, ok := LookupEndpoint(got.Server); !ok || got.URL != wantURL {
		t.Fatalf("url %q does not match server %q", got.URL, got.Server)
	}
}

func TestReadHonoursCancelledContextWhileLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	holder := NewStore(path)
	if err := holder.Write(context.Background(), sampleAccount()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := holder.lock.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer holder.lock.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStore(path).Read(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
