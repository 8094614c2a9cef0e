package account

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"vdesk/internal/fileutil"
	"vdesk/internal/services"
)

// FileMode is applied to every account file written by a Store.
const FileMode os.FileMode = 0o600

const defaultRetryDelay = 50 * time.Millisecond

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithRetryDelay sets how often a contended lock file is polled.
func WithRetryDelay(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.retryDelay = d
		}
	}
}

// Store reads and writes one account file.
type Store struct {
	path       string
	retryDelay time.Duration

	mu   sync.Mutex
	lock *flock.Flock
}

// NewStore returns a store for the account file at path.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		path:       path,
		retryDelay: defaultRetryDelay,
		lock:       flock.New(path + ".lock"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the account file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the account file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && info.Mode().IsRegular()
}

// Read loads the account.
func (s *Store) Read(ctx context.Context) (Account, error) {
	var acct Account
	err := s.withLock(ctx, "read", func() error {
		var err error
		acct, err = s.load()
		return err
	})
	return acct, err
}

// Write replaces the account file with acct.
func (s *Store) Write(ctx context.Context, acct Account) error {
	return s.withLock(ctx, "write", func() error {
		return s.save(acct)
	})
}

// SwitchEndpoint records label as the selected server. Known labels also
// rewrite the url; an unknown label is stored as given and the url is kept.
// All other fields are preserved.
func (s *Store) SwitchEndpoint(ctx context.Context, label string) (Account, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Account{}, services.Wrap(services.ErrConfigFormat, "account", "switch endpoint", "", errEmptyLabel)
	}
	var acct Account
	err := s.withLock(ctx, "switch endpoint", func() error {
		current, err := s.load()
		if err != nil {
			return err
		}
		if url, ok := LookupEndpoint(label); ok {
			current.URL = url
		}
		current.Server = label
		if err := s.save(current); err != nil {
			return err
		}
		acct = current
		return nil
	})
	return acct, err
}

func (s *Store) withLock(ctx context.Context, op string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return services.Wrap(services.ErrFileSystem, "account", op, "create account directory", err)
	}
	locked, err := s.lock.TryLockContext(ctx, s.retryDelay)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return services.Wrap(services.ErrFileSystem, "account", op, "acquire lock "+s.lock.Path(), err)
	}
	if !locked {
		return services.Wrap(services.ErrFileSystem, "account", op, "lock "+s.lock.Path()+" is held", nil)
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

func (s *Store) load() (Account, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Account{}, services.Wrap(services.ErrFileSystem, "account", "read", s.path, err)
	}
	var acct Account
	if err := s.unmarshal(data, &acct); err != nil {
		return Account{}, services.Wrap(services.ErrConfigFormat, "account", "parse", s.path, err)
	}
	return acct, nil
}

func (s *Store) save(acct Account) error {
	data, err := s.marshal(acct)
	if err != nil {
		return services.Wrap(services.ErrConfigFormat, "account", "encode", s.path, err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data, FileMode); err != nil {
		return services.Wrap(services.ErrFileSystem, "account", "write", s.path, err)
	}
	return nil
}

func (s *Store) isTOML() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".toml")
}

func (s *Store) unmarshal(data []byte, acct *Account) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return errEmptyFile
	}
	if s.isTOML() {
		return toml.Unmarshal(data, acct)
	}
	return yaml.Unmarshal(data, acct)
}

func (s *Store) marshal(acct Account) ([]byte, error) {
	if s.isTOML() {
		return toml.Marshal(acct)
	}
	data, err := yaml.Marshal(acct)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return data, nil
}
