package machines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vdesk/internal/logging"
	"vdesk/internal/services"
	"vdesk/internal/viewer"
)

// DefaultTimeout bounds every request against an unresponsive control plane.
const DefaultTimeout = 10 * time.Second

// UserAgent is sent with every request.
var UserAgent = "vdesk/dev"

// maxErrorBody caps how much of a failed response is quoted in errors.
const maxErrorBody = 256

// Operations accepted by POST /machines/{name}/{op}.
const (
	OpStart   = "start"
	OpStop    = "stop"
	OpLock    = "lock"
	OpUnlock  = "unlock"
	OpDisplay = "spice"
)

// HTTPDoer describes the HTTP client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client (primarily for tests). It
// replaces the default client, including its timeout.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithTimeout overrides DefaultTimeout for the built-in HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the machine management API.
type Client struct {
	baseURL string
	appID   string
	secret  string
	timeout time.Duration
	http    HTTPDoer
	logger  *slog.Logger
}

// New constructs a client for creds.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfigFormat, "machines", "configure", "", err)
	}
	client := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(creds.BaseURL), "/"),
		appID:   strings.TrimSpace(creds.AppID),
		secret:  creds.AppSecret,
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.http == nil {
		client.http = &http.Client{Timeout: client.timeout}
	}
	client.logger = logging.NewComponentLogger(client.logger, "machines")
	return client, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List returns the machine inventory.
func (c *Client) List(ctx context.Context) ([]Machine, error) {
	resp, err := c.do(ctx, http.MethodGet, "/machines/", "list")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var machines []Machine
	if err := json.NewDecoder(resp.Body).Decode(&machines); err != nil {
		return nil, services.Wrap(services.ErrDecode, "machines", "list", "decode inventory", err)
	}
	return machines, nil
}

// Start powers the machine on.
func (c *Client) Start(ctx context.Context, name string) error {
	return c.simple(ctx, name, OpStart)
}

// Stop powers the machine off.
func (c *Client) Stop(ctx context.Context, name string) error {
	return c.simple(ctx, name, OpStop)
}

// Lock reserves the machine for this account. The server rejects the call
// when someone else holds it.
func (c *Client) Lock(ctx context.Context, name string) error {
	return c.simple(ctx, name, OpLock)
}

// Unlock releases the reservation.
func (c *Client) Unlock(ctx context.Context, name string) error {
	return c.simple(ctx, name, OpUnlock)
}

// ForceStop powers the machine off and then releases its lock, stopping at
// the first failure.
func (c *Client) ForceStop(ctx context.Context, name string) error {
	if err := c.Stop(ctx, name); err != nil {
		return err
	}
	return c.Unlock(ctx, name)
}

// DisplayParameters fetches the remote-viewer connection settings for the
// machine. The server decides which keys are present.
func (c *Client) DisplayParameters(ctx context.Context, name string) (*viewer.Params, error) {
	resp, err := c.do(ctx, http.MethodPost, machinePath(name, OpDisplay), OpDisplay)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	params, err := viewer.DecodeParams(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrDecode, "machines", OpDisplay, name, err)
	}
	return params, nil
}

func (c *Client) simple(ctx context.Context, name, op string) error {
	resp, err := c.do(ctx, http.MethodPost, machinePath(name, op), op)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// do issues the request and returns the response only for 2xx statuses; the
// caller owns closing its body.
func (c *Client) do(ctx context.Context, method, path, op string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrUnknown, "machines", op, "build request", err)
	}
	req.SetBasicAuth(c.appID, c.secret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "machines", op, method+" "+path, err)
	}
	logging.WithContext(ctx, c.logger).Debug("api request",
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, newStatusError(op, resp)
	}
	return resp, nil
}

func machinePath(name, op string) string {
	return "/machines/" + url.PathEscape(name) + "/" + op
}

// StatusError records a non-2xx response. It matches services.ErrRequestFailed.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func newStatusError(op string, resp *http.Response) *StatusError {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Operation:  op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(excerpt)),
	}
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: machines: %s: unexpected status %d %s", services.ErrRequestFailed, e.Operation, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + strconv.Quote(e.Body)
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return services.ErrRequestFailed
}

// StatusCode extracts the HTTP status from a StatusError anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}
