package viewer

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"vdesk/internal/services"
)

// BinaryName is the executable probed on search-path platforms.
const BinaryName = "remote-viewer"

// openCommandSuffix trails the executable path in the Windows file-association command.
const openCommandSuffix = `" "%1"`

// Resolver locates the remote-viewer executable.
type Resolver interface {
	ResolveViewerPath(ctx context.Context) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context) (string, error)

func (f ResolverFunc) ResolveViewerPath(ctx context.Context) (string, error) { return f(ctx) }

// NewResolver returns a resolver for binary when it is set, otherwise the
// platform's default discovery strategy.
func NewResolver(binary string) Resolver {
	if binary = strings.TrimSpace(binary); binary != "" {
		return staticResolver{path: binary}
	}
	return platformResolver()
}

type staticResolver struct {
	path string
}

func (r staticResolver) ResolveViewerPath(context.Context) (string, error) {
	info, err := os.Stat(r.path)
	if err != nil || info.IsDir() {
		return "", services.Wrap(services.ErrViewerNotFound, "viewer", "resolve", "configured binary "+r.path+" is not a file", err)
	}
	return r.path, nil
}

// searchPathResolver probes PATH and then a fixed list of install locations.
type searchPathResolver struct {
	lookPath   func(string) (string, error)
	candidates []string
}

func newSearchPathResolver() searchPathResolver {
	return searchPathResolver{
		lookPath: exec.LookPath,
		candidates: []string{
			"/usr/local/bin/remote-viewer",
			"/opt/local/bin/remote-viewer",
			"/usr/bin/remote-viewer",
		},
	}
}

func (r searchPathResolver) ResolveViewerPath(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.lookPath != nil {
		if path, err := r.lookPath(BinaryName); err == nil {
			return path, nil
		}
	}
	for _, candidate := range r.candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrViewerNotFound, "viewer", "resolve", BinaryName+" is not on PATH or in a standard location", nil)
}

// parseOpenCommand extracts the executable from a file-association command
// of the form "<path>" "%1".
func parseOpenCommand(value string) (string, error) {
	if len(value) <= len(openCommandSuffix) ||
		!strings.HasPrefix(value, `"`) ||
		!strings.HasSuffix(value, openCommandSuffix) {
		return "", services.Wrap(services.ErrViewerNotFound, "viewer", "resolve", "malformed open command "+strings.TrimSpace(value), nil)
	}
	path := value[1 : len(value)-len(openCommandSuffix)]
	if strings.TrimSpace(path) == "" || strings.Contains(path, `"`) {
		return "", services.Wrap(services.ErrViewerNotFound, "viewer", "resolve", "open command has no usable path", nil)
	}
	return path, nil
}
