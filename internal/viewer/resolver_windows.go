//go:build windows

package viewer

import (
	"context"
	"errors"

	"golang.org/x/sys/windows/registry"

	"vdesk/internal/services"
)

// openCommandKey is the shell association virt-viewer's installer registers for .vv files.
const openCommandKey = `SOFTWARE\Classes\VirtViewer.vvfile\shell\open\command`

func platformResolver() Resolver {
	return registryResolver{}
}

type registryResolver struct{}

type resolveResult struct {
	path string
	err  error
}

// ResolveViewerPath reads the association off the calling goroutine so a slow
// registry never holds up the caller past ctx.
func (registryResolver) ResolveViewerPath(ctx context.Context) (string, error) {
	done := make(chan resolveResult, 1)
	go func() {
		path, err := readOpenCommand()
		done <- resolveResult{path: path, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.path, res.err
	}
}

func readOpenCommand() (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, openCommandKey, registry.QUERY_VALUE)
	if err != nil {
		return "", classifyRegistryError("open registry key", err)
	}
	defer key.Close()

	value, _, err := key.GetStringValue("")
	if err != nil {
		return "", classifyRegistryError("read open command", err)
	}
	return parseOpenCommand(value)
}

func classifyRegistryError(operation string, err error) error {
	if errors.Is(err, registry.ErrNotExist) || errors.Is(err, registry.ErrUnexpectedType) {
		return services.Wrap(services.ErrViewerNotFound, "viewer", "resolve", operation, err)
	}
	return services.Wrap(services.ErrUnknown, "viewer", "resolve", operation, err)
}
