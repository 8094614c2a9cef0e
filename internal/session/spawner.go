package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"vdesk/internal/logging"
	"vdesk/internal/services"
	"vdesk/internal/viewer"
)

// Process is a spawned viewer.
type Process interface {
	PID() int
	// Wait blocks until the viewer exits. Detached processes return at once.
	Wait() error
}

// Spawner starts viewer processes.
type Spawner interface {
	Spawn(ctx context.Context, cmd viewer.Command, detach bool) (Process, error)
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(ctx context.Context, cmd viewer.Command, detach bool) (Process, error)

func (f SpawnerFunc) Spawn(ctx context.Context, cmd viewer.Command, detach bool) (Process, error) {
	return f(ctx, cmd, detach)
}

// stderrTail bounds how much viewer stderr is kept for exit diagnostics.
const stderrTail = 4096

type execSpawner struct {
	logger *slog.Logger
	// release defaults to (*os.Process).Release.
	release func(*os.Process) error
}

func (s execSpawner) Spawn(ctx context.Context, command viewer.Command, detach bool) (Process, error) {
	if detach {
		cmd := exec.Command(command.Path, command.Args...) //nolint:gosec
		cmd.Env = command.Env
		cmd.SysProcAttr = detachedAttr()
		if err := cmd.Start(); err != nil {
			return nil, classifySpawnError(err)
		}
		pid := cmd.Process.Pid
		release := s.release
		if release == nil {
			release = (*os.Process).Release
		}
		// The viewer is already running; a failed release only leaks a handle.
		if err := release(cmd.Process); err != nil {
			logging.WithContext(ctx, s.logger).Warn("release viewer process failed",
				logging.Int("pid", pid),
				logging.Error(err),
			)
		}
		return detachedProcess{pid: pid}, nil
	}

	cmd := exec.CommandContext(ctx, command.Path, command.Args...) //nolint:gosec
	cmd.Env = command.Env
	tail := &tailBuffer{limit: stderrTail}
	cmd.Stderr = tail
	if err := cmd.Start(); err != nil {
		return nil, classifySpawnError(err)
	}
	return &attachedProcess{cmd: cmd, stderr: tail}, nil
}

func classifySpawnError(err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return services.Wrap(services.ErrViewerNotFound, "session", "spawn", "start viewer", err)
	}
	return services.Wrap(services.ErrUnknown, "session", "spawn", "start viewer", err)
}

type detachedProcess struct {
	pid int
}

func (p detachedProcess) PID() int   { return p.pid }
func (p detachedProcess) Wait() error { return nil }

type attachedProcess struct {
	cmd    *exec.Cmd
	stderr *tailBuffer
}

func (p *attachedProcess) PID() int { return p.cmd.Process.Pid }

func (p *attachedProcess) Wait() error {
	if err := p.cmd.Wait(); err != nil {
		if tail := p.stderr.String(); tail != "" {
			return fmt.Errorf("viewer exited: %w: %s", err, tail)
		}
		return fmt.Errorf("viewer exited: %w", err)
	}
	return nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(p)
	if len(p) > t.limit {
		p = p[len(p)-t.limit:]
	}
	if over := t.buf.Len() + len(p) - t.limit; over > 0 {
		t.buf.Next(over)
	}
	t.buf.Write(p)
	return n, nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(t.buf.String())
}
