package session

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"vdesk/internal/logging"
	"vdesk/internal/services"
	"vdesk/internal/viewer"
)

// DefaultUnlockTimeout bounds the background unlock request.
const DefaultUnlockTimeout = 10 * time.Second

// MachineClient is the subset of the machine API a launch needs.
type MachineClient interface {
	Start(ctx context.Context, name string) error
	Lock(ctx context.Context, name string) error
	Unlock(ctx context.Context, name string) error
	DisplayParameters(ctx context.Context, name string) (*viewer.Params, error)
}

// Options tunes a Launcher. Zero values select the defaults.
type Options struct {
	// ArtifactDir receives the viewer artifact. Defaults to os.TempDir().
	ArtifactDir string
	// Wait blocks Launch until the viewer exits instead of detaching it.
	Wait          bool
	Policy        viewer.Policy
	Spawner       Spawner
	Logger        *slog.Logger
	UnlockTimeout time.Duration
	// OnTransition observes every state change. It may be called from the
	// background unlock goroutine for StateUnlocked.
	OnTransition func(machine string, state State)
}

// Result describes a finished or detached launch.
type Result struct {
	SessionID    string
	Machine      string
	ArtifactPath string
	ViewerPath   string
	PID          int
	// State is the last state Launch itself reached; the unlock that
	// follows is reported through OnTransition and Wait.
	State State
}

// Launcher runs launches against one machine API. It is safe for
// concurrent use; launches for different machines proceed independently.
type Launcher struct {
	client   MachineClient
	resolver viewer.Resolver
	opts     Options
	logger   *slog.Logger

	unlocks unlockTracker
}

// New constructs a launcher.
func New(client MachineClient, resolver viewer.Resolver, opts Options) *Launcher {
	if opts.ArtifactDir == "" {
		opts.ArtifactDir = os.TempDir()
	}
	if opts.UnlockTimeout <= 0 {
		opts.UnlockTimeout = DefaultUnlockTimeout
	}
	if resolver == nil {
		resolver = viewer.NewResolver("")
	}
	logger := logging.NewComponentLogger(opts.Logger, "session")
	if opts.Spawner == nil {
		opts.Spawner = execSpawner{logger: logger}
	}
	return &Launcher{
		client:   client,
		resolver: resolver,
		opts:     opts,
		logger:   logger,
	}
}

// Launch runs the full sequence for machine. A failure before the lock is
// taken leaves nothing to clean up; any exit after it schedules exactly one
// unlock. Unlock failures never replace the returned error; collect them
// with Wait.
func (l *Launcher) Launch(ctx context.Context, machine string) (Result, error) {
	machine = strings.TrimSpace(machine)
	if machine == "" {
		return Result{State: StateIdle}, services.Wrap(services.ErrConfigFormat, "session", "launch", "machine name is required", nil)
	}

	result := Result{SessionID: uuid.NewString(), Machine: machine, State: StateIdle}
	ctx = services.WithSessionID(ctx, result.SessionID)
	ctx = services.WithMachine(ctx, machine)
	logger := logging.WithContext(ctx, l.logger)

	enter := func(s State) {
		result.State = s
		logger.Debug("session state", logging.String(logging.FieldState, s.String()))
		l.notify(machine, s)
	}
	abort := func(stage string, cause error) (Result, error) {
		enter(StateAborted)
		logger.Error("launch aborted",
			logging.String("stage", stage),
			logging.Error(cause),
			logging.String(logging.FieldErrorKind, services.Kind(cause)),
		)
		return result, cause
	}

	logger.Info("launch requested")

	enter(StateStarting)
	if err := l.client.Start(ctx, machine); err != nil {
		logger.Warn("start failed; continuing",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
		)
	}

	enter(StateLocking)
	if err := l.client.Lock(ctx, machine); err != nil {
		return abort("lock", err)
	}

	guard := &lockGuard{
		ctx:     ctx,
		machine: machine,
		timeout: l.opts.UnlockTimeout,
		unlock:  l.client.Unlock,
		logger:  logger,
		tracker: &l.unlocks,
		done:    func() { l.notify(machine, StateUnlocked) },
	}
	defer guard.release()
	enter(StateLocked)

	enter(StateFetchingParams)
	params, err := l.client.DisplayParameters(ctx, machine)
	if err != nil {
		return abort("display parameters", err)
	}
	l.opts.Policy.Apply(params, machine)

	artifactPath, err := viewer.WriteArtifact(l.opts.ArtifactDir, machine, params)
	if err != nil {
		return abort("write artifact", err)
	}
	result.ArtifactPath = artifactPath
	enter(StateArtifactWritten)

	viewerPath, err := l.resolver.ResolveViewerPath(ctx)
	if err != nil {
		return abort("resolve viewer", err)
	}
	result.ViewerPath = viewerPath
	if err := ctx.Err(); err != nil {
		return abort("spawn viewer", err)
	}

	cmd := viewer.BuildCommand(viewerPath, artifactPath, machine, l.opts.Policy)
	proc, err := l.opts.Spawner.Spawn(ctx, cmd, !l.opts.Wait)
	if err != nil {
		return abort("spawn viewer", err)
	}
	result.PID = proc.PID()
	enter(StateViewerSpawned)
	logger.Info("viewer started",
		logging.Int("pid", result.PID),
		logging.String("viewer", viewerPath),
		logging.String("artifact", artifactPath),
	)

	if !l.opts.Wait {
		enter(StateDetached)
		return result, nil
	}

	waitErr := proc.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return abort("wait viewer", ctxErr)
	}
	enter(StateExited)
	if waitErr != nil {
		logger.Warn("viewer exited with error", logging.Error(waitErr))
	} else {
		logger.Info("viewer exited")
	}
	return result, nil
}

// Wait blocks until no unlock is in flight and returns the unlock failures
// recorded since the previous call. It may run alongside Launch.
func (l *Launcher) Wait() error {
	return l.unlocks.wait()
}

func (l *Launcher) notify(machine string, s State) {
	if l.opts.OnTransition != nil {
		l.opts.OnTransition(machine, s)
	}
}
