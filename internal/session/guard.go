package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"vdesk/internal/logging"
	"vdesk/internal/services"
)

// unlockTracker counts background unlocks still in flight and collects
// their failures. begin may be called while another goroutine is blocked
// in wait.
type unlockTracker struct {
	mu     sync.Mutex
	idle   sync.Cond
	active int
	failed []error
}

func (t *unlockTracker) begin() {
	t.mu.Lock()
	t.active++
	t.mu.Unlock()
}

func (t *unlockTracker) finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.failed = append(t.failed, err)
	}
	t.active--
	if t.active == 0 {
		t.cond().Broadcast()
	}
}

// wait blocks until no unlock is in flight and drains the recorded failures.
func (t *unlockTracker) wait() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.active > 0 {
		t.cond().Wait()
	}
	err := errors.Join(t.failed...)
	t.failed = nil
	return err
}

// cond must be called with mu held.
func (t *unlockTracker) cond() *sync.Cond {
	if t.idle.L == nil {
		t.idle.L = &t.mu
	}
	return &t.idle
}

// lockGuard holds the unlock obligation for one locked machine. release
// may be called any number of times; the unlock is issued once, in the
// background, with a context detached from the launch's cancellation.
type lockGuard struct {
	once    sync.Once
	ctx     context.Context
	machine string
	timeout time.Duration
	unlock  func(context.Context, string) error
	logger  *slog.Logger

	tracker *unlockTracker
	done    func()
}

func (g *lockGuard) release() {
	g.once.Do(func() {
		g.tracker.begin()
		go g.run()
	})
}

func (g *lockGuard) run() {
	var err error
	defer func() { g.tracker.finish(err) }()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(g.ctx), g.timeout)
	defer cancel()

	if err = g.unlock(ctx, g.machine); err != nil {
		g.logger.Warn("unlock failed; machine may stay reserved",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
		)
		return
	}
	g.logger.Info("machine unlocked")
	if g.done != nil {
		g.done()
	}
}
