package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"vdesk/internal/session"
	"vdesk/internal/viewer"
)

func newLaunchCommand(ctx *commandContext) *cobra.Command {
	var wait bool
	var detach bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "launch <machine>",
		Short: "Reserve a machine and open it in remote-viewer",
		Long: "Powers the machine on, reserves it, writes the remote-viewer connection file and starts the viewer.\n" +
			"The reservation is released when the viewer is detached, exits, or the launch fails.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			waitForViewer := cfg.Viewer.Wait
			if cmd.Flags().Changed("wait") {
				waitForViewer = wait
			}
			if cmd.Flags().Changed("detach") {
				waitForViewer = !detach
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := ctx.apiClient(runCtx)
			if err != nil {
				return err
			}

			progress := &progressWriter{w: cmd.ErrOrStderr(), quiet: quiet}
			launcher := session.New(client, viewer.NewResolver(cfg.Viewer.Binary), session.Options{
				ArtifactDir: cfg.Paths.ArtifactDir,
				Wait:        waitForViewer,
				Policy: viewer.Policy{
					Fullscreen:     cfg.Viewer.Fullscreen,
					DeleteArtifact: cfg.Viewer.DeleteArtifact,
					Debug:          cfg.Viewer.Debug,
					Verbose:        cfg.Viewer.Verbose,
					Settings:       cfg.Viewer.Settings,
				},
				Logger:        logger,
				UnlockTimeout: cfg.UnlockTimeout(),
				OnTransition:  progress.transition,
			})

			result, launchErr := launcher.Launch(runCtx, args[0])
			unlockErr := launcher.Wait()

			if launchErr == nil {
				printLaunchResult(cmd.OutOrStdout(), result)
			}
			if unlockErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s may still be reserved: %v\n", result.Machine, unlockErr)
				fmt.Fprintf(cmd.ErrOrStderr(), "run `vdesk unlock %s` to release it\n", result.Machine)
			}
			return launchErr
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the viewer to exit before releasing the machine")
	cmd.Flags().BoolVar(&detach, "detach", false, "Detach the viewer and release the machine right away")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress")
	cmd.MarkFlagsMutuallyExclusive("wait", "detach")
	return cmd
}

func printLaunchResult(out io.Writer, result session.Result) {
	fmt.Fprintf(out, "Session:  %s\n", result.SessionID)
	fmt.Fprintf(out, "Machine:  %s\n", result.Machine)
	fmt.Fprintf(out, "State:    %s\n", stateLabel(result.State))
	if result.PID > 0 {
		fmt.Fprintf(out, "Viewer:   %s (pid %s)\n", result.ViewerPath, strconv.Itoa(result.PID))
	}
	fmt.Fprintf(out, "Artifact: %s\n", result.ArtifactPath)
}

// progressWriter prints state transitions. The unlock transition arrives
// from a background goroutine, hence the mutex.
type progressWriter struct {
	mu    sync.Mutex
	w     io.Writer
	quiet bool
}

func (p *progressWriter) transition(machine string, s session.State) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s: %s\n", machine, stateLabel(s))
}
