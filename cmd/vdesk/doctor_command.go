package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vdesk/internal/services"
	"vdesk/internal/viewer"
)

// doctorProbeTimeout bounds the API reachability check.
const doctorProbeTimeout = 5 * time.Second

type doctorCheck struct {
	label   string
	kind    statusKind
	message string
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check account, viewer and API connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runDoctorChecks(cmd.Context(), ctx)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("vdesk doctor", colorize) {
				fmt.Fprintln(out, line)
			}
			failed := 0
			for _, check := range checks {
				fmt.Fprintln(out, renderStatusLine(check.label, check.kind, check.message, colorize))
				if check.kind == statusError {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}

func runDoctorChecks(parent context.Context, ctx *commandContext) []doctorCheck {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return []doctorCheck{{"Config", statusError, err.Error()}}
	}

	checks := make([]doctorCheck, 0, 4)
	if ctx.configExists {
		checks = append(checks, doctorCheck{"Config", statusOK, ctx.configPath})
	} else {
		checks = append(checks, doctorCheck{"Config", statusInfo, "defaults (no file at " + ctx.configPath + ")"})
	}

	viewerPath, err := viewer.NewResolver(cfg.Viewer.Binary).ResolveViewerPath(parent)
	if err != nil {
		checks = append(checks, doctorCheck{"Viewer", statusError, "remote-viewer not found; install virt-viewer or set viewer.binary"})
	} else {
		checks = append(checks, doctorCheck{"Viewer", statusOK, viewerPath})
	}

	acct, err := ctx.loadAccount(parent)
	if err != nil {
		checks = append(checks, doctorCheck{"Account", statusError, err.Error()})
		checks = append(checks, doctorCheck{"API", statusWarn, "skipped"})
		return checks
	}
	accountMsg := acct.AppID
	if server := strings.TrimSpace(acct.Server); server != "" {
		accountMsg += " @ " + server
	}
	checks = append(checks, doctorCheck{"Account", statusOK, accountMsg})

	client, err := ctx.apiClient(parent)
	if err != nil {
		checks = append(checks, doctorCheck{"API", statusError, err.Error()})
		return checks
	}
	probeCtx, cancel := context.WithTimeout(parent, doctorProbeTimeout)
	defer cancel()
	list, err := client.List(probeCtx)
	if err != nil {
		checks = append(checks, doctorCheck{"API", statusError, fmt.Sprintf("%s (%s)", client.BaseURL(), services.Kind(err))})
		return checks
	}
	checks = append(checks, doctorCheck{"API", statusOK, fmt.Sprintf("%s (%d machines)", client.BaseURL(), len(list))})
	return checks
}
