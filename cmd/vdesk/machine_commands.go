package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"vdesk/internal/machines"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List machines and their reservation status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient(cmd.Context())
			if err != nil {
				return err
			}
			list, err := client.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				if list == nil {
					list = []machines.Machine{}
				}
				return printJSON(cmd.OutOrStdout(), list)
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No machines available")
				return nil
			}
			fmt.Fprintln(out, machineTable(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// machineTable renders one row per machine with a footer counting the
// reserved ones.
func machineTable(list []machines.Machine) string {
	style := table.StyleRounded
	style.Format.Footer = text.FormatDefault

	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"ID", "Name", "VMID", "Node", "Status"})
	locked := 0
	for _, m := range list {
		if m.Locked() {
			locked++
		}
		tw.AppendRow(table.Row{m.ID, m.Name, m.VMID, nodeLabel(m.Node), lockLabel(m)})
	}
	tw.AppendFooter(table.Row{"", plural(len(list), "machine"), "", "", fmt.Sprintf("%d locked", locked)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "ID", Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Name: "VMID", Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func nodeLabel(n machines.Node) string {
	name := strings.TrimSpace(n.Name)
	if !n.IP.IsValid() {
		return name
	}
	if name == "" {
		return n.IP.String()
	}
	return fmt.Sprintf("%s (%s)", name, n.IP)
}

func lockLabel(m machines.Machine) string {
	if !m.Locked() {
		return "free"
	}
	return "locked by " + m.Holder()
}

type machineOperation struct {
	use   string
	short string
	done  string
	run   func(*machines.Client) func(context.Context, string) error
}

func newMachineCommands(ctx *commandContext) []*cobra.Command {
	ops := []machineOperation{
		{"start", "Power a machine on", "Started", func(c *machines.Client) func(context.Context, string) error { return c.Start }},
		{"stop", "Power a machine off", "Stopped", func(c *machines.Client) func(context.Context, string) error { return c.Stop }},
		{"lock", "Reserve a machine for this account", "Locked", func(c *machines.Client) func(context.Context, string) error { return c.Lock }},
		{"unlock", "Release a machine reservation", "Unlocked", func(c *machines.Client) func(context.Context, string) error { return c.Unlock }},
		{"force-stop", "Power a machine off and release its reservation", "Force-stopped", func(c *machines.Client) func(context.Context, string) error { return c.ForceStop }},
	}

	commands := make([]*cobra.Command, 0, len(ops))
	for _, op := range ops {
		commands = append(commands, &cobra.Command{
			Use:   op.use + " <machine>",
			Short: op.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.TrimSpace(args[0])
				if name == "" {
					return fmt.Errorf("machine name is required")
				}
				client, err := ctx.apiClient(cmd.Context())
				if err != nil {
					return err
				}
				if err := op.run(client)(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", op.done, name)
				return nil
			},
		})
	}
	return commands
}
