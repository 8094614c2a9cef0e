package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vdesk/internal/account"
)

func newAccountCommand(ctx *commandContext) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage API credentials and endpoint",
	}

	accountCmd.AddCommand(newAccountShowCommand(ctx))
	accountCmd.AddCommand(newAccountSetCommand(ctx))
	accountCmd.AddCommand(newAccountSwitchCommand(ctx))
	accountCmd.AddCommand(newAccountExistsCommand(ctx))

	return accountCmd
}

type accountView struct {
	Path      string `json:"path"`
	AppID     string `json:"appid"`
	AppSecret string `json:"appsecret"`
	URL       string `json:"url"`
	Name      string `json:"name"`
	Server    string `json:"server"`
}

func newAccountShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored account (secret masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.accountStore()
			if err != nil {
				return err
			}
			acct, err := store.Read(cmd.Context())
			if err != nil {
				return err
			}
			view := accountView{
				Path:      store.Path(),
				AppID:     acct.AppID,
				AppSecret: acct.MaskedSecret(),
				URL:       acct.URL,
				Name:      acct.Name,
				Server:    acct.Server,
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), view)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:      %s\n", view.Path)
			fmt.Fprintf(out, "Name:      %s\n", view.Name)
			fmt.Fprintf(out, "App ID:    %s\n", view.AppID)
			fmt.Fprintf(out, "Secret:    %s\n", view.AppSecret)
			fmt.Fprintf(out, "Server:    %s\n", view.Server)
			fmt.Fprintf(out, "URL:       %s\n", view.URL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newAccountSetCommand(ctx *commandContext) *cobra.Command {
	var fields account.Account

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the stored account",
		Long:  "Flags that are not given keep their stored value. A new account needs --appid, --appsecret and either --url or --server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.accountStore()
			if err != nil {
				return err
			}
			var acct account.Account
			if store.Exists() {
				if acct, err = store.Read(cmd.Context()); err != nil {
					return err
				}
			}

			flags := cmd.Flags()
			if flags.Changed("appid") {
				acct.AppID = strings.TrimSpace(fields.AppID)
			}
			if flags.Changed("appsecret") {
				acct.AppSecret = fields.AppSecret
			}
			if flags.Changed("name") {
				acct.Name = strings.TrimSpace(fields.Name)
			}
			if flags.Changed("server") {
				acct.Server = strings.TrimSpace(fields.Server)
				if url, ok := account.LookupEndpoint(acct.Server); ok {
					acct.URL = url
				}
			}
			if flags.Changed("url") {
				acct.URL = strings.TrimSpace(fields.URL)
			}

			if err := acct.Validate(); err != nil {
				return err
			}
			if err := store.Write(cmd.Context(), acct); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved account to %s\n", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&fields.AppID, "appid", "", "Application id")
	cmd.Flags().StringVar(&fields.AppSecret, "appsecret", "", "Application secret")
	cmd.Flags().StringVar(&fields.URL, "url", "", "API base URL")
	cmd.Flags().StringVar(&fields.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&fields.Server, "server", "", "Endpoint label ("+strings.Join(account.EndpointLabels(), ", ")+")")
	return cmd
}

func newAccountSwitchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <label>",
		Short: "Select the API endpoint by label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.accountStore()
			if err != nil {
				return err
			}
			label := strings.TrimSpace(args[0])
			acct, err := store.SwitchEndpoint(cmd.Context(), label)
			if err != nil {
				return err
			}
			if _, ok := account.LookupEndpoint(label); !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: unknown endpoint %q; url left at %s (known: %s)\n",
					label, acct.URL, strings.Join(account.EndpointLabels(), ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server %s (%s)\n", acct.Server, acct.URL)
			return nil
		},
	}
}

func newAccountExistsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "exists",
		Short: "Report whether an account file is present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.accountStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), yesNo(store.Exists()))
			return nil
		},
	}
}
