package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Guest link commands",
	}

	cmd.AddCommand(newLinkCreateCmd())
	cmd.AddCommand(newLinkListCmd())
	cmd.AddCommand(newLinkEditCmd())
	cmd.AddCommand(newLinkDisableCmd())
	cmd.AddCommand(newLinkEnableCmd())
	cmd.AddCommand(newLinkRevokeCmd())
	cmd.AddCommand(newLinkEnterCmd())

	return cmd
}

func linkSettingsBody(name, guestName, password string, expiresDays int, expiresSet bool) map[string]any {
	req := map[string]any{}
	if name != "" {
		req["name"] = name
	}
	if guestName != "" {
		req["guest_display_name"] = guestName
	}
	if password != "" {
		req["password"] = password
	}
	if expiresSet {
		req["expires_in_days"] = expiresDays
	}
	return req
}

func newLinkCreateCmd() *cobra.Command {
	var name, guestName, password string
	var expiresDays int

	cmd := &cobra.Command{
		Use:   "create <list>",
		Short: "Create a guest link (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := linkSettingsBody(name, guestName, password, expiresDays, cmd.Flags().Changed("expires-days"))

			var result GuestLink
			if err := client.Post(fmt.Sprintf("/api/lists/%s/links", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Label for the link")
	cmd.Flags().StringVar(&guestName, "guest-name", "", "Display name shown for guests")
	cmd.Flags().StringVar(&password, "password", "", "Password guests must supply")
	cmd.Flags().IntVar(&expiresDays, "expires-days", 0, "Days until the link expires (omit for no expiry)")

	return cmd
}

func newLinkListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <list>",
		Short: "Show a list's guest links (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []GuestLink
			if err := client.Get(fmt.Sprintf("/api/lists/%s/links", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newLinkEditCmd() *cobra.Command {
	var name, guestName, password string
	var expiresDays int

	cmd := &cobra.Command{
		Use:   "edit <link>",
		Short: "Overwrite a guest link's settings (admin only)",
		Long: `Overwrite a guest link's settings.

The settings replace the link's previous ones: omitted flags clear their
fields. Omitting --expires-days removes the expiry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := linkSettingsBody(name, guestName, password, expiresDays, cmd.Flags().Changed("expires-days"))

			var result GuestLink
			if err := client.Put(fmt.Sprintf("/api/links/%s", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Label for the link")
	cmd.Flags().StringVar(&guestName, "guest-name", "", "Display name shown for guests")
	cmd.Flags().StringVar(&password, "password", "", "Password guests must supply")
	cmd.Flags().IntVar(&expiresDays, "expires-days", 0, "Days until the link expires (omit for no expiry)")

	return cmd
}

func newLinkDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <link>",
		Short: "Disable a guest link (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]bool{"disabled": true}

			if err := client.Put(fmt.Sprintf("/api/links/%s/disabled", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Link disabled")
			return nil
		},
	}
}

func newLinkEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <link>",
		Short: "Re-enable a disabled guest link (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]bool{"disabled": false}

			if err := client.Put(fmt.Sprintf("/api/links/%s/disabled", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Link enabled")
			return nil
		},
	}
}

func newLinkRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <link>",
		Short: "Permanently revoke a guest link (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/links/%s", args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Link revoked")
			return nil
		},
	}
}

func newLinkEnterCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "enter <link>",
		Short: "Validate a guest link and show the list it opens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"password": password}

			var result GuestEntry
			if err := client.Post(fmt.Sprintf("/api/links/%s/enter", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Link password, if one is set")

	return cmd
}
