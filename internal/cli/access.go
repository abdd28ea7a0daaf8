package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role <list>",
		Short: "Show your effective role on a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Role
			if err := client.Get(fmt.Sprintf("/api/lists/%s/role", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin commands",
	}

	cmd.AddCommand(newAdminShowCmd())
	cmd.AddCommand(newAdminClaimCmd())

	return cmd
}

func newAdminShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <list>",
		Short: "Show the list's admins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Admin
			if err := client.Get(fmt.Sprintf("/api/lists/%s/admin", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminClaimCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "claim <list>",
		Short: "Claim admin on a list",
		Long: `Claim admin on a list.

The first claim on a list is always open. Later claims require the admin
password when one is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"display_name": self.DisplayName,
			}
			if password != "" {
				req["password"] = password
			}

			var result Admin
			if err := client.Post(fmt.Sprintf("/api/lists/%s/admin/claim", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print([]Admin{result})
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Admin password, if one is set")

	return cmd
}

func newPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Tier password commands",
	}

	cmd.AddCommand(newPasswordShowCmd())
	cmd.AddCommand(newPasswordSetCmd())
	cmd.AddCommand(newPasswordVerifyCmd())

	return cmd
}

func newPasswordShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <list>",
		Short: "Show which tiers are password-gated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PasswordSettings
			if err := client.Get(fmt.Sprintf("/api/lists/%s/passwords", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPasswordSetCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "set <list> <tier>",
		Short: "Set or clear a tier password (admin only)",
		Long: `Set or clear a tier password.

Tier is one of admin, normal, guest. An empty password disables the
tier's gate.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"tier":     args[1],
				"password": password,
			}

			if err := client.Put(fmt.Sprintf("/api/lists/%s/passwords", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if password == "" {
				out.PrintMessage(fmt.Sprintf("Password disabled for tier %s", args[1]))
			} else {
				out.PrintMessage(fmt.Sprintf("Password set for tier %s", args[1]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "New password (empty disables the gate)")

	return cmd
}

func newPasswordVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <list> <tier> <password>",
		Short: "Check a password against a tier",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"tier":     args[1],
				"password": args[2],
			}

			if err := client.Post(fmt.Sprintf("/api/lists/%s/passwords/verify", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Password accepted")
			return nil
		},
	}
}
