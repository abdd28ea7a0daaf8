package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/sharedlist-go/internal/dependencies/random"
	"github.com/mcoot/sharedlist-go/internal/profile"
	"github.com/mcoot/sharedlist-go/internal/services/identity"
)

func newWhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Identity commands",
	}

	cmd.AddCommand(newWhoamiSetNameCmd())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		out := NewOutput(cfg.Output)
		out.Print(self)
		return nil
	}

	return cmd
}

func newWhoamiSetNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-name <name>",
		Short: "Set your persisted display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := profile.NewFileStore(cfg.ProfilePath)
			ident := identity.New(store, random.New(), cliLogger(cfg.Verbose))
			if err := ident.SetDisplayName(args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Display name updated")
			return nil
		},
	}
}
