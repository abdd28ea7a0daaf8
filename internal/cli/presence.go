package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPresenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Presence commands",
	}

	cmd.AddCommand(newPresenceShowCmd())
	cmd.AddCommand(newPresenceRosterCmd())
	cmd.AddCommand(newPresenceBeatCmd())
	cmd.AddCommand(newPresenceAwayCmd())

	return cmd
}

func newPresenceShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <list>",
		Short: "Show who is on the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Presence
			if err := client.Get(fmt.Sprintf("/api/lists/%s/presence", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPresenceRosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster <list>",
		Short: "Show everyone seen on the list in the last day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Presence
			if err := client.Get(fmt.Sprintf("/api/lists/%s/presence/roster", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPresenceBeatCmd() *cobra.Command {
	var typing bool
	var editing string

	cmd := &cobra.Command{
		Use:   "beat <list>",
		Short: "Send a presence heartbeat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"display_name": self.DisplayName,
				"color":        self.Color,
				"is_typing":    typing,
			}
			if editing != "" {
				req["editing_todo"] = editing
			}

			if err := client.Post(fmt.Sprintf("/api/lists/%s/presence/heartbeat", args[0]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Heartbeat sent")
			return nil
		},
	}

	cmd.Flags().BoolVar(&typing, "typing", false, "Report that you are typing")
	cmd.Flags().StringVar(&editing, "editing", "", "Todo id you are editing")

	return cmd
}

func newPresenceAwayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "away <list>",
		Short: "Clear your activity indicators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(fmt.Sprintf("/api/lists/%s/presence/away", args[0]), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Marked away")
			return nil
		},
	}
}
