package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List management commands",
	}

	cmd.AddCommand(newListCreateCmd())
	cmd.AddCommand(newListGetCmd())
	cmd.AddCommand(newListSetCmd())

	return cmd
}

func newListCreateCmd() *cobra.Command {
	var id, name, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new list",
		Long: `Create a new list.

Without --id a random readable identifier is generated. With --id the
given identifier is claimed if it is valid and not already in use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if id != "" {
				req["preferred_id"] = id
			}
			if name != "" {
				req["name"] = name
			}
			if description != "" {
				req["description"] = description
			}

			var result List
			if err := client.Post("/api/lists", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Preferred list id")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&description, "description", "", "Description")

	return cmd
}

func newListGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <list>",
		Short: "Show a list's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result List
			if err := client.Get(fmt.Sprintf("/api/lists/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newListSetCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "set <list>",
		Short: "Update a list's name and description (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":        name,
				"description": description,
			}

			var result List
			if err := client.Patch(fmt.Sprintf("/api/lists/%s", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&description, "description", "", "Description")

	return cmd
}
