package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTodoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Todo commands",
	}

	cmd.AddCommand(newTodoListCmd())
	cmd.AddCommand(newTodoAddCmd())
	cmd.AddCommand(newTodoDoneCmd())
	cmd.AddCommand(newTodoUndoneCmd())
	cmd.AddCommand(newTodoEditCmd())
	cmd.AddCommand(newTodoRmCmd())
	cmd.AddCommand(newTodoRestoreCmd())
	cmd.AddCommand(newTodoPurgeCmd())

	return cmd
}

func newTodoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <list>",
		Short: "Show the list's todos and trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result TodoSnapshot
			if err := client.Get(fmt.Sprintf("/api/lists/%s/todos", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTodoAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <list> <text>...",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"text": strings.Join(args[1:], " ")}

			var result Todo
			if err := client.Post(fmt.Sprintf("/api/lists/%s/todos", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTodoDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <list> <todo>",
		Short: "Mark a todo complete",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"completed": true}

			if err := client.Put(fmt.Sprintf("/api/lists/%s/todos/%s/completed", args[0], args[1]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Todo completed")
			return nil
		},
	}
}

func newTodoUndoneCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "undone <list> <todo>",
		Short: "Mark a todo incomplete",
		Long: `Mark a todo incomplete.

Guests must pass --confirm to un-complete a todo; the server rejects
unconfirmed guest un-completions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"completed": false, "confirmed": confirm}

			if err := client.Put(fmt.Sprintf("/api/lists/%s/todos/%s/completed", args[0], args[1]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Todo un-completed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Acknowledge the guest confirmation prompt")

	return cmd
}

func newTodoEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <list> <todo> <text>...",
		Short: "Rewrite a todo's text",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"text": strings.Join(args[2:], " ")}

			if err := client.Put(fmt.Sprintf("/api/lists/%s/todos/%s", args[0], args[1]), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Todo updated")
			return nil
		},
	}
}

func newTodoRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <list> <todo>",
		Short: "Move a todo to the trash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/lists/%s/todos/%s", args[0], args[1])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Todo moved to trash")
			return nil
		},
	}
}

func newTodoRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <list> <todo>",
		Short: "Restore a todo from the trash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(fmt.Sprintf("/api/lists/%s/todos/%s/restore", args[0], args[1]), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Todo restored")
			return nil
		},
	}
}

func newTodoPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <list> <todo>...",
		Short: "Permanently delete todos",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := args[0]
			ids := args[1:]

			if len(ids) == 1 {
				if err := client.Delete(fmt.Sprintf("/api/lists/%s/todos/%s/purge", list, ids[0])); err != nil {
					return err
				}
			} else {
				req := map[string]any{"ids": ids}
				if err := client.Post(fmt.Sprintf("/api/lists/%s/todos/purge", list), req, nil); err != nil {
					return err
				}
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Purged %d todo(s)", len(ids)))
			return nil
		},
	}
}
