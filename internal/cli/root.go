package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/sharedlist-go/internal/dependencies/random"
	"github.com/mcoot/sharedlist-go/internal/profile"
	"github.com/mcoot/sharedlist-go/internal/services/identity"
)

var (
	cfg    *Config
	client *Client
	self   Profile
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "sharedlist",
		Short: "CLI tool for the shared list API",
		Long: `sharedlist is a CLI tool for interacting with the shared list JSON API.

It keeps a local participant profile (handle, display name, color) and
supports all API operations including list and todo management, presence,
admin and password controls, guest links, and real-time SSE streaming.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Mint or load the local participant identity
			store := profile.NewFileStore(cfg.ProfilePath)
			ident := identity.New(store, random.New(), cliLogger(cfg.Verbose))

			handle, err := ident.EnsureHandle()
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}
			name := cfg.DisplayName
			if name == "" {
				name, err = ident.EnsureDisplayName()
				if err != nil {
					return fmt.Errorf("failed to load profile: %w", err)
				}
			}
			color, err := ident.EnsureColor()
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			self = Profile{
				Handle:      string(handle),
				DisplayName: name,
				Color:       color,
			}
			client = NewClient(cfg.ServerURL, Identity{
				Handle:      self.Handle,
				DisplayName: self.DisplayName,
				GuestLink:   cfg.GuestLink,
			})
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SHAREDLIST_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.ProfilePath, "profile", cfg.ProfilePath, "Profile file path (env: SHAREDLIST_PROFILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.GuestLink, "guest-link", cfg.GuestLink, "Guest link id to act through (env: SHAREDLIST_GUEST_LINK)")
	rootCmd.PersistentFlags().StringVar(&cfg.DisplayName, "as", cfg.DisplayName, "Display name override for this invocation")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newTodoCmd())
	rootCmd.AddCommand(newPresenceCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newPasswordCmd())
	rootCmd.AddCommand(newRoleCmd())
	rootCmd.AddCommand(newLinkCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliLogger(verbose bool) *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
