package cli

import (
	"context"

	"careercrafter/internal/common"
	"careercrafter/internal/store"

	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage your professional network",
	Long: `Manage your professional network: browse users and suggestions,
handle connection requests, and maintain your established connections.
Every subcommand needs an authenticated identity (auth.userEmail) and a
bearer token sourced from configuration, a token file or Vault.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if networkConfig.OutputFormat == "" {
			networkConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(networkConfig.OutputFormat, cfg.App.SupportedFormats)
	},
}

var networkConfig common.CommandConfig

func init() {
	networkCmd.PersistentFlags().StringVarP(&networkConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	networkCmd.PersistentFlags().StringVar(&networkConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = networkCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})

	networkCmd.AddCommand(usersCmd)
	networkCmd.AddCommand(suggestionsCmd)
	networkCmd.AddCommand(pendingCmd)
	networkCmd.AddCommand(sentCmd)
	networkCmd.AddCommand(connectionsCmd)
	networkCmd.AddCommand(sendCmd)
	networkCmd.AddCommand(acceptCmd)
	networkCmd.AddCommand(ignoreCmd)
	networkCmd.AddCommand(withdrawCmd)
	networkCmd.AddCommand(disconnectCmd)
}

// runNetworkFetch wires one store fetch into the shared command runner.
func runNetworkFetch(cmd *cobra.Command, name string, operation common.StoreOperationFunc, collect common.CollectFunc) error {
	logger := getLoggerFromContext(cmd.Context())
	metrics := getMetricsFromContext(cmd.Context())

	st, cleanup, err := newNetworkStore(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	tracked := func(ctx context.Context, st *store.Store) error {
		return metrics.TrackNetworkOperation(ctx, name, func(ctx context.Context) error {
			return operation(ctx, st)
		})
	}

	return common.RunNetworkCommand(cmd.Context(), logger, networkConfig, st, tracked, collect)
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users available to connect with",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNetworkFetch(cmd, "fetch_users",
			func(ctx context.Context, st *store.Store) error { return st.FetchAllConnectedUsers(ctx) },
			func(state store.State) any { return state.Users })
	},
}

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "List suggested connections for your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNetworkFetch(cmd, "fetch_suggestions",
			func(ctx context.Context, st *store.Store) error { return st.FetchSuggestedUsers(ctx) },
			func(state store.State) any { return state.SuggestedUsers })
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List incoming connection requests awaiting your decision",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNetworkFetch(cmd, "fetch_pending",
			func(ctx context.Context, st *store.Store) error { return st.FetchPendingRequests(ctx) },
			func(state store.State) any { return state.PendingRequests })
	},
}

var sentCmd = &cobra.Command{
	Use:   "sent",
	Short: "List connection requests you have sent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNetworkFetch(cmd, "fetch_sent",
			func(ctx context.Context, st *store.Store) error { return st.FetchSentRequests(ctx) },
			func(state store.State) any { return state.SentRequests })
	},
}

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "List your established connections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNetworkFetch(cmd, "fetch_connections",
			func(ctx context.Context, st *store.Store) error { return st.FetchUserConnections(ctx) },
			func(state store.State) any { return state.Connections })
	},
}
