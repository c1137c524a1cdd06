package cli

import (
	"context"

	"careercrafter/internal/common"
	"careercrafter/internal/store"
	"careercrafter/internal/types"

	"github.com/spf13/cobra"
)

// runNetworkAction wires one store transition into the shared command
// runner and renders the action outcome from the resulting snapshot.
func runNetworkAction(cmd *cobra.Command, name string, operation common.StoreOperationFunc) error {
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

	collect := func(state store.State) any {
		return types.ActionResponse{Success: state.Error == "", Message: state.SuccessMessage}
	}

	return common.RunNetworkCommand(cmd.Context(), logger, networkConfig, st, tracked, collect)
}

var sendCmd = &cobra.Command{
	Use:   "send [receiver-email]",
	Short: "Send a connection request",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return common.ValidateEmail(args[0])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNetworkAction(cmd, "send_request", func(ctx context.Context, st *store.Store) error {
			return st.SendConnectRequest(ctx, args[0])
		})
	},
}

var acceptCmd = &cobra.Command{
	Use:   "accept [request-id] [sender-email]",
	Short: "Accept an incoming connection request",
	Args:  cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return common.ValidateEmail(args[1])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNetworkAction(cmd, "accept_request", func(ctx context.Context, st *store.Store) error {
			return st.AcceptRequest(ctx, args[0], args[1])
		})
	},
}

var ignoreCmd = &cobra.Command{
	Use:   "ignore [request-id] [sender-email]",
	Short: "Ignore an incoming connection request",
	Args:  cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return common.ValidateEmail(args[1])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNetworkAction(cmd, "ignore_request", func(ctx context.Context, st *store.Store) error {
			return st.IgnoreRequest(ctx, args[0], args[1])
		})
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw [request-id]",
	Short: "Withdraw a connection request you sent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNetworkAction(cmd, "withdraw_request", func(ctx context.Context, st *store.Store) error {
			return st.WithdrawRequest(ctx, args[0])
		})
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect [connection-id]",
	Short: "Remove an established connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNetworkAction(cmd, "remove_connection", func(ctx context.Context, st *store.Store) error {
			return st.RemoveConnection(ctx, args[0])
		})
	},
}
