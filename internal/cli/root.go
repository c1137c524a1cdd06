package cli

import (
	"context"
	"fmt"
	"time"

	"careercrafter/internal/api"
	"careercrafter/internal/config"
	"careercrafter/internal/errors"
	"careercrafter/internal/observability"
	"careercrafter/internal/store"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}
type obsKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}
var obsKey = obsKeyType{}

var rootCmd = &cobra.Command{
	Use:   "careercrafter",
	Short: "A CLI client for the Career Crafter professional network",
	Long: `Career Crafter is a command-line client for the Career Crafter
professional network. It manages your connections and connection requests,
ranks job postings against your skill profile, and assembles the home feed.`,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	om, err := observability.NewObservabilityManager(
		observability.GetObservabilityConfig(cfg, Version), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		if err := om.Shutdown(context.Background()); err != nil {
			logger.Warn("Observability shutdown failed", "error", err.Error())
		}
	}()

	// Attach the config, logger and observability manager to the
	// context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	ctx = context.WithValue(ctx, obsKey, om)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// getMetricsFromContext is a helper function to get metrics from context
func getMetricsFromContext(ctx context.Context) *observability.Metrics {
	if om, ok := ctx.Value(obsKey).(*observability.ObservabilityManager); ok {
		return om.GetMetrics()
	}
	return &observability.Metrics{}
}

// newNetworkStore builds the authenticated client and the state store
// for a network command. The returned cleanup stops the token watcher
// when file watching is enabled.
func newNetworkStore(ctx context.Context) (*store.Store, func(), error) {
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	// Vault is the highest-precedence token source when enabled.
	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return nil, nil, err
	}

	token, err := cfg.ResolveToken()
	if err != nil {
		return nil, nil, err
	}

	tokens := api.NewRotatingToken(token)

	cleanup := func() {}
	if cfg.Auth.WatchFile && cfg.Auth.TokenFile != "" {
		metrics := getMetricsFromContext(ctx)
		onToken := func(token string) {
			tokens.Set(token)
			metrics.RecordBusinessMetric(context.Background(), "token_reloaded", true)
		}
		watcher := config.NewTokenWatcher(cfg.Auth.TokenFile, time.Second, onToken, logger)
		if err := watcher.Start(); err != nil {
			return nil, nil, fmt.Errorf("failed to start token watcher: %w", err)
		}
		cleanup = watcher.Stop
	}

	client, err := api.NewClient(&cfg.API, tokens, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create API client: %w", err)
	}

	return store.New(client, cfg.Auth.UserEmail, logger), cleanup, nil
}

func init() {
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(topJobsCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(versionCmd)
}
