package cli

import (
	"context"
	"fmt"

	"careercrafter/internal/common"
	"careercrafter/internal/feed"
	"careercrafter/internal/types"

	"github.com/spf13/cobra"
)

var feedCmd = &cobra.Command{
	Use:   "feed [jobs-file] [hired-posts-file]",
	Short: "Assemble the home feed from jobs and hired posts",
	Long: `Assemble the home feed from a JSON file of job postings and a JSON
file of hired posts. Items are tagged by kind, merged and shuffled the
way the home feed presents them.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if feedConfig.OutputFormat == "" {
			feedConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(feedConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runFeed,
}

var feedConfig common.CommandConfig

func init() {
	feedCmd.Flags().StringVarP(&feedConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	feedCmd.Flags().StringVar(&feedConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = feedCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

type feedInput struct {
	Jobs       []types.Job
	HiredPosts []types.HiredPost
}

func runFeed(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	createInput := func(contents []string) (feedInput, error) {
		if len(contents) != 2 {
			return feedInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		jobs, err := common.DecodeJSON[[]types.Job](contents[0], args[0])
		if err != nil {
			return feedInput{}, err
		}
		posts, err := common.DecodeJSON[[]types.HiredPost](contents[1], args[1])
		if err != nil {
			return feedInput{}, err
		}
		return feedInput{Jobs: jobs, HiredPosts: posts}, nil
	}

	logDetails := func(input feedInput, cfg common.CommandConfig) {
		logger.Info("Assembling feed",
			"jobs", len(input.Jobs),
			"hired_posts", len(input.HiredPosts),
			"output_format", cfg.OutputFormat)
	}

	metrics := getMetricsFromContext(cmd.Context())
	assembler := feed.NewAssembler()
	assembleOperation := func(ctx context.Context, input feedInput) ([]types.FeedItem, error) {
		items := assembler.Assemble(input.Jobs, input.HiredPosts)
		metrics.RecordBusinessMetric(ctx, "feed_assembled", true)
		return items, nil
	}

	err := common.RunFileCommand(
		cmd.Context(),
		logger,
		feedConfig,
		args,
		createInput,
		assembleOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to assemble feed: %w", err)
	}
	logger.Info("Feed assembled successfully")
	return nil
}
