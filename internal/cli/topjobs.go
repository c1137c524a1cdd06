package cli

import (
	"context"
	"fmt"

	"careercrafter/internal/common"
	"careercrafter/internal/match"
	"careercrafter/internal/types"

	"github.com/spf13/cobra"
)

var topJobsCmd = &cobra.Command{
	Use:   "top-jobs [profile-file] [jobs-file]",
	Short: "Rank job postings against a skill profile",
	Long: `Rank job postings against a skill profile. The command takes two
arguments: a profile JSON file carrying the candidate's skill tags and a
JSON file with an array of job postings. Jobs scoring at or above the
threshold are ranked by match score; when none qualify, the most applied
to jobs are shown instead.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if topJobsConfig.OutputFormat == "" {
			topJobsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(topJobsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runTopJobs,
}

var (
	topJobsConfig    common.CommandConfig
	topJobsThreshold float64
	topJobsLimit     int
)

func init() {
	topJobsCmd.Flags().StringVarP(&topJobsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	topJobsCmd.Flags().StringVar(&topJobsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	topJobsCmd.Flags().Float64Var(&topJobsThreshold, "threshold", 0, "Minimum match score to qualify (default from config)")
	topJobsCmd.Flags().IntVar(&topJobsLimit, "limit", 0, "Maximum number of jobs to show (default from config)")

	// Add completion for format flag
	_ = topJobsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

type topJobsInput struct {
	Tags []string
	Jobs []types.Job
}

func runTopJobs(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	threshold := cfg.Match.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = topJobsThreshold
	}
	limit := cfg.Match.TopJobs
	if cmd.Flags().Changed("limit") {
		limit = topJobsLimit
	}

	createInput := func(contents []string) (topJobsInput, error) {
		if len(contents) != 2 {
			return topJobsInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		profile, err := common.DecodeJSON[types.User](contents[0], args[0])
		if err != nil {
			return topJobsInput{}, err
		}
		jobs, err := common.DecodeJSON[[]types.Job](contents[1], args[1])
		if err != nil {
			return topJobsInput{}, err
		}
		return topJobsInput{Tags: profile.Tags, Jobs: jobs}, nil
	}

	logDetails := func(input topJobsInput, cfg common.CommandConfig) {
		logger.Info("Starting job ranking",
			"profile_tags", len(input.Tags),
			"jobs", len(input.Jobs),
			"threshold", threshold,
			"limit", limit,
			"output_format", cfg.OutputFormat)
	}

	metrics := getMetricsFromContext(cmd.Context())
	rankOperation := func(ctx context.Context, input topJobsInput) ([]types.RankedJob, error) {
		ranked := match.TopJobs(input.Tags, input.Jobs, threshold, limit)
		metrics.RecordBusinessMetric(ctx, "jobs_ranked", true)
		return ranked, nil
	}

	err := common.RunFileCommand(
		cmd.Context(),
		logger,
		topJobsConfig,
		args,
		createInput,
		rankOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to rank jobs: %w", err)
	}
	logger.Info("Job ranking completed successfully")
	return nil
}
