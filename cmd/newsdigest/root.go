package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/deusflow/newsdigest/internal/app"
	"github.com/deusflow/newsdigest/internal/config"
	"github.com/deusflow/newsdigest/internal/logger"
	"github.com/deusflow/newsdigest/internal/rss"
	"github.com/deusflow/newsdigest/internal/storage"
	"github.com/deusflow/newsdigest/internal/summarizer"
)

var (
	version = "dev"
	commit  = "none"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "newsdigest",
	Short:         "Daily RSS news digest summarized by an LLM",
	Long:          "newsdigest fetches RSS feeds, ranks the articles by priority and writes an LLM summary of the top stories to a dated report file.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runOnce,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(historyCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "newsdigest %s (commit: %s)\n", version, commit)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("newsdigest failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads .env (if any), the config file and sets up logging.
func loadConfig() (*config.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger.Init(cfg.LogLevel, cfg.Debug), nil
}

// newPipeline builds the pipeline and returns a func releasing the
// summarizer client and the archive.
func newPipeline(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app.Pipeline, func(), error) {
	sum, err := summarizer.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	archive, err := storage.New(ctx, cfg.Archive)
	if err != nil {
		closeQuietly(log, sum)
		return nil, nil, err
	}

	p := app.New(cfg, app.Deps{
		Fetcher:    rss.NewGofeedFetcher(cfg.RSS.FetchTimeout, cfg.RSS.UserAgent),
		Summarizer: sum,
		Archive:    archive,
		Logger:     log,
	})

	cleanup := func() {
		closeQuietly(log, sum)
		closeQuietly(log, archive)
	}
	return p, cleanup, nil
}

func closeQuietly(log *slog.Logger, v any) {
	c, ok := v.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close resource", "error", err)
	}
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p, cleanup, err := newPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Summary saved to %s\n", res.ReportPath)
	return nil
}
