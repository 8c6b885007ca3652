package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sa03134/soomgo-competitor-tracker/internal/collector"
	"github.com/sa03134/soomgo-competitor-tracker/internal/di"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

var version = "dev"

var flags structures.CliFlags

func main() {
	rootCmd := &cobra.Command{
		Use:     "tracker",
		Short:   "Tracks hirings, reviews and rating of Soomgo competitor profiles",
		Version: version,
		Long: `tracker renders each configured Soomgo profile in a headless browser,
extracts its hiring count, review count and rating, and merges them into a
per-competitor JSON history with one point per observed minute.`,
		Example: `  # Collect every configured profile once and print the pass report
  tracker --once

  # Collect every 30 minutes with a custom config
  tracker --config /etc/tracker/config.yaml --interval 30m

  # List configured competitors
  tracker entities`,
		Args:         cobra.NoArgs,
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&flags.Once, "once", false, "Run a single pass and exit")
	rootCmd.Flags().DurationVar(&flags.Interval, "interval", 0, "Time between passes, overrides scheduler.interval and scheduler.cron")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "entities",
		Short: "List the configured competitor profiles",
		Args:  cobra.NoArgs,
		RunE:  listEntities,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if flags.Interval < 0 || (flags.Interval > 0 && flags.Interval < time.Second) {
		return fmt.Errorf("--interval must be at least 1s, got %s", flags.Interval)
	}

	app, err := di.InitApp(&flags)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(cmd.Context())
}

func listEntities(cmd *cobra.Command, _ []string) error {
	conf, err := providers.NewConfigProvider(&flags)
	if err != nil {
		return err
	}
	store := collector.NewHistoryStore(conf, nil, nil)
	collector.RenderEntities(cmd.OutOrStdout(), conf.Entities, store.Path)
	return nil
}
