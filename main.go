package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"hostsblock/pkg/blocklist"
	"hostsblock/pkg/config"
	"hostsblock/pkg/hostsfile"
	"hostsblock/pkg/logger"
	"hostsblock/pkg/metrics"
	"hostsblock/pkg/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "hostsblock",
		Short:         "Merge public hosts blocklists into a single hosts file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Setup(configPath, cmd.Flags())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}

			log := logger.Setup(cfg.Logging.Level, cfg.Logging.File, logger.Rotation{
				MaxSizeMB:  cfg.Logging.MaxSizeMB,
				MaxBackups: cfg.Logging.MaxBackups,
				MaxAgeDays: cfg.Logging.MaxAgeDays,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := run(ctx, cfg, afero.NewOsFs(), log); err != nil {
				log.Error("hosts file not updated", "error", err)
				return err
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to the TOML configuration file")
	flags.String("output", "", "path of the generated hosts file (default: next to the executable)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(newVersionCmd(), newSourcesCmd(&configPath))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hostsblock %s\n", version.Version)
		},
	}
}

func newSourcesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the sources a run would merge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Setup(*configPath, cmd.Flags())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCATEGORY\tENABLED\tLOCATION")
			for _, s := range blocklist.BuildSources(blocklist.Catalog, cfg.Sources) {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", s.ID, s.Category, s.Enabled, s.Location)
			}
			return tw.Flush()
		},
	}
}

// run merges all configured sources and replaces the hosts file.
func run(ctx context.Context, cfg *config.Config, fs afero.Fs, log *slog.Logger) error {
	outputPath := cfg.Output.Path
	if outputPath == "" {
		var err error
		if outputPath, err = hostsfile.DefaultPath(); err != nil {
			return err
		}
	}

	excluded := blocklist.NewExcludedSet(cfg.Exclude.Hosts...)
	if err := blocklist.LoadAllowlist(cfg.Exclude.Allowlist, excluded, log); err != nil {
		return err
	}

	sources := blocklist.BuildSources(blocklist.Catalog, cfg.Sources)
	log.Info("starting merge", "version", version.Version, "sources", len(blocklist.EnabledSources(sources)), "output", outputPath)

	aggregator := blocklist.NewAggregator(blocklist.Options{
		Sources: sources,
		Fetcher: blocklist.NewHTTPFetcher(blocklist.FetcherOptions{
			Timeout:   cfg.Fetch.Timeout,
			UserAgent: cfg.Fetch.UserAgent,
			CacheDir:  cfg.Fetch.CacheDir,
			Log:       log,
		}),
		Excluded: excluded,
		FailFast: cfg.Fetch.FailFast,
		Log:      log,
	})

	recorder := metrics.NewRecorder()
	hosts, report, err := aggregator.Build(ctx)
	recorder.Observe(report)
	if err != nil {
		writeMetrics(recorder, cfg.Metrics.Textfile, log)
		return fmt.Errorf("merge sources: %w", err)
	}

	if err := hostsfile.WriteFile(fs, outputPath, hostsfile.New(hosts)); err != nil {
		writeMetrics(recorder, cfg.Metrics.Textfile, log)
		return fmt.Errorf("write hosts file: %w", err)
	}

	recorder.MarkSuccess(time.Now())
	writeMetrics(recorder, cfg.Metrics.Textfile, log)

	log.Info("wrote hosts file", "path", outputPath, "hosts", len(hosts), "excluded", report.Excluded, "failed_sources", report.Failed())
	return nil
}

func writeMetrics(recorder *metrics.Recorder, path string, log *slog.Logger) {
	if err := recorder.WriteTextfile(path); err != nil {
		log.Warn("failed to write metrics", "path", path, "error", err)
	}
}
