package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"papuanews/internal/aggregate"
	"papuanews/internal/api"
	"papuanews/internal/config"
	"papuanews/internal/fetcher"
	"papuanews/internal/ingest"
	"papuanews/internal/sched"
	"papuanews/internal/scraper"
	"papuanews/internal/store"
)

var (
	cfgFile string
	verbose bool
	site    string
	keyword string
	save    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "papuanews",
		Short: "papuanews — Mimika/Timika news aggregation pipeline",
		Long: `papuanews scrapes Indonesian news portals for articles about the
Mimika regency and the town of Timika, classifies them into a fixed
category taxonomy, and serves them over a JSON API.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sourcesCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape all sites (or one with --site) and print the result as JSON",
		RunE:  runScrape,
	}

	cmd.Flags().StringVarP(&site, "site", "s", "", "scrape a single site by name")
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "override the search keyword (single-site mode)")
	cmd.Flags().BoolVar(&save, "save", false, "persist results to the configured store")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := setupLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := fetcher.New(&cfg.Scrape, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	scrapers := scraper.All(client, &cfg.Scrape, logger)
	ag := aggregate.New(scrapers, cfg.Regions, logger)

	if save {
		st, err := store.Open(cfg.Store, logger)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		report := ingest.New(ag, st, logger).Run(ctx)
		return printJSON(report)
	}

	if site != "" {
		return printJSON(ag.RunOne(ctx, site, keyword))
	}
	return printJSON(ag.RunAll(ctx))
}

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the article API and the ingestion scheduler",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := setupLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	client, err := fetcher.New(&cfg.Scrape, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	scrapers := scraper.All(client, &cfg.Scrape, logger)
	ag := aggregate.New(scrapers, cfg.Regions, logger)
	in := ingest.New(ag, st, logger)

	scheduler := sched.New(in, cfg.Scheduler, logger)
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer scheduler.Stop()

	logger.Info("starting server",
		"addr", cfg.API.Addr,
		"store", st.Name(),
		"scheduler", cfg.Scheduler.Enabled,
	)
	return api.New(st, in, cfg.API, logger).Run()
}

// sourcesCmd creates the "sources" subcommand.
func sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the registered news sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := setupLogger(cfg.Logging)

			client, err := fetcher.New(&cfg.Scrape, logger)
			if err != nil {
				return fmt.Errorf("create fetcher: %w", err)
			}
			for _, s := range scraper.All(client, &cfg.Scrape, logger) {
				fmt.Printf("%-15s %s\n", s.Name(), s.Source())
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("papuanews %s\n", config.Version)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	return newLogger(os.Stderr, cfg, verbose)
}

// newLogger builds a handler from the logging config. The --verbose flag
// overrides the configured level down to debug.
func newLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) *slog.Logger {
	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
