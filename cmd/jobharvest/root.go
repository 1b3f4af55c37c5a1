package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/fr4nk3nst1ner/jobharvest/internal/client"
	"github.com/fr4nk3nst1ner/jobharvest/internal/config"
	"github.com/fr4nk3nst1ner/jobharvest/internal/logging"
	"github.com/fr4nk3nst1ner/jobharvest/internal/scraper"
	"github.com/fr4nk3nst1ner/jobharvest/internal/store"
	"github.com/fr4nk3nst1ner/jobharvest/internal/ui"
)

const progressTemplate pb.ProgressBarTemplate = `{{ green "new jobs:" }} {{ counters . }} {{ etime . }}`

type options struct {
	country    string
	keyword    string
	database   string
	configPath string
	sqlitePath string
	proxy      string
	debug      bool
	pretty     bool
	silence    bool
	noProgress bool
}

// DefaultDatabase names the database used when --database is omitted
func DefaultDatabase(keyword, country string) string {
	return fmt.Sprintf("database-%s-%s.csv", keyword, country)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "jobharvest -k <keyword> -c <country> [-d <database.csv>]",
		Short: "jobharvest crawls job search results into a deduplicated CSV database.",
		Long: "jobharvest pages through the job search results for one keyword and location,\n" +
			"adding every listing it has not seen before to a CSV database. Running it again\n" +
			"against the same database only adds new listings.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.country, "country", "c", "", "location token to search in (required)")
	flags.StringVarP(&opts.keyword, "keyword", "k", "", "keyword to search for (required)")
	flags.StringVarP(&opts.database, "database", "d", "", "CSV database path (default database-<keyword>-<country>.csv)")
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.StringVar(&opts.sqlitePath, "sqlite", "", "also mirror the database into this SQLite file")
	flags.StringVar(&opts.proxy, "proxy", "", "proxy URL to use")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.pretty, "pretty", false, "force human-readable log output")
	flags.BoolVar(&opts.silence, "silence", false, "silence the banner")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "hide the progress counter")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("keyword")

	return cmd
}

func run(ctx context.Context, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.proxy != "" {
		cfg.Proxy = opts.proxy
	}
	if opts.debug {
		cfg.Log.Level = "debug"
	}
	if opts.pretty {
		cfg.Log.Pretty = true
	}

	logging.Setup(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger := logging.NewLogger("jobharvest")

	ui.PrintBanner(opts.silence)

	dbPath := opts.database
	if dbPath == "" {
		dbPath = DefaultDatabase(opts.keyword, opts.country)
	}

	unlock, err := store.Lock(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Warn().Err(err).Msg("failed to release database lock")
		}
	}()

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	logger.Info().Str("database", dbPath).Int("jobs", st.Len()).Msg("loaded database")

	httpClient, err := client.New(client.Options{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		ProxyURL:  cfg.Proxy,
	})
	if err != nil {
		return err
	}

	crawlOpts := []scraper.Option{
		scraper.WithBaseURL(cfg.BaseURL),
		scraper.WithLogger(logging.NewLogger("crawler")),
	}
	var bar *pb.ProgressBar
	if !opts.noProgress && !opts.debug {
		bar = progressTemplate.New(0)
		bar.SetWriter(os.Stderr)
		bar.Start()
		crawlOpts = append(crawlOpts, scraper.WithProgressBar(bar))
	}

	res := scraper.NewCrawler(httpClient, st, crawlOpts...).Run(ctx, opts.keyword, opts.country)
	if bar != nil {
		bar.Finish()
	}
	logger.Info().
		Str("reason", res.Reason.String()).
		Int("pages", res.Pages).
		Int("added", res.Added).
		Msg("crawl stopped")

	if err := st.PersistFile(dbPath); err != nil {
		return err
	}

	if opts.sqlitePath != "" {
		added, err := st.MirrorSQLite(context.WithoutCancel(ctx), opts.sqlitePath)
		if err != nil {
			return err
		}
		logger.Info().Str("sqlite", opts.sqlitePath).Int("added", added).Msg("mirrored database")
	}

	var size uint64
	if info, err := os.Stat(dbPath); err == nil {
		size = uint64(info.Size())
	}
	return ui.PrintSummary(ui.Summary{
		Keyword:    opts.keyword,
		Country:    opts.country,
		Database:   dbPath,
		StopReason: res.Reason.String(),
		Pages:      res.Pages,
		Added:      res.Added,
		Total:      st.Len(),
		FileSize:   size,
	})
}
