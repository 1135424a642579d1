package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"malscraper/pkg/blob"
	"malscraper/pkg/config"
	"malscraper/pkg/fetcher"
	"malscraper/pkg/logger"
	"malscraper/pkg/ratelimit"
	"malscraper/pkg/runner"
	"malscraper/pkg/ui"
)

var (
	// Scrape command flags
	storageDir  string
	keyPrefix   string
	maxAttempts int
	rpm         int
	headless    bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <userlist>",
	Short: "Scrape completed lists for one batch of users",
	Long: `Scrape the completed-anime list of every user named in the list file
(one user per line) and accumulate them into the batch's dataset.

The batch identifier is derived from the list filename, so lists/users_3.txt
owns the output_users_3, progress_users_3 and errors_users_3 storage keys.
Prior state for the batch is downloaded at startup and users already marked
done are skipped, making interrupted runs safe to restart.`,
	Example: `  # Scrape one batch
  malscraper scrape lists/users_1.txt

  # Custom storage location and slower pacing
  malscraper scrape lists/users_1.txt --storage-dir /mnt/data --rpm 10

  # Watch the browser while debugging selectors
  malscraper scrape lists/users_1.txt --headless=false --log-level debug`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runScrape(args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&storageDir, "storage-dir", "d", "", "directory backing the blob store")
	scrapeCmd.Flags().StringVar(&keyPrefix, "key-prefix", "", "prefix for all storage keys")
	scrapeCmd.Flags().IntVar(&maxAttempts, "max-attempts", 3, "maximum scrape attempts per user")
	scrapeCmd.Flags().IntVar(&rpm, "rpm", 0, "page fetches per minute (0 uses config value)")
	scrapeCmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
}

func runScrape(listPath string) {
	cfg := loadConfigOrExit()

	batchID := runner.DeriveBatchID(listPath)
	ui.PrintInfo("User list", listPath)
	ui.PrintInfo("Batch", batchID)

	users, err := runner.ReadUserList(listPath)
	if err != nil {
		ui.PrintError("Failed to read user list", err.Error())
		os.Exit(1)
	}
	if len(users) == 0 {
		ui.PrintWarning("User list is empty, nothing to do")
		return
	}

	log := logger.GetLogger()
	log.InfoWithFields("Starting scrape", map[string]interface{}{
		"batch": batchID,
		"users": len(users),
	})

	store, err := blob.NewFSStore(cfg.Storage.LocalDirectory)
	if err != nil {
		ui.PrintError("Failed to open blob store", err.Error())
		os.Exit(1)
	}
	ui.PrintInfo("Blob store", store.Root())

	var limiter ratelimit.Limiter
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiter = ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)
	}

	extractor := fetcher.NewExtractor(fetcher.NewChromeFetcher(&cfg.Scrape, log), log)
	r := runner.New(store, extractor, limiter, cfg, log)

	ui.PrintHighlight("[STARTING BATCH EXTRACTION]")

	summary, err := r.Run(context.Background(), batchID, users)
	if summary != nil {
		printSummary(summary)
	}
	if err != nil {
		log.WithError(err).WithField("batch", batchID).Error("Batch run failed")
		ui.PrintError("BATCH FAILED", err.Error())
		ui.PrintWarning("State synced up to the last completed user; rerun to resume")
		os.Exit(1)
	}

	ui.PrintSuccess("[BATCH COMPLETED]")
}

func printSummary(s *runner.Summary) {
	ui.PrintInfo("Succeeded", fmt.Sprintf("%d", s.Succeeded))
	ui.PrintInfo("Failed", fmt.Sprintf("%d", s.Failed))
	ui.PrintInfo("Skipped (already done)", fmt.Sprintf("%d", s.Skipped))
	ui.PrintInfo("Dataset rows", fmt.Sprintf("%d", s.Records))
}

// loadConfigOrExit loads layered configuration and initializes logging
func loadConfigOrExit() *config.Config {
	flags := make(map[string]interface{})
	if storageDir != "" {
		flags["storage-dir"] = storageDir
	}
	if keyPrefix != "" {
		flags["key-prefix"] = keyPrefix
	}
	if maxAttempts != 3 {
		flags["max-attempts"] = maxAttempts
	}
	if rpm > 0 {
		flags["requests-per-minute"] = rpm
	}
	if !headless {
		flags["headless"] = false
	}
	// The flag carries a default, so only an explicit --log-level may
	// override the config file or environment
	if rootCmd.PersistentFlags().Changed("log-level") {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging", err.Error())
		os.Exit(1)
	}

	return cfg
}
