package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"malscraper/pkg/blob"
	"malscraper/pkg/logger"
	"malscraper/pkg/merger"
	"malscraper/pkg/ui"
)

var (
	// Merge command flags
	batches    []string
	listPrefix string
	batchCount int
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge every batch's dataset into one final artifact",
	Long: `Load the persisted dataset of every batch, union them deduplicated on
the (user, anime_id) key, and persist the result at the merged artifact key.

Batches still missing their dataset are skipped with a warning; the merge
only fails when no batch could be loaded. Run it after all batches finish.`,
	Example: `  # Merge explicitly named batches
  malscraper merge --batches users_1,users_2,users_3

  # Merge users_1 through users_5
  malscraper merge --list-prefix users --count 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runMerge()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringSliceVar(&batches, "batches", nil, "batch identifiers to merge")
	mergeCmd.Flags().StringVar(&listPrefix, "list-prefix", "users", "batch id prefix when using --count")
	mergeCmd.Flags().IntVar(&batchCount, "count", 0, "merge <list-prefix>_1 through <list-prefix>_N")
}

func runMerge() {
	cfg := loadConfigOrExit()

	batchIDs := batches
	if len(batchIDs) == 0 {
		if batchCount <= 0 {
			ui.PrintError("No batches specified", "use --batches or --count")
			os.Exit(1)
		}
		for i := 1; i <= batchCount; i++ {
			batchIDs = append(batchIDs, fmt.Sprintf("%s_%d", listPrefix, i))
		}
	}

	log := logger.GetLogger()

	store, err := blob.NewFSStore(cfg.Storage.LocalDirectory)
	if err != nil {
		ui.PrintError("Failed to open blob store", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("[MERGING BATCH DATASETS]")

	m := merger.New(store, cfg, log)
	merged, err := m.Merge(context.Background(), batchIDs)
	if err != nil {
		log.WithError(err).Error("Merge failed")
		ui.PrintError("MERGE FAILED", err.Error())
		os.Exit(1)
	}

	ui.PrintInfo("Batches requested", fmt.Sprintf("%d", len(batchIDs)))
	ui.PrintInfo("Merged rows", fmt.Sprintf("%d", merged.Len()))
	ui.PrintInfo("Artifact", cfg.Storage.MergedKey)
	ui.PrintSuccess("[MERGE COMPLETED]")
}
