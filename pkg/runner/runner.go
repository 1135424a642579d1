// Package runner drives one batch end to end: hydrate prior state, process
// each pending user through the retry policy, and push updated state to the
// blob store after every user so a crash loses at most one user's work.
package runner

import (
	"context"
	"errors"

	"malscraper/pkg/blob"
	"malscraper/pkg/config"
	"malscraper/pkg/dataset"
	"malscraper/pkg/ledger"
	"malscraper/pkg/logger"
	"malscraper/pkg/models"
	"malscraper/pkg/ratelimit"
	"malscraper/pkg/retry"
)

// Extractor produces the completed-list records for one user. One call is
// one attempt; the runner wraps it in the retry policy.
type Extractor interface {
	Extract(ctx context.Context, user string) ([]models.Record, error)
}

// Runner processes one batch of users. All collaborators are injected at
// construction; the runner owns no global state.
type Runner struct {
	blobs     blob.Store
	datasets  *dataset.Store
	extractor Extractor
	limiter   ratelimit.Limiter
	cfg       *config.Config
	logger    logger.Logger
}

// New creates a batch runner. limiter may be nil to disable pacing.
func New(blobs blob.Store, extractor Extractor, limiter ratelimit.Limiter, cfg *config.Config, log logger.Logger) *Runner {
	return &Runner{
		blobs:     blobs,
		datasets:  dataset.NewStore(blobs, log),
		extractor: extractor,
		limiter:   limiter,
		cfg:       cfg,
		logger:    log,
	}
}

// Summary reports the outcome of a batch run
type Summary struct {
	BatchID   string
	Total     int // users in the list
	Skipped   int // already done before this run
	Succeeded int
	Failed    int
	Records   int // dataset rows after the run
	Errors    int // error log entries, including prior runs
}

// Run processes every pending user in the batch. Per-user failures are
// recorded and never abort the batch; an upload failure does, because
// continuing with memory-only progress would not be safe to resume from.
// The returned summary is valid even when err is non-nil.
func (r *Runner) Run(ctx context.Context, batchID string, users []string) (*Summary, error) {
	prefix := r.cfg.Storage.KeyPrefix
	datasetKey := dataset.Key(prefix, batchID)
	ledgerKey := ledger.Key(prefix, batchID)
	errorsKey := ErrorsKey(prefix, batchID)

	led := ledger.Load(ctx, r.blobs, ledgerKey, r.logger)
	errlog := loadErrorLog(ctx, r.blobs, errorsKey, r.logger)

	table, err := r.loadDataset(ctx, datasetKey)
	if err != nil {
		return nil, err
	}

	pending := led.Pending(users)
	summary := &Summary{
		BatchID: batchID,
		Total:   len(users),
		Skipped: len(users) - len(pending),
	}

	r.logger.InfoWithFields("Starting batch", map[string]interface{}{
		"batch":   batchID,
		"users":   len(users),
		"pending": len(pending),
		"skipped": summary.Skipped,
	})

	for i, user := range pending {
		if err := ctx.Err(); err != nil {
			summary.Records = table.Len()
			summary.Errors = errlog.Len()
			return summary, err
		}

		if r.limiter != nil {
			r.limiter.Wait()
		}

		logger.LogBatchProgress(batchID, i+1, len(pending))
		led.MarkStart(user)

		records, err := retry.DoWithResult(func() ([]models.Record, error) {
			return r.extractor.Extract(ctx, user)
		}, r.retryConfig(ctx))
		logger.LogScrape(user, len(records), err)
		if err != nil {
			summary.Failed++
			errlog.Append(user, err.Error())

			// Failed users stay out of the done set so a future full
			// rerun of the batch picks them up again.
			if perr := errlog.Persist(ctx, r.blobs, errorsKey); perr != nil {
				summary.Records = table.Len()
				summary.Errors = errlog.Len()
				return summary, perr
			}
			continue
		}

		table.Merge(records)
		if err := r.datasets.Persist(ctx, datasetKey, table); err != nil {
			summary.Records = table.Len()
			summary.Errors = errlog.Len()
			return summary, err
		}

		led.MarkDone(user)
		if err := led.Persist(ctx, r.blobs, ledgerKey); err != nil {
			summary.Records = table.Len()
			summary.Errors = errlog.Len()
			return summary, err
		}

		if err := errlog.Persist(ctx, r.blobs, errorsKey); err != nil {
			summary.Records = table.Len()
			summary.Errors = errlog.Len()
			return summary, err
		}

		summary.Succeeded++
		r.logger.InfoWithFields("User completed", map[string]interface{}{
			"batch":   batchID,
			"user":    user,
			"records": len(records),
			"rows":    table.Len(),
		})
	}

	summary.Records = table.Len()
	summary.Errors = errlog.Len()

	r.logger.InfoWithFields("Batch completed", map[string]interface{}{
		"batch":     batchID,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
		"rows":      summary.Records,
	})
	return summary, nil
}

// loadDataset hydrates the batch table, treating an absent blob as a first
// run. A present but undecodable table is fatal: silently starting over
// would drop merged data the ledger already considers done.
func (r *Runner) loadDataset(ctx context.Context, key string) (*dataset.Table, error) {
	table, err := r.datasets.Load(ctx, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotExist) {
			return &dataset.Table{}, nil
		}
		return nil, err
	}
	return table, nil
}

func (r *Runner) retryConfig(ctx context.Context) *retry.Config {
	return &retry.Config{
		MaxAttempts: r.cfg.Scrape.MaxAttempts,
		Backoff: &retry.UniformBackoff{
			Min: r.cfg.Scrape.RetryWaitMin,
			Max: r.cfg.Scrape.RetryWaitMax,
		},
		RetryIf: retry.DefaultRetryIf,
		Context: ctx,
		Logger:  r.logger,
	}
}
