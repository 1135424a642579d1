// Package merger unions the persisted datasets of every batch into one
// final artifact. It runs offline after all batches finish and owns no
// batch state; the merged table is a derived view.
package merger

import (
	"context"
	"errors"

	"malscraper/pkg/blob"
	"malscraper/pkg/config"
	"malscraper/pkg/dataset"
	"malscraper/pkg/logger"
)

// ErrNoInput is returned when none of the expected batches could be loaded
var ErrNoInput = errors.New("no batch datasets could be loaded")

// Merger loads per-batch datasets and produces the merged artifact
type Merger struct {
	blobs    blob.Store
	datasets *dataset.Store
	cfg      *config.Config
	logger   logger.Logger
}

// New creates a merger with an injected blob store
func New(blobs blob.Store, cfg *config.Config, log logger.Logger) *Merger {
	return &Merger{
		blobs:    blobs,
		datasets: dataset.NewStore(blobs, log),
		cfg:      cfg,
		logger:   log,
	}
}

// Merge loads each batch's dataset, unions them deduplicated on
// (user, anime_id) with the later batch winning in enumeration order, and
// persists the result at the merged artifact key. Missing or malformed
// batches are logged and skipped; only zero loadable batches is an error.
func (m *Merger) Merge(ctx context.Context, batchIDs []string) (*dataset.Table, error) {
	merged := &dataset.Table{}
	loaded := 0

	for _, batchID := range batchIDs {
		key := dataset.Key(m.cfg.Storage.KeyPrefix, batchID)

		table, err := m.datasets.Load(ctx, key)
		if err != nil {
			m.logger.WithError(err).WithFields(map[string]interface{}{
				"batch": batchID,
				"key":   key,
			}).Warn("Skipping batch")
			continue
		}

		merged.Merge(table.Records)
		loaded++
		m.logger.InfoWithFields("Batch merged", map[string]interface{}{
			"batch": batchID,
			"rows":  table.Len(),
			"total": merged.Len(),
		})
	}

	if loaded == 0 {
		return nil, ErrNoInput
	}

	if err := m.datasets.Persist(ctx, m.cfg.Storage.MergedKey, merged); err != nil {
		return nil, err
	}

	m.logger.InfoWithFields("Merged dataset persisted", map[string]interface{}{
		"key":     m.cfg.Storage.MergedKey,
		"batches": loaded,
		"rows":    merged.Len(),
	})
	return merged, nil
}
