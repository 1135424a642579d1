package dataset

import (
	"context"
	"fmt"

	"malscraper/pkg/blob"
	errs "malscraper/pkg/errors"
	"malscraper/pkg/logger"
)

// Store persists batch tables in a blob store. It is a passed-in
// capability: constructed once and injected into the runner and merger.
type Store struct {
	blobs  blob.Store
	logger logger.Logger
}

// NewStore creates a dataset store on top of a blob store
func NewStore(blobs blob.Store, log logger.Logger) *Store {
	return &Store{blobs: blobs, logger: log}
}

// Load reads the table persisted under key. A missing blob surfaces as
// blob.ErrNotExist so callers decide whether absence means "first run"
// (runner) or "skip this batch" (merger).
func (s *Store) Load(ctx context.Context, key string) (*Table, error) {
	data, err := s.blobs.Download(ctx, key)
	if err != nil {
		return nil, err
	}

	records, err := Decode(data)
	if err != nil {
		return nil, err
	}

	s.logger.DebugWithFields("Dataset loaded", map[string]interface{}{
		"key":  key,
		"rows": len(records),
	})
	return &Table{Records: records}, nil
}

// Persist writes the table under key, then uploads it. Every persist
// uploads, so interruption safety is the default. Upload failures are
// fatal to the caller's run.
func (s *Store) Persist(ctx context.Context, key string, t *Table) error {
	data, err := Encode(t.Records)
	if err != nil {
		return err
	}

	err = s.blobs.Upload(ctx, key, data)
	logger.LogUpload(key, len(data), err)
	if err != nil {
		return errs.Wrap(errs.KindRemoteSync, fmt.Sprintf("failed to upload dataset %s", key), err)
	}

	s.logger.DebugWithFields("Dataset persisted", map[string]interface{}{
		"key":  key,
		"rows": t.Len(),
	})
	return nil
}
