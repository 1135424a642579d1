package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"malscraper/pkg/blob"
	errs "malscraper/pkg/errors"
	"malscraper/pkg/logger"
	"malscraper/pkg/models"
)

// ErrorsKey returns the blob key holding a batch's error log
func ErrorsKey(prefix, batchID string) string {
	return fmt.Sprintf("%serrors_%s.txt", prefix, batchID)
}

// errorLog accumulates per-user failures as "user: message" lines. Prior
// runs' entries are loaded at startup and kept, so the log appends across
// resumes instead of overwriting.
type errorLog struct {
	entries []models.UserError
}

// loadErrorLog hydrates the error log from the blob store, falling back to
// empty when absent or unreadable
func loadErrorLog(ctx context.Context, blobs blob.Store, key string, log logger.Logger) *errorLog {
	e := &errorLog{}

	data, err := blobs.Download(ctx, key)
	if err != nil {
		if !errors.Is(err, blob.ErrNotExist) {
			log.WithError(err).WithField("key", key).Warn("Could not download error log, starting empty")
		}
		return e
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		user, message, found := strings.Cut(line, ": ")
		if !found {
			user, message = line, ""
		}
		e.entries = append(e.entries, models.UserError{User: user, Message: message})
	}

	return e
}

// Append records one failed user
func (e *errorLog) Append(user, message string) {
	e.entries = append(e.entries, models.UserError{User: user, Message: message})
}

// Len returns the number of recorded failures
func (e *errorLog) Len() int {
	return len(e.entries)
}

// Persist uploads the full error log
func (e *errorLog) Persist(ctx context.Context, blobs blob.Store, key string) error {
	var buf bytes.Buffer
	for _, entry := range e.entries {
		buf.WriteString(entry.String())
		buf.WriteByte('\n')
	}

	if err := blobs.Upload(ctx, key, buf.Bytes()); err != nil {
		return errs.Wrap(errs.KindRemoteSync, fmt.Sprintf("failed to upload error log %s", key), err)
	}
	return nil
}
