// Package ledger tracks which users in a batch have completed processing.
// The log is newline-delimited: a START line per attempt and a DONE line per
// completion. Only DONE lines count; START lines exist so an interrupted run
// shows which user it died on.
package ledger

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"malscraper/pkg/blob"
	errs "malscraper/pkg/errors"
	"malscraper/pkg/logger"
)

const timeLayout = "2006-01-02 15:04:05"

// Key returns the blob key holding a batch's progress log
func Key(prefix, batchID string) string {
	return fmt.Sprintf("%sprogress_%s.txt", prefix, batchID)
}

// Ledger is one batch's progress log. Completed users are compared
// lowercase-normalized: once a user is marked done it is never reprocessed
// on resume, even when its extraction returned zero records.
type Ledger struct {
	done  map[string]bool
	lines []string
}

// New returns an empty ledger
func New() *Ledger {
	return &Ledger{done: make(map[string]bool)}
}

// Load hydrates a ledger from the blob store. An absent key is a first
// run, not an error; any other download failure falls back to an empty
// ledger with a warning, leaving the remote copy untouched.
func Load(ctx context.Context, blobs blob.Store, key string, log logger.Logger) *Ledger {
	l := New()

	data, err := blobs.Download(ctx, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotExist) {
			log.DebugWithFields("No prior progress log", map[string]interface{}{"key": key})
		} else {
			log.WithError(err).WithField("key", key).Warn("Could not download progress log, starting empty")
		}
		return l
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		l.lines = append(l.lines, line)

		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "DONE" {
			l.done[normalize(fields[1])] = true
		}
	}

	log.InfoWithFields("Progress log loaded", map[string]interface{}{
		"key":  key,
		"done": len(l.done),
	})
	return l
}

// MarkStart records that processing of a user has begun
func (l *Ledger) MarkStart(user string) {
	l.lines = append(l.lines, fmt.Sprintf("START %s %s", user, time.Now().Format(timeLayout)))
}

// MarkDone records a user as completed. Done means attempted and resolved,
// not "had data".
func (l *Ledger) MarkDone(user string) {
	l.done[normalize(user)] = true
	l.lines = append(l.lines, fmt.Sprintf("DONE %s %s", user, time.Now().Format(timeLayout)))
}

// IsDone reports whether a user has already completed processing
func (l *Ledger) IsDone(user string) bool {
	return l.done[normalize(user)]
}

// DoneCount returns the number of completed users
func (l *Ledger) DoneCount() int {
	return len(l.done)
}

// Pending filters users down to those not yet done, preserving order
func (l *Ledger) Pending(users []string) []string {
	pending := make([]string, 0, len(users))
	for _, user := range users {
		if !l.IsDone(user) {
			pending = append(pending, user)
		}
	}
	return pending
}

// Persist uploads the full progress log. The runner calls this before
// moving to the next user, so a crash cannot lose a done marker for
// already-merged data.
func (l *Ledger) Persist(ctx context.Context, blobs blob.Store, key string) error {
	var buf bytes.Buffer
	for _, line := range l.lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	if err := blobs.Upload(ctx, key, buf.Bytes()); err != nil {
		return errs.Wrap(errs.KindRemoteSync, fmt.Sprintf("failed to upload progress log %s", key), err)
	}
	return nil
}

func normalize(user string) string {
	return strings.ToLower(strings.TrimSpace(user))
}
