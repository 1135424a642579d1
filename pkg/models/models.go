package models

import (
	"fmt"
	"strings"
)

// Record is one (user, anime) observation scraped from a completed list.
// AnimeID is nil when the anime link could not be parsed; Score is nil when
// the profile shows no rating.
type Record struct {
	User    string   `parquet:"user"`
	AnimeID *int64   `parquet:"anime_id,optional"`
	Title   string   `parquet:"title"`
	Score   *float64 `parquet:"score,optional"`
}

// Key identifies a record for deduplication. User comparison is
// case-insensitive, so the key carries the lowercased identifier.
type Key struct {
	User    string
	AnimeID int64
	HasID   bool
}

// Key returns the deduplication key for the record.
func (r Record) Key() Key {
	k := Key{User: strings.ToLower(r.User)}
	if r.AnimeID != nil {
		k.AnimeID = *r.AnimeID
		k.HasID = true
	}
	return k
}

// UserError is one failed user and the message from its last attempt.
type UserError struct {
	User    string
	Message string
}

func (e UserError) String() string {
	return fmt.Sprintf("%s: %s", e.User, e.Message)
}
