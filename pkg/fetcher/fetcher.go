// Package fetcher loads a user's completed-list page and turns it into
// records. The Fetcher interface is the boundary to the rendering engine;
// tests substitute scripted documents without any browser or network.
package fetcher

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"malscraper/pkg/logger"
	"malscraper/pkg/mal"
	"malscraper/pkg/models"
)

// Fetcher loads one user's completed-list page, fully rendered with all
// lazily-loaded rows present
type Fetcher interface {
	FetchList(ctx context.Context, user string) (*goquery.Document, error)
}

// Extractor pairs a page fetcher with row extraction. This is the unit the
// retry policy wraps: one Extract call is one attempt.
type Extractor struct {
	fetcher Fetcher
	logger  logger.Logger
}

// NewExtractor creates an Extractor on top of a page fetcher
func NewExtractor(f Fetcher, log logger.Logger) *Extractor {
	return &Extractor{fetcher: f, logger: log}
}

// Extract fetches and parses one user's completed list. A successful fetch
// with zero parsable rows is a success, not an error; a user may have no
// completed titles.
func (e *Extractor) Extract(ctx context.Context, user string) ([]models.Record, error) {
	doc, err := e.fetcher.FetchList(ctx, user)
	if err != nil {
		return nil, err
	}

	records := mal.ExtractRecords(doc, user)
	e.logger.InfoWithFields("Extracted records", map[string]interface{}{
		"user":    user,
		"records": len(records),
	})
	return records, nil
}
