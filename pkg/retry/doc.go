// Package retry provides jittered backoff and retry logic for handling
// transient failures when rendering and extracting MyAnimeList pages.
//
// Features:
//   - Uniform random backoff over a configurable window
//   - Jitter to avoid thundering herd problems
//   - Context support for cancellation
//   - Configurable retry predicates
//   - Integration with the scraper's error kinds
//
// Basic usage:
//
//	// Simple retry with defaults: 3 attempts, 3-7 second waits
//	err := retry.Do(func() error {
//		return fetchPage(username)
//	}, nil)
//
//	// Custom configuration
//	cfg := &retry.Config{
//		MaxAttempts: 5,
//		Backoff: &retry.UniformBackoff{
//			Min: 2 * time.Second,
//			Max: 10 * time.Second,
//		},
//		RetryIf: retry.DefaultRetryIf,
//		Logger:  logger.GetLogger(),
//	}
//	records, err := retry.DoWithResult(func() ([]models.Record, error) {
//		return extractor.Extract(ctx, username)
//	}, cfg)
//
// Only extraction failures are retried by default; parsing and remote sync
// errors fail immediately because repeating them cannot change the outcome.
package retry
