// Package ratelimit provides request pacing for the MyAnimeList scraper.
//
// The batch runner renders one profile page per user; this package keeps
// those fetches spread out so a long batch never hammers the site.
//
// All rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// Token bucket: 20 page fetches per minute
//	limiter := ratelimit.NewTokenBucket(20, time.Minute)
//
//	if limiter.Allow() {
//	    // Proceed with request
//	} else {
//	    // Wait for rate limit to reset
//	    limiter.Wait()
//	}
package ratelimit
