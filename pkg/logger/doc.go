// Package logger provides a structured logging interface for the
// MyAnimeList batch scraper.
//
// It wraps the zerolog library to provide a clean API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors
// - File output
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "malscraper/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	    File: "/var/log/malscraper.log",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	log := logger.GetLogger()
//	log.WithField("user", "alice").Info("Scraping user")
//	log.WithError(err).Error("Failed to upload dataset")
//
// Advanced Usage:
//
//	// Create a logger instance with fields
//	log := logger.GetLogger().
//	    WithField("component", "runner").
//	    WithField("batch", "users_3")
//
//	// Use structured logging
//	log.InfoWithFields("User completed", map[string]interface{}{
//	    "user":    "alice",
//	    "records": 142,
//	    "rows":    9120,
//	})
package logger
