package logger

// LogScrape logs the outcome of one user's extraction
func LogScrape(user string, records int, err error) {
	fields := map[string]interface{}{
		"user":    user,
		"records": records,
	}

	if err != nil {
		GetLogger().WithFields(fields).WithError(err).Error("Scrape failed")
	} else {
		GetLogger().InfoWithFields("Scrape completed", fields)
	}
}

// LogUpload logs a blob store upload
func LogUpload(key string, size int, err error) {
	fields := map[string]interface{}{
		"key":        key,
		"size_bytes": size,
	}

	if err != nil {
		GetLogger().WithFields(fields).WithError(err).Error("Upload failed")
	} else {
		GetLogger().DebugWithFields("Upload completed", fields)
	}
}

// LogBatchProgress logs per-user progress through a batch
func LogBatchProgress(batchID string, position, pending int) {
	GetLogger().InfoWithFields("Processing user", map[string]interface{}{
		"batch":    batchID,
		"position": position,
		"pending":  pending,
	})
}
