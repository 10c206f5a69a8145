// internal/domain/thumbnail.go
package domain

import "time"

// ThumbnailEntry is the cache metadata for one generated thumbnail file.
// Timestamp is unix milliseconds to stay compatible with existing cache indexes.
type ThumbnailEntry struct {
	LocalPath string `json:"localPath"`
	Timestamp int64  `json:"timestamp"`
	Size      int64  `json:"size"`
}

// CreatedAt converts the stored timestamp.
func (e ThumbnailEntry) CreatedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Age is how old the entry is at the given instant.
func (e ThumbnailEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt())
}

// ThumbnailIndex maps exercise IDs to cache entries.
type ThumbnailIndex map[string]ThumbnailEntry

// ThumbnailStats summarizes the cache index.
type ThumbnailStats struct {
	TotalThumbnails int   `json:"totalThumbnails"`
	TotalSize       int64 `json:"totalSize"`
	OldestTimestamp int64 `json:"oldestTimestamp"`
	NewestTimestamp int64 `json:"newestTimestamp"`
}
