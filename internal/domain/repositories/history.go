package repositories

import (
	"context"
	"time"

	"beacon/internal/domain/models"
)

// HistoryRepository is the append-only version log for file rows.
type HistoryRepository interface {
	// Append records that a file pointed at a content digest at a point in
	// time. Appending an identical (folder, digest, time) triple again is a
	// no-op; callers must not rely on getting the same id back.
	Append(ctx context.Context, folderID, contentSHA string, createdAt time.Time) (string, error)

	// ListByFolder returns the history of a file ordered by creation time,
	// newest first.
	ListByFolder(ctx context.Context, folderID string) ([]models.HistoryEntry, error)
}
