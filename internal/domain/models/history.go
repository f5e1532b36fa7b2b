package models

import "time"

// HistoryEntry links a file to a content digest at a point in time. Entries
// are append-only: never updated, never deleted.
type HistoryEntry struct {
	ID         string
	FolderID   string
	ContentSHA string
	CreatedAt  time.Time
}
