package models

import "time"

// Favorite marks a folder or file as a favorite of a user. Unique per
// (user, folder) pair.
type Favorite struct {
	ID        string
	UserID    string
	FolderID  string
	CreatedAt time.Time
}

// Activity records the last time a user visited a folder or file. One row per
// (user, folder) pair; repeat visits update the timestamp in place.
type Activity struct {
	UserID        string
	FolderID      string
	LastVisitedAt time.Time
}
