package repositories

import (
	"context"
	"time"
)

// FavoriteRepository tracks per-user favorite marks on folder/file rows.
// All operations are idempotent.
type FavoriteRepository interface {
	// Add marks a folder as a favorite. Adding an existing favorite is a
	// no-op.
	Add(ctx context.Context, userID, folderID string) error

	// Remove clears a favorite mark. Removing a non-existent favorite is a
	// no-op.
	Remove(ctx context.Context, userID, folderID string) error

	// IsFavorite reports whether the user has favorited the folder.
	IsFavorite(ctx context.Context, userID, folderID string) (bool, error)
}

// ActivityRepository tracks per-user "last visited" timestamps. One row per
// (user, folder) pair; repeat visits update the timestamp in place.
type ActivityRepository interface {
	// Touch records a visit, inserting or updating the row's timestamp.
	Touch(ctx context.Context, userID, folderID string, visitedAt time.Time) error
}
