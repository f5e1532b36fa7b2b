package repositories

import (
	"context"

	"beacon/internal/domain/models"
)

// ContentRepository is the content-addressable blob store. Rows are keyed by
// the digest of their payload and are immutable once created.
type ContentRepository interface {
	// Create inserts the content row if no row with its digest exists yet.
	// If one already exists the call is a silent no-op and the existing row,
	// including its original audit fields, stays authoritative.
	Create(ctx context.Context, content *models.Content) error

	// GetBySHA retrieves a content row by digest.
	GetBySHA(ctx context.Context, sha string) (*models.Content, error)
}
