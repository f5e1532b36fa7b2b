package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"beacon/internal/domain/repositories"
)

// PostgresActivityRepository implements the ActivityRepository interface
type PostgresActivityRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(config *RepositoryConfig) repositories.ActivityRepository {
	return &PostgresActivityRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Touch records a visit. The upsert is a single statement keyed on
// (userid, folderid), so concurrent visits by the same user cannot lose
// updates or grow the table.
func (r *PostgresActivityRepository) Touch(ctx context.Context, userID, folderID string, visitedAt time.Time) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (userid, folderid, lastvisitedtime)
		VALUES ($1, $2, $3)
		ON CONFLICT (userid, folderid) DO UPDATE SET lastvisitedtime = EXCLUDED.lastvisitedtime
	`, r.tables.Activity)

	db := GetExecutor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, userID, folderID, visitedAt); err != nil {
		return fmt.Errorf("touch activity: %w", folderRefError(err, folderID))
	}

	return nil
}
