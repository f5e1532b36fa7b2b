package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"beacon/internal/domain/repositories"
)

// PostgresFavoriteRepository implements the FavoriteRepository interface
type PostgresFavoriteRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(config *RepositoryConfig) repositories.FavoriteRepository {
	return &PostgresFavoriteRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Add marks a folder as a favorite. Adding an existing favorite is a no-op;
// the original created time stays.
func (r *PostgresFavoriteRepository) Add(ctx context.Context, userID, folderID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, userid, folderid, createdtime)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (userid, folderid) DO NOTHING
	`, r.tables.Favorites)

	db := GetExecutor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, uuid.New().String(), userID, folderID, time.Now()); err != nil {
		return fmt.Errorf("add favorite: %w", folderRefError(err, folderID))
	}

	return nil
}

// Remove clears a favorite mark. Removing a non-existent favorite is a no-op.
func (r *PostgresFavoriteRepository) Remove(ctx context.Context, userID, folderID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE userid = $1 AND folderid = $2
	`, r.tables.Favorites)

	db := GetExecutor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, userID, folderID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	return nil
}

// IsFavorite reports whether the user has favorited the folder
func (r *PostgresFavoriteRepository) IsFavorite(ctx context.Context, userID, folderID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE userid = $1 AND folderid = $2
		)
	`, r.tables.Favorites)

	db := GetExecutor(ctx, r.pool)

	var exists bool
	if err := db.QueryRow(ctx, query, userID, folderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}

	return exists, nil
}
