package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"beacon/internal/domain/models"
	"beacon/internal/domain/repositories"
)

// PostgresHistoryRepository implements the HistoryRepository interface
type PostgresHistoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(config *RepositoryConfig) repositories.HistoryRepository {
	return &PostgresHistoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Append records a (folder, digest, time) triple. The conditional insert is a
// single statement, so concurrent appends of the same triple leave exactly one
// row. The returned id is the one generated for this call whether or not the
// row was inserted; callers must not rely on it matching the stored row.
func (r *PostgresHistoryRepository) Append(ctx context.Context, folderID, contentSHA string, createdAt time.Time) (string, error) {
	id := uuid.New().String()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, folderid, contentid, createdtime)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (folderid, contentid, createdtime) DO NOTHING
	`, r.tables.History)

	db := GetExecutor(ctx, r.pool)
	if _, err := db.Exec(ctx, query, id, folderID, contentSHA, createdAt); err != nil {
		return "", fmt.Errorf("append history: %w", folderRefError(err, folderID))
	}

	return id, nil
}

// ListByFolder returns the history of a file, newest first
func (r *PostgresHistoryRepository) ListByFolder(ctx context.Context, folderID string) ([]models.HistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, folderid, contentid, createdtime
		FROM %s
		WHERE folderid = $1
		ORDER BY createdtime DESC
	`, r.tables.History)

	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		err := rows.Scan(
			&entry.ID,
			&entry.FolderID,
			&entry.ContentSHA,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return entries, nil
}
