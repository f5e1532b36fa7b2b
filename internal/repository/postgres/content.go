package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"beacon/internal/domain"
	"beacon/internal/domain/models"
	"beacon/internal/domain/repositories"
)

// PostgresContentRepository implements the ContentRepository interface
type PostgresContentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewContentRepository creates a new content repository
func NewContentRepository(config *RepositoryConfig) repositories.ContentRepository {
	return &PostgresContentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts the content row if its digest is not already present. The
// conditional insert is a single statement; concurrent writers racing on the
// same digest both succeed and exactly one row exists afterwards. An existing
// row keeps its original audit fields.
func (r *PostgresContentRepository) Create(ctx context.Context, content *models.Content) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (sha2, data, createdby, createdtime)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sha2) DO NOTHING
	`, r.tables.Content)

	db := GetExecutor(ctx, r.pool)
	_, err := db.Exec(ctx, query,
		content.SHA,
		content.Data,
		content.CreatedBy,
		content.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create content: %w", err)
	}

	return nil
}

// GetBySHA retrieves a content row by digest
func (r *PostgresContentRepository) GetBySHA(ctx context.Context, sha string) (*models.Content, error) {
	query := fmt.Sprintf(`
		SELECT sha2, data, createdby, createdtime
		FROM %s
		WHERE sha2 = $1
	`, r.tables.Content)

	db := GetExecutor(ctx, r.pool)

	var content models.Content
	err := db.QueryRow(ctx, query, sha).Scan(
		&content.SHA,
		&content.Data,
		&content.CreatedBy,
		&content.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("content %s: %w", sha, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get content: %w", err)
	}

	return &content, nil
}
