package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"beacon/internal/domain"
	"beacon/internal/domain/models"
	"beacon/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const folderColumns = "id, name, kind, path, pathhash, parentpathhash, contentid, createdby, createdtime, updatedby, updatedtime"

// Create inserts a pure folder row. The content reference must be nil; a row
// with content is a file and goes through CreateFile.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ContentSHA != nil {
		return fmt.Errorf("folder %q carries a content reference: %w", folder.Name, domain.ErrValidation)
	}
	return r.insert(ctx, folder)
}

// CreateFile inserts a file row. The content reference is required.
func (r *PostgresFolderRepository) CreateFile(ctx context.Context, file *models.Folder) error {
	if file.ContentSHA == nil {
		return fmt.Errorf("file %q has no content reference: %w", file.Name, domain.ErrValidation)
	}
	return r.insert(ctx, file)
}

func (r *PostgresFolderRepository) insert(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Folders, folderColumns)

	db := GetExecutor(ctx, r.pool)
	_, err := db.Exec(ctx, query,
		folder.ID,
		folder.Name,
		folder.Kind,
		folder.Path,
		folder.PathHash,
		folder.ParentPathHash,
		folder.ContentSHA,
		folder.CreatedBy,
		folder.CreatedAt,
		folder.UpdatedBy,
		folder.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%q already exists at this path", folder.Name),
				ResourceType: string(folder.Kind),
				ResourceID:   folder.ID,
			}
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// CreateBatch inserts many rows in a single round trip. Generated ids are
// filled into the inputs in order; any failure fails the whole batch.
func (r *PostgresFolderRepository) CreateBatch(ctx context.Context, folders []*models.Folder) error {
	if len(folders) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Folders, folderColumns)

	batch := &pgx.Batch{}
	for _, folder := range folders {
		if folder.ID == "" {
			folder.ID = uuid.New().String()
		}
		batch.Queue(query,
			folder.ID,
			folder.Name,
			folder.Kind,
			folder.Path,
			folder.PathHash,
			folder.ParentPathHash,
			folder.ContentSHA,
			folder.CreatedBy,
			folder.CreatedAt,
			folder.UpdatedBy,
			folder.UpdatedAt,
		)
	}

	db := GetExecutor(ctx, r.pool)
	results := db.SendBatch(ctx, batch)
	defer results.Close()

	for _, folder := range folders {
		if _, err := results.Exec(); err != nil {
			if isPgDuplicateError(err) {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("%q already exists at this path", folder.Name),
					ResourceType: string(folder.Kind),
					ResourceID:   folder.ID,
				}
			}
			return fmt.Errorf("create folder batch: %w", err)
		}
	}

	return nil
}

// Update updates name/path/hashes of a row by id. It does not cascade to
// descendants; subtree rewrites are orchestrated a layer up.
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, path = $2, pathhash = $3, parentpathhash = $4, updatedby = $5, updatedtime = $6
		WHERE id = $7 AND kind = $8
	`, r.tables.Folders)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query,
		folder.Name,
		folder.Path,
		folder.PathHash,
		folder.ParentPathHash,
		folder.UpdatedBy,
		folder.UpdatedAt,
		folder.ID,
		folder.Kind,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%q already exists at this path", folder.Name),
				ResourceType: string(folder.Kind),
				ResourceID:   folder.ID,
			}
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdateFile updates name/path/hashes and the content reference of a file row.
func (r *PostgresFolderRepository) UpdateFile(ctx context.Context, file *models.Folder) error {
	if file.ContentSHA == nil {
		return fmt.Errorf("file %q has no content reference: %w", file.Name, domain.ErrValidation)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, path = $2, pathhash = $3, parentpathhash = $4, contentid = $5, updatedby = $6, updatedtime = $7
		WHERE id = $8 AND kind = $9
	`, r.tables.Folders)

	db := GetExecutor(ctx, r.pool)
	result, err := db.Exec(ctx, query,
		file.Name,
		file.Path,
		file.PathHash,
		file.ParentPathHash,
		file.ContentSHA,
		file.UpdatedBy,
		file.UpdatedAt,
		file.ID,
		file.Kind,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%q already exists at this path", file.Name),
				ResourceType: string(file.Kind),
				ResourceID:   file.ID,
			}
		}
		return fmt.Errorf("update file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}

	return nil
}

// GetByID retrieves a row by kind and id
func (r *PostgresFolderRepository) GetByID(ctx context.Context, kind models.Kind, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND kind = $2
	`, folderColumns, r.tables.Folders)

	db := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(db.QueryRow(ctx, query, id, kind))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// GetByPathHash retrieves a row by kind and path hash
func (r *PostgresFolderRepository) GetByPathHash(ctx context.Context, kind models.Kind, pathHash string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE pathhash = $1 AND kind = $2
	`, folderColumns, r.tables.Folders)

	db := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(db.QueryRow(ctx, query, pathHash, kind))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder at path hash %s: %w", pathHash, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder by path hash: %w", err)
	}

	return folder, nil
}

// GetFileWithContent retrieves a file row together with its content payload.
// The join is inner: a file whose content is missing is reported as not found.
func (r *PostgresFolderRepository) GetFileWithContent(ctx context.Context, kind models.Kind, id string) (*models.Folder, *models.Content, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.name, f.kind, f.path, f.pathhash, f.parentpathhash, f.contentid,
		       f.createdby, f.createdtime, f.updatedby, f.updatedtime,
		       c.sha2, c.data, c.createdby, c.createdtime
		FROM %s f
		JOIN %s c ON c.sha2 = f.contentid
		WHERE f.id = $1 AND f.kind = $2
	`, r.tables.Folders, r.tables.Content)

	db := GetExecutor(ctx, r.pool)

	var folder models.Folder
	var content models.Content
	err := db.QueryRow(ctx, query, id, kind).Scan(
		&folder.ID,
		&folder.Name,
		&folder.Kind,
		&folder.Path,
		&folder.PathHash,
		&folder.ParentPathHash,
		&folder.ContentSHA,
		&folder.CreatedBy,
		&folder.CreatedAt,
		&folder.UpdatedBy,
		&folder.UpdatedAt,
		&content.SHA,
		&content.Data,
		&content.CreatedBy,
		&content.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil, fmt.Errorf("file %s with content: %w", id, domain.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("get file with content: %w", err)
	}

	folder.Slug = models.Slugify(folder.Name)
	return &folder, &content, nil
}

// GetFileOrFolder retrieves a row by kind and id along with its content
// payload if one exists. Content is nil for pure folders.
func (r *PostgresFolderRepository) GetFileOrFolder(ctx context.Context, kind models.Kind, id string) (*models.Folder, *models.Content, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.name, f.kind, f.path, f.pathhash, f.parentpathhash, f.contentid,
		       f.createdby, f.createdtime, f.updatedby, f.updatedtime,
		       c.sha2, c.data, c.createdby, c.createdtime
		FROM %s f
		LEFT JOIN %s c ON c.sha2 = f.contentid
		WHERE f.id = $1 AND f.kind = $2
	`, r.tables.Folders, r.tables.Content)

	db := GetExecutor(ctx, r.pool)

	var folder models.Folder
	var sha *string
	var data []byte
	var createdBy *string
	var createdAt *time.Time
	err := db.QueryRow(ctx, query, id, kind).Scan(
		&folder.ID,
		&folder.Name,
		&folder.Kind,
		&folder.Path,
		&folder.PathHash,
		&folder.ParentPathHash,
		&folder.ContentSHA,
		&folder.CreatedBy,
		&folder.CreatedAt,
		&folder.UpdatedBy,
		&folder.UpdatedAt,
		&sha,
		&data,
		&createdBy,
		&createdAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("get file or folder: %w", err)
	}

	folder.Slug = models.Slugify(folder.Name)

	var content *models.Content
	if sha != nil {
		content = &models.Content{
			SHA:       *sha,
			Data:      data,
			CreatedBy: *createdBy,
			CreatedAt: *createdAt,
		}
	}

	return &folder, content, nil
}

// ListByParentPathHash lists immediate children of a parent path
func (r *PostgresFolderRepository) ListByParentPathHash(ctx context.Context, kind models.Kind, parentPathHash string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parentpathhash = $1 AND kind = $2
		ORDER BY name ASC
	`, folderColumns, r.tables.Folders)

	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, parentPathHash, kind)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	return collectFolders(rows)
}

// GetRecentlyVisited lists rows the user visited most recently, newest first
func (r *PostgresFolderRepository) GetRecentlyVisited(ctx context.Context, userID string, limit int) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.name, f.kind, f.path, f.pathhash, f.parentpathhash, f.contentid,
		       f.createdby, f.createdtime, f.updatedby, f.updatedtime,
		       a.lastvisitedtime
		FROM %s f
		JOIN %s a ON a.folderid = f.id
		WHERE a.userid = $1
		ORDER BY a.lastvisitedtime DESC
		LIMIT $2
	`, r.tables.Folders, r.tables.Activity)

	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recently visited: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.Name,
			&folder.Kind,
			&folder.Path,
			&folder.PathHash,
			&folder.ParentPathHash,
			&folder.ContentSHA,
			&folder.CreatedBy,
			&folder.CreatedAt,
			&folder.UpdatedBy,
			&folder.UpdatedAt,
			&folder.LastVisitedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folder.Slug = models.Slugify(folder.Name)
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// GetFavorites lists the user's favorites, most recently favorited first
func (r *PostgresFolderRepository) GetFavorites(ctx context.Context, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.name, f.kind, f.path, f.pathhash, f.parentpathhash, f.contentid,
		       f.createdby, f.createdtime, f.updatedby, f.updatedtime,
		       fav.createdtime
		FROM %s f
		JOIN %s fav ON fav.folderid = f.id
		WHERE fav.userid = $1
		ORDER BY fav.createdtime DESC
	`, r.tables.Folders, r.tables.Favorites)

	db := GetExecutor(ctx, r.pool)
	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get favorites: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.Name,
			&folder.Kind,
			&folder.Path,
			&folder.PathHash,
			&folder.ParentPathHash,
			&folder.ContentSHA,
			&folder.CreatedBy,
			&folder.CreatedAt,
			&folder.UpdatedBy,
			&folder.UpdatedAt,
			&folder.FavoritedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folder.Slug = models.Slugify(folder.Name)
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// scanFolder scans a single folder row from the base column set
func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.Kind,
		&folder.Path,
		&folder.PathHash,
		&folder.ParentPathHash,
		&folder.ContentSHA,
		&folder.CreatedBy,
		&folder.CreatedAt,
		&folder.UpdatedBy,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	folder.Slug = models.Slugify(folder.Name)
	return &folder, nil
}

// collectFolders drains rows using the base column set
func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
