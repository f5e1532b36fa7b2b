package repositories

import (
	"context"

	"beacon/internal/domain/models"
)

// FolderRepository defines data access operations over the folder table.
// Rows are folders or files depending on whether they carry a content
// reference; Kind is always part of lookup predicates.
type FolderRepository interface {
	// Create inserts a pure folder row (no content reference) and fills in
	// its generated id.
	Create(ctx context.Context, folder *models.Folder) error

	// CreateBatch inserts many folder rows in one round trip. Generated ids
	// are filled into the inputs in order. Partial failure fails the whole
	// batch.
	CreateBatch(ctx context.Context, folders []*models.Folder) error

	// CreateFile inserts a file row. The content reference is required.
	CreateFile(ctx context.Context, file *models.Folder) error

	// Update updates name/path/hashes of a row by id.
	Update(ctx context.Context, folder *models.Folder) error

	// UpdateFile updates name/path/hashes and the content reference of a
	// file row by id.
	UpdateFile(ctx context.Context, file *models.Folder) error

	// GetByID retrieves a row by kind and id.
	GetByID(ctx context.Context, kind models.Kind, id string) (*models.Folder, error)

	// GetByPathHash retrieves a row by kind and path hash.
	GetByPathHash(ctx context.Context, kind models.Kind, pathHash string) (*models.Folder, error)

	// GetFileWithContent retrieves a file row together with its content
	// payload. Missing content is a not-found error.
	GetFileWithContent(ctx context.Context, kind models.Kind, id string) (*models.Folder, *models.Content, error)

	// GetFileOrFolder retrieves a row by kind and id with its content
	// payload if one exists; content is nil for pure folders.
	GetFileOrFolder(ctx context.Context, kind models.Kind, id string) (*models.Folder, *models.Content, error)

	// ListByParentPathHash lists immediate children of a parent path.
	// Recursive listing is done by repeated calls at a higher layer.
	ListByParentPathHash(ctx context.Context, kind models.Kind, parentPathHash string) ([]models.Folder, error)

	// GetRecentlyVisited lists rows the user visited most recently,
	// newest first, at most limit of them.
	GetRecentlyVisited(ctx context.Context, userID string, limit int) ([]models.Folder, error)

	// GetFavorites lists the user's favorite rows, most recently
	// favorited first.
	GetFavorites(ctx context.Context, userID string) ([]models.Folder, error)
}
