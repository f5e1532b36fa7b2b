package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"beacon/internal/domain"
	"beacon/internal/domain/models"
	"beacon/internal/domain/repositories"
	"beacon/internal/vpath"
)

// FileService orchestrates the virtual filesystem primitives: it resolves
// paths, persists content blobs, maintains folder/file rows, and records
// history and activity. Repositories stay single-row; anything spanning
// multiple rows happens here, inside a transaction.
type FileService struct {
	folders   repositories.FolderRepository
	contents  repositories.ContentRepository
	history   repositories.HistoryRepository
	favorites repositories.FavoriteRepository
	activity  repositories.ActivityRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	folders repositories.FolderRepository,
	contents repositories.ContentRepository,
	history repositories.HistoryRepository,
	favorites repositories.FavoriteRepository,
	activity repositories.ActivityRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		folders:   folders,
		contents:  contents,
		history:   history,
		favorites: favorites,
		activity:  activity,
		txManager: txManager,
		logger:    logger,
	}
}

// SaveFileRequest describes a file write: the payload and where it lives.
type SaveFileRequest struct {
	Kind   models.Kind
	Path   string
	Data   []byte
	UserID string
}

func (r *SaveFileRequest) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Kind, validation.Required, validation.By(validKind)),
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Data, validation.Required),
		validation.Field(&r.UserID, validation.Required),
	)
}

func validKind(value interface{}) error {
	kind, _ := value.(models.Kind)
	if !kind.IsValid() {
		return fmt.Errorf("unknown kind %q", kind)
	}
	return nil
}

// SaveFile persists a payload and the file row pointing at it. The content
// digest is computed here; writing identical bytes twice stores one blob.
// An existing row at the path is repointed to the new digest, a new row is
// created otherwise. A history entry and an activity touch are recorded
// either way.
func (s *FileService) SaveFile(ctx context.Context, req *SaveFileRequest) (*models.Folder, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	p, err := vpath.New(req.Path)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	content := models.NewContent(req.Data, req.UserID, now)

	var file *models.Folder
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.contents.Create(ctx, content); err != nil {
			return err
		}

		existing, err := s.folders.GetByPathHash(ctx, req.Kind, p.Hash())
		switch {
		case err == nil:
			existing.ContentSHA = &content.SHA
			existing.UpdatedBy = req.UserID
			existing.UpdatedAt = now
			if err := s.folders.UpdateFile(ctx, existing); err != nil {
				return err
			}
			file = existing
		case errors.Is(err, domain.ErrNotFound):
			file = &models.Folder{
				Kind:       req.Kind,
				ContentSHA: &content.SHA,
				CreatedBy:  req.UserID,
				CreatedAt:  now,
				UpdatedBy:  req.UserID,
				UpdatedAt:  now,
			}
			file.SetPath(p)
			if err := s.folders.CreateFile(ctx, file); err != nil {
				return err
			}
		default:
			return err
		}

		if _, err := s.history.Append(ctx, file.ID, content.SHA, now); err != nil {
			return err
		}
		return s.activity.Touch(ctx, req.UserID, file.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file saved",
		"id", file.ID,
		"kind", file.Kind,
		"path", file.Path,
		"sha", content.SHA,
	)

	return file, nil
}

// GetFile retrieves a file with its payload and records the visit.
func (s *FileService) GetFile(ctx context.Context, kind models.Kind, id, userID string) (*models.Folder, *models.Content, error) {
	file, content, err := s.folders.GetFileWithContent(ctx, kind, id)
	if err != nil {
		return nil, nil, err
	}

	if err := s.activity.Touch(ctx, userID, file.ID, time.Now()); err != nil {
		s.logger.Warn("failed to record visit", "folder_id", file.ID, "error", err)
	}

	return file, content, nil
}

// GetEntry retrieves a folder or file row by id along with its payload when
// one exists. Content is nil for pure folders. Unlike GetFile, no visit is
// recorded: this is the read used when the caller does not yet know whether
// the id names a folder or a file.
func (s *FileService) GetEntry(ctx context.Context, kind models.Kind, id string) (*models.Folder, *models.Content, error) {
	return s.folders.GetFileOrFolder(ctx, kind, id)
}

// GetContent retrieves a content blob by digest.
func (s *FileService) GetContent(ctx context.Context, sha string) (*models.Content, error) {
	return s.contents.GetBySHA(ctx, sha)
}

// GetByPath retrieves a folder or file row by its path.
func (s *FileService) GetByPath(ctx context.Context, kind models.Kind, path string) (*models.Folder, error) {
	p, err := vpath.New(path)
	if err != nil {
		return nil, err
	}
	return s.folders.GetByPathHash(ctx, kind, p.Hash())
}

// CreateFolder creates a pure folder row at the given path.
func (s *FileService) CreateFolder(ctx context.Context, kind models.Kind, path, userID string) (*models.Folder, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown kind %q: %w", kind, domain.ErrValidation)
	}

	p, err := vpath.New(path)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	folder := &models.Folder{
		Kind:      kind,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedBy: userID,
		UpdatedAt: now,
	}
	folder.SetPath(p)

	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "id", folder.ID, "kind", kind, "path", folder.Path)
	return folder, nil
}

// ProvisionUserRoots creates a user's home and trash folders in one batch.
// The home path is derived from the user id with the canonical dot rewrite.
func (s *FileService) ProvisionUserRoots(ctx context.Context, kind models.Kind, userID string) ([]*models.Folder, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown kind %q: %w", kind, domain.ErrValidation)
	}

	home, err := vpath.ForUserID(userID)
	if err != nil {
		return nil, err
	}
	trash, err := vpath.New(home.String() + "/trash")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var batch []*models.Folder
	for _, p := range []*vpath.Path{home, trash} {
		folder := &models.Folder{
			Kind:      kind,
			CreatedBy: userID,
			CreatedAt: now,
			UpdatedBy: userID,
			UpdatedAt: now,
		}
		folder.SetPath(p)
		batch = append(batch, folder)
	}

	if err := s.folders.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}

	s.logger.Info("user roots provisioned", "user_id", userID, "kind", kind, "home", home.String())
	return batch, nil
}

// ListChildren lists the immediate children of a folder path, one level deep.
func (s *FileService) ListChildren(ctx context.Context, kind models.Kind, parentPath string) ([]models.Folder, error) {
	p, err := vpath.New(parentPath)
	if err != nil {
		return nil, err
	}
	return s.folders.ListByParentPathHash(ctx, kind, vpath.Hash(p.String()))
}

// GetHistory returns the version history of a file, newest first.
func (s *FileService) GetHistory(ctx context.Context, folderID string) ([]models.HistoryEntry, error) {
	return s.history.ListByFolder(ctx, folderID)
}

// AddToFavorites marks a folder as a favorite of the user.
func (s *FileService) AddToFavorites(ctx context.Context, userID, folderID string) error {
	return s.favorites.Add(ctx, userID, folderID)
}

// RemoveFromFavorites clears a favorite mark.
func (s *FileService) RemoveFromFavorites(ctx context.Context, userID, folderID string) error {
	return s.favorites.Remove(ctx, userID, folderID)
}

// IsFavorite reports whether the user has favorited the folder.
func (s *FileService) IsFavorite(ctx context.Context, userID, folderID string) (bool, error) {
	return s.favorites.IsFavorite(ctx, userID, folderID)
}

// GetFavorites lists the user's favorites, most recently favorited first.
func (s *FileService) GetFavorites(ctx context.Context, userID string) ([]models.Folder, error) {
	return s.folders.GetFavorites(ctx, userID)
}

// GetRecentlyVisited lists what the user visited last, newest first.
func (s *FileService) GetRecentlyVisited(ctx context.Context, userID string, limit int) ([]models.Folder, error) {
	return s.folders.GetRecentlyVisited(ctx, userID, limit)
}
