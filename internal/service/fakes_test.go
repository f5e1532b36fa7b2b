package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"beacon/internal/domain"
	"beacon/internal/domain/models"
	"beacon/internal/domain/repositories"
)

// fakeStore backs the in-memory repository fakes used by the service tests.
// The fakes honor the same contracts as the postgres implementations:
// conditional inserts are idempotent, uniqueness is (kind, pathhash), and
// lookups always filter by kind.
type fakeStore struct {
	folders   map[string]*models.Folder  // by id
	contents  map[string]*models.Content // by sha
	history   []models.HistoryEntry
	favorites map[string]time.Time // userID|folderID -> created
	activity  map[string]time.Time // userID|folderID -> last visited
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		folders:   make(map[string]*models.Folder),
		contents:  make(map[string]*models.Content),
		favorites: make(map[string]time.Time),
		activity:  make(map[string]time.Time),
	}
}

func pairKey(userID, folderID string) string {
	return userID + "|" + folderID
}

func (s *fakeStore) findByPathHash(kind models.Kind, pathHash string) *models.Folder {
	for _, f := range s.folders {
		if f.Kind == kind && f.PathHash == pathHash {
			return f
		}
	}
	return nil
}

type fakeFolderRepo struct{ store *fakeStore }

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ContentSHA != nil {
		return fmt.Errorf("folder carries content: %w", domain.ErrValidation)
	}
	return r.insert(folder)
}

func (r *fakeFolderRepo) CreateFile(ctx context.Context, file *models.Folder) error {
	if file.ContentSHA == nil {
		return fmt.Errorf("file without content: %w", domain.ErrValidation)
	}
	return r.insert(file)
}

func (r *fakeFolderRepo) CreateBatch(ctx context.Context, folders []*models.Folder) error {
	for _, f := range folders {
		if err := r.insert(f); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeFolderRepo) insert(folder *models.Folder) error {
	if existing := r.store.findByPathHash(folder.Kind, folder.PathHash); existing != nil {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("%q already exists at this path", folder.Name),
			ResourceType: string(folder.Kind),
			ResourceID:   existing.ID,
		}
	}
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}
	clone := *folder
	r.store.folders[folder.ID] = &clone
	return nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	return r.update(folder, false)
}

func (r *fakeFolderRepo) UpdateFile(ctx context.Context, file *models.Folder) error {
	if file.ContentSHA == nil {
		return fmt.Errorf("file without content: %w", domain.ErrValidation)
	}
	return r.update(file, true)
}

func (r *fakeFolderRepo) update(folder *models.Folder, withContent bool) error {
	existing, ok := r.store.folders[folder.ID]
	if !ok || existing.Kind != folder.Kind {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	existing.Name = folder.Name
	existing.Path = folder.Path
	existing.PathHash = folder.PathHash
	existing.ParentPathHash = folder.ParentPathHash
	existing.UpdatedBy = folder.UpdatedBy
	existing.UpdatedAt = folder.UpdatedAt
	if withContent {
		existing.ContentSHA = folder.ContentSHA
	}
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, kind models.Kind, id string) (*models.Folder, error) {
	f, ok := r.store.folders[id]
	if !ok || f.Kind != kind {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	clone := *f
	return &clone, nil
}

func (r *fakeFolderRepo) GetByPathHash(ctx context.Context, kind models.Kind, pathHash string) (*models.Folder, error) {
	f := r.store.findByPathHash(kind, pathHash)
	if f == nil {
		return nil, fmt.Errorf("folder at path hash %s: %w", pathHash, domain.ErrNotFound)
	}
	clone := *f
	return &clone, nil
}

func (r *fakeFolderRepo) GetFileWithContent(ctx context.Context, kind models.Kind, id string) (*models.Folder, *models.Content, error) {
	f, err := r.GetByID(ctx, kind, id)
	if err != nil {
		return nil, nil, err
	}
	if f.ContentSHA == nil {
		return nil, nil, fmt.Errorf("file %s with content: %w", id, domain.ErrNotFound)
	}
	content, ok := r.store.contents[*f.ContentSHA]
	if !ok {
		return nil, nil, fmt.Errorf("file %s with content: %w", id, domain.ErrNotFound)
	}
	return f, content, nil
}

func (r *fakeFolderRepo) GetFileOrFolder(ctx context.Context, kind models.Kind, id string) (*models.Folder, *models.Content, error) {
	f, err := r.GetByID(ctx, kind, id)
	if err != nil {
		return nil, nil, err
	}
	if f.ContentSHA == nil {
		return f, nil, nil
	}
	return f, r.store.contents[*f.ContentSHA], nil
}

func (r *fakeFolderRepo) ListByParentPathHash(ctx context.Context, kind models.Kind, parentPathHash string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.store.folders {
		if f.Kind == kind && f.ParentPathHash == parentPathHash {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFolderRepo) GetRecentlyVisited(ctx context.Context, userID string, limit int) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.store.folders {
		if visited, ok := r.store.activity[pairKey(userID, f.ID)]; ok {
			clone := *f
			v := visited
			clone.LastVisitedAt = &v
			out = append(out, clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastVisitedAt.After(*out[j].LastVisitedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeFolderRepo) GetFavorites(ctx context.Context, userID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.store.folders {
		if created, ok := r.store.favorites[pairKey(userID, f.ID)]; ok {
			clone := *f
			c := created
			clone.FavoritedAt = &c
			out = append(out, clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FavoritedAt.After(*out[j].FavoritedAt) })
	return out, nil
}

type fakeContentRepo struct{ store *fakeStore }

func (r *fakeContentRepo) Create(ctx context.Context, content *models.Content) error {
	// Existing row stays authoritative, matching the conditional insert
	if _, ok := r.store.contents[content.SHA]; ok {
		return nil
	}
	clone := *content
	r.store.contents[content.SHA] = &clone
	return nil
}

func (r *fakeContentRepo) GetBySHA(ctx context.Context, sha string) (*models.Content, error) {
	c, ok := r.store.contents[sha]
	if !ok {
		return nil, fmt.Errorf("content %s: %w", sha, domain.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

type fakeHistoryRepo struct{ store *fakeStore }

func (r *fakeHistoryRepo) Append(ctx context.Context, folderID, contentSHA string, createdAt time.Time) (string, error) {
	for _, e := range r.store.history {
		if e.FolderID == folderID && e.ContentSHA == contentSHA && e.CreatedAt.Equal(createdAt) {
			return uuid.New().String(), nil
		}
	}
	entry := models.HistoryEntry{
		ID:         uuid.New().String(),
		FolderID:   folderID,
		ContentSHA: contentSHA,
		CreatedAt:  createdAt,
	}
	r.store.history = append(r.store.history, entry)
	return entry.ID, nil
}

func (r *fakeHistoryRepo) ListByFolder(ctx context.Context, folderID string) ([]models.HistoryEntry, error) {
	var out []models.HistoryEntry
	for _, e := range r.store.history {
		if e.FolderID == folderID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeFavoriteRepo struct{ store *fakeStore }

func (r *fakeFavoriteRepo) Add(ctx context.Context, userID, folderID string) error {
	key := pairKey(userID, folderID)
	if _, ok := r.store.favorites[key]; !ok {
		r.store.favorites[key] = time.Now()
	}
	return nil
}

func (r *fakeFavoriteRepo) Remove(ctx context.Context, userID, folderID string) error {
	delete(r.store.favorites, pairKey(userID, folderID))
	return nil
}

func (r *fakeFavoriteRepo) IsFavorite(ctx context.Context, userID, folderID string) (bool, error) {
	_, ok := r.store.favorites[pairKey(userID, folderID)]
	return ok, nil
}

type fakeActivityRepo struct{ store *fakeStore }

func (r *fakeActivityRepo) Touch(ctx context.Context, userID, folderID string, visitedAt time.Time) error {
	r.store.activity[pairKey(userID, folderID)] = visitedAt
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
