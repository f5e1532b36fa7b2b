package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"beacon/internal/domain"
	"beacon/internal/domain/models"
	"beacon/internal/vpath"
)

// MoveSubtree moves or renames a folder and rewrites the path, path hash and
// parent-path hash of every descendant. The whole rewrite runs inside one
// transaction: either the entire subtree lands at the new path or nothing
// changes. Descendants are discovered level by level through the parent-path
// hash index.
func (s *FileService) MoveSubtree(ctx context.Context, kind models.Kind, oldPath, newPath, userID string) error {
	if !kind.IsValid() {
		return fmt.Errorf("unknown kind %q: %w", kind, domain.ErrValidation)
	}

	from, err := vpath.New(oldPath)
	if err != nil {
		return err
	}
	to, err := vpath.New(newPath)
	if err != nil {
		return err
	}

	if from.IsRoot() {
		return fmt.Errorf("cannot move root path %q: %w", from.String(), domain.ErrValidation)
	}
	if from.String() == to.String() {
		return fmt.Errorf("source and destination are the same path: %w", domain.ErrValidation)
	}
	if strings.HasPrefix(to.String()+"/", from.String()+"/") {
		return fmt.Errorf("cannot move %q inside itself: %w", from.String(), domain.ErrValidation)
	}

	now := time.Now()
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		root, err := s.folders.GetByPathHash(ctx, kind, from.Hash())
		if err != nil {
			return err
		}
		return s.rewriteSubtree(ctx, kind, root, to.String(), userID, now)
	})
	if err != nil {
		return err
	}

	s.logger.Info("subtree moved",
		"kind", kind,
		"from", from.String(),
		"to", to.String(),
		"user_id", userID,
	)

	return nil
}

// rewriteSubtree repoints one row to newPath and recurses into its children,
// which are still listed under the row's pre-move path hash.
func (s *FileService) rewriteSubtree(ctx context.Context, kind models.Kind, row *models.Folder, newPath, userID string, now time.Time) error {
	oldPath := row.Path

	p, err := vpath.New(newPath)
	if err != nil {
		return err
	}

	row.SetPath(p)
	row.UpdatedBy = userID
	row.UpdatedAt = now

	if row.IsFile() {
		if err := s.folders.UpdateFile(ctx, row); err != nil {
			return err
		}
		// Files have no descendants
		return nil
	}
	if err := s.folders.Update(ctx, row); err != nil {
		return err
	}

	children, err := s.folders.ListByParentPathHash(ctx, kind, vpath.Hash(oldPath))
	if err != nil {
		return err
	}

	for i := range children {
		child := &children[i]
		leaf, err := vpath.New(child.Path)
		if err != nil {
			return err
		}
		if err := s.rewriteSubtree(ctx, kind, child, newPath+"/"+leaf.Leaf(), userID, now); err != nil {
			return err
		}
	}

	return nil
}
