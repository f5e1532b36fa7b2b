package service

import (
	"context"
	"errors"
	"testing"

	"beacon/internal/domain"
	"beacon/internal/domain/models"
	"beacon/internal/vpath"
)

func TestMoveSubtreeRewritesDescendants(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// /namespace/ns1/a
	//   /namespace/ns1/a/b            (folder)
	//     /namespace/ns1/a/b/deep     (file)
	//   /namespace/ns1/a/top          (file)
	if _, err := svc.CreateFolder(ctx, models.KindDashboard, "/namespace/ns1/a", "alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateFolder(ctx, models.KindDashboard, "/namespace/ns1/a/b", "alice"); err != nil {
		t.Fatal(err)
	}
	deep, err := svc.SaveFile(ctx, &SaveFileRequest{
		Kind: models.KindDashboard, Path: "/namespace/ns1/a/b/deep", Data: []byte("deep"), UserID: "alice",
	})
	if err != nil {
		t.Fatal(err)
	}
	top, err := svc.SaveFile(ctx, &SaveFileRequest{
		Kind: models.KindDashboard, Path: "/namespace/ns1/a/top", Data: []byte("top"), UserID: "alice",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.MoveSubtree(ctx, models.KindDashboard, "/namespace/ns1/a", "/namespace/ns1/z", "bob"); err != nil {
		t.Fatalf("MoveSubtree failed: %v", err)
	}

	wantPaths := map[string]string{
		deep.ID: "/namespace/ns1/z/b/deep",
		top.ID:  "/namespace/ns1/z/top",
	}
	for id, want := range wantPaths {
		row := store.folders[id]
		if row.Path != want {
			t.Errorf("row %s path = %q, want %q", id, row.Path, want)
		}
		// Hashes must track the rewritten path
		if row.PathHash != vpath.Hash(row.Path) {
			t.Errorf("row %s path hash is stale", id)
		}
		p, err := vpath.New(row.Path)
		if err != nil {
			t.Fatal(err)
		}
		if row.ParentPathHash != vpath.Hash(p.ParentPath()) {
			t.Errorf("row %s parent path hash is stale", id)
		}
		if row.UpdatedBy != "bob" {
			t.Errorf("row %s updated by = %q, want bob", id, row.UpdatedBy)
		}
	}

	// The old path is gone, the new one resolves
	if _, err := svc.GetByPath(ctx, models.KindDashboard, "/namespace/ns1/a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("old path lookup error = %v, want ErrNotFound", err)
	}
	moved, err := svc.GetByPath(ctx, models.KindDashboard, "/namespace/ns1/z")
	if err != nil {
		t.Fatalf("new path lookup failed: %v", err)
	}
	if moved.Name != "z" {
		t.Errorf("moved name = %q, want z", moved.Name)
	}

	// Children are listed under the new parent path
	children, err := svc.ListChildren(ctx, models.KindDashboard, "/namespace/ns1/z")
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 2 {
		t.Errorf("children under new path = %d, want 2", len(children))
	}
}

func TestMoveSubtreeValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateFolder(ctx, models.KindDashboard, "/namespace/ns1/a", "alice"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{
			name:    "cannot move a root",
			from:    "/namespace/ns1",
			to:      "/namespace/ns2",
			wantErr: domain.ErrValidation,
		},
		{
			name:    "same source and destination",
			from:    "/namespace/ns1/a",
			to:      "/Namespace/NS1/A/",
			wantErr: domain.ErrValidation,
		},
		{
			name:    "cannot move inside itself",
			from:    "/namespace/ns1/a",
			to:      "/namespace/ns1/a/b",
			wantErr: domain.ErrValidation,
		},
		{
			name:    "source does not exist",
			from:    "/namespace/ns1/missing",
			to:      "/namespace/ns1/elsewhere",
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.MoveSubtree(ctx, models.KindDashboard, tt.from, tt.to, "alice")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMoveSubtreeRename(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	file, err := svc.SaveFile(ctx, &SaveFileRequest{
		Kind: models.KindAlert, Path: "/user/alice/alerts/cpu", Data: []byte("rule"), UserID: "alice",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Renaming a file is a single-row subtree
	if err := svc.MoveSubtree(ctx, models.KindAlert, "/user/alice/alerts/cpu", "/user/alice/alerts/cpu-high", "alice"); err != nil {
		t.Fatalf("MoveSubtree failed: %v", err)
	}

	moved, content, err := svc.GetFile(ctx, models.KindAlert, file.ID, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if moved.Path != "/user/alice/alerts/cpu-high" {
		t.Errorf("path = %q", moved.Path)
	}
	if string(content.Data) != "rule" {
		t.Error("content reference should survive the rename")
	}
}
