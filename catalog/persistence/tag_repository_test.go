package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/imagevault/imagevault/catalog/domain"
)

func TestTagRepository_CreateAndGet(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTagRepository(conn)
	ctx := context.Background()

	tag := &domain.Tag{Name: "sunset"}
	if err := repo.Create(ctx, tag); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if tag.ID == 0 {
		t.Fatal("Create did not assign an ID")
	}

	got, err := repo.GetByID(ctx, tag.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "sunset" {
		t.Errorf("Name = %q, want %q", got.Name, "sunset")
	}
}

func TestTagRepository_Create_Errors(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTagRepository(conn)
	ctx := context.Background()

	err := repo.Create(ctx, &domain.Tag{Name: ""})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Create empty name error = %v, want ErrInvalidArgument", err)
	}

	if err := repo.Create(ctx, &domain.Tag{Name: "ocean"}); err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	err = repo.Create(ctx, &domain.Tag{Name: "ocean"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Duplicate create error = %v, want ErrConflict", err)
	}
}

func TestTagRepository_FindByName(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTagRepository(conn)
	ctx := context.Background()

	tag := &domain.Tag{Name: "wildlife"}
	if err := repo.Create(ctx, tag); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.FindByName(ctx, "wildlife")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if got.ID != tag.ID {
		t.Errorf("ID = %d, want %d", got.ID, tag.ID)
	}

	_, err = repo.FindByName(ctx, "nosuchtag")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindByName error = %v, want ErrNotFound", err)
	}
}

func TestTagRepository_GetByID_NotFound(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewTagRepository(conn)

	_, err := repo.GetByID(context.Background(), 9999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound", err)
	}
}

func TestTagRepository_AttachDetach(t *testing.T) {
	conn := setupTestDB(t)
	ownerID := seedUser(t, conn, "alice")
	images := NewImageRepository(conn)
	tags := NewTagRepository(conn)
	ctx := context.Background()

	record := testRecord(ownerID, "Tagged", "tagged.jpg", time.Now())
	if err := images.Create(ctx, record); err != nil {
		t.Fatalf("Create image failed: %v", err)
	}

	tag := &domain.Tag{Name: "ocean"}
	if err := tags.Create(ctx, tag); err != nil {
		t.Fatalf("Create tag failed: %v", err)
	}

	if err := tags.Attach(ctx, record.ID, tag.ID); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// Attaching the same pair again must not error or double-count.
	if err := tags.Attach(ctx, record.ID, tag.ID); err != nil {
		t.Fatalf("Second attach failed: %v", err)
	}

	count, err := tags.ImageCount(ctx, tag.ID)
	if err != nil {
		t.Fatalf("ImageCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("ImageCount = %d, want 1", count)
	}

	if err := tags.Detach(ctx, record.ID, tag.ID); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	count, err = tags.ImageCount(ctx, tag.ID)
	if err != nil {
		t.Fatalf("ImageCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("ImageCount after detach = %d, want 0", count)
	}

	// Detaching an absent pair is a no-op.
	if err := tags.Detach(ctx, record.ID, tag.ID); err != nil {
		t.Fatalf("Second detach failed: %v", err)
	}
}

func TestTagRepository_TagsForImage_OrderedByName(t *testing.T) {
	conn := setupTestDB(t)
	ownerID := seedUser(t, conn, "alice")
	images := NewImageRepository(conn)
	tags := NewTagRepository(conn)
	ctx := context.Background()

	record := testRecord(ownerID, "Tagged", "tagged.jpg", time.Now())
	if err := images.Create(ctx, record); err != nil {
		t.Fatalf("Create image failed: %v", err)
	}

	for _, name := range []string{"zebra", "alpha", "ocean"} {
		tag := &domain.Tag{Name: name}
		if err := tags.Create(ctx, tag); err != nil {
			t.Fatalf("Create tag %q failed: %v", name, err)
		}
		if err := tags.Attach(ctx, record.ID, tag.ID); err != nil {
			t.Fatalf("Attach %q failed: %v", name, err)
		}
	}

	got, err := tags.TagsForImage(ctx, record.ID)
	if err != nil {
		t.Fatalf("TagsForImage failed: %v", err)
	}

	wantOrder := []string{"alpha", "ocean", "zebra"}
	if len(got) != len(wantOrder) {
		t.Fatalf("TagsForImage returned %d tags, want %d", len(got), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got[i].Name != want {
			t.Errorf("TagsForImage[%d].Name = %q, want %q", i, got[i].Name, want)
		}
	}
}

func TestTagRepository_Delete_CascadesJoinRows(t *testing.T) {
	conn := setupTestDB(t)
	ownerID := seedUser(t, conn, "alice")
	images := NewImageRepository(conn)
	tags := NewTagRepository(conn)
	ctx := context.Background()

	record := testRecord(ownerID, "Tagged", "tagged.jpg", time.Now())
	if err := images.Create(ctx, record); err != nil {
		t.Fatalf("Create image failed: %v", err)
	}

	tag := &domain.Tag{Name: "doomed"}
	if err := tags.Create(ctx, tag); err != nil {
		t.Fatalf("Create tag failed: %v", err)
	}
	if err := tags.Attach(ctx, record.ID, tag.ID); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if err := tags.Delete(ctx, tag.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, err := tags.TagsForImage(ctx, record.ID)
	if err != nil {
		t.Fatalf("TagsForImage failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("TagsForImage after tag delete = %d tags, want 0", len(got))
	}
}
