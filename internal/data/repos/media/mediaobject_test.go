package media

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/coursekit/coursekit-backend/internal/data/repos/testutil"
	types "github.com/coursekit/coursekit-backend/internal/domain"
)

func TestMediaObjectRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewMediaObjectRepo(db, testutil.Logger(t))

	instructor := testutil.SeedUser(t, ctx, tx, "mediaobject-instructor@example.com", types.RoleInstructor)
	course := testutil.SeedCourse(t, ctx, tx, instructor.ID, "mediaobject-course")
	obj := testutil.SeedMediaObject(t, ctx, tx, instructor.ID, testutil.PtrUUID(course.ID), "video/mp4")

	found, err := repo.GetBySecureID(ctx, tx, obj.SecureID)
	if err != nil {
		t.Fatalf("GetBySecureID: %v", err)
	}
	if found == nil || found.ID != obj.ID {
		t.Fatalf("GetBySecureID: expected %s, got %+v", obj.ID, found)
	}

	if missing, err := repo.GetBySecureID(ctx, tx, uuid.NewString()); err != nil || missing != nil {
		t.Fatalf("GetBySecureID unknown: err=%v obj=%+v", err, missing)
	}

	byCourse, err := repo.GetByCourseIDs(ctx, tx, []uuid.UUID{course.ID})
	if err != nil || len(byCourse) != 1 {
		t.Fatalf("GetByCourseIDs: err=%v len=%d", err, len(byCourse))
	}

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{obj.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}

	// A soft-deleted row must stop being servable by secure id.
	gone, err := repo.GetBySecureID(ctx, tx, obj.SecureID)
	if err != nil {
		t.Fatalf("GetBySecureID after delete: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected soft-deleted object to be unservable, got %+v", gone)
	}

	// But the sweeper must still see it once the retention window passes.
	swept, err := repo.ListSoftDeletedBefore(ctx, tx, time.Now().UTC().Add(time.Minute), 10)
	if err != nil {
		t.Fatalf("ListSoftDeletedBefore: %v", err)
	}
	var sweptIDs []uuid.UUID
	for _, s := range swept {
		sweptIDs = append(sweptIDs, s.ID)
	}
	foundSwept := false
	for _, id := range sweptIDs {
		if id == obj.ID {
			foundSwept = true
		}
	}
	if !foundSwept {
		t.Fatalf("expected %s in sweep list, got %v", obj.ID, sweptIDs)
	}

	recent, err := repo.ListSoftDeletedBefore(ctx, tx, time.Now().UTC().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("ListSoftDeletedBefore (old cutoff): %v", err)
	}
	for _, r := range recent {
		if r.ID == obj.ID {
			t.Fatalf("object inside retention window should not be swept")
		}
	}

	if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{obj.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	swept, err = repo.ListSoftDeletedBefore(ctx, tx, time.Now().UTC().Add(time.Minute), 10)
	if err != nil {
		t.Fatalf("ListSoftDeletedBefore after purge: %v", err)
	}
	for _, s := range swept {
		if s.ID == obj.ID {
			t.Fatalf("hard-deleted object still listed")
		}
	}
}
