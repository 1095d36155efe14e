package course

import (
	"context"
	"testing"

	"github.com/coursekit/coursekit-backend/internal/data/repos/testutil"
	types "github.com/coursekit/coursekit-backend/internal/domain"
)

func TestLessonContentRepoFreePreviewLookup(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewLessonContentRepo(db, testutil.Logger(t))

	instructor := testutil.SeedUser(t, ctx, tx, "lessoncontent-instructor@example.com", types.RoleInstructor)
	course := testutil.SeedCourse(t, ctx, tx, instructor.ID, "lessoncontent-course")
	section := testutil.SeedSection(t, ctx, tx, course.ID, 0)

	previewLesson := testutil.SeedLesson(t, ctx, tx, section.ID, 0, types.LessonKindVideo)
	gatedLesson := testutil.SeedLesson(t, ctx, tx, section.ID, 1, types.LessonKindVideo)

	previewMedia := testutil.SeedMediaObject(t, ctx, tx, instructor.ID, testutil.PtrUUID(course.ID), "video/mp4")
	gatedMedia := testutil.SeedMediaObject(t, ctx, tx, instructor.ID, testutil.PtrUUID(course.ID), "video/mp4")

	testutil.SeedLessonContent(t, ctx, tx, previewLesson.ID, testutil.PtrUUID(previewMedia.ID), true)
	testutil.SeedLessonContent(t, ctx, tx, gatedLesson.ID, testutil.PtrUUID(gatedMedia.ID), false)

	// Only the media referenced by a free-preview lesson resolves.
	preview, err := repo.GetFreePreviewByMediaObjectID(ctx, tx, previewMedia.ID)
	if err != nil {
		t.Fatalf("GetFreePreviewByMediaObjectID: %v", err)
	}
	if preview == nil || preview.LessonID != previewLesson.ID {
		t.Fatalf("expected preview content for %s, got %+v", previewLesson.ID, preview)
	}

	gated, err := repo.GetFreePreviewByMediaObjectID(ctx, tx, gatedMedia.ID)
	if err != nil {
		t.Fatalf("GetFreePreviewByMediaObjectID (gated): %v", err)
	}
	if gated != nil {
		t.Fatalf("gated media must not resolve as free preview, got %+v", gated)
	}
}
