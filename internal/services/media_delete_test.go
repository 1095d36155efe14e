package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/coursekit/coursekit-backend/internal/clients/gcp"
	"github.com/coursekit/coursekit-backend/internal/data/repos"
	"github.com/coursekit/coursekit-backend/internal/data/repos/testutil"
	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
)

// recordingBucket counts storage calls so tests can assert the delete
// path never touches the bucket directly.
type recordingBucket struct {
	deleteCalls int
}

func (b *recordingBucket) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) error {
	return nil
}

func (b *recordingBucket) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, gcp.ErrObjectNotFound
}

func (b *recordingBucket) OpenRangeReader(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error) {
	return nil, gcp.ErrObjectNotFound
}

func (b *recordingBucket) GetObjectAttrs(ctx context.Context, key string) (*gcp.ObjectAttrs, error) {
	return nil, gcp.ErrObjectNotFound
}

func (b *recordingBucket) DeleteFile(ctx context.Context, key string) error {
	b.deleteCalls++
	return nil
}

func (b *recordingBucket) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}

type noopViews struct{}

func (noopViews) IncrMediaView(ctx context.Context, secureID string)  {}
func (noopViews) IncrLessonView(ctx context.Context, lessonID string) {}
func (noopViews) Get(ctx context.Context, key string) (int64, error)  { return 0, nil }
func (noopViews) Close() error                                        { return nil }

func TestMediaServiceDeleteAuthorization(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	mediaRepo := repos.NewMediaObjectRepo(tx, log)
	courseRepo := repos.NewCourseRepo(tx, log)
	enrollmentRepo := repos.NewEnrollmentRepo(tx, log)
	lessonContentRepo := repos.NewLessonContentRepo(tx, log)

	access := NewAccessService(tx, log, courseRepo, enrollmentRepo, lessonContentRepo)
	bucket := &recordingBucket{}
	svc := NewMediaService(tx, log, mediaRepo, access, bucket, noopViews{})

	owner := testutil.SeedUser(t, ctx, tx, "media-owner@example.com", types.RoleInstructor)
	stranger := testutil.SeedUser(t, ctx, tx, "media-stranger@example.com", types.RoleStudent)
	admin := testutil.SeedUser(t, ctx, tx, "media-admin@example.com", types.RoleAdmin)

	obj := testutil.SeedMediaObject(t, ctx, tx, owner.ID, nil, "video/mp4")

	// Not the uploader and not an admin: 403 and the row stays servable.
	err := svc.Delete(ctx, obj.SecureID, &ctxutil.RequestData{UserID: stranger.ID, Role: types.RoleStudent})
	if err == nil {
		t.Fatalf("expected denial for non-owner")
	}
	if code := apiCode(t, err); code != AccessNotAuthorized {
		t.Fatalf("non-owner delete code = %q, want %q", code, AccessNotAuthorized)
	}
	if got, err := mediaRepo.GetBySecureID(ctx, nil, obj.SecureID); err != nil || got == nil {
		t.Fatalf("object should be untouched after denied delete (obj=%v err=%v)", got, err)
	}

	// Anonymous callers never reach the ownership check.
	if err := svc.Delete(ctx, obj.SecureID, nil); err == nil {
		t.Fatalf("expected denial for anonymous delete")
	} else if code := apiCode(t, err); code != AccessAuthRequired {
		t.Fatalf("anonymous delete code = %q, want %q", code, AccessAuthRequired)
	}

	// The owner may delete; the effect is a soft delete only, with the
	// payload left for the retention sweeper.
	if err := svc.Delete(ctx, obj.SecureID, &ctxutil.RequestData{UserID: owner.ID, Role: types.RoleInstructor}); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if got, err := mediaRepo.GetBySecureID(ctx, nil, obj.SecureID); err != nil || got != nil {
		t.Fatalf("object should be unservable after delete (obj=%v err=%v)", got, err)
	}
	swept, err := mediaRepo.ListSoftDeletedBefore(ctx, nil, time.Now().Add(time.Hour), 10)
	if err != nil {
		t.Fatalf("ListSoftDeletedBefore: %v", err)
	}
	found := false
	for _, m := range swept {
		if m.ID == obj.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("soft-deleted object should await the sweeper")
	}
	if bucket.deleteCalls != 0 {
		t.Fatalf("delete must not touch the bucket, got %d calls", bucket.deleteCalls)
	}

	// Admins may delete objects they did not upload.
	other := testutil.SeedMediaObject(t, ctx, tx, owner.ID, nil, "video/mp4")
	if err := svc.Delete(ctx, other.SecureID, &ctxutil.RequestData{UserID: admin.ID, Role: types.RoleAdmin}); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
