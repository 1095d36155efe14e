package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/clients/gcp"
	rediscl "github.com/coursekit/coursekit-backend/internal/clients/redis"
	"github.com/coursekit/coursekit-backend/internal/data/repos"
	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/apierr"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

// CacheControlFor picks the Cache-Control header for a served object.
// Images are shared-cacheable; everything else stays private so a CDN or
// proxy never retains gated video segments longer than a few minutes.
func CacheControlFor(obj *types.MediaObject) string {
	if obj.IsImage() {
		return "public, max-age=86400"
	}
	return "private, max-age=300"
}

type UploadInput struct {
	FileName    string
	ContentType string
	Category    string
	CourseID    *uuid.UUID
	IsPublic    bool
	SizeBytes   int64
	Body        io.Reader
}

type MediaService interface {
	Upload(ctx context.Context, viewer *ctxutil.RequestData, in UploadInput) (*types.MediaObject, error)
	// ResolveForViewing maps a secure id to its row and runs the access
	// gate. Unknown or deleted ids come back as 404 without revealing
	// whether the object ever existed.
	ResolveForViewing(ctx context.Context, secureID string, viewer *ctxutil.RequestData) (*types.MediaObject, AccessDecision, error)
	OpenRange(ctx context.Context, obj *types.MediaObject, offset, length int64) (io.ReadCloser, error)
	Delete(ctx context.Context, secureID string, viewer *ctxutil.RequestData) error
}

type mediaService struct {
	db              *gorm.DB
	log             *logger.Logger
	mediaObjectRepo repos.MediaObjectRepo
	accessService   AccessService
	bucket          gcp.BucketService
	views           rediscl.ViewCounter
}

func NewMediaService(
	db *gorm.DB,
	log *logger.Logger,
	mediaObjectRepo repos.MediaObjectRepo,
	accessService AccessService,
	bucket gcp.BucketService,
	views rediscl.ViewCounter,
) MediaService {
	return &mediaService{
		db:              db,
		log:             log.With("service", "MediaService"),
		mediaObjectRepo: mediaObjectRepo,
		accessService:   accessService,
		bucket:          bucket,
		views:           views,
	}
}

func (s *mediaService) Upload(ctx context.Context, viewer *ctxutil.RequestData, in UploadInput) (*types.MediaObject, error) {
	if viewer == nil || viewer.UserID == uuid.Nil {
		return nil, apierr.Unauthorized(AccessAuthRequired)
	}
	if in.FileName == "" || in.Body == nil {
		return nil, apierr.Invalid("missing_file", fmt.Errorf("file name and body are required"))
	}
	switch in.Category {
	case types.MediaCategoryLessonVideo, types.MediaCategoryCourseResource, types.MediaCategoryThumbnail:
	default:
		return nil, apierr.Invalid("invalid_category", fmt.Errorf("unknown media category %q", in.Category))
	}

	obj := &types.MediaObject{
		ID:         uuid.New(),
		SecureID:   uuid.NewString(),
		FileName:   path.Base(in.FileName),
		SizeBytes:  in.SizeBytes,
		MimeType:   in.ContentType,
		Category:   in.Category,
		UploadedBy: viewer.UserID,
		CourseID:   in.CourseID,
		IsPublic:   in.IsPublic,
	}
	obj.StorageKey = fmt.Sprintf("media/%s/%s/%s", obj.Category, obj.ID, obj.FileName)

	if err := s.bucket.UploadFile(ctx, obj.StorageKey, in.Body, in.ContentType); err != nil {
		return nil, fmt.Errorf("upload media payload: %w", err)
	}

	created, err := s.mediaObjectRepo.Create(ctx, nil, []*types.MediaObject{obj})
	if err != nil {
		// The row never existed, so remove the payload rather than
		// leaving an unreachable object behind.
		if delErr := s.bucket.DeleteFile(ctx, obj.StorageKey); delErr != nil {
			s.log.Warn("failed to remove orphaned upload", "storage_key", obj.StorageKey, "error", delErr)
		}
		return nil, fmt.Errorf("create media object: %w", err)
	}

	s.log.Info("media uploaded", "media_id", obj.ID, "category", obj.Category, "size_bytes", obj.SizeBytes)
	return created[0], nil
}

func (s *mediaService) ResolveForViewing(ctx context.Context, secureID string, viewer *ctxutil.RequestData) (*types.MediaObject, AccessDecision, error) {
	obj, err := s.mediaObjectRepo.GetBySecureID(ctx, nil, secureID)
	if err != nil {
		return nil, deny(AccessNotAuthorized), fmt.Errorf("load media object: %w", err)
	}
	if obj == nil {
		return nil, deny(AccessNotAuthorized), apierr.NotFound("media_not_found")
	}

	decision, err := s.accessService.ForMediaObject(ctx, nil, obj, viewer)
	if err != nil {
		return nil, decision, fmt.Errorf("evaluate media access: %w", err)
	}
	if !decision.Allowed {
		if decision.Reason == AccessAuthRequired {
			return nil, decision, apierr.Unauthorized(decision.Reason)
		}
		return nil, decision, apierr.Forbidden(decision.Reason)
	}

	s.views.IncrMediaView(ctx, obj.SecureID)
	return obj, decision, nil
}

func (s *mediaService) OpenRange(ctx context.Context, obj *types.MediaObject, offset, length int64) (io.ReadCloser, error) {
	rc, err := s.bucket.OpenRangeReader(ctx, obj.StorageKey, offset, length)
	if err != nil {
		return nil, fmt.Errorf("open media reader: %w", err)
	}
	return rc, nil
}

func (s *mediaService) Delete(ctx context.Context, secureID string, viewer *ctxutil.RequestData) error {
	if viewer == nil || viewer.UserID == uuid.Nil {
		return apierr.Unauthorized(AccessAuthRequired)
	}

	obj, err := s.mediaObjectRepo.GetBySecureID(ctx, nil, secureID)
	if err != nil {
		return fmt.Errorf("load media object: %w", err)
	}
	if obj == nil {
		return apierr.NotFound("media_not_found")
	}
	if obj.UploadedBy != viewer.UserID && viewer.Role != types.RoleAdmin {
		return apierr.Forbidden(AccessNotAuthorized)
	}

	// Soft delete only: the row stops being servable immediately and the
	// storage payload is reclaimed later by the retention sweeper.
	if err := s.mediaObjectRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{obj.ID}); err != nil {
		return fmt.Errorf("soft delete media object: %w", err)
	}

	s.log.Info("media soft-deleted", "media_id", obj.ID, "deleted_by", viewer.UserID, "at", time.Now().UTC())
	return nil
}
