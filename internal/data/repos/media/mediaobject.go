package media

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

type MediaObjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, objects []*types.MediaObject) ([]*types.MediaObject, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MediaObject, error)
	// GetBySecureID returns nil for unknown and soft-deleted secure ids:
	// a deleted object is no longer servable even while referenced elsewhere.
	GetBySecureID(ctx context.Context, tx *gorm.DB, secureID string) (*types.MediaObject, error)
	GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.MediaObject, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	// ListSoftDeletedBefore feeds the storage sweeper with rows whose payload
	// is due for collection.
	ListSoftDeletedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) ([]*types.MediaObject, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type mediaObjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMediaObjectRepo(db *gorm.DB, baseLog *logger.Logger) MediaObjectRepo {
	return &mediaObjectRepo{db: db, log: baseLog.With("repo", "MediaObjectRepo")}
}

func (r *mediaObjectRepo) Create(ctx context.Context, tx *gorm.DB, objects []*types.MediaObject) ([]*types.MediaObject, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(objects) == 0 {
		return []*types.MediaObject{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&objects).Error; err != nil {
		return nil, err
	}
	return objects, nil
}

func (r *mediaObjectRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.MediaObject, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MediaObject
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mediaObjectRepo) GetBySecureID(ctx context.Context, tx *gorm.DB, secureID string) (*types.MediaObject, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if secureID == "" {
		return nil, nil
	}

	var results []*types.MediaObject
	if err := transaction.WithContext(ctx).
		Where("secure_id = ?", secureID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *mediaObjectRepo) GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.MediaObject, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MediaObject
	if len(courseIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mediaObjectRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.MediaObject{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *mediaObjectRepo) ListSoftDeletedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) ([]*types.MediaObject, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if limit <= 0 {
		limit = 100
	}

	var results []*types.MediaObject
	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mediaObjectRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&types.MediaObject{}).Error; err != nil {
		return err
	}
	return nil
}
