package course

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

type LessonContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contents []*types.LessonContent) ([]*types.LessonContent, error)
	GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.LessonContent, error)
	GetFreePreviewByMediaObjectID(ctx context.Context, tx *gorm.DB, mediaObjectID uuid.UUID) (*types.LessonContent, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type lessonContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonContentRepo(db *gorm.DB, baseLog *logger.Logger) LessonContentRepo {
	return &lessonContentRepo{db: db, log: baseLog.With("repo", "LessonContentRepo")}
}

func (r *lessonContentRepo) Create(ctx context.Context, tx *gorm.DB, contents []*types.LessonContent) ([]*types.LessonContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(contents) == 0 {
		return []*types.LessonContent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *lessonContentRepo) GetByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.LessonContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LessonContent
	if len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetFreePreviewByMediaObjectID resolves the free-preview rule of the media
// gate: a media object is publicly previewable when some lesson content row
// references it with the free-preview flag set.
func (r *lessonContentRepo) GetFreePreviewByMediaObjectID(ctx context.Context, tx *gorm.DB, mediaObjectID uuid.UUID) (*types.LessonContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if mediaObjectID == uuid.Nil {
		return nil, nil
	}

	var results []*types.LessonContent
	if err := transaction.WithContext(ctx).
		Where("media_object_id = ? AND is_free_preview = ?", mediaObjectID, true).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *lessonContentRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.LessonContent{}).Error; err != nil {
		return err
	}
	return nil
}
