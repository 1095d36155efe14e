package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/data/repos"
	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/apierr"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

type EnrollmentService interface {
	// Enroll grants the caller access to a free published course. Priced
	// courses are rejected with 402 until a payment flow exists.
	Enroll(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string) (*types.Enrollment, error)
	ListForUser(ctx context.Context, viewer *ctxutil.RequestData) ([]*types.Enrollment, error)
}

type enrollmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewEnrollmentService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	enrollmentRepo repos.EnrollmentRepo,
) EnrollmentService {
	return &enrollmentService{
		db:             db,
		log:            log.With("service", "EnrollmentService"),
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string) (*types.Enrollment, error) {
	if viewer == nil || viewer.UserID == uuid.Nil {
		return nil, apierr.Unauthorized(AccessAuthRequired)
	}

	course, err := s.courseRepo.GetBySlug(ctx, nil, courseSlug)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil || course.Status != types.CourseStatusPublished {
		return nil, apierr.NotFound("course_not_found")
	}
	if !course.IsFree() {
		return nil, apierr.New(http.StatusPaymentRequired, "payment_required", nil)
	}

	var enrollment *types.Enrollment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.enrollmentRepo.GetByUserAndCourse(ctx, tx, viewer.UserID, course.ID)
		if err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		if existing != nil {
			return apierr.Conflict("already_enrolled")
		}

		enrollment = &types.Enrollment{
			ID:         uuid.New(),
			UserID:     viewer.UserID,
			CourseID:   course.ID,
			Status:     types.EnrollmentActive,
			EnrolledAt: time.Now().UTC(),
		}
		if _, err := s.enrollmentRepo.Create(ctx, tx, []*types.Enrollment{enrollment}); err != nil {
			return fmt.Errorf("create enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user enrolled", "user_id", viewer.UserID, "course_id", course.ID)
	return enrollment, nil
}

func (s *enrollmentService) ListForUser(ctx context.Context, viewer *ctxutil.RequestData) ([]*types.Enrollment, error) {
	if viewer == nil || viewer.UserID == uuid.Nil {
		return nil, apierr.Unauthorized(AccessAuthRequired)
	}
	enrollments, err := s.enrollmentRepo.GetByUserIDs(ctx, nil, []uuid.UUID{viewer.UserID})
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}
