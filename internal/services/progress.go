package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rediscl "github.com/coursekit/coursekit-backend/internal/clients/redis"
	"github.com/coursekit/coursekit-backend/internal/data/repos"
	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/apierr"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

type ProgressUpdate struct {
	Completed      bool `json:"completed"`
	SecondsWatched int  `json:"seconds_watched"`
}

type ProgressService interface {
	// RecordLessonProgress upserts the caller's per-lesson progress and
	// recomputes the enrollment's percent from completed lessons. At
	// 100 percent the enrollment flips to completed.
	RecordLessonProgress(ctx context.Context, viewer *ctxutil.RequestData, lessonID uuid.UUID, update ProgressUpdate) (*types.LessonProgress, error)
}

type progressService struct {
	db                 *gorm.DB
	log                *logger.Logger
	lessonRepo         repos.LessonRepo
	sectionRepo        repos.SectionRepo
	courseRepo         repos.CourseRepo
	enrollmentRepo     repos.EnrollmentRepo
	lessonProgressRepo repos.LessonProgressRepo
	accessService      AccessService
	views              rediscl.ViewCounter
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	lessonRepo repos.LessonRepo,
	sectionRepo repos.SectionRepo,
	courseRepo repos.CourseRepo,
	enrollmentRepo repos.EnrollmentRepo,
	lessonProgressRepo repos.LessonProgressRepo,
	accessService AccessService,
	views rediscl.ViewCounter,
) ProgressService {
	return &progressService{
		db:                 db,
		log:                log.With("service", "ProgressService"),
		lessonRepo:         lessonRepo,
		sectionRepo:        sectionRepo,
		courseRepo:         courseRepo,
		enrollmentRepo:     enrollmentRepo,
		lessonProgressRepo: lessonProgressRepo,
		accessService:      accessService,
		views:              views,
	}
}

func (s *progressService) RecordLessonProgress(ctx context.Context, viewer *ctxutil.RequestData, lessonID uuid.UUID, update ProgressUpdate) (*types.LessonProgress, error) {
	if viewer == nil || viewer.UserID == uuid.Nil {
		return nil, apierr.Unauthorized(AccessAuthRequired)
	}

	lessons, err := s.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if len(lessons) == 0 {
		return nil, apierr.NotFound("lesson_not_found")
	}
	lesson := lessons[0]

	sections, err := s.sectionRepo.GetByIDs(ctx, nil, []uuid.UUID{lesson.SectionID})
	if err != nil {
		return nil, fmt.Errorf("load section: %w", err)
	}
	if len(sections) == 0 {
		return nil, apierr.NotFound("lesson_not_found")
	}

	courses, err := s.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{sections[0].CourseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 {
		return nil, apierr.NotFound("lesson_not_found")
	}
	course := courses[0]

	decision, err := s.accessService.ForCourse(ctx, nil, course, viewer)
	if err != nil {
		return nil, fmt.Errorf("evaluate course access: %w", err)
	}
	if !decision.Allowed {
		return nil, apierr.Forbidden(decision.Reason)
	}

	var saved *types.LessonProgress
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress := &types.LessonProgress{
			ID:             uuid.New(),
			UserID:         viewer.UserID,
			LessonID:       lessonID,
			Completed:      update.Completed,
			SecondsWatched: update.SecondsWatched,
		}
		saved, err = s.lessonProgressRepo.Upsert(ctx, tx, progress)
		if err != nil {
			return fmt.Errorf("upsert lesson progress: %w", err)
		}
		return s.recomputeEnrollmentProgress(ctx, tx, viewer.UserID, course.ID)
	})
	if err != nil {
		return nil, err
	}

	s.views.IncrLessonView(ctx, lessonID.String())
	return saved, nil
}

// recomputeEnrollmentProgress re-derives the enrollment percent from the
// completed-lesson count over the course's full lesson set. Only learners
// with an active enrollment carry a percent; instructors and admins
// touching lessons have no row to update.
func (s *progressService) recomputeEnrollmentProgress(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) error {
	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, tx, userID, courseID)
	if err != nil {
		return fmt.Errorf("load enrollment: %w", err)
	}
	if !enrollment.GrantsAccess() {
		return nil
	}

	sections, err := s.sectionRepo.GetByCourseIDs(ctx, tx, []uuid.UUID{courseID})
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}
	sectionIDs := make([]uuid.UUID, 0, len(sections))
	for _, sec := range sections {
		sectionIDs = append(sectionIDs, sec.ID)
	}

	lessons, err := s.lessonRepo.GetBySectionIDs(ctx, tx, sectionIDs)
	if err != nil {
		return fmt.Errorf("load lessons: %w", err)
	}
	if len(lessons) == 0 {
		return nil
	}
	lessonIDs := make([]uuid.UUID, 0, len(lessons))
	for _, l := range lessons {
		lessonIDs = append(lessonIDs, l.ID)
	}

	completed, err := s.lessonProgressRepo.CountCompleted(ctx, tx, userID, lessonIDs)
	if err != nil {
		return fmt.Errorf("count completed lessons: %w", err)
	}

	percent := float64(completed) / float64(len(lessons)) * 100
	now := time.Now().UTC()
	if err := s.enrollmentRepo.UpdateProgress(ctx, tx, enrollment.ID, percent, now); err != nil {
		return fmt.Errorf("update enrollment progress: %w", err)
	}
	if percent >= 100 {
		if err := s.enrollmentRepo.MarkCompleted(ctx, tx, enrollment.ID, now); err != nil {
			return fmt.Errorf("mark enrollment completed: %w", err)
		}
	}
	return nil
}
