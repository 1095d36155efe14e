package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	rediscl "github.com/coursekit/coursekit-backend/internal/clients/redis"
	"github.com/coursekit/coursekit-backend/internal/data/repos"
	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/apierr"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

type CourseAnalytics struct {
	CourseID          uuid.UUID `json:"course_id"`
	EnrollmentCount   int       `json:"enrollment_count"`
	ActiveCount       int       `json:"active_count"`
	CompletedCount    int       `json:"completed_count"`
	AverageProgress   float64   `json:"average_progress"`
	QuizAttemptCount  int       `json:"quiz_attempt_count"`
	QuizPassRate      float64   `json:"quiz_pass_rate"`
	MediaViewCount    int64     `json:"media_view_count"`
}

type AnalyticsService interface {
	// ForCourse aggregates instructor-facing stats. The independent
	// queries fan out concurrently; the first failure cancels the rest.
	ForCourse(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string) (*CourseAnalytics, error)
}

type analyticsService struct {
	db              *gorm.DB
	log             *logger.Logger
	courseRepo      repos.CourseRepo
	sectionRepo     repos.SectionRepo
	enrollmentRepo  repos.EnrollmentRepo
	quizRepo        repos.QuizRepo
	quizAttemptRepo repos.QuizAttemptRepo
	mediaObjectRepo repos.MediaObjectRepo
	views           rediscl.ViewCounter
}

func NewAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	sectionRepo repos.SectionRepo,
	enrollmentRepo repos.EnrollmentRepo,
	quizRepo repos.QuizRepo,
	quizAttemptRepo repos.QuizAttemptRepo,
	mediaObjectRepo repos.MediaObjectRepo,
	views rediscl.ViewCounter,
) AnalyticsService {
	return &analyticsService{
		db:              db,
		log:             log.With("service", "AnalyticsService"),
		courseRepo:      courseRepo,
		sectionRepo:     sectionRepo,
		enrollmentRepo:  enrollmentRepo,
		quizRepo:        quizRepo,
		quizAttemptRepo: quizAttemptRepo,
		mediaObjectRepo: mediaObjectRepo,
		views:           views,
	}
}

func (s *analyticsService) ForCourse(ctx context.Context, viewer *ctxutil.RequestData, courseSlug string) (*CourseAnalytics, error) {
	if viewer == nil || viewer.UserID == uuid.Nil {
		return nil, apierr.Unauthorized(AccessAuthRequired)
	}

	course, err := s.courseRepo.GetBySlug(ctx, nil, courseSlug)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, apierr.NotFound("course_not_found")
	}
	if course.InstructorID != viewer.UserID && viewer.Role != types.RoleAdmin {
		return nil, apierr.Forbidden(AccessNotAuthorized)
	}

	out := &CourseAnalytics{CourseID: course.ID}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		enrollments, err := s.enrollmentRepo.GetByCourseIDs(gctx, nil, []uuid.UUID{course.ID})
		if err != nil {
			return fmt.Errorf("load enrollments: %w", err)
		}
		var progressSum float64
		for _, e := range enrollments {
			progressSum += e.ProgressPercent
			switch e.Status {
			case types.EnrollmentActive:
				out.ActiveCount++
			case types.EnrollmentCompleted:
				out.CompletedCount++
			}
		}
		out.EnrollmentCount = len(enrollments)
		if len(enrollments) > 0 {
			out.AverageProgress = progressSum / float64(len(enrollments))
		}
		return nil
	})

	g.Go(func() error {
		sections, err := s.sectionRepo.GetByCourseIDs(gctx, nil, []uuid.UUID{course.ID})
		if err != nil {
			return fmt.Errorf("load sections: %w", err)
		}
		sectionIDs := make([]uuid.UUID, 0, len(sections))
		for _, sec := range sections {
			sectionIDs = append(sectionIDs, sec.ID)
		}
		quizzes, err := s.quizRepo.GetBySectionIDs(gctx, nil, sectionIDs)
		if err != nil {
			return fmt.Errorf("load quizzes: %w", err)
		}

		quizIDs := make([]uuid.UUID, 0, len(quizzes))
		for _, q := range quizzes {
			quizIDs = append(quizIDs, q.ID)
		}
		attempts, err := s.quizAttemptRepo.GetByQuizIDs(gctx, nil, quizIDs)
		if err != nil {
			return fmt.Errorf("load attempts: %w", err)
		}

		var attemptCount, passedCount int
		for _, a := range attempts {
			if a.Status != types.AttemptCompleted {
				continue
			}
			attemptCount++
			if a.Passed {
				passedCount++
			}
		}
		out.QuizAttemptCount = attemptCount
		if attemptCount > 0 {
			out.QuizPassRate = float64(passedCount) / float64(attemptCount) * 100
		}
		return nil
	})

	g.Go(func() error {
		objects, err := s.mediaObjectRepo.GetByCourseIDs(gctx, nil, []uuid.UUID{course.ID})
		if err != nil {
			return fmt.Errorf("load media objects: %w", err)
		}
		var total int64
		for _, obj := range objects {
			n, err := s.views.Get(gctx, "views:media:"+obj.SecureID)
			if err != nil {
				// Counters are best effort; a cold cache is not an error.
				s.log.Warn("view counter read failed", "secure_id", obj.SecureID, "error", err)
				continue
			}
			total += n
		}
		out.MediaViewCount = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
