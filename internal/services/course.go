package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/data/repos"
	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/apierr"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

// SectionView is a section with its lessons and, when present, the quiz id
// attached to it. Lesson content is only included when the caller has
// course access; catalog viewers see structure but no bodies.
type SectionView struct {
	Section *types.Section  `json:"section"`
	Lessons []LessonView    `json:"lessons"`
	QuizID  *uuid.UUID      `json:"quiz_id,omitempty"`
}

type LessonView struct {
	Lesson  *types.Lesson        `json:"lesson"`
	Content *types.LessonContent `json:"content,omitempty"`
}

type CourseDetail struct {
	Course    *types.Course `json:"course"`
	Sections  []SectionView `json:"sections"`
	HasAccess bool          `json:"has_access"`
}

type CourseService interface {
	ListPublished(ctx context.Context) ([]*types.Course, error)
	GetBySlug(ctx context.Context, slug string, viewer *ctxutil.RequestData) (*CourseDetail, error)
	Create(ctx context.Context, viewer *ctxutil.RequestData, course *types.Course) (*types.Course, error)
}

type courseService struct {
	db                *gorm.DB
	log               *logger.Logger
	courseRepo        repos.CourseRepo
	sectionRepo       repos.SectionRepo
	lessonRepo        repos.LessonRepo
	lessonContentRepo repos.LessonContentRepo
	quizRepo          repos.QuizRepo
	accessService     AccessService
}

func NewCourseService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	sectionRepo repos.SectionRepo,
	lessonRepo repos.LessonRepo,
	lessonContentRepo repos.LessonContentRepo,
	quizRepo repos.QuizRepo,
	accessService AccessService,
) CourseService {
	return &courseService{
		db:                db,
		log:               log.With("service", "CourseService"),
		courseRepo:        courseRepo,
		sectionRepo:       sectionRepo,
		lessonRepo:        lessonRepo,
		lessonContentRepo: lessonContentRepo,
		quizRepo:          quizRepo,
		accessService:     accessService,
	}
}

func (s *courseService) ListPublished(ctx context.Context) ([]*types.Course, error) {
	courses, err := s.courseRepo.ListPublished(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list published courses: %w", err)
	}
	return courses, nil
}

func (s *courseService) GetBySlug(ctx context.Context, slug string, viewer *ctxutil.RequestData) (*CourseDetail, error) {
	course, err := s.courseRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, apierr.NotFound("course_not_found")
	}

	decision, err := s.accessService.ForCourse(ctx, nil, course, viewer)
	if err != nil {
		return nil, fmt.Errorf("evaluate course access: %w", err)
	}
	hasAccess := decision.Allowed

	// Draft courses are visible only to people who already have access
	// (instructor or admin; nobody can be enrolled in an unpublished one).
	if course.Status != types.CourseStatusPublished && !hasAccess {
		return nil, apierr.NotFound("course_not_found")
	}

	sections, err := s.sectionRepo.GetByCourseIDs(ctx, nil, []uuid.UUID{course.ID})
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}

	sectionIDs := make([]uuid.UUID, 0, len(sections))
	for _, sec := range sections {
		sectionIDs = append(sectionIDs, sec.ID)
	}

	lessons, err := s.lessonRepo.GetBySectionIDs(ctx, nil, sectionIDs)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}

	lessonIDs := make([]uuid.UUID, 0, len(lessons))
	for _, l := range lessons {
		lessonIDs = append(lessonIDs, l.ID)
	}

	contentByLesson := map[uuid.UUID]*types.LessonContent{}
	if len(lessonIDs) > 0 {
		contents, err := s.lessonContentRepo.GetByLessonIDs(ctx, nil, lessonIDs)
		if err != nil {
			return nil, fmt.Errorf("load lesson content: %w", err)
		}
		for _, c := range contents {
			contentByLesson[c.LessonID] = c
		}
	}

	quizBySection := map[uuid.UUID]uuid.UUID{}
	if len(sectionIDs) > 0 {
		quizzes, err := s.quizRepo.GetBySectionIDs(ctx, nil, sectionIDs)
		if err != nil {
			return nil, fmt.Errorf("load quizzes: %w", err)
		}
		for _, q := range quizzes {
			quizBySection[q.SectionID] = q.ID
		}
	}

	lessonsBySection := map[uuid.UUID][]LessonView{}
	for _, l := range lessons {
		view := LessonView{Lesson: l}
		if content, ok := contentByLesson[l.ID]; ok {
			if hasAccess || content.IsFreePreview {
				view.Content = content
			}
		}
		lessonsBySection[l.SectionID] = append(lessonsBySection[l.SectionID], view)
	}

	sectionViews := make([]SectionView, 0, len(sections))
	for _, sec := range sections {
		view := SectionView{Section: sec, Lessons: lessonsBySection[sec.ID]}
		if quizID, ok := quizBySection[sec.ID]; ok {
			id := quizID
			view.QuizID = &id
		}
		sectionViews = append(sectionViews, view)
	}

	return &CourseDetail{Course: course, Sections: sectionViews, HasAccess: hasAccess}, nil
}

func (s *courseService) Create(ctx context.Context, viewer *ctxutil.RequestData, course *types.Course) (*types.Course, error) {
	if viewer == nil || viewer.UserID == uuid.Nil {
		return nil, apierr.Unauthorized(AccessAuthRequired)
	}
	if viewer.Role != types.RoleInstructor && viewer.Role != types.RoleAdmin {
		return nil, apierr.Forbidden(AccessNotAuthorized)
	}
	if course.Slug == "" || course.Title == "" {
		return nil, apierr.Invalid("missing_fields", fmt.Errorf("slug and title are required"))
	}

	existing, err := s.courseRepo.GetBySlug(ctx, nil, course.Slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if existing != nil {
		return nil, apierr.Conflict("slug_taken")
	}

	course.ID = uuid.New()
	course.InstructorID = viewer.UserID
	if course.Status == "" {
		course.Status = types.CourseStatusDraft
	}

	created, err := s.courseRepo.Create(ctx, nil, []*types.Course{course})
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.log.Info("course created", "course_id", course.ID, "slug", course.Slug)
	return created[0], nil
}
