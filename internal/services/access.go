package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/data/repos"
	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

// Access reasons reported alongside every allow/deny decision. The reason
// is returned to the client on denials and logged on grants.
const (
	AccessPublic        = "public"
	AccessFreePreview   = "free_preview"
	AccessOwner         = "owner"
	AccessAdmin         = "admin"
	AccessEnrolled      = "enrolled"
	AccessInstructor    = "instructor"
	AccessAuthRequired  = "authentication_required"
	AccessNotAuthorized = "not_authorized"
)

type AccessDecision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) AccessDecision { return AccessDecision{Allowed: true, Reason: reason} }
func deny(reason string) AccessDecision  { return AccessDecision{Allowed: false, Reason: reason} }

// mediaAccessInput is everything the media gate needs, loaded up front so
// the decision itself is a pure function over in-memory rows.
type mediaAccessInput struct {
	object         *types.MediaObject
	hasFreePreview bool
	viewer         *ctxutil.RequestData
	course         *types.Course
	enrollment     *types.Enrollment
}

// decideMediaAccess ranks grants from cheapest to broadest: public flag,
// free-preview reference, then identity-based grants. Anonymous viewers
// that fail the first two tiers are told to authenticate rather than
// being rejected outright.
func decideMediaAccess(in mediaAccessInput) AccessDecision {
	if in.object == nil {
		return deny(AccessNotAuthorized)
	}
	if in.object.IsPublic {
		return allow(AccessPublic)
	}
	if in.hasFreePreview {
		return allow(AccessFreePreview)
	}
	if in.viewer == nil || in.viewer.UserID == uuid.Nil {
		return deny(AccessAuthRequired)
	}
	if in.object.UploadedBy == in.viewer.UserID {
		return allow(AccessOwner)
	}
	if in.viewer.Role == types.RoleAdmin {
		return allow(AccessAdmin)
	}
	if in.course != nil {
		if in.enrollment.GrantsAccess() {
			return allow(AccessEnrolled)
		}
		if in.course.InstructorID == in.viewer.UserID {
			return allow(AccessInstructor)
		}
	}
	return deny(AccessNotAuthorized)
}

// decideCourseAccess gates course-scoped content such as quizzes and
// lesson bodies. There is no public or preview tier here.
func decideCourseAccess(course *types.Course, viewer *ctxutil.RequestData, enrollment *types.Enrollment) AccessDecision {
	if course == nil {
		return deny(AccessNotAuthorized)
	}
	if viewer == nil || viewer.UserID == uuid.Nil {
		return deny(AccessAuthRequired)
	}
	if viewer.Role == types.RoleAdmin {
		return allow(AccessAdmin)
	}
	if course.InstructorID == viewer.UserID {
		return allow(AccessInstructor)
	}
	if enrollment.GrantsAccess() {
		return allow(AccessEnrolled)
	}
	return deny(AccessNotAuthorized)
}

type AccessService interface {
	ForMediaObject(ctx context.Context, tx *gorm.DB, obj *types.MediaObject, viewer *ctxutil.RequestData) (AccessDecision, error)
	ForCourse(ctx context.Context, tx *gorm.DB, course *types.Course, viewer *ctxutil.RequestData) (AccessDecision, error)
}

type accessService struct {
	db                *gorm.DB
	log               *logger.Logger
	courseRepo        repos.CourseRepo
	enrollmentRepo    repos.EnrollmentRepo
	lessonContentRepo repos.LessonContentRepo
}

func NewAccessService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	enrollmentRepo repos.EnrollmentRepo,
	lessonContentRepo repos.LessonContentRepo,
) AccessService {
	return &accessService{
		db:                db,
		log:               log.With("service", "AccessService"),
		courseRepo:        courseRepo,
		enrollmentRepo:    enrollmentRepo,
		lessonContentRepo: lessonContentRepo,
	}
}

func (s *accessService) ForMediaObject(ctx context.Context, tx *gorm.DB, obj *types.MediaObject, viewer *ctxutil.RequestData) (AccessDecision, error) {
	in := mediaAccessInput{object: obj, viewer: viewer}
	if obj == nil {
		return decideMediaAccess(in), nil
	}

	if !obj.IsPublic {
		preview, err := s.lessonContentRepo.GetFreePreviewByMediaObjectID(ctx, tx, obj.ID)
		if err != nil {
			return deny(AccessNotAuthorized), err
		}
		in.hasFreePreview = preview != nil
	}

	if obj.CourseID != nil {
		courses, err := s.courseRepo.GetByIDs(ctx, tx, []uuid.UUID{*obj.CourseID})
		if err != nil {
			return deny(AccessNotAuthorized), err
		}
		if len(courses) > 0 {
			in.course = courses[0]
		}
		if in.course != nil && viewer != nil && viewer.UserID != uuid.Nil {
			enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, tx, viewer.UserID, in.course.ID)
			if err != nil {
				return deny(AccessNotAuthorized), err
			}
			in.enrollment = enrollment
		}
	}

	return decideMediaAccess(in), nil
}

func (s *accessService) ForCourse(ctx context.Context, tx *gorm.DB, course *types.Course, viewer *ctxutil.RequestData) (AccessDecision, error) {
	var enrollment *types.Enrollment
	if course != nil && viewer != nil && viewer.UserID != uuid.Nil {
		var err error
		enrollment, err = s.enrollmentRepo.GetByUserAndCourse(ctx, tx, viewer.UserID, course.ID)
		if err != nil {
			return deny(AccessNotAuthorized), err
		}
	}
	return decideCourseAccess(course, viewer, enrollment), nil
}
