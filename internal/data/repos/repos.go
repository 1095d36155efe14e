package repos

import (
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/data/repos/assessment"
	"github.com/coursekit/coursekit-backend/internal/data/repos/course"
	"github.com/coursekit/coursekit-backend/internal/data/repos/media"
	"github.com/coursekit/coursekit-backend/internal/data/repos/user"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = user.UserTokenRepo

type CourseRepo = course.CourseRepo
type SectionRepo = course.SectionRepo
type LessonRepo = course.LessonRepo
type LessonContentRepo = course.LessonContentRepo
type EnrollmentRepo = course.EnrollmentRepo
type LessonProgressRepo = course.LessonProgressRepo

type MediaObjectRepo = media.MediaObjectRepo

type QuizRepo = assessment.QuizRepo
type QuizQuestionRepo = assessment.QuizQuestionRepo
type QuizAttemptRepo = assessment.QuizAttemptRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return user.NewUserTokenRepo(db, baseLog)
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return course.NewCourseRepo(db, baseLog)
}
func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	return course.NewSectionRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return course.NewLessonRepo(db, baseLog)
}
func NewLessonContentRepo(db *gorm.DB, baseLog *logger.Logger) LessonContentRepo {
	return course.NewLessonContentRepo(db, baseLog)
}
func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return course.NewEnrollmentRepo(db, baseLog)
}
func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return course.NewLessonProgressRepo(db, baseLog)
}

func NewMediaObjectRepo(db *gorm.DB, baseLog *logger.Logger) MediaObjectRepo {
	return media.NewMediaObjectRepo(db, baseLog)
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return assessment.NewQuizRepo(db, baseLog)
}
func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return assessment.NewQuizQuestionRepo(db, baseLog)
}
func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return assessment.NewQuizAttemptRepo(db, baseLog)
}
