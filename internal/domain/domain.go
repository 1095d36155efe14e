package domain

import (
	"github.com/coursekit/coursekit-backend/internal/domain/assessment"
	"github.com/coursekit/coursekit-backend/internal/domain/course"
	"github.com/coursekit/coursekit-backend/internal/domain/media"
	"github.com/coursekit/coursekit-backend/internal/domain/user"
)

type User = user.User
type UserToken = user.UserToken

type Course = course.Course
type Section = course.Section
type Lesson = course.Lesson
type LessonContent = course.LessonContent
type Enrollment = course.Enrollment
type LessonProgress = course.LessonProgress

type MediaObject = media.MediaObject

type Quiz = assessment.Quiz
type QuizQuestion = assessment.QuizQuestion
type QuizAttempt = assessment.QuizAttempt

const (
	RoleStudent    = user.RoleStudent
	RoleInstructor = user.RoleInstructor
	RoleAdmin      = user.RoleAdmin

	CourseStatusDraft     = course.StatusDraft
	CourseStatusPublished = course.StatusPublished

	LessonKindVideo      = course.LessonKindVideo
	LessonKindReading    = course.LessonKindReading
	LessonKindQuiz       = course.LessonKindQuiz
	LessonKindAssignment = course.LessonKindAssignment

	EnrollmentActive    = course.EnrollmentActive
	EnrollmentCompleted = course.EnrollmentCompleted
	EnrollmentCancelled = course.EnrollmentCancelled
	EnrollmentExpired   = course.EnrollmentExpired

	AttemptInProgress = assessment.AttemptInProgress
	AttemptCompleted  = assessment.AttemptCompleted

	MediaCategoryLessonVideo    = media.CategoryLessonVideo
	MediaCategoryCourseResource = media.CategoryCourseResource
	MediaCategoryThumbnail      = media.CategoryThumbnail
)
