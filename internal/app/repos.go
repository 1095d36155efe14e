package app

import (
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/data/repos"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

type Repos struct {
	User           repos.UserRepo
	UserToken      repos.UserTokenRepo
	Course         repos.CourseRepo
	Section        repos.SectionRepo
	Lesson         repos.LessonRepo
	LessonContent  repos.LessonContentRepo
	Enrollment     repos.EnrollmentRepo
	LessonProgress repos.LessonProgressRepo
	MediaObject    repos.MediaObjectRepo
	Quiz           repos.QuizRepo
	QuizQuestion   repos.QuizQuestionRepo
	QuizAttempt    repos.QuizAttemptRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		Course:         repos.NewCourseRepo(db, log),
		Section:        repos.NewSectionRepo(db, log),
		Lesson:         repos.NewLessonRepo(db, log),
		LessonContent:  repos.NewLessonContentRepo(db, log),
		Enrollment:     repos.NewEnrollmentRepo(db, log),
		LessonProgress: repos.NewLessonProgressRepo(db, log),
		MediaObject:    repos.NewMediaObjectRepo(db, log),
		Quiz:           repos.NewQuizRepo(db, log),
		QuizQuestion:   repos.NewQuizQuestionRepo(db, log),
		QuizAttempt:    repos.NewQuizAttemptRepo(db, log),
	}
}
