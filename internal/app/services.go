package app

import (
	"gorm.io/gorm"

	"github.com/coursekit/coursekit-backend/internal/clients/gcp"
	rediscl "github.com/coursekit/coursekit-backend/internal/clients/redis"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
	"github.com/coursekit/coursekit-backend/internal/services"
)

type Clients struct {
	Bucket gcp.BucketService
	Views  rediscl.ViewCounter
}

type Services struct {
	Auth       services.AuthService
	Access     services.AccessService
	Media      services.MediaService
	Course     services.CourseService
	Enrollment services.EnrollmentService
	Progress   services.ProgressService
	Quiz       services.QuizService
	Analytics  services.AnalyticsService
	StorageGC  services.StorageGCService
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")
	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		return Clients{}, err
	}
	views, err := rediscl.NewViewCounter(log)
	if err != nil {
		return Clients{}, err
	}
	return Clients{Bucket: bucket, Views: views}, nil
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) Services {
	log.Info("Wiring services...")

	access := services.NewAccessService(db, log, r.Course, r.Enrollment, r.LessonContent)

	return Services{
		Auth:       services.NewAuthService(db, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Access:     access,
		Media:      services.NewMediaService(db, log, r.MediaObject, access, c.Bucket, c.Views),
		Course:     services.NewCourseService(db, log, r.Course, r.Section, r.Lesson, r.LessonContent, r.Quiz, access),
		Enrollment: services.NewEnrollmentService(db, log, r.Course, r.Enrollment),
		Progress:   services.NewProgressService(db, log, r.Lesson, r.Section, r.Course, r.Enrollment, r.LessonProgress, access, c.Views),
		Quiz:       services.NewQuizService(db, log, r.Quiz, r.QuizQuestion, r.QuizAttempt, r.Section, r.Course, access),
		Analytics:  services.NewAnalyticsService(db, log, r.Course, r.Section, r.Enrollment, r.Quiz, r.QuizAttempt, r.MediaObject, c.Views),
		StorageGC:  services.NewStorageGCService(db, log, r.MediaObject, c.Bucket, cfg.MediaGCRetention, cfg.MediaGCInterval),
	}
}
