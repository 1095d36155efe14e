package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/coursekit/coursekit-backend/internal/http/handlers"
	httpMW "github.com/coursekit/coursekit-backend/internal/http/middleware"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	CourseHandler     *httpH.CourseHandler
	MediaHandler      *httpH.MediaHandler
	EnrollmentHandler *httpH.EnrollmentHandler
	ProgressHandler   *httpH.ProgressHandler
	QuizHandler       *httpH.QuizHandler
	AnalyticsHandler  *httpH.AnalyticsHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Catalog: browsable anonymously; identity, when present, widens
		// what the detail view includes.
		if cfg.CourseHandler != nil && cfg.AuthMiddleware != nil {
			api.GET("/courses", cfg.CourseHandler.ListPublished)
			api.GET("/courses/:slug", cfg.AuthMiddleware.OptionalAuth(), cfg.CourseHandler.GetBySlug)
		}

		// Media viewing runs the access gate itself; the middleware only
		// resolves identity when a token is offered.
		if cfg.MediaHandler != nil && cfg.AuthMiddleware != nil {
			api.GET("/media/:secureId", cfg.AuthMiddleware.OptionalAuth(), cfg.MediaHandler.View)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		if cfg.CourseHandler != nil {
			protected.POST("/courses", cfg.CourseHandler.Create)
		}

		if cfg.MediaHandler != nil {
			protected.POST("/media/upload", cfg.MediaHandler.Upload)
			protected.DELETE("/media/:secureId", cfg.MediaHandler.Delete)
		}

		if cfg.EnrollmentHandler != nil {
			protected.POST("/courses/:slug/enroll", cfg.EnrollmentHandler.Enroll)
			protected.GET("/enrollments", cfg.EnrollmentHandler.ListMine)
		}

		if cfg.ProgressHandler != nil {
			protected.PUT("/lessons/:lessonId/progress", cfg.ProgressHandler.RecordLessonProgress)
		}

		if cfg.QuizHandler != nil {
			protected.POST("/courses/:slug/quizzes/:quizId/attempt", cfg.QuizHandler.StartAttempt)
			protected.GET("/courses/:slug/quizzes/:quizId/attempt", cfg.QuizHandler.GetHistory)
			protected.GET("/courses/:slug/quizzes/:quizId/questions", cfg.QuizHandler.GetQuestions)
			protected.POST("/courses/:slug/quizzes/:quizId/attempt/:attemptId/submit", cfg.QuizHandler.SubmitAttempt)
		}

		if cfg.AnalyticsHandler != nil {
			protected.GET("/courses/:slug/analytics", cfg.AnalyticsHandler.ForCourse)
		}
	}

	return r
}
