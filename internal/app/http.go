package app

import (
	serverHTTP "github.com/coursekit/coursekit-backend/internal/http"
	httpH "github.com/coursekit/coursekit-backend/internal/http/handlers"
	httpMW "github.com/coursekit/coursekit-backend/internal/http/middleware"
	"github.com/coursekit/coursekit-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Course     *httpH.CourseHandler
	Media      *httpH.MediaHandler
	Enrollment *httpH.EnrollmentHandler
	Progress   *httpH.ProgressHandler
	Quiz       *httpH.QuizHandler
	Analytics  *httpH.AnalyticsHandler
	Health     *httpH.HealthHandler
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth),
	}
}

func wireHandlers(log *logger.Logger, r Repos, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       httpH.NewAuthHandler(s.Auth),
		User:       httpH.NewUserHandler(r.User),
		Course:     httpH.NewCourseHandler(s.Course),
		Media:      httpH.NewMediaHandler(log, s.Media),
		Enrollment: httpH.NewEnrollmentHandler(s.Enrollment),
		Progress:   httpH.NewProgressHandler(s.Progress),
		Quiz:       httpH.NewQuizHandler(s.Quiz),
		Analytics:  httpH.NewAnalyticsHandler(s.Analytics),
		Health:     httpH.NewHealthHandler(),
	}
}

func wireRouter(log *logger.Logger, h Handlers, m Middleware) *serverHTTP.Server {
	return serverHTTP.NewServer(serverHTTP.RouterConfig{
		Log:               log,
		AuthMiddleware:    m.Auth,
		AuthHandler:       h.Auth,
		UserHandler:       h.User,
		CourseHandler:     h.Course,
		MediaHandler:      h.Media,
		EnrollmentHandler: h.Enrollment,
		ProgressHandler:   h.Progress,
		QuizHandler:       h.Quiz,
		AnalyticsHandler:  h.Analytics,
		HealthHandler:     h.Health,
	})
}
