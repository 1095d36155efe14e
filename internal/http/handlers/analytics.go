package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursekit/coursekit-backend/internal/http/response"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GET /api/courses/:slug/analytics
func (h *AnalyticsHandler) ForCourse(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	analytics, err := h.analyticsService.ForCourse(c.Request.Context(), rd, c.Param("slug"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, analytics)
}
