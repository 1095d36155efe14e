package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursekit/coursekit-backend/internal/http/response"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/services"
)

type EnrollmentHandler struct {
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// POST /api/courses/:slug/enroll
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), rd, c.Param("slug"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"enrollment": enrollment})
}

// GET /api/enrollments
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	enrollments, err := h.enrollmentService.ListForUser(c.Request.Context(), rd)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollments": enrollments})
}
