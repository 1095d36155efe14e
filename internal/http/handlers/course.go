package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/http/response"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/services"
)

type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// GET /api/courses
func (h *CourseHandler) ListPublished(c *gin.Context) {
	courses, err := h.courseService.ListPublished(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/courses/:slug
func (h *CourseHandler) GetBySlug(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	detail, err := h.courseService.GetBySlug(c.Request.Context(), c.Param("slug"), rd)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// POST /api/courses
func (h *CourseHandler) Create(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())

	var req struct {
		Slug        string `json:"slug"`
		Title       string `json:"title"`
		Description string `json:"description"`
		PriceCents  int    `json:"price_cents"`
		Status      string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	course := &types.Course{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Status:      req.Status,
	}
	created, err := h.courseService.Create(c.Request.Context(), rd, course)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"course": created})
}
