package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursekit/coursekit-backend/internal/http/response"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
	"github.com/coursekit/coursekit-backend/internal/services"
)

type QuizHandler struct {
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// POST /api/courses/:slug/quizzes/:quizId/attempt
func (h *QuizHandler) StartAttempt(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())

	quizID, err := uuid.Parse(c.Param("quizId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_quiz_id", err)
		return
	}

	attempt, err := h.quizService.StartAttempt(c.Request.Context(), rd, c.Param("slug"), quizID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"attempt": attempt})
}

// GET /api/courses/:slug/quizzes/:quizId/attempt
func (h *QuizHandler) GetHistory(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())

	quizID, err := uuid.Parse(c.Param("quizId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_quiz_id", err)
		return
	}

	history, err := h.quizService.GetHistory(c.Request.Context(), rd, c.Param("slug"), quizID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, history)
}

// GET /api/courses/:slug/quizzes/:quizId/questions
func (h *QuizHandler) GetQuestions(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())

	quizID, err := uuid.Parse(c.Param("quizId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_quiz_id", err)
		return
	}

	questions, err := h.quizService.GetQuestions(c.Request.Context(), rd, c.Param("slug"), quizID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

// POST /api/courses/:slug/quizzes/:quizId/attempt/:attemptId/submit
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())

	quizID, err := uuid.Parse(c.Param("quizId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_quiz_id", err)
		return
	}
	attemptID, err := uuid.Parse(c.Param("attemptId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_attempt_id", err)
		return
	}

	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.quizService.SubmitAttempt(c.Request.Context(), rd, c.Param("slug"), quizID, attemptID, req.Answers)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, result)
}
