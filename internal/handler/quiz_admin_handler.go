package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lexprep/lexprep-backend/internal/ai"
	"github.com/lexprep/lexprep-backend/internal/middleware"
	"github.com/lexprep/lexprep-backend/internal/model"
	"github.com/lexprep/lexprep-backend/internal/response"
	"github.com/lexprep/lexprep-backend/internal/service"
	"github.com/lexprep/lexprep-backend/internal/validator"
)

// QuizAdminHandler handles quiz authoring endpoints.
type QuizAdminHandler struct {
	quizService *service.QuizService
}

// NewQuizAdminHandler creates a new QuizAdminHandler.
func NewQuizAdminHandler(quizService *service.QuizService) *QuizAdminHandler {
	return &QuizAdminHandler{quizService: quizService}
}

// List godoc
// GET /api/v1/admin/quizzes
// Returns every quiz, drafts included.
func (h *QuizAdminHandler) List(c *gin.Context) {
	quizzes, err := h.quizService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// Get godoc
// GET /api/v1/admin/quizzes/:id
// Returns one quiz with its full question set, answers included.
func (h *QuizAdminHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.GetForAdmin(c.Request.Context(), id)
	if err != nil {
		h.failAdminQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Create godoc
// POST /api/v1/admin/quizzes
// Authors a new draft quiz.
func (h *QuizAdminHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		h.failAdminQuiz(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// Update godoc
// PUT /api/v1/admin/quizzes/:id
// Edits quiz metadata; a supplied question list replaces the full set.
func (h *QuizAdminHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.failAdminQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Publish godoc
// POST /api/v1/admin/quizzes/:id/publish
// Opens the quiz to learners. Quizzes without questions cannot be published.
func (h *QuizAdminHandler) Publish(c *gin.Context) {
	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	if err := h.quizService.Publish(c.Request.Context(), id); err != nil {
		h.failAdminQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Delete godoc
// DELETE /api/v1/admin/quizzes/:id
func (h *QuizAdminHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), id); err != nil {
		h.failAdminQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Generate godoc
// POST /api/v1/ai/quizzes/generate
// Asks the AI to author a quiz on a topic and stores it as a draft for
// review before publishing.
func (h *QuizAdminHandler) Generate(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.GenerateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Generate(c.Request.Context(), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrNotConfigured):
			response.Fail(c, http.StatusInternalServerError, response.ErrAINotConfigured)
		case errors.Is(err, ai.ErrNoQuizGenerated):
			response.Fail(c, http.StatusInternalServerError, response.ErrAIUnavailable)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

func (h *QuizAdminHandler) failAdminQuiz(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
	case errors.Is(err, service.ErrBadCorrectOption):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
