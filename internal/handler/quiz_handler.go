package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lexprep/lexprep-backend/internal/middleware"
	"github.com/lexprep/lexprep-backend/internal/model"
	"github.com/lexprep/lexprep-backend/internal/response"
	"github.com/lexprep/lexprep-backend/internal/service"
	"github.com/lexprep/lexprep-backend/internal/validator"
)

// QuizHandler handles the learner-facing quiz endpoints.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// List godoc
// GET /api/v1/quizzes?type=PREVIOUS_YEAR|MOCK_TEST
// Returns published quizzes without their questions.
func (h *QuizHandler) List(c *gin.Context) {
	var quizType *model.QuizType
	switch t := model.QuizType(c.Query("type")); t {
	case model.QuizTypePreviousYear, model.QuizTypeMockTest:
		quizType = &t
	case "":
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	quizzes, err := h.quizService.ListPublished(c.Request.Context(), quizType)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// Results godoc
// GET /api/v1/quizzes/results
// Returns the caller's persisted submission history, newest first.
func (h *QuizHandler) Results(c *gin.Context) {
	claims := middleware.GetClaims(c)

	results, err := h.quizService.Results(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// Get godoc
// GET /api/v1/quizzes/:id
// Returns the taking payload for one published quiz. Correct options are
// never present in this payload.
func (h *QuizHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	payload, err := h.quizService.GetPayload(c.Request.Context(), id)
	if err != nil {
		h.failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": payload})
}

// Submit godoc
// POST /api/v1/quizzes/:id/submit
// Scores a full answer vector and returns per-question results with the
// correct options revealed.
func (h *QuizHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.quizService.Submit(c.Request.Context(), claims.UserID, id, req.Answers)
	if err != nil {
		if errors.Is(err, service.ErrAnswerCountMismatch) {
			response.Fail(c, http.StatusBadRequest, response.ErrAnswerCountWrong)
			return
		}
		h.failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

func (h *QuizHandler) failQuiz(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrQuizNotPublished):
		// Unpublished quizzes are indistinguishable from missing ones for
		// learners.
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
