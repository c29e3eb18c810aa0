package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lexprep/lexprep-backend/internal/ai"
	"github.com/lexprep/lexprep-backend/internal/middleware"
	"github.com/lexprep/lexprep-backend/internal/model"
	"github.com/lexprep/lexprep-backend/internal/response"
	"github.com/lexprep/lexprep-backend/internal/service"
	"github.com/lexprep/lexprep-backend/internal/validator"
)

const (
	defaultHistoryPerPage = 20
	maxHistoryPerPage     = 100
)

// AnswerCheckHandler handles AI answer evaluation endpoints.
type AnswerCheckHandler struct {
	checkService *service.AnswerCheckService
	maxUpload    int64
}

// NewAnswerCheckHandler creates a new AnswerCheckHandler.
func NewAnswerCheckHandler(checkService *service.AnswerCheckService, maxUpload int64) *AnswerCheckHandler {
	return &AnswerCheckHandler{checkService: checkService, maxUpload: maxUpload}
}

// Check godoc
// POST /api/v1/answer-check/check
// Multipart form: file (the answer sheet) plus question, totalMarks and an
// optional gradingCriteria. Returns the persisted evaluation.
func (h *AnswerCheckHandler) Check(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.AnswerCheckRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if fileHeader.Size > h.maxUpload {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if int64(len(data)) > h.maxUpload {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	check, err := h.checkService.Check(c.Request.Context(), claims.UserID, req, fileHeader.Filename, mimeType, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAINotConfigured):
			response.Fail(c, http.StatusInternalServerError, response.ErrAINotConfigured)
		case errors.Is(err, ai.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrAIUnavailable):
			response.Fail(c, http.StatusInternalServerError, response.ErrAIUnavailable)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"check": check})
}

// History godoc
// GET /api/v1/answer-check/history?page=&limit=
// Returns the caller's evaluations, newest first.
func (h *AnswerCheckHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryPerPage)))
	if perPage < 1 || perPage > maxHistoryPerPage {
		perPage = defaultHistoryPerPage
	}

	checks, total, err := h.checkService.History(c.Request.Context(), claims.UserID, perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"checks": checks}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Get godoc
// GET /api/v1/answer-check/:id
func (h *AnswerCheckHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	check, err := h.checkService.Get(c.Request.Context(), claims.UserID, id)
	if err != nil {
		if errors.Is(err, service.ErrAnswerCheckNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"check": check})
}
