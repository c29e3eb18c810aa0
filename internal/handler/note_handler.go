package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lexprep/lexprep-backend/internal/middleware"
	"github.com/lexprep/lexprep-backend/internal/model"
	"github.com/lexprep/lexprep-backend/internal/repository"
	"github.com/lexprep/lexprep-backend/internal/response"
	"github.com/lexprep/lexprep-backend/internal/service"
	"github.com/lexprep/lexprep-backend/internal/validator"
)

// NoteHandler handles note CRUD and flag endpoints. All routes require an
// authenticated user; everything is scoped to the caller's account.
type NoteHandler struct {
	noteService *service.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// List godoc
// GET /api/v1/notes?reference_type=&reference_id=&is_bookmarked=&is_favourite=&tags=a,b
// Returns the caller's active notes, newest first.
func (h *NoteHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	h.respondList(c, noteFilterFromQuery(c, claims.UserID))
}

// noteFilterFromQuery builds a note filter from the list query string.
// Unparseable flag values are ignored rather than rejected, matching the
// lenient handling of the other query params.
func noteFilterFromQuery(c *gin.Context, userID int) repository.NoteFilter {
	filter := repository.NoteFilter{
		UserID:        userID,
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}
	if raw := c.Query("is_bookmarked"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.Bookmarked = &v
		}
	}
	if raw := c.Query("is_favourite"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.Favourite = &v
		}
	}
	return filter
}

// ListBookmarked godoc
// GET /api/v1/notes/bookmarked
func (h *NoteHandler) ListBookmarked(c *gin.Context) {
	claims := middleware.GetClaims(c)
	yes := true
	h.respondList(c, repository.NoteFilter{UserID: claims.UserID, Bookmarked: &yes})
}

// ListFavourites godoc
// GET /api/v1/notes/favourites
func (h *NoteHandler) ListFavourites(c *gin.Context) {
	claims := middleware.GetClaims(c)
	yes := true
	h.respondList(c, repository.NoteFilter{UserID: claims.UserID, Favourite: &yes})
}

// ListByReference godoc
// GET /api/v1/notes/reference/:type/:id
// Returns notes attached to one referenced resource.
func (h *NoteHandler) ListByReference(c *gin.Context) {
	claims := middleware.GetClaims(c)
	h.respondList(c, repository.NoteFilter{
		UserID:        claims.UserID,
		ReferenceType: c.Param("type"),
		ReferenceID:   c.Param("id"),
	})
}

// ListTags godoc
// GET /api/v1/notes/tags
// Returns the distinct tags across the caller's active notes.
func (h *NoteHandler) ListTags(c *gin.Context) {
	claims := middleware.GetClaims(c)

	tags, err := h.noteService.ListTags(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tags": tags})
}

// Get godoc
// GET /api/v1/notes/:id
func (h *NoteHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	note, err := h.noteService.Get(c.Request.Context(), claims.UserID, id)
	if err != nil {
		h.failNote(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"note": note})
}

// Create godoc
// POST /api/v1/notes
func (h *NoteHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateNoteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	note, err := h.noteService.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"note": note})
}

// Update godoc
// PUT /api/v1/notes/:id
// Applies a partial edit; omitted fields keep their stored values.
func (h *NoteHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateNoteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	note, err := h.noteService.Update(c.Request.Context(), claims.UserID, id, req)
	if err != nil {
		h.failNote(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"note": note})
}

// ToggleBookmark godoc
// PUT /api/v1/notes/:id/bookmark
func (h *NoteHandler) ToggleBookmark(c *gin.Context) {
	h.toggle(c, h.noteService.ToggleBookmark)
}

// ToggleFavourite godoc
// PUT /api/v1/notes/:id/favourite
func (h *NoteHandler) ToggleFavourite(c *gin.Context) {
	h.toggle(c, h.noteService.ToggleFavourite)
}

// Delete godoc
// DELETE /api/v1/notes/:id
// Deactivates the note. The record survives in storage but disappears from
// every read path.
func (h *NoteHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	if err := h.noteService.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		h.failNote(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func (h *NoteHandler) respondList(c *gin.Context, filter repository.NoteFilter) {
	notes, err := h.noteService.List(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notes": notes})
}

func (h *NoteHandler) toggle(c *gin.Context, fn func(ctx context.Context, userID int, id uuid.UUID) (*model.Note, error)) {
	claims := middleware.GetClaims(c)

	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	note, err := fn(c.Request.Context(), claims.UserID, id)
	if err != nil {
		h.failNote(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"note": note})
}

func (h *NoteHandler) failNote(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoteNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

func parseUUIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
