package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Note is a user annotation attached to some other resource (a PDF, an audio
// lecture, a quiz) via a polymorphic type+id reference. Deleting a note only
// clears its active flag; the row stays in storage.
type Note struct {
	ID            uuid.UUID       `json:"id"`
	UserID        int             `json:"user_id"`
	Title         string          `json:"title"`
	Content       string          `json:"content"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ReferenceMeta json.RawMessage `json:"reference_meta,omitempty"`
	Tags          []string        `json:"tags"`
	IsBookmarked  bool            `json:"is_bookmarked"`
	IsFavourite   bool            `json:"is_favourite"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateNoteRequest is the payload for creating a note.
type CreateNoteRequest struct {
	Title         string          `json:"title" binding:"required,min=1,max=255"`
	Content       string          `json:"content" binding:"required,min=1"`
	ReferenceType string          `json:"reference_type" binding:"omitempty,max=50"`
	ReferenceID   string          `json:"reference_id" binding:"omitempty,max=100"`
	ReferenceMeta json.RawMessage `json:"reference_meta" binding:"omitempty"`
	Tags          []string        `json:"tags" binding:"omitempty,max=20,dive,min=1,max=50"`
}

// UpdateNoteRequest is the payload for a full or partial note update.
type UpdateNoteRequest struct {
	Title         string          `json:"title" binding:"omitempty,min=1,max=255"`
	Content       string          `json:"content" binding:"omitempty,min=1"`
	ReferenceType *string         `json:"reference_type" binding:"omitempty,max=50"`
	ReferenceID   *string         `json:"reference_id" binding:"omitempty,max=100"`
	ReferenceMeta json.RawMessage `json:"reference_meta" binding:"omitempty"`
	Tags          *[]string       `json:"tags" binding:"omitempty,max=20,dive,min=1,max=50"`
}
