package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerCheck is a persisted AI evaluation outcome. Records are created once
// per evaluation request and never mutated.
// Invariant: 0 <= ScoredMarks <= TotalMarks; Percentage is derived from the
// clamped score, never taken from the AI response.
type AnswerCheck struct {
	ID              uuid.UUID `json:"id"`
	UserID          int       `json:"user_id"`
	Question        string    `json:"question"`
	TotalMarks      int       `json:"total_marks"`
	ScoredMarks     float64   `json:"scored_marks"`
	Percentage      int       `json:"percentage"`
	Feedback        string    `json:"feedback"`
	Suggestions     string    `json:"suggestions"`
	FileName        string    `json:"file_name"`
	MimeType        string    `json:"mime_type"`
	FilePath        string    `json:"-"` // Stored path is never returned to clients
	GradingCriteria string    `json:"grading_criteria,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// AnswerCheckRequest is the multipart form payload accompanying the uploaded
// answer file.
type AnswerCheckRequest struct {
	Question        string `form:"question" binding:"required,min=1,max=5000"`
	TotalMarks      int    `form:"totalMarks" binding:"required,min=1,max=100"`
	GradingCriteria string `form:"gradingCriteria" binding:"omitempty,max=5000"`
}
