package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizResult is the persisted outcome of one quiz submission. Rows are written
// asynchronously by the persist worker; the scoring response never waits on
// this insert.
type QuizResult struct {
	ID             uuid.UUID `json:"id"`
	UserID         int       `json:"user_id"`
	QuizID         uuid.UUID `json:"quiz_id"`
	Score          int       `json:"score"`
	Correct        int       `json:"correct"`
	TotalQuestions int       `json:"total_questions"`
	Answers        []int     `json:"answers"`
	CreatedAt      time.Time `json:"created_at"`
}
