package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizType is an optional tag distinguishing question-paper styles.
type QuizType string

const (
	QuizTypePreviousYear QuizType = "PREVIOUS_YEAR"
	QuizTypeMockTest     QuizType = "MOCK_TEST"
)

// Quiz represents an authored quiz. The published flag gates visibility to
// learners; unpublished quizzes are reachable only through the admin panel.
type Quiz struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Topic       string         `json:"topic"`
	QuizType    *QuizType      `json:"quiz_type,omitempty"`
	Description string         `json:"description"`
	Published   bool           `json:"published"`
	AuthorID    int            `json:"author_id"`
	Questions   []QuizQuestion `json:"questions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// QuizQuestion is a single multiple-choice question.
// Invariant: 0 <= CorrectOption < len(Options).
type QuizQuestion struct {
	ID            uuid.UUID `json:"id"`
	QuizID        uuid.UUID `json:"quiz_id"`
	QuestionText  string    `json:"question_text"`
	Options       []string  `json:"options"`
	CorrectOption int       `json:"correct_option"`
	Explanation   string    `json:"explanation,omitempty"`
	OrderNum      int       `json:"order_num"`
}

// QuizPayload is the Redis-cached quiz sent to learners (no correct answers).
type QuizPayload struct {
	QuizID      uuid.UUID          `json:"quiz_id"`
	Title       string             `json:"title"`
	Topic       string             `json:"topic"`
	QuizType    *QuizType          `json:"quiz_type,omitempty"`
	Description string             `json:"description"`
	Questions   []QuestionForTaker `json:"questions"`
}

// QuestionForTaker is a question without the correct answer or explanation.
type QuestionForTaker struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	Options      []string  `json:"options"`
	OrderNum     int       `json:"order_num"`
}

// CreateQuizRequest is the payload for authoring a new quiz.
type CreateQuizRequest struct {
	Title       string                `json:"title" binding:"required,min=3,max=255"`
	Topic       string                `json:"topic" binding:"required,min=2,max=255"`
	QuizType    string                `json:"quiz_type" binding:"omitempty,oneof=PREVIOUS_YEAR MOCK_TEST"`
	Description string                `json:"description" binding:"max=2000"`
	Questions   []QuizQuestionRequest `json:"questions" binding:"omitempty,dive"`
}

// UpdateQuizRequest is the payload for editing an existing quiz. A non-nil
// Questions slice replaces the full question set.
type UpdateQuizRequest struct {
	Title       string                 `json:"title" binding:"omitempty,min=3,max=255"`
	Topic       string                 `json:"topic" binding:"omitempty,min=2,max=255"`
	QuizType    string                 `json:"quiz_type" binding:"omitempty,oneof=PREVIOUS_YEAR MOCK_TEST"`
	Description *string                `json:"description" binding:"omitempty,max=2000"`
	Questions   *[]QuizQuestionRequest `json:"questions" binding:"omitempty,dive"`
}

// QuizQuestionRequest is a question as submitted by the authoring form.
type QuizQuestionRequest struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,min=2,max=8,dive,required,max=500"`
	CorrectOption int      `json:"correct_option" binding:"min=0"`
	Explanation   string   `json:"explanation" binding:"max=2000"`
}

// SubmitQuizRequest carries the full answer vector, one selected option index
// per question in question order.
type SubmitQuizRequest struct {
	Answers []int `json:"answers" binding:"required,min=1,dive,min=0"`
}

// SubmitQuizResult is the transient scoring outcome returned to the caller.
type SubmitQuizResult struct {
	QuizID         uuid.UUID        `json:"quiz_id"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Correct        int              `json:"correct"`
	Results        []QuestionResult `json:"results"`
}

// QuestionResult reveals the correct option and explanation for one question
// after submission.
type QuestionResult struct {
	QuestionID    uuid.UUID `json:"question_id"`
	Selected      int       `json:"selected"`
	CorrectOption int       `json:"correct_option"`
	IsCorrect     bool      `json:"is_correct"`
	Explanation   string    `json:"explanation,omitempty"`
}

// GenerateQuizRequest is the payload for AI quiz generation.
type GenerateQuizRequest struct {
	Topic string `json:"topic" binding:"required,min=2,max=255"`
	Count int    `json:"count" binding:"required,min=1,max=30"`
}
