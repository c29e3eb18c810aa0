package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexprep/lexprep-backend/internal/model"
)

// AnswerCheckRepository handles persisted evaluation outcomes. Records are
// write-once: there is no update path.
type AnswerCheckRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerCheckRepository creates a new AnswerCheckRepository.
func NewAnswerCheckRepository(pool *pgxpool.Pool) *AnswerCheckRepository {
	return &AnswerCheckRepository{pool: pool}
}

// Create inserts a new evaluation record.
func (r *AnswerCheckRepository) Create(ctx context.Context, a *model.AnswerCheck) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO answer_checks
		 (user_id, question, total_marks, scored_marks, percentage, feedback, suggestions,
		  file_name, mime_type, file_path, grading_criteria)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		a.UserID, a.Question, a.TotalMarks, a.ScoredMarks, a.Percentage, a.Feedback,
		a.Suggestions, a.FileName, a.MimeType, a.FilePath, a.GradingCriteria,
	).Scan(&a.ID, &a.CreatedAt)
}

// ListByUser retrieves a page of a user's records, newest first.
func (r *AnswerCheckRepository) ListByUser(ctx context.Context, userID, limit, offset int) ([]model.AnswerCheck, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, question, total_marks, scored_marks, percentage, feedback,
		        suggestions, file_name, mime_type, file_path, grading_criteria, created_at
		 FROM answer_checks WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AnswerCheck
	for rows.Next() {
		var a model.AnswerCheck
		if err := rows.Scan(&a.ID, &a.UserID, &a.Question, &a.TotalMarks, &a.ScoredMarks,
			&a.Percentage, &a.Feedback, &a.Suggestions, &a.FileName, &a.MimeType,
			&a.FilePath, &a.GradingCriteria, &a.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// CountByUser returns the total number of a user's records.
func (r *AnswerCheckRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM answer_checks WHERE user_id = $1`, userID,
	).Scan(&count)
	return count, err
}

// GetByID retrieves one record owned by the given user.
func (r *AnswerCheckRepository) GetByID(ctx context.Context, userID int, id uuid.UUID) (*model.AnswerCheck, error) {
	var a model.AnswerCheck
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, question, total_marks, scored_marks, percentage, feedback,
		        suggestions, file_name, mime_type, file_path, grading_criteria, created_at
		 FROM answer_checks WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&a.ID, &a.UserID, &a.Question, &a.TotalMarks, &a.ScoredMarks, &a.Percentage,
		&a.Feedback, &a.Suggestions, &a.FileName, &a.MimeType, &a.FilePath,
		&a.GradingCriteria, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
