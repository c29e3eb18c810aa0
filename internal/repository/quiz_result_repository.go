package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexprep/lexprep-backend/internal/model"
)

// QuizResultRepository persists quiz submission outcomes. It is driven by the
// persist worker, not by request handlers.
type QuizResultRepository struct {
	pool *pgxpool.Pool
}

// NewQuizResultRepository creates a new QuizResultRepository.
func NewQuizResultRepository(pool *pgxpool.Pool) *QuizResultRepository {
	return &QuizResultRepository{pool: pool}
}

const insertResultSQL = `INSERT INTO quiz_results (user_id, quiz_id, score, correct, total_questions, answers)
	VALUES ($1, $2, $3, $4, $5, $6)`

// Insert writes a single result row.
func (r *QuizResultRepository) Insert(ctx context.Context, res *model.QuizResult) error {
	_, err := r.pool.Exec(ctx, insertResultSQL,
		res.UserID, res.QuizID, res.Score, res.Correct, res.TotalQuestions, res.Answers)
	return err
}

// InsertBatch writes a batch of result rows in one round trip.
func (r *QuizResultRepository) InsertBatch(ctx context.Context, results []*model.QuizResult) error {
	batch := &pgx.Batch{}
	for _, res := range results {
		batch.Queue(insertResultSQL,
			res.UserID, res.QuizID, res.Score, res.Correct, res.TotalQuestions, res.Answers)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range results {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListByUser retrieves a user's results, newest first.
func (r *QuizResultRepository) ListByUser(ctx context.Context, userID int) ([]model.QuizResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, quiz_id, score, correct, total_questions, answers, created_at
		 FROM quiz_results WHERE user_id = $1
		 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.QuizResult
	for rows.Next() {
		var res model.QuizResult
		if err := rows.Scan(&res.ID, &res.UserID, &res.QuizID, &res.Score, &res.Correct,
			&res.TotalQuestions, &res.Answers, &res.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
