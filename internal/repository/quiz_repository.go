package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexprep/lexprep-backend/internal/model"
)

// QuizRepository handles quiz and question data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// List retrieves quizzes without their questions, newest first. When
// publishedOnly is set, drafts are excluded; quizType narrows by type tag.
func (r *QuizRepository) List(ctx context.Context, publishedOnly bool, quizType *model.QuizType) ([]model.Quiz, error) {
	query := `SELECT id, title, topic, quiz_type, description, published, author_id, created_at, updated_at
	          FROM quizzes`
	var conds []string
	var args []interface{}
	if publishedOnly {
		conds = append(conds, "published = TRUE")
	}
	if quizType != nil {
		args = append(args, *quizType)
		conds = append(conds, fmt.Sprintf("quiz_type = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Topic, &q.QuizType, &q.Description, &q.Published, &q.AuthorID, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// GetByID retrieves a single quiz without its questions.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	var q model.Quiz
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, topic, quiz_type, description, published, author_id, created_at, updated_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.Title, &q.Topic, &q.QuizType, &q.Description, &q.Published, &q.AuthorID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListQuestions retrieves all questions for a quiz, ordered by order_num.
func (r *QuizRepository) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]model.QuizQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, question_text, options, correct_option, explanation, order_num
		 FROM quiz_questions WHERE quiz_id = $1
		 ORDER BY order_num`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.QuizQuestion
	for rows.Next() {
		var q model.QuizQuestion
		if err := rows.Scan(&q.ID, &q.QuizID, &q.QuestionText, &q.Options, &q.CorrectOption, &q.Explanation, &q.OrderNum); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Create inserts a new quiz together with its question set.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO quizzes (title, topic, quiz_type, description, published, author_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		q.Title, q.Topic, q.QuizType, q.Description, q.Published, q.AuthorID,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range q.Questions {
		q.Questions[i].QuizID = q.ID
		q.Questions[i].OrderNum = i
		err = tx.QueryRow(ctx,
			`INSERT INTO quiz_questions (quiz_id, question_text, options, correct_option, explanation, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			q.ID, q.Questions[i].QuestionText, q.Questions[i].Options,
			q.Questions[i].CorrectOption, q.Questions[i].Explanation, i,
		).Scan(&q.Questions[i].ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Update rewrites a quiz's metadata. Questions are replaced separately.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes
		 SET title = $2, topic = $3, quiz_type = $4, description = $5, updated_at = NOW()
		 WHERE id = $1`,
		q.ID, q.Title, q.Topic, q.QuizType, q.Description,
	)
	return err
}

// ReplaceQuestions swaps the full question set of a quiz in one transaction.
func (r *QuizRepository) ReplaceQuestions(ctx context.Context, quizID uuid.UUID, questions []model.QuizQuestion) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM quiz_questions WHERE quiz_id = $1`, quizID); err != nil {
		return err
	}

	for i := range questions {
		questions[i].QuizID = quizID
		questions[i].OrderNum = i
		err = tx.QueryRow(ctx,
			`INSERT INTO quiz_questions (quiz_id, question_text, options, correct_option, explanation, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			quizID, questions[i].QuestionText, questions[i].Options,
			questions[i].CorrectOption, questions[i].Explanation, i,
		).Scan(&questions[i].ID)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE quizzes SET updated_at = NOW() WHERE id = $1`, quizID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetPublished flips the published gate.
func (r *QuizRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET published = $2, updated_at = NOW() WHERE id = $1`,
		id, published,
	)
	return err
}

// Delete removes a quiz; questions cascade at the schema level.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}
