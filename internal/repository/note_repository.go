package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexprep/lexprep-backend/internal/model"
)

const noteColumns = `id, user_id, title, content, reference_type, reference_id, reference_meta,
	tags, is_bookmarked, is_favourite, is_active, created_at, updated_at`

// NoteRepository handles note data access. Notes are soft-deleted: reads go
// through NoteFilter, which applies the is_active predicate by default.
type NoteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

// List retrieves notes matching the filter, newest first.
func (r *NoteRepository) List(ctx context.Context, f NoteFilter) ([]model.Note, error) {
	where, args := f.whereClause()
	rows, err := r.pool.Query(ctx,
		`SELECT `+noteColumns+` FROM notes `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// GetByID retrieves one active note owned by the filter's user.
func (r *NoteRepository) GetByID(ctx context.Context, f NoteFilter, id uuid.UUID) (*model.Note, error) {
	where, args := f.whereClause()
	args = append(args, id)
	row := r.pool.QueryRow(ctx,
		`SELECT `+noteColumns+` FROM notes `+where+
			` AND id = $`+strconv.Itoa(len(args)), args...)
	n, err := scanNote(row)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListTags returns the distinct tags across a user's active notes.
func (r *NoteRepository) ListTags(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT unnest(tags) AS tag FROM notes
		 WHERE user_id = $1 AND is_active = TRUE
		 ORDER BY tag`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Create inserts a new note and fills in generated fields.
func (r *NoteRepository) Create(ctx context.Context, n *model.Note) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO notes (user_id, title, content, reference_type, reference_id, reference_meta, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, is_bookmarked, is_favourite, is_active, created_at, updated_at`,
		n.UserID, n.Title, n.Content, n.ReferenceType, n.ReferenceID, n.ReferenceMeta, n.Tags,
	).Scan(&n.ID, &n.IsBookmarked, &n.IsFavourite, &n.IsActive, &n.CreatedAt, &n.UpdatedAt)
}

// Update rewrites a note's mutable fields. Only active notes owned by the
// user are touched; the returned note reflects the stored row.
func (r *NoteRepository) Update(ctx context.Context, n *model.Note) (*model.Note, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE notes
		 SET title = $3, content = $4, reference_type = $5, reference_id = $6,
		     reference_meta = $7, tags = $8, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND is_active = TRUE
		 RETURNING `+noteColumns,
		n.ID, n.UserID, n.Title, n.Content, n.ReferenceType, n.ReferenceID, n.ReferenceMeta, n.Tags,
	)
	updated, err := scanNote(row)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ToggleBookmark flips only the bookmark flag and returns the stored note.
func (r *NoteRepository) ToggleBookmark(ctx context.Context, userID int, id uuid.UUID) (*model.Note, error) {
	return r.toggleFlag(ctx, userID, id, "is_bookmarked")
}

// ToggleFavourite flips only the favourite flag and returns the stored note.
func (r *NoteRepository) ToggleFavourite(ctx context.Context, userID int, id uuid.UUID) (*model.Note, error) {
	return r.toggleFlag(ctx, userID, id, "is_favourite")
}

func (r *NoteRepository) toggleFlag(ctx context.Context, userID int, id uuid.UUID, column string) (*model.Note, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE notes SET `+column+` = NOT `+column+`, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND is_active = TRUE
		 RETURNING `+noteColumns,
		id, userID,
	)
	n, err := scanNote(row)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// SoftDelete clears the active flag. The row stays in storage and disappears
// from all filtered read paths.
func (r *NoteRepository) SoftDelete(ctx context.Context, userID int, id uuid.UUID) error {
	var deleted uuid.UUID
	return r.pool.QueryRow(ctx,
		`UPDATE notes SET is_active = FALSE, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND is_active = TRUE
		 RETURNING id`,
		id, userID,
	).Scan(&deleted)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (model.Note, error) {
	var n model.Note
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.ReferenceType, &n.ReferenceID,
		&n.ReferenceMeta, &n.Tags, &n.IsBookmarked, &n.IsFavourite, &n.IsActive,
		&n.CreatedAt, &n.UpdatedAt)
	return n, err
}
