package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lexprep/lexprep-backend/internal/model"
	"github.com/lexprep/lexprep-backend/internal/repository"
	"github.com/rs/zerolog"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteService handles user annotations. Every operation is scoped to the
// calling user; a note never leaks across accounts. Deleted notes are only
// deactivated and vanish from every read path.
type NoteService struct {
	noteRepo *repository.NoteRepository
	log      zerolog.Logger
}

// NewNoteService creates a new NoteService.
func NewNoteService(noteRepo *repository.NoteRepository, log zerolog.Logger) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		log:      log.With().Str("component", "note_service").Logger(),
	}
}

// List returns the user's active notes, newest first, narrowed by filter.
func (s *NoteService) List(ctx context.Context, f repository.NoteFilter) ([]model.Note, error) {
	notes, err := s.noteRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Get returns one active note owned by the user.
func (s *NoteService) Get(ctx context.Context, userID int, id uuid.UUID) (*model.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, repository.NoteFilter{UserID: userID}, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// ListTags returns the distinct tags across the user's active notes.
func (s *NoteService) ListTags(ctx context.Context, userID int) ([]string, error) {
	tags, err := s.noteRepo.ListTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Create stores a new note for the user.
func (s *NoteService) Create(ctx context.Context, userID int, req model.CreateNoteRequest) (*model.Note, error) {
	note := &model.Note{
		UserID:        userID,
		Title:         req.Title,
		Content:       req.Content,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		ReferenceMeta: req.ReferenceMeta,
		Tags:          req.Tags,
		IsActive:      true,
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// Update applies a partial edit to an active note the user owns. Omitted
// fields keep their stored values.
func (s *NoteService) Update(ctx context.Context, userID int, id uuid.UUID, req model.UpdateNoteRequest) (*model.Note, error) {
	note, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		note.Title = req.Title
	}
	if req.Content != "" {
		note.Content = req.Content
	}
	if req.ReferenceType != nil {
		note.ReferenceType = *req.ReferenceType
	}
	if req.ReferenceID != nil {
		note.ReferenceID = *req.ReferenceID
	}
	if req.ReferenceMeta != nil {
		note.ReferenceMeta = req.ReferenceMeta
	}
	if req.Tags != nil {
		note.Tags = *req.Tags
	}

	updated, err := s.noteRepo.Update(ctx, note)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("update note: %w", err)
	}
	return updated, nil
}

// ToggleBookmark flips the bookmark flag on an active note the user owns.
func (s *NoteService) ToggleBookmark(ctx context.Context, userID int, id uuid.UUID) (*model.Note, error) {
	note, err := s.noteRepo.ToggleBookmark(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("toggle bookmark: %w", err)
	}
	return note, nil
}

// ToggleFavourite flips the favourite flag on an active note the user owns.
func (s *NoteService) ToggleFavourite(ctx context.Context, userID int, id uuid.UUID) (*model.Note, error) {
	note, err := s.noteRepo.ToggleFavourite(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("toggle favourite: %w", err)
	}
	return note, nil
}

// Delete deactivates a note. Re-deleting an already deleted note reports not
// found, same as a note that never existed.
func (s *NoteService) Delete(ctx context.Context, userID int, id uuid.UUID) error {
	if err := s.noteRepo.SoftDelete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
