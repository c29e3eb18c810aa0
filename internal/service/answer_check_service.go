package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lexprep/lexprep-backend/internal/ai"
	"github.com/lexprep/lexprep-backend/internal/model"
	"github.com/lexprep/lexprep-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Answer check service errors.
var (
	ErrAINotConfigured     = errors.New("AI evaluation is not configured")
	ErrAIUnavailable       = errors.New("AI evaluation is temporarily unavailable")
	ErrAnswerCheckNotFound = errors.New("answer check not found")
)

// AnswerCheckService evaluates uploaded answer sheets with the AI backend and
// keeps a per-user history of the outcomes. Parsing the AI response never
// fails: an unusable response degrades to a provisional score instead of an
// error, so a paying student always gets a result once the upload is accepted.
type AnswerCheckService struct {
	checkRepo *repository.AnswerCheckRepository
	aiClient  *ai.Client
	media     *MediaService
	log       zerolog.Logger
}

// NewAnswerCheckService creates a new AnswerCheckService.
func NewAnswerCheckService(checkRepo *repository.AnswerCheckRepository, aiClient *ai.Client, media *MediaService, log zerolog.Logger) *AnswerCheckService {
	return &AnswerCheckService{
		checkRepo: checkRepo,
		aiClient:  aiClient,
		media:     media,
		log:       log.With().Str("component", "answer_check_service").Logger(),
	}
}

// Check evaluates one uploaded answer against the question and persists the
// outcome. fileName and mimeType describe the upload as received; fileData is
// the raw file body.
func (s *AnswerCheckService) Check(ctx context.Context, userID int, req model.AnswerCheckRequest, fileName, mimeType string, fileData []byte) (*model.AnswerCheck, error) {
	if !s.aiClient.Configured() {
		return nil, ErrAINotConfigured
	}

	fc, err := ai.NormalizeFile(fileData, mimeType)
	if err != nil {
		return nil, err
	}

	parts := ai.BuildEvaluationParts(req.Question, req.TotalMarks, req.GradingCriteria, fc)
	raw, err := s.aiClient.GenerateContent(ctx, parts)
	if err != nil {
		s.log.Error().Err(err).Int("user_id", userID).Msg("AI evaluation call failed")
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	eval := ai.ParseEvaluation(raw, req.TotalMarks)

	filePath, err := s.media.SaveAnswerFile(fileData, fileName)
	if err != nil {
		// Evaluation succeeded; losing the audit copy should not discard it.
		s.log.Error().Err(err).Int("user_id", userID).Msg("Answer file save failed")
		filePath = ""
	}

	check := &model.AnswerCheck{
		UserID:          userID,
		Question:        req.Question,
		TotalMarks:      req.TotalMarks,
		ScoredMarks:     eval.ScoredMarks,
		Percentage:      eval.Percentage,
		Feedback:        eval.Feedback,
		Suggestions:     eval.Suggestions,
		FileName:        fileName,
		MimeType:        mimeType,
		FilePath:        filePath,
		GradingCriteria: req.GradingCriteria,
	}
	if err := s.checkRepo.Create(ctx, check); err != nil {
		return nil, fmt.Errorf("store answer check: %w", err)
	}

	s.log.Info().
		Int("user_id", userID).
		Str("check_id", check.ID.String()).
		Float64("scored", check.ScoredMarks).
		Int("total", check.TotalMarks).
		Msg("Answer evaluated")
	return check, nil
}

// History returns the user's evaluations, newest first, with the total count
// for pagination.
func (s *AnswerCheckService) History(ctx context.Context, userID, limit, offset int) ([]model.AnswerCheck, int, error) {
	checks, err := s.checkRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list answer checks: %w", err)
	}
	total, err := s.checkRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count answer checks: %w", err)
	}
	return checks, total, nil
}

// Get returns one evaluation owned by the user.
func (s *AnswerCheckService) Get(ctx context.Context, userID int, id uuid.UUID) (*model.AnswerCheck, error) {
	check, err := s.checkRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnswerCheckNotFound
		}
		return nil, fmt.Errorf("get answer check: %w", err)
	}
	return check, nil
}
