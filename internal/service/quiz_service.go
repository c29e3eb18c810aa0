package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lexprep/lexprep-backend/internal/ai"
	"github.com/lexprep/lexprep-backend/internal/config"
	"github.com/lexprep/lexprep-backend/internal/model"
	"github.com/lexprep/lexprep-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Quiz service errors.
var (
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuizNotPublished    = errors.New("quiz is not published")
	ErrNoQuestions         = errors.New("quiz has no questions")
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
	ErrBadCorrectOption    = errors.New("correct option index out of range")
)

// QuizService handles quiz authoring, serving, and submission scoring.
// Published quiz payloads are cached in Redis so the serving path normally
// avoids Postgres entirely.
type QuizService struct {
	quizRepo   *repository.QuizRepository
	resultRepo *repository.QuizResultRepository
	aiClient   *ai.Client
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizRepo *repository.QuizRepository, resultRepo *repository.QuizResultRepository, aiClient *ai.Client, rdb *redis.Client, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizRepo:   quizRepo,
		resultRepo: resultRepo,
		aiClient:   aiClient,
		rdb:        rdb,
		log:        log.With().Str("component", "quiz_service").Logger(),
	}
}

// ListPublished returns published quizzes, optionally narrowed by type tag.
func (s *QuizService) ListPublished(ctx context.Context, quizType *model.QuizType) ([]model.Quiz, error) {
	return s.quizRepo.List(ctx, true, quizType)
}

// ListAll returns every quiz, drafts included. Admin only.
func (s *QuizService) ListAll(ctx context.Context) ([]model.Quiz, error) {
	return s.quizRepo.List(ctx, false, nil)
}

// GetPayload returns the learner-facing quiz payload (no correct answers),
// from Redis when cached.
func (s *QuizService) GetPayload(ctx context.Context, id uuid.UUID) (*model.QuizPayload, error) {
	cacheKey := config.CacheKey.QuizPayloadKey(id.String())

	cached, err := s.rdb.Get(ctx, cacheKey).Result()
	if err == nil {
		var payload model.QuizPayload
		if err := json.Unmarshal([]byte(cached), &payload); err == nil {
			return &payload, nil
		}
		// Corrupt cache entry — fall through to rebuild.
		s.rdb.Del(ctx, cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Quiz cache read failed, falling back to database")
	}

	payload, err := s.buildPayload(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(payload); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, raw, 0).Err(); err != nil {
			s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Quiz cache write failed")
		}
	}
	return payload, nil
}

// GetForAdmin returns a quiz with its full question set, answers included.
func (s *QuizService) GetForAdmin(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	questions, err := s.quizRepo.ListQuestions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	quiz.Questions = questions
	return quiz, nil
}

// Create authors a new draft quiz.
func (s *QuizService) Create(ctx context.Context, authorID int, req model.CreateQuizRequest) (*model.Quiz, error) {
	questions, err := questionsFromRequest(req.Questions)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		Title:       req.Title,
		Topic:       req.Topic,
		QuizType:    quizTypeFromString(req.QuizType),
		Description: req.Description,
		Published:   false,
		AuthorID:    authorID,
		Questions:   questions,
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

// Update edits quiz metadata and, when a question set is supplied, replaces
// all questions. The serving cache is invalidated.
func (s *QuizService) Update(ctx context.Context, id uuid.UUID, req model.UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Topic != "" {
		quiz.Topic = req.Topic
	}
	if req.QuizType != "" {
		quiz.QuizType = quizTypeFromString(req.QuizType)
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}

	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return nil, fmt.Errorf("update quiz: %w", err)
	}

	if req.Questions != nil {
		questions, err := questionsFromRequest(*req.Questions)
		if err != nil {
			return nil, err
		}
		if err := s.quizRepo.ReplaceQuestions(ctx, id, questions); err != nil {
			return nil, fmt.Errorf("replace questions: %w", err)
		}
	}

	s.invalidateCache(ctx, id)
	return s.GetForAdmin(ctx, id)
}

// Publish opens a quiz to learners and warms its serving cache. Publishing a
// quiz without questions is rejected.
func (s *QuizService) Publish(ctx context.Context, id uuid.UUID) error {
	questions, err := s.quizRepo.ListQuestions(ctx, id)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	if err := s.quizRepo.SetPublished(ctx, id, true); err != nil {
		return fmt.Errorf("publish quiz: %w", err)
	}

	s.invalidateCache(ctx, id)
	if _, err := s.GetPayload(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Cache warm after publish failed")
	}
	return nil
}

// Delete removes a quiz and its cache entry.
func (s *QuizService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.quizRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("get quiz: %w", err)
	}
	if err := s.quizRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

// Submit scores a full answer vector against a published quiz. The scoring
// result is returned synchronously; the persisted record is queued for the
// persist worker so a slow insert never delays the response.
func (s *QuizService) Submit(ctx context.Context, userID int, quizID uuid.UUID, answers []int) (*model.SubmitQuizResult, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if !quiz.Published {
		return nil, ErrQuizNotPublished
	}

	questions, err := s.quizRepo.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if len(answers) != len(questions) {
		return nil, ErrAnswerCountMismatch
	}

	result := scoreSubmission(quizID, questions, answers)
	s.enqueueResult(ctx, userID, result, answers)
	return result, nil
}

// Results returns the caller's persisted submission history, newest first.
// Submissions land here through the persist worker, so a result scored a
// moment ago may not be visible yet.
func (s *QuizService) Results(ctx context.Context, userID int) ([]model.QuizResult, error) {
	results, err := s.resultRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	if results == nil {
		results = []model.QuizResult{}
	}
	return results, nil
}

// PrewarmAllCaches loads every published quiz payload into Redis. Called
// before the server accepts traffic to avoid lazy-load stampedes.
func (s *QuizService) PrewarmAllCaches(ctx context.Context) error {
	quizzes, err := s.quizRepo.List(ctx, true, nil)
	if err != nil {
		return fmt.Errorf("list published quizzes: %w", err)
	}

	for _, quiz := range quizzes {
		if _, err := s.GetPayload(ctx, quiz.ID); err != nil {
			s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("Prewarm failed for quiz")
		}
	}

	s.log.Info().Int("count", len(quizzes)).Msg("Quiz caches prewarmed")
	return nil
}

// Generate asks the AI to author a quiz on a topic and stores it as a draft.
func (s *QuizService) Generate(ctx context.Context, authorID int, req model.GenerateQuizRequest) (*model.Quiz, error) {
	raw, err := s.aiClient.GenerateContent(ctx, ai.BuildQuizGenerationParts(req.Topic, req.Count))
	if err != nil {
		return nil, err
	}

	generated, err := ai.ParseGeneratedQuiz(raw)
	if err != nil {
		return nil, err
	}

	questions := make([]model.QuizQuestion, len(generated.Questions))
	for i, q := range generated.Questions {
		questions[i] = model.QuizQuestion{
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Explanation:   q.Explanation,
			OrderNum:      i,
		}
	}

	title := generated.Title
	if title == "" {
		title = req.Topic
	}

	mockTest := model.QuizTypeMockTest
	quiz := &model.Quiz{
		Title:       title,
		Topic:       req.Topic,
		QuizType:    &mockTest,
		Description: fmt.Sprintf("AI-generated quiz on %s.", req.Topic),
		Published:   false,
		AuthorID:    authorID,
		Questions:   questions,
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("store generated quiz: %w", err)
	}

	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Int("questions", len(questions)).
		Msg("AI quiz generated")
	return quiz, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

// scoreSubmission computes the transient scoring result for one submission.
func scoreSubmission(quizID uuid.UUID, questions []model.QuizQuestion, answers []int) *model.SubmitQuizResult {
	result := &model.SubmitQuizResult{
		QuizID:         quizID,
		TotalQuestions: len(questions),
		Results:        make([]model.QuestionResult, len(questions)),
	}

	for i, q := range questions {
		correct := answers[i] == q.CorrectOption
		if correct {
			result.Correct++
		}
		result.Results[i] = model.QuestionResult{
			QuestionID:    q.ID,
			Selected:      answers[i],
			CorrectOption: q.CorrectOption,
			IsCorrect:     correct,
			Explanation:   q.Explanation,
		}
	}

	result.Score = result.Correct
	return result
}

// resultQueuePayload is the wire format pushed onto the persist queue.
type resultQueuePayload struct {
	UserID         int    `json:"user_id"`
	QuizID         string `json:"quiz_id"`
	Score          int    `json:"score"`
	Correct        int    `json:"correct"`
	TotalQuestions int    `json:"total_questions"`
	Answers        []int  `json:"answers"`
}

// enqueueResult pushes the result onto the persist queue. Failure to enqueue
// is logged but never fails the submission: the scoring result is transient
// by contract and persistence is best-effort.
func (s *QuizService) enqueueResult(ctx context.Context, userID int, result *model.SubmitQuizResult, answers []int) {
	raw, err := json.Marshal(resultQueuePayload{
		UserID:         userID,
		QuizID:         result.QuizID.String(),
		Score:          result.Score,
		Correct:        result.Correct,
		TotalQuestions: result.TotalQuestions,
		Answers:        answers,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal result payload failed")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistQuizResultsQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Msg("Enqueue quiz result failed")
	}
}

func (s *QuizService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if err := s.rdb.Del(ctx, config.CacheKey.QuizPayloadKey(id.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Cache invalidation failed")
	}
}

func (s *QuizService) buildPayload(ctx context.Context, id uuid.UUID) (*model.QuizPayload, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if !quiz.Published {
		return nil, ErrQuizNotPublished
	}

	questions, err := s.quizRepo.ListQuestions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	payload := &model.QuizPayload{
		QuizID:      quiz.ID,
		Title:       quiz.Title,
		Topic:       quiz.Topic,
		QuizType:    quiz.QuizType,
		Description: quiz.Description,
		Questions:   make([]model.QuestionForTaker, len(questions)),
	}
	for i, q := range questions {
		payload.Questions[i] = model.QuestionForTaker{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Options:      q.Options,
			OrderNum:     q.OrderNum,
		}
	}
	return payload, nil
}

func questionsFromRequest(reqs []model.QuizQuestionRequest) ([]model.QuizQuestion, error) {
	questions := make([]model.QuizQuestion, len(reqs))
	for i, q := range reqs {
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return nil, fmt.Errorf("%w: question %d", ErrBadCorrectOption, i)
		}
		questions[i] = model.QuizQuestion{
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Explanation:   q.Explanation,
			OrderNum:      i,
		}
	}
	return questions, nil
}

func quizTypeFromString(s string) *model.QuizType {
	if s == "" {
		return nil
	}
	t := model.QuizType(s)
	return &t
}
