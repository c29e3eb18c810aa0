package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lexprep/lexprep-backend/internal/config"
	"github.com/lexprep/lexprep-backend/internal/model"
	"github.com/lexprep/lexprep-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
)

// ResultWorker drains the quiz-result queue and persists submissions in
// batches. Scoring responses never wait on this path.
type ResultWorker struct {
	resultRepo *repository.QuizResultRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewResultWorker creates a new ResultWorker.
func NewResultWorker(resultRepo *repository.QuizResultRepository, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		resultRepo: resultRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "result_worker").Logger(),
	}
}

type resultPayload struct {
	UserID         int    `json:"user_id"`
	QuizID         string `json:"quiz_id"`
	Score          int    `json:"score"`
	Correct        int    `json:"correct"`
	TotalQuestions int    `json:"total_questions"`
	Answers        []int  `json:"answers"`
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]*resultPayload, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistQuizResultsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p resultPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert wrapper
// ----------------------------------------------------------------

func (w *ResultWorker) flushSafe(ctx context.Context, batch []*resultPayload) {
	if len(batch) == 0 {
		return
	}

	results := make([]*model.QuizResult, 0, len(batch))
	payloads := make([]*resultPayload, 0, len(batch))
	for _, p := range batch {
		res, err := p.toModel()
		if err != nil {
			// A malformed quiz ID can never succeed; drop it.
			w.log.Error().Err(err).Str("quiz_id", p.QuizID).Msg("Dropping unparseable result")
			continue
		}
		results = append(results, res)
		payloads = append(payloads, p)
	}
	if len(results) == 0 {
		return
	}

	if err := w.resultRepo.InsertBatch(ctx, results); err != nil {
		w.log.Warn().Err(err).Msg("Batch insert failed, using fallback")

		for i, res := range results {
			if err := w.resultRepo.Insert(ctx, res); err != nil {
				w.log.Error().Err(err).Msg("Single insert failed — requeueing")
				raw, _ := json.Marshal(payloads[i])
				w.rdb.RPush(ctx, config.WorkerKey.PersistQuizResultsQueue, raw)
			}
		}
		return
	}

	w.log.Debug().Int("count", len(results)).Msg("Results persisted")
}

func (p *resultPayload) toModel() (*model.QuizResult, error) {
	quizID, err := uuid.Parse(p.QuizID)
	if err != nil {
		return nil, err
	}
	return &model.QuizResult{
		UserID:         p.UserID,
		QuizID:         quizID,
		Score:          p.Score,
		Correct:        p.Correct,
		TotalQuestions: p.TotalQuestions,
		Answers:        p.Answers,
	}, nil
}
