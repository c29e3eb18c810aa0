package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexprep/lexprep-backend/internal/ai"
	"github.com/lexprep/lexprep-backend/internal/config"
	"github.com/lexprep/lexprep-backend/internal/database"
	"github.com/lexprep/lexprep-backend/internal/handler"
	"github.com/lexprep/lexprep-backend/internal/logger"
	"github.com/lexprep/lexprep-backend/internal/repository"
	"github.com/lexprep/lexprep-backend/internal/router"
	"github.com/lexprep/lexprep-backend/internal/service"
	"github.com/lexprep/lexprep-backend/internal/validator"
	"github.com/lexprep/lexprep-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting LexPrep Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)
	checkRepo := repository.NewAnswerCheckRepository(pool)
	resultRepo := repository.NewQuizResultRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	aiClient := ai.NewClient(cfg.Gemini, log)
	if !aiClient.Configured() {
		log.Warn().Msg("GEMINI_API_KEY not set; AI endpoints will report unavailable")
	}

	authService := service.NewAuthService(cfg, userRepo, rdb)
	quizService := service.NewQuizService(quizRepo, resultRepo, aiClient, rdb, log)
	noteService := service.NewNoteService(noteRepo, log)
	mediaService, err := service.NewMediaService(cfg.UploadDir, cfg.MaxUploadBytes, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare upload directory")
	}
	checkService := service.NewAnswerCheckService(checkRepo, aiClient, mediaService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		AnswerCheck: handler.NewAnswerCheckHandler(checkService, cfg.MaxUploadBytes),
		Note:        handler.NewNoteHandler(noteService),
		Quiz:        handler.NewQuizHandler(quizService),
		QuizAdmin:   handler.NewQuizAdminHandler(quizService),
		Media:       handler.NewMediaHandler(mediaService),
		WS:          handler.NewWSHandler(quizService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	resultWorker := worker.NewResultWorker(resultRepo, rdb, log)
	go resultWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all published quizzes into Redis BEFORE accepting traffic.
	// This avoids race conditions from lazy loading under thundering herd.
	if err := quizService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
