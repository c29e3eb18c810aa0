package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lexprep/lexprep-backend/internal/config"
	"github.com/lexprep/lexprep-backend/internal/handler"
	"github.com/lexprep/lexprep-backend/internal/middleware"
	"github.com/lexprep/lexprep-backend/internal/response"
	"github.com/lexprep/lexprep-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	AnswerCheck *handler.AnswerCheckHandler
	Note        *handler.NoteHandler
	Quiz        *handler.QuizHandler
	QuizAdmin   *handler.QuizAdminHandler
	Media       *handler.MediaHandler
	WS          *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded media files statically with aggressive caching (1 year).
	// Answer sheets live outside this subtree and are never served.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/media", cfg.UploadDir+"/media")
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireUserJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. User Group (JWT + Session) ─────────────────────────────────
	userAPI := router.Group("/api/v1")
	userAPI.Use(
		middleware.RequireUserJWT(authService),
		middleware.CheckSession(authService),
	)
	{
		userAPI.POST("/answer-check/check", handlers.AnswerCheck.Check)
		userAPI.GET("/answer-check/history", handlers.AnswerCheck.History)
		userAPI.GET("/answer-check/:id", handlers.AnswerCheck.Get)

		// Static note routes are registered before the :id route so Gin
		// resolves them first.
		userAPI.GET("/notes", handlers.Note.List)
		userAPI.GET("/notes/bookmarked", handlers.Note.ListBookmarked)
		userAPI.GET("/notes/favourites", handlers.Note.ListFavourites)
		userAPI.GET("/notes/tags", handlers.Note.ListTags)
		userAPI.GET("/notes/reference/:type/:id", handlers.Note.ListByReference)
		userAPI.GET("/notes/:id", handlers.Note.Get)
		userAPI.POST("/notes", handlers.Note.Create)
		userAPI.PUT("/notes/:id", handlers.Note.Update)
		userAPI.PUT("/notes/:id/bookmark", handlers.Note.ToggleBookmark)
		userAPI.PUT("/notes/:id/favourite", handlers.Note.ToggleFavourite)
		userAPI.DELETE("/notes/:id", handlers.Note.Delete)

		userAPI.GET("/quizzes", handlers.Quiz.List)
		userAPI.GET("/quizzes/results", handlers.Quiz.Results)
		userAPI.GET("/quizzes/:id", handlers.Quiz.Get)
		userAPI.POST("/quizzes/:id/submit", handlers.Quiz.Submit)
	}

	// ─── 3. WebSocket Group (WS Auth via query token) ──────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/quizzes/:id/attempt", handlers.WS.QuizAttempt)
	}

	// ─── 4. Admin Group (Admin JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.POST("/media/upload", handlers.Media.Upload)

		adminAPI.GET("/quizzes", handlers.QuizAdmin.List)
		adminAPI.GET("/quizzes/:id", handlers.QuizAdmin.Get)
		adminAPI.POST("/quizzes", handlers.QuizAdmin.Create)
		adminAPI.PUT("/quizzes/:id", handlers.QuizAdmin.Update)
		adminAPI.POST("/quizzes/:id/publish", handlers.QuizAdmin.Publish)
		adminAPI.DELETE("/quizzes/:id", handlers.QuizAdmin.Delete)
	}

	// ─── 5. AI Authoring Group (Admin JWT) ─────────────────────────────
	aiAPI := router.Group("/api/v1/ai")
	aiAPI.Use(middleware.RequireAdminJWT(authService))
	{
		aiAPI.POST("/quizzes/generate", handlers.QuizAdmin.Generate)
	}

	return router
}
