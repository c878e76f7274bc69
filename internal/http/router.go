package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notehq/notehub/internal/auth"
	"github.com/notehq/notehub/internal/config"
	"github.com/notehq/notehub/internal/http/handlers"
	"github.com/notehq/notehub/internal/http/middlewares"
	"github.com/notehq/notehub/internal/observability"
	"github.com/notehq/notehub/internal/redisclient"
	"github.com/notehq/notehub/internal/repo/postgres"
	"github.com/notehq/notehub/internal/service"
	"github.com/notehq/notehub/internal/username"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter wires the whole request path: middleware stack, repositories,
// services and handlers. Everything is constructed here once at startup and
// passed down explicitly; there is no global container.
func NewRouter(log *slog.Logger, pool *pgxpool.Pool, redisClient *redisclient.Client, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	}

	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware("notehub"))
	}

	// own registry so repeated router construction (tests) never
	// double-registers collectors
	promReg := prometheus.NewRegistry()
	prom := observability.NewProm(promReg)
	r.Use(prom.GinHandleMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	// health

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// wire up repositories

	usersRepo := postgres.NewUsersRepo(pool, prom)
	notesRepo := postgres.NewNotesRepo(pool, prom)

	// wire up services

	jwtManager := auth.NewManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	usernameGen := username.NewGenerator(usersRepo)

	authService := service.NewAuthService(usersRepo, usernameGen, jwtManager)
	noteService := service.NewNoteService(notesRepo)

	// wire up handlers

	authHandler := handlers.NewAuthHandler(authService, jwtManager, cfg, prom)
	notesHandler := handlers.NewNotesHandler(noteService)

	authMW := middlewares.NewAuthMiddleware(jwtManager)

	// per-route rate limits; shared counters via redis when configured

	authLimiter := newRateLimiter(redisClient, cfg.AuthRateLimit, cfg.AuthRateWindow)
	noteLimiter := newRateLimiter(redisClient, cfg.NoteRateLimit, cfg.NoteRateWindow)

	authRoutes := r.Group("/auth", authLimiter.Middleware(middlewares.KeyByIP))
	{
		authRoutes.POST("/signup", authHandler.SignUp)
		authRoutes.POST("/signin", authHandler.SignIn)
		authRoutes.POST("/refresh-token", authHandler.Refresh)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	// guard first: the limiter keys on the authenticated user and only falls
	// back to IP for requests that never made it past the guard
	noteRoutes := r.Group("/notes",
		authMW.RequireAuth(),
		noteLimiter.Middleware(middlewares.KeyByUserOrIP),
	)
	{
		noteRoutes.POST("", notesHandler.CreateNote)
		noteRoutes.GET("", notesHandler.ListNotes)
		noteRoutes.GET("/search", notesHandler.SearchNotes)
		noteRoutes.GET("/:id", notesHandler.GetNote)
		noteRoutes.PUT("/:id", notesHandler.UpdateNote)
		noteRoutes.DELETE("/:id", notesHandler.DeleteNote)
	}

	return r
}

func newRateLimiter(redisClient *redisclient.Client, limit int, window time.Duration) *middlewares.RateLimiter {
	if redisClient != nil {
		return middlewares.NewRateLimiterWithStore(redisClient, limit, window)
	}

	return middlewares.NewRateLimiter(limit, window)
}
