package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ripple/internal/cache"
	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo         repository.UserRepository
	postRepo         repository.PostRepository
	commentRepo      repository.CommentRepository
	followRepo       repository.FollowRepository
	messageRepo      repository.MessageRepository
	notificationRepo repository.NotificationRepository
	hashtagRepo      repository.HashtagRepository

	postService    *service.PostService
	commentService *service.CommentService
	messageService *service.MessageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   middleware.InitMetrics("ripple-api"),
		userRepo:         repository.NewUserRepository(db),
		postRepo:         repository.NewPostRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		followRepo:       repository.NewFollowRepository(db),
		messageRepo:      repository.NewMessageRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		hashtagRepo:      repository.NewHashtagRepository(db),
	}
	server.postService = service.NewPostService(server.postRepo)
	server.commentService = service.NewCommentService(server.commentRepo)
	server.messageService = service.NewMessageService(server.messageRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// OpenTelemetry spans per request
	app.Use(middleware.TracingMiddleware())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Ripple Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	optional := middleware.OptionalUser(s.config)
	protected := middleware.AuthRequired(s.config, s.redis)

	// Public post routes (feed/browse); liked annotation is viewer-scoped
	posts := api.Group("/posts")
	posts.Get("/", optional, s.GetPosts)
	posts.Get("/user/:userId", optional, s.GetUserPosts)
	posts.Post("/", protected, middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Delete("/:postId", protected, s.DeletePost)
	posts.Get("/:postId", optional, s.GetPost)

	// Comment routes
	comments := api.Group("/comments")
	comments.Get("/post/:postId", s.GetComments)
	comments.Post("/", protected, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	comments.Put("/:commentId", protected, s.UpdateComment)
	comments.Delete("/:commentId", protected, s.DeleteComment)

	// Like routes
	likes := api.Group("/likes", protected)
	likes.Post("/:postId", s.LikePost)
	likes.Delete("/:postId", s.UnlikePost)

	// Follow routes; specific /:userId/:resource routes before generic /:userId
	follows := api.Group("/follows", protected)
	follows.Get("/:userId/status", s.GetFollowStatus)
	follows.Get("/:userId/followers", s.GetFollowers)
	follows.Get("/:userId/following", s.GetFollowing)
	follows.Post("/:userId", s.FollowUser)
	follows.Delete("/:userId", s.UnfollowUser)

	// Block routes
	blocks := api.Group("/blocks", protected)
	blocks.Post("/:userId", s.BlockUser)
	blocks.Delete("/:userId", s.UnblockUser)

	// Message routes; specific routes before generic ones
	messages := api.Group("/messages", protected)
	messages.Get("/conversations", s.GetConversations)
	messages.Get("/unread/count", s.GetUnreadMessageCount)
	messages.Get("/chat/:otherUserId", s.GetChat)
	messages.Post("/", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_message"), s.SendMessage)

	// Notification routes
	notifications := api.Group("/notifications", protected)
	notifications.Get("/", s.GetNotifications)
	notifications.Get("/unread/count", s.GetUnreadNotificationCount)
	notifications.Patch("/mark-all/read", s.MarkAllNotificationsRead)
	notifications.Patch("/:id/read", s.MarkNotificationRead)
	notifications.Delete("/:id", s.DeleteNotification)

	// Search routes
	search := api.Group("/search")
	search.Get("/", optional, middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.Search)
	search.Get("/hashtag/:tag", optional, s.GetPostsByHashtag)

	// Discovery routes
	discover := api.Group("/discover")
	discover.Get("/trending/hashtags", s.GetTrendingHashtags)
	discover.Get("/trending/posts", s.GetTrendingPosts)
	discover.Get("/suggested-users", protected, s.GetSuggestedUsers)
	discover.Get("/explore", protected, s.GetExplore)

	// User routes; /me before generic /:userId
	users := api.Group("/users")
	users.Put("/me", protected, s.UpdateMyProfile)
	users.Get("/:userId", s.GetUserProfile)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	status := fiber.StatusOK
	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	redisStatus := "healthy"
	if s.redis == nil {
		redisStatus = "not configured"
	} else if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": map[bool]string{true: "ready", false: "degraded"}[status == fiber.StatusOK],
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Ripple API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("unhandled request error", "error", err, "path", c.Path())
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	slog.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			slog.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			slog.Error("error closing redis", "error", rerr)
		}
	}

	slog.Info("server shutdown complete")
	return nil
}
