package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/milad-sol/task-manager/internal/config"
	"github.com/milad-sol/task-manager/internal/database"
	"github.com/milad-sol/task-manager/internal/handlers"
	"github.com/milad-sol/task-manager/internal/identity"
	"github.com/milad-sol/task-manager/internal/metrics"
	"github.com/milad-sol/task-manager/internal/middleware"
	"github.com/milad-sol/task-manager/internal/repository"
	"github.com/milad-sol/task-manager/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	userService := services.NewUserService(userRepo, projectRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Identity provider client
	authenticator := identity.NewJWTAuthenticator(cfg.JWTSecret, cfg.JWTIssuer)

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Rate limiting
	var limiter *middleware.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute)
		defer limiter.Stop()
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(collector.Middleware())
	r.Use(cors.Default())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task manager API is running",
		})
	})

	// Prometheus metrics endpoint
	r.GET("/metrics", metrics.Handler(registry))

	// API routes (protected)
	api := r.Group("/api/v1")
	api.Use(middleware.RequireActor(authenticator, userService))
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	{
		api.GET("/me", userHandler.GetProfile)

		projects := api.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.PATCH("/:id/members", projectHandler.SetMembers)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PATCH("/:id/assign", taskHandler.AssignTask)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
