package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teamtrack/tracker-api/internal/api/handler"
	"github.com/teamtrack/tracker-api/internal/api/middleware"
	"github.com/teamtrack/tracker-api/internal/core/access"
	"github.com/teamtrack/tracker-api/internal/core/ports"
	"github.com/teamtrack/tracker-api/internal/core/service"
	"github.com/teamtrack/tracker-api/internal/core/validate"
	"github.com/teamtrack/tracker-api/internal/infrastructure/config"
	mongodb "github.com/teamtrack/tracker-api/internal/infrastructure/db/mongo"
	redisdb "github.com/teamtrack/tracker-api/internal/infrastructure/db/redis"
	"github.com/teamtrack/tracker-api/internal/infrastructure/notify"
	"github.com/teamtrack/tracker-api/pkg/logger"
)

const tokenTTL = 24 * time.Hour

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *goredis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tracker"))

	// --- Dependencies ---
	memberRepo := mongodb.NewMemberRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	sprintRepo := mongodb.NewSprintRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)

	refval := validate.NewReferenceValidator(validate.NewResolver(memberRepo, projectRepo, sprintRepo))
	eval := access.NewEvaluator(cfg.DemoProjectIDs)

	var notifier ports.Notifier = notify.NewSlackNotifier(
		cfg.Slack.WebhookURL,
		redisdb.NewNotifyDedup(rdb),
		logger.Component("notify"),
	)

	authService := service.NewAuthService(memberRepo, cfg.JWTSecret, tokenTTL)
	memberService := service.NewMemberService(memberRepo, eval, log)
	projectService := service.NewProjectService(projectRepo, refval, eval, log)
	sprintService := service.NewSprintService(sprintRepo, projectRepo, refval, eval, notifier, log)
	taskService := service.NewTaskService(taskRepo, projectRepo, refval, eval, log)

	authHandler := handler.NewAuthHandler(authService)
	memberHandler := handler.NewMemberHandler(memberService)
	projectHandler := handler.NewProjectHandler(projectService)
	sprintHandler := handler.NewSprintHandler(sprintService)
	taskHandler := handler.NewTaskHandler(taskService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Resource routes ---
	// Unauthenticated requests never reach these handlers; the middleware
	// renders them as 404 so resources stay invisible without a token.
	auth := middleware.Auth(cfg.JWTSecret)

	members := e.Group("/members", auth)
	members.GET("", memberHandler.List)
	members.GET("/:id", memberHandler.Get)
	members.POST("", memberHandler.Create)
	members.PUT("/:id", memberHandler.Update)
	members.DELETE("/:id", memberHandler.Delete)

	projects := e.Group("/projects", auth)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.POST("", projectHandler.Create)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)

	sprints := e.Group("/sprints", auth)
	sprints.GET("", sprintHandler.List)
	sprints.GET("/:id", sprintHandler.Get)
	sprints.POST("", sprintHandler.Create)
	sprints.PUT("/:id", sprintHandler.Update)
	sprints.DELETE("/:id", sprintHandler.Delete)

	tasks := e.Group("/tasks", auth)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.POST("", taskHandler.Create)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	return e
}
