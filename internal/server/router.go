package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/camberhealth/clinsum/internal/http/handlers"
	"github.com/camberhealth/clinsum/internal/http/middleware"
	"github.com/camberhealth/clinsum/internal/observability"
	"github.com/camberhealth/clinsum/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	AllowedOrigins string

	HealthHandler  *handlers.HealthHandler
	NotesHandler   *handlers.NotesHandler
	PromptsHandler *handlers.PromptsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("clinsum"))
	router.Use(middleware.AttachAuditContext())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.Metrics(cfg.Metrics))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/", cfg.HealthHandler.Root)
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	router.POST("/ingest", cfg.NotesHandler.Ingest)
	router.POST("/summarize", cfg.NotesHandler.Summarize)

	prompts := router.Group("/prompts")
	{
		prompts.GET("/:task/versions", cfg.PromptsHandler.ListVersions)
		prompts.POST("/reload", cfg.PromptsHandler.Reload)
		prompts.GET("/verify", cfg.PromptsHandler.Verify)
	}

	return router
}
