package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/camberhealth/clinsum/internal/config"
	"github.com/camberhealth/clinsum/internal/db"
	"github.com/camberhealth/clinsum/internal/http/handlers"
	"github.com/camberhealth/clinsum/internal/llm"
	"github.com/camberhealth/clinsum/internal/observability"
	"github.com/camberhealth/clinsum/internal/platform/logger"
	"github.com/camberhealth/clinsum/internal/prompt"
	"github.com/camberhealth/clinsum/internal/repos"
	"github.com/camberhealth/clinsum/internal/server"
	"github.com/camberhealth/clinsum/internal/services"
)

const serviceVersion = "0.3.0"

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg := config.Load(log)

	// Observability
	metrics := observability.Init(log)
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "clinsum",
		Environment: os.Getenv("ENVIRONMENT"),
		Version:     serviceVersion,
	})
	if otelShutdown != nil {
		defer func() { _ = otelShutdown(context.Background()) }()
	}

	// Database
	dbService, err := db.NewService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	noteRepo := repos.NewClinicalNoteRepo(theDB, log)
	generationRepo := repos.NewGenerationLogRepo(theDB, log)

	// Prompt registry. A broken prompt directory is fatal at startup: there
	// is no sensible default prompt to serve instead.
	registry, err := prompt.NewRegistry(cfg.Prompt.Dir, log)
	if err != nil {
		log.Error("Prompt registry load failed", "dir", cfg.Prompt.Dir, "error", err)
		os.Exit(1)
	}
	if metrics != nil {
		metrics.SetPromptDefinitions(registry.DefinitionCount())
	}
	if cfg.Prompt.Watch {
		watcher, werr := prompt.NewWatcher(registry, cfg.Prompt.WatchDebounce, log)
		if werr != nil {
			log.Warn("Prompt watcher init failed, hot reload disabled", "error", werr)
		} else {
			go watcher.Start(ctx)
			defer watcher.Close()
		}
	}

	// LLM client
	llmClient, err := llm.NewAnthropicClient(cfg.LLM, log)
	if err != nil {
		log.Error("Could not init AnthropicClient", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	ingestService := services.NewIngestService(noteRepo, log)
	summarizeService := services.NewSummarizeService(registry, llmClient, noteRepo, generationRepo, cfg.LLM.MinSummaryChars, log)

	// Handlers
	healthHandler := handlers.NewHealthHandler(registry, serviceVersion)
	notesHandler := handlers.NewNotesHandler(ingestService, summarizeService)
	promptsHandler := handlers.NewPromptsHandler(registry, log)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		HealthHandler:  healthHandler,
		NotesHandler:   notesHandler,
		PromptsHandler: promptsHandler,
	})

	addr := ":" + cfg.Server.Port
	log.Info("Starting server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
