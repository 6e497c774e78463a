package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinassist/assessment/internal/adapters/cache"
	"github.com/clinassist/assessment/internal/adapters/events"
	"github.com/clinassist/assessment/internal/adapters/knowledge"
	"github.com/clinassist/assessment/internal/adapters/stages"
	"github.com/clinassist/assessment/internal/api/handlers"
	"github.com/clinassist/assessment/internal/api/middleware"
	"github.com/clinassist/assessment/internal/api/routes"
	"github.com/clinassist/assessment/internal/application/services"
	"github.com/clinassist/assessment/internal/domain/providers"
	"github.com/clinassist/assessment/internal/infrastructure/clients/gemini"
	"github.com/clinassist/assessment/internal/infrastructure/clients/redis"
	"github.com/clinassist/assessment/internal/infrastructure/observability"
	"github.com/clinassist/assessment/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize Redis client (optional)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis client: %v", err)
			// Continue without Redis - the application can work without caching
		} else {
			defer redisClient.Close()
			log.Println("Redis client initialized successfully")
		}
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for governance updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize knowledge base
	jsonStore, err := knowledge.NewJSONStore(cfg.Knowledge.BaseFile)
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}

	var knowledgeStore providers.KnowledgeStore = jsonStore
	if cacheProvider != nil {
		knowledgeStore = knowledge.NewCachedStore(jsonStore, cacheProvider)
		log.Println("Knowledge store wrapped with caching layer")
	}

	// Initialize analysis stages. The inference stages need a Gemini key;
	// without one the orchestrator skips them and runs data collection only.
	assessmentStages := providers.Stages{
		Data: stages.NewDataStage(knowledgeStore),
	}
	if cfg.Gemini.APIKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set; inference stages disabled")
	} else {
		geminiClient, err := gemini.NewClient(&cfg.Gemini)
		if err != nil {
			log.Printf("Warning: Failed to initialize Gemini client: %v", err)
		} else {
			assessmentStages.Diagnosis = stages.NewDiagnosisStage(geminiClient)
			assessmentStages.Reasoning = stages.NewReasoningStage(geminiClient)
			assessmentStages.Treatment = stages.NewTreatmentStage(geminiClient)
			assessmentStages.Evaluation = stages.NewEvaluationStage(geminiClient)
			log.Println("Gemini client initialized successfully")
		}
	}

	// Initialize services
	orchestratorService := services.NewOrchestratorService(assessmentStages)
	interventionService := services.NewInterventionService(eventBus)
	approvalService := services.NewApprovalService(cfg.Approval.Chain, eventBus)
	reviewService := services.NewReviewService(eventBus)

	log.Printf("Approval chain configured: %v", approvalService.Chain())

	// Initialize handlers
	assessmentHandler := handlers.NewAssessmentHandler(orchestratorService, interventionService, cfg.Approval.ConfidenceThreshold)
	interventionHandler := handlers.NewInterventionHandler(interventionService, cfg.Approval.ConfidenceThreshold)
	approvalHandler := handlers.NewApprovalHandler(approvalService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	knowledgeHandler := handlers.NewKnowledgeHandler(knowledgeStore)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		assessmentHandler,
		interventionHandler,
		approvalHandler,
		reviewHandler,
		knowledgeHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
