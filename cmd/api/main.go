package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"careerboost/cv-analyzer/internal/config"
	"careerboost/cv-analyzer/internal/feedback"
	"careerboost/cv-analyzer/internal/handlers"
	"careerboost/cv-analyzer/internal/middleware"
	"careerboost/cv-analyzer/internal/repositories"
	"careerboost/cv-analyzer/internal/services"
)

func main() {
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	defaultMode, err := feedback.ParseMode(cfg.Feedback.DefaultMode, feedback.ModeJSON)
	if err != nil {
		log.Fatalf("❌ Invalid FEEDBACK_MODE: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	docRepo := repositories.NewDocumentRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	log.Println("✅ Repositories initialized successfully")

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	extractor := services.NewTextExtractor()
	log.Println("✅ Services initialized successfully")

	geminiService, err := services.NewGeminiService(cfg.Gemini, cfg.Breaker, cfg.Worker.RetryInitialDelay)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	var courseCatalog services.CourseCatalog
	if cfg.Qdrant.Enabled {
		courseCatalog, err = initCourseCatalog(cfg.Qdrant)
		if err != nil {
			log.Fatalf("❌ Failed to initialize course catalog: %v", err)
		}
		log.Println("✅ Course catalog initialized successfully")
	} else {
		log.Println("ℹ️  Course catalog disabled, prompts will carry no course context")
	}

	analyzerService := services.NewAnalyzerService(
		analysisRepo,
		docRepo,
		geminiService,
		courseCatalog,
		extractor,
		cfg.Worker.RetryMaxAttempts,
		cfg.Storage.RecommendedFileSize,
	)
	log.Println("✅ Analyzer service initialized")

	worker := services.NewWorker(
		analysisRepo,
		analyzerService,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
		cfg.Worker.StaleAfter,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)

	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService, defaultMode, cfg.Storage.MaxFileSize)
	uploadHandler := handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize)
	analysisHandler := handlers.NewAnalysisHandler(analysisRepo, docRepo, worker, defaultMode)
	parseHandler := handlers.NewParseHandler(defaultMode)
	log.Println("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "CV Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Model-backed routes share the per-client limiter.
	limited := api.Group("", rateLimiter.Handler())
	limited.Post("/analyze-cv", analyzeHandler.HandleAnalyzeCV)
	limited.Post("/analyses", analysisHandler.HandleCreate)

	api.Post("/upload", uploadHandler.HandleUpload)
	api.Get("/analyses/:id", analysisHandler.HandleGet)
	api.Post("/feedback/parse", parseHandler.HandleParse)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":      "CV Analyzer API",
			"version":      "1.0.0",
			"default_mode": defaultMode,
			"endpoints": []string{
				"GET /api/v1/health",
				"POST /api/v1/analyze-cv",
				"POST /api/v1/upload",
				"POST /api/v1/analyses",
				"GET /api/v1/analyses/:id",
				"POST /api/v1/feedback/parse",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		worker.Stop()
		rateLimiter.Close()
		cancel()
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func initCourseCatalog(cfg config.QdrantConfig) (services.CourseCatalog, error) {
	catalog, err := services.NewCourseCatalog(cfg.URL, cfg.APIKey, cfg.Collection)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := catalog.InitCollection(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize collection: %w", err)
	}

	return catalog, nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
