package router

import (
	"log"

	"github.com/amitesh-7/predictwise-ai-sub000/config"
	"github.com/amitesh-7/predictwise-ai-sub000/database"
	"github.com/amitesh-7/predictwise-ai-sub000/handlers"
	analysis_handlers "github.com/amitesh-7/predictwise-ai-sub000/handlers/analysis"
	analytics_handlers "github.com/amitesh-7/predictwise-ai-sub000/handlers/analytics"
	paper_handlers "github.com/amitesh-7/predictwise-ai-sub000/handlers/paper"
	"github.com/amitesh-7/predictwise-ai-sub000/services"
	"github.com/amitesh-7/predictwise-ai-sub000/services/inference"
	"github.com/amitesh-7/predictwise-ai-sub000/services/storage"
	"github.com/amitesh-7/predictwise-ai-sub000/utils/cache"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Dependencies holds the shared clients constructed during route setup so
// the app can reuse them (cron, shutdown).
type Dependencies struct {
	Cache     *cache.RedisCache
	Analytics *services.AnalyticsService
}

func SetupRoutes(app *fiber.App, store database.Storage) *Dependencies {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to read configuration:", err)
	}

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs job state and analytics caching
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Object storage for uploaded PDFs
	spacesClient, err := storage.NewSpacesClient(storage.SpacesConfig{
		AccessKey: getEnv.SPACES_ACCESS_KEY,
		SecretKey: getEnv.SPACES_SECRET_KEY,
		Bucket:    getEnv.SPACES_BUCKET,
		Region:    getEnv.SPACES_REGION,
		Endpoint:  getEnv.SPACES_ENDPOINT,
		CDNURL:    getEnv.SPACES_CDN_URL,
	})
	if err != nil {
		log.Fatal("Failed to create Spaces client:", err)
	}

	// AI predictor is optional, the heuristic fallback covers its absence
	var predictor services.Predictor
	if getEnv.INFERENCE_API_KEY != "" {
		inferenceClient := inference.NewClient(inference.Config{
			APIKey:  getEnv.INFERENCE_API_KEY,
			BaseURL: getEnv.INFERENCE_BASE_URL,
			Model:   getEnv.INFERENCE_MODEL,
		})
		predictor = services.NewAIPredictor(inferenceClient)
	} else {
		log.Println("INFERENCE_API_KEY not set, predictions will use the frequency heuristic")
	}

	ocrClient := services.NewOCRClient(getEnv.OCR_SERVICE_URL)
	tracker := services.NewProgressTracker(redisCache)

	// Services
	paperService := services.NewPaperService(db, spacesClient, getEnv.MAX_UPLOAD_MB)
	analysisService := services.NewAnalysisService(db, spacesClient, tracker, ocrClient, predictor)
	analyticsService := services.NewAnalyticsService(db, redisCache)

	// Handlers
	healthHandler := handlers.NewHealthHandler(store, redisCache)
	paperHandler := paper_handlers.NewPaperHandler(db, paperService)
	analysisHandler := analysis_handlers.NewAnalysisHandler(db, analysisService)
	analyticsHandler := analytics_handlers.NewAnalyticsHandler(db, analyticsService)

	// Health check endpoints (public)
	app.Get("/ping", healthHandler.Ping)

	// API v1 group
	api := app.Group("/api/v1")
	api.Get("/health", healthHandler.Check)

	// Papers
	papers := api.Group("/papers")
	papers.Post("/", paperHandler.UploadPaper)             // Upload a paper PDF
	papers.Get("/", paperHandler.ListPapers)               // List papers with filters
	papers.Get("/:id", paperHandler.GetPaper)              // Get paper with questions
	papers.Delete("/:id", paperHandler.DeletePaper)        // Delete paper and stored file
	papers.Get("/:id/questions", paperHandler.GetQuestions)
	papers.Get("/:id/download", paperHandler.GetDownloadURL)

	// Analysis pipeline
	papers.Post("/:id/analyze", analysisHandler.TriggerAnalysis) // Start background analysis
	papers.Get("/:id/analysis", analysisHandler.GetActiveJob)    // Current job or stored status
	papers.Get("/:id/predictions", analysisHandler.ListPredictions)

	jobs := api.Group("/analysis/jobs")
	jobs.Get("/:job_id", analysisHandler.GetJobStatus)
	jobs.Post("/:job_id/cancel", analysisHandler.CancelJob)

	api.Get("/predictions/:uuid", analysisHandler.GetPredictionSet)

	// Subjects
	api.Get("/subjects", paperHandler.ListSubjects)

	// Analytics
	analytics := api.Group("/analytics")
	analytics.Get("/dashboard", analyticsHandler.GetDashboard)
	analytics.Get("/subjects", analyticsHandler.GetSubjects)
	analytics.Get("/keywords", analyticsHandler.GetTopKeywords)
	analytics.Get("/question-types", analyticsHandler.GetQuestionTypes)

	return &Dependencies{
		Cache:     redisCache,
		Analytics: analyticsService,
	}
}
