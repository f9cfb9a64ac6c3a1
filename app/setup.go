package app

import (
	"fmt"
	"os"

	"github.com/amitesh-7/predictwise-ai-sub000/api"
	"github.com/amitesh-7/predictwise-ai-sub000/config"
	"github.com/amitesh-7/predictwise-ai-sub000/database"
	"github.com/amitesh-7/predictwise-ai-sub000/router"
	"github.com/amitesh-7/predictwise-ai-sub000/services/cron"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT), getEnv.MAX_UPLOAD_MB)
	app := server.GetEngine()

	// Attach Middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Setup Routes (also constructs shared clients)
	deps := router.SetupRoutes(app, store)

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		db, ok := store.GetDB().(*gorm.DB)
		if !ok {
			print("Warning: Failed to get database connection for cron jobs\n")
		} else {
			cronManager = cron.NewCronManager(db, deps.Analytics)
			if err := cronManager.Start(); err != nil {
				print("Warning: Failed to start cron jobs\n")
				print("Error: ", err.Error(), "\n")
				// Don't fail the app, just log the warning
			}
		}
	}

	// Defer closing DB, Redis, and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if deps.Cache != nil {
			deps.Cache.Close()
		}
		store.Close()
	}()

	// Get the PORT & Start the Server
	return server.Run()
}
