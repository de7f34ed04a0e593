package main

import (
	"context"
	"log"
	"os"
	"time"

	"divemanager/cmd"
	"divemanager/internal/container"
	"divemanager/internal/core/logger"
	"divemanager/internal/database"
	"divemanager/internal/database/migration"
	"divemanager/internal/routes"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		appLogger.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := migration.Migrate(dbURL, "file://migrations", true, appLogger); err != nil {
		appLogger.Fatal("Database migration failed", zap.Error(err))
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		appLogger.Fatal("Could not connect to the database", zap.Error(err))
	}
	defer db.Close()

	appLogger.Info("Connected to the database successfully")

	appContainer := container.NewAppContainer(db, appLogger)

	if err := database.SeedDemoData(appContainer.Repository.GoquDBWrapper, appLogger); err != nil {
		appLogger.Fatal("Database seeding failed", zap.Error(err))
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(appLogger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(appLogger, true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	routes.RegisterAPIRoutes(router, appContainer)
	routes.RegisterUtilityRoutes(router, appLogger)

	host := os.Getenv("APP_HOST")
	if host == "" {
		host = ":8080"
	}

	if err := router.Run(host); err != nil {
		appLogger.Fatal("HTTP server stopped", zap.Error(err))
	}
}
