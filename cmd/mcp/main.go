package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tesseract-hub/directory-service/internal/config"
	"github.com/tesseract-hub/directory-service/internal/mcp"
	"github.com/tesseract-hub/directory-service/internal/repository"
	"github.com/tesseract-hub/directory-service/internal/services"
)

// Stdio tool dispatcher. Reads newline-delimited JSON requests on stdin
// and writes one JSON response per line on stdout; all diagnostics go to
// stderr so stdout stays a clean protocol stream.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})
	logger.SetLevel(logrus.WarnLevel)

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	businessRepo := repository.NewBusinessRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	directoryService := services.NewDirectoryService(businessRepo, reviewRepo, categoryRepo, nil, services.DirectoryConfig{
		DefaultPageSize:    cfg.Directory.DefaultPageSize,
		MaxPageSize:        cfg.Directory.MaxPageSize,
		AccurateRatingSort: cfg.Directory.AccurateRatingSort,
	}, logger)
	categoryService := services.NewCategoryService(categoryRepo, nil, logger)
	reviewService := services.NewReviewService(reviewRepo, businessRepo, nil, logger)

	server := mcp.NewServer(logger)
	mcp.RegisterDirectoryTools(server, directoryService, categoryService, reviewService)

	if err := server.Run(context.Background(), os.Stdin, os.Stdout); err != nil {
		log.Fatalf("Dispatcher stopped: %v", err)
	}
}
