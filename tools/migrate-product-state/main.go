package main

import (
	"flag"
	"fmt"
	"log"

	"catalog-service/config"
	"catalog-service/database"
	"catalog-service/migrations"

	"go.uber.org/zap"
)

func main() {
	var down bool
	flag.BoolVar(&down, "down", false, "roll the state enum migration back to string values")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// No AutoMigrate here: the tool rewrites the schema itself.
	db, err := database.Connect(cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	if down {
		err = migrations.DownProductStateEnum(db)
	} else {
		err = migrations.UpProductStateEnum(db)
	}
	if err != nil {
		logger.Fatal("Migration failed, rolled back", zap.Bool("down", down), zap.Error(err))
	}

	direction := "up"
	if down {
		direction = "down"
	}
	fmt.Printf("Product state enum migration complete (%s)\n", direction)
}
