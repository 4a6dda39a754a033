package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"catalog-service/config"
	"catalog-service/database"
	"catalog-service/export"
	"catalog-service/mailer"
	"catalog-service/repository"

	"go.uber.org/zap"
)

func main() {
	var entityTag, formatTag, recipient, outPath string
	flag.StringVar(&entityTag, "type", "product", "entity to export: product or order")
	flag.StringVar(&formatTag, "format", "csv", "output format: csv or xlsx")
	flag.StringVar(&recipient, "to", "", "email address to send the report to")
	flag.StringVar(&outPath, "out", "", "write the report to a local file instead of mailing it")
	flag.Parse()

	if recipient == "" && outPath == "" {
		log.Fatal("either -to or -out must be set")
	}

	entity, err := export.ParseEntityType(entityTag)
	if err != nil {
		log.Fatal(err)
	}
	format, err := export.ParseFormat(formatTag)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := database.Connect(cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	products := repository.NewGormProductRepository(db)
	orders := repository.NewGormOrderRepository(db)

	var mail mailer.Sender
	if recipient != "" {
		mail, err = mailer.NewSMTPSender(cfg.SMTP)
		if err != nil {
			logger.Fatal("Failed to init mailer", zap.Error(err))
		}
	}

	svc := export.NewService(products, orders, mail, logger)
	ctx := context.Background()

	if outPath != "" {
		data, rows, _, err := svc.Build(ctx, entity, format)
		if err != nil {
			logger.Fatal("Export failed", zap.Error(err))
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			logger.Fatal("Failed to write report file", zap.Error(err))
		}
		fmt.Printf("Wrote %d rows to %s\n", rows, outPath)
		return
	}

	res, err := svc.Export(ctx, entity, format, recipient)
	if err != nil {
		logger.Fatal("Export failed", zap.Error(err))
	}
	fmt.Printf("Mailed %s (%d rows) to %s\n", res.Filename, res.Rows, recipient)
}
