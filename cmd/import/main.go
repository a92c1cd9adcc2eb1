package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/StephanBK/sloth/config"
	"github.com/StephanBK/sloth/models"
	"github.com/StephanBK/sloth/providers/off"
	"github.com/StephanBK/sloth/services"
)

// Importiert die OFF-Staging-Datei in den Katalog. Mit --dry-run wird die
// komplette Dedup-Entscheidung getroffen, aber nichts geschrieben.
func main() {
	dryRun := flag.Bool("dry-run", false, "Match-Entscheidungen treffen, aber nichts schreiben")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Konfiguration konnte nicht geladen werden", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Fatal("Datenbankverbindung fehlgeschlagen", zap.Error(err))
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductSourceLink{}, &models.ProductAvailability{}); err != nil {
		logger.Fatal("Migration fehlgeschlagen", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := off.NewStagingSource(cfg, logger)
	stats, err := services.NewImportService(cfg, db, logger).Run(ctx, source, *dryRun)
	if err != nil {
		logger.Fatal("Import fehlgeschlagen", zap.Error(err))
	}

	logger.Info("Fertig",
		zap.Int("admitted", stats.Admitted),
		zap.Int("skipped_barcode", stats.SkippedBarcode),
		zap.Int("skipped_fuzzy", stats.SkippedFuzzy))
}
