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
	"github.com/StephanBK/sloth/providers/bls"
	"github.com/StephanBK/sloth/services"
)

// Importiert die BLS-Referenztabellen in den Katalog. BLS-Records haben
// keinen Barcode, Dedup läuft ausschließlich über Namensähnlichkeit.
func main() {
	dryRun := flag.Bool("dry-run", false, "Match-Entscheidungen treffen, aber nichts schreiben")
	file := flag.String("file", "", "nur diese Datei importieren statt des ganzen BLS-Verzeichnisses")
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

	loader := bls.NewLoader(cfg, logger)
	loader.File = *file

	stats, err := services.NewImportService(cfg, db, logger).Run(ctx, loader, *dryRun)
	if err != nil {
		logger.Fatal("BLS-Import fehlgeschlagen", zap.Error(err))
	}

	logger.Info("Fertig",
		zap.Int("admitted", stats.Admitted),
		zap.Int("skipped_fuzzy", stats.SkippedFuzzy))
}
