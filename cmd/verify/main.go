package main

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/StephanBK/sloth/config"
	"github.com/StephanBK/sloth/services"
)

// Prüft den Katalog auf Konsistenz und gibt den Report als JSON auf stdout
// aus. Exit-Code 1 bei harten Befunden (doppelte EANs, verwaiste Zutaten).
func main() {
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

	report, err := services.NewVerifier(db, logger).Run()
	if err != nil {
		logger.Fatal("Verifikation fehlgeschlagen", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Fatal("Report konnte nicht ausgegeben werden", zap.Error(err))
	}

	if !report.Healthy() {
		os.Exit(1)
	}
}
