package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/StephanBK/sloth/config"
	"github.com/StephanBK/sloth/providers/off"
	"github.com/StephanBK/sloth/storage"
)

// Filtert den rohen OFF-Dump auf deutsche Produkte mit ausreichender
// Datenqualität und schreibt die Staging-Datei.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Konfiguration konnte nicht geladen werden", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := off.NewFilter(cfg, logger).Run(ctx)
	if err != nil {
		logger.Fatal("Filterlauf fehlgeschlagen", zap.Error(err))
	}

	if cfg.ArchiveEnabled() {
		link, err := storage.ArchiveStagingFile(cfg, cfg.StagingFile)
		if err != nil {
			// Archivierung ist ein Nebenprodukt, der Filterlauf bleibt gültig
			logger.Warn("Staging-Archivierung fehlgeschlagen", zap.Error(err))
		} else {
			logger.Info("Staging-Datei archiviert", zap.String("link", link))
		}
	}

	logger.Info("Fertig", zap.Int("staged", stats.PassedQuality))
}
