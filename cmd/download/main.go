package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/StephanBK/sloth/config"
	"github.com/StephanBK/sloth/providers/off"
)

// Lädt den Open-Food-Facts-Dump herunter. Abgebrochene Läufe werden beim
// nächsten Start per HTTP-Range fortgesetzt.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Konfiguration konnte nicht geladen werden", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := off.NewDownloader(cfg, logger).Download(ctx); err != nil {
		logger.Fatal("Download fehlgeschlagen", zap.Error(err))
	}
}
