package off

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/StephanBK/sloth/config"
	"github.com/StephanBK/sloth/models"
)

// StagingSource liest die vom Filterlauf geschriebene Staging-Datei ein und
// dedupliziert sie quellintern über den Barcode: pro EAN überlebt der Record
// mit der höchsten Completeness. Records ohne Barcode werden verworfen, da
// sie quellintern nicht verlässlich identifizierbar sind.
type StagingSource struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewStagingSource erstellt den OFF-Quell-Adapter.
func NewStagingSource(cfg *config.Config, logger *zap.Logger) *StagingSource {
	return &StagingSource{Config: cfg, Logger: logger}
}

// Name implementiert providers.Source.
func (s *StagingSource) Name() string {
	return models.SourceOFF
}

// Load implementiert providers.Source. Die Reihenfolge der Rückgabe folgt der
// ersten Sichtung jeder EAN in der Staging-Datei.
func (s *StagingSource) Load(ctx context.Context) ([]*models.StagingProduct, error) {
	f, err := os.Open(s.Config.StagingFile)
	if err != nil {
		return nil, fmt.Errorf("open staging file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<20), 16<<20)

	byEAN := make(map[string]int)
	var records []*models.StagingProduct
	var scanned, noBarcode, replaced int

	for scanner.Scan() {
		if scanned%100000 == 0 && scanned > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		scanned++

		rec := &models.StagingProduct{}
		if err := json.Unmarshal(scanner.Bytes(), rec); err != nil {
			return nil, fmt.Errorf("staging line %d: %w", scanned, err)
		}
		rec.Source = models.SourceOFF

		if rec.EAN == "" {
			noBarcode++
			continue
		}

		if idx, seen := byEAN[rec.EAN]; seen {
			if rec.Completeness > records[idx].Completeness {
				records[idx] = rec
				replaced++
			}
			continue
		}
		byEAN[rec.EAN] = len(records)
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read staging file: %w", err)
	}

	s.Logger.Info("OFF-Staging geladen",
		zap.Int("scanned", scanned),
		zap.Int("unique_eans", len(records)),
		zap.Int("duplicates_dropped", scanned-noBarcode-len(records)),
		zap.Int("replaced_by_better", replaced),
		zap.Int("no_barcode", noBarcode))
	return records, nil
}
