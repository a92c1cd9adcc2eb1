package bls

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/StephanBK/sloth/config"
	"github.com/StephanBK/sloth/models"
	"github.com/StephanBK/sloth/services"
)

// DefaultColumnMap bildet die logischen Feldnamen auf die Spaltenköpfe des
// Bundeslebensmittelschlüssels ab. Die Kürzel sind die offiziellen
// BLS-Variablennamen (SBLS = Schlüsselnummer, GCAL = kcal/100g usw.).
var DefaultColumnMap = map[string]string{
	"code":        "SBLS",
	"name_de":     "ST",
	"name_en":     "STE",
	"energy_kcal": "GCAL",
	"protein":     "ZE",
	"fat":         "ZF",
	"carbs":       "ZK",
	"fiber":       "ZB",
	"sugar":       "ZZ",
	"sodium":      "NA",
}

// requiredFields müssen auflösbar sein, sonst bricht der Import ab.
var requiredFields = []string{"code", "name_de", "energy_kcal", "protein"}

// preparedTerms markieren zubereitete bzw. verarbeitete Varianten, die im
// Katalog nichts verloren haben — dort stehen nur Rohprodukte.
var preparedTerms = []string{
	"gegart", "gebraten", "gekocht", "gebacken", "frittiert",
	"gedünstet", "gegrillt", "geschmort", "blanchiert",
	"tiefgefroren", "konserve", "dose",
}

// Loader liest die BLS-Referenztabellen (xlsx oder csv/tsv) aus dem
// Datenverzeichnis und erzeugt Staging-Records ohne Barcode. BLS-Einträge
// können daher nur per Fuzzy-Matching dedupliziert werden.
type Loader struct {
	Config    *config.Config
	Logger    *zap.Logger
	ColumnMap map[string]string

	// File beschränkt den Lauf auf eine einzelne Datei (Pfad); leer = alle
	// Dateien im BLS-Datenverzeichnis.
	File string
}

// NewLoader erstellt einen Loader mit dem Standard-Spaltenmapping.
func NewLoader(cfg *config.Config, logger *zap.Logger) *Loader {
	return &Loader{Config: cfg, Logger: logger, ColumnMap: DefaultColumnMap}
}

// Name implementiert providers.Source.
func (l *Loader) Name() string {
	return models.SourceBLS
}

// Load implementiert providers.Source.
func (l *Loader) Load(ctx context.Context) ([]*models.StagingProduct, error) {
	files, err := l.discoverFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no BLS data files (xlsx/xls/csv/tsv) found in %s", l.Config.BLSDataDir)
	}

	var records []*models.StagingProduct
	var skippedPrepared, skippedIncomplete int

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := readRows(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		if len(rows) < 2 {
			l.Logger.Warn("BLS-Datei ohne Datenzeilen übersprungen", zap.String("file", filepath.Base(path)))
			continue
		}

		cols, err := resolveColumns(rows[0], l.ColumnMap)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}

		fileCount := 0
		for _, row := range rows[1:] {
			rec, reason := l.buildRecord(row, cols)
			switch reason {
			case skipPrepared:
				skippedPrepared++
			case skipIncomplete:
				skippedIncomplete++
			case skipNone:
				records = append(records, rec)
				fileCount++
			}
		}
		l.Logger.Info("BLS-Datei eingelesen",
			zap.String("file", filepath.Base(path)),
			zap.Int("records", fileCount))
	}

	l.Logger.Info("BLS-Quelle geladen",
		zap.Int("records", len(records)),
		zap.Int("skipped_prepared", skippedPrepared),
		zap.Int("skipped_incomplete", skippedIncomplete))
	return records, nil
}

type skipReason int

const (
	skipNone skipReason = iota
	skipPrepared
	skipIncomplete
)

// buildRecord wandelt eine Datenzeile in einen Staging-Record um.
func (l *Loader) buildRecord(row []string, cols map[string]int) (*models.StagingProduct, skipReason) {
	get := func(field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	code := get("code")
	name := get("name_de")
	if name == "" {
		name = get("name_en")
	}
	if code == "" || len(name) < 2 {
		return nil, skipIncomplete
	}
	if isPrepared(name) {
		return nil, skipPrepared
	}

	kcal := parseDecimal(get("energy_kcal"))
	protein := parseDecimal(get("protein"))
	if kcal == nil || protein == nil {
		return nil, skipIncomplete
	}

	rec := &models.StagingProduct{
		Name:            name,
		Category:        services.MapBLSCategory(code),
		CaloriesPer100g: kcal,
		ProteinPer100g:  protein,
		FatPer100g:      parseDecimal(get("fat")),
		CarbsPer100g:    parseDecimal(get("carbs")),
		FiberPer100g:    parseDecimal(get("fiber")),
		SugarPer100g:    parseDecimal(get("sugar")),
		SaltPer100g:     saltFromSodium(parseDecimal(get("sodium"))),
		BLSCode:         code,
		DataConfidence:  services.ComputeConfidence(models.SourceBLS, 0),
		Source:          models.SourceBLS,
	}
	return rec, skipNone
}

// discoverFiles listet die zu verarbeitenden Dateien in stabiler Reihenfolge.
func (l *Loader) discoverFiles() ([]string, error) {
	if l.File != "" {
		return []string{l.File}, nil
	}
	entries, err := os.ReadDir(l.Config.BLSDataDir)
	if err != nil {
		return nil, fmt.Errorf("read BLS data dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".xlsx", ".xls", ".csv", ".tsv":
			files = append(files, filepath.Join(l.Config.BLSDataDir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// readRows liest alle Zeilen einer Datei, formatunabhängig als Strings.
func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return readExcelRows(path)
	case ".tsv":
		return readCSVRows(path, '\t')
	default:
		return readCSVRows(path, ';')
	}
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSVRows(path string, sep rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = sep
	r.FieldsPerRecord = -1 // BLS-Exporte haben gern ragged rows
	return r.ReadAll()
}

// resolveColumns löst das Spaltenmapping case-insensitiv gegen die Kopfzeile
// auf. Fehlen Pflichtspalten, nennt der Fehler erwartete und gefundene Köpfe.
func resolveColumns(header []string, columnMap map[string]string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToUpper(strings.TrimSpace(h))] = i
	}

	cols := make(map[string]int, len(columnMap))
	for field, colName := range columnMap {
		if idx, ok := byName[strings.ToUpper(colName)]; ok {
			cols[field] = idx
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := cols[field]; !ok {
			missing = append(missing, fmt.Sprintf("%s (Spalte %q)", field, columnMap[field]))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required columns missing: %s; header was: %s",
			strings.Join(missing, ", "), strings.Join(header, ", "))
	}
	return cols, nil
}

// parseDecimal toleriert deutsches Dezimalkomma und leere Zellen.
func parseDecimal(s string) *float64 {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// saltFromSodium rechnet Natrium (mg/100g) in Salz (g/100g) um: Na × 2.5 / 1000.
func saltFromSodium(sodiumMg *float64) *float64 {
	if sodiumMg == nil {
		return nil
	}
	salt := math.Round(*sodiumMg*2.5/1000*100) / 100
	return &salt
}

// isPrepared prüft den Namen auf Zubereitungs-Marker.
func isPrepared(name string) bool {
	lower := strings.ToLower(name)
	for _, term := range preparedTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
