package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"sloth"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"4242"`

	// Open Food Facts Dump
	OFFDownloadURL string `envconfig:"OFF_DOWNLOAD_URL" default:"https://static.openfoodfacts.org/data/openfoodfacts-products.jsonl.gz"`
	OFFUserAgent   string `envconfig:"OFF_USER_AGENT" default:"SlothDietApp/1.0 (sloth-diet-app; German grocery pipeline)"`

	// Datenverzeichnisse für die Pipeline
	RawDumpFile string `envconfig:"RAW_DUMP_FILE" default:"data/raw/openfoodfacts-products.jsonl.gz"`
	StagingFile string `envconfig:"STAGING_FILE" default:"data/processed/off_german_products.jsonl"`
	BLSDataDir  string `envconfig:"BLS_DATA_DIR" default:"data/raw/bls"`

	// Pipeline-Tuning
	MatchThreshold  float64 `envconfig:"MATCH_THRESHOLD" default:"0.80"`
	MinCompleteness float64 `envconfig:"MIN_COMPLETENESS" default:"0.5"`
	ImportBatchSize int     `envconfig:"IMPORT_BATCH_SIZE" default:"5000"`
	EmitSourceLinks bool    `envconfig:"EMIT_SOURCE_LINKS" default:"true"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 3 * * 0"`

	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Optionales S3-Archiv für Staging-Dateien (leer = deaktiviert)
	StagingS3Key    string `envconfig:"STAGING_S3_KEY"`
	StagingS3Secret string `envconfig:"STAGING_S3_SECRET"`
	StagingS3URL    string `envconfig:"STAGING_S3_URL"`
	StagingS3Region string `envconfig:"STAGING_S3_REGION" default:"de"`
	StagingS3Bucket string `envconfig:"STAGING_S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// ArchiveEnabled meldet, ob Staging-Dateien nach S3 hochgeladen werden sollen.
func (c *Config) ArchiveEnabled() bool {
	return c.StagingS3Bucket != "" && c.StagingS3Key != "" && c.StagingS3Secret != "" && c.StagingS3URL != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
