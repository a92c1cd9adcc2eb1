package off

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/StephanBK/sloth/config"
)

func writeStagingFile(t *testing.T, lines string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staging.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return &config.Config{StagingFile: path}
}

func TestStagingSourceDedupByEAN(t *testing.T) {
	cfg := writeStagingFile(t, `{"name":"Magerquark","ean":"4388860540116","completeness":0.5}
{"name":"Magerquark 500g","ean":"4388860540116","completeness":0.9}
{"name":"Skyr","ean":"4000417025005","completeness":0.6}
`)

	src := NewStagingSource(cfg, zap.NewNop())
	records, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Pro EAN überlebt der vollständigste Record, Position bleibt die der
	// ersten Sichtung
	assert.Equal(t, "Magerquark 500g", records[0].Name)
	assert.Equal(t, 0.9, records[0].Completeness)
	assert.Equal(t, "Skyr", records[1].Name)
}

func TestStagingSourceDropsBarcodeless(t *testing.T) {
	cfg := writeStagingFile(t, `{"name":"Ohne Barcode","completeness":0.9}
{"name":"Mit Barcode","ean":"40084015","completeness":0.6}
`)

	src := NewStagingSource(cfg, zap.NewNop())
	records, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Mit Barcode", records[0].Name)
}

func TestStagingSourceLowerCompletenessDoesNotReplace(t *testing.T) {
	cfg := writeStagingFile(t, `{"name":"Erster","ean":"40084015","completeness":0.8}
{"name":"Zweiter","ean":"40084015","completeness":0.3}
`)

	src := NewStagingSource(cfg, zap.NewNop())
	records, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Erster", records[0].Name)
}

func TestStagingSourceMissingFile(t *testing.T) {
	cfg := &config.Config{StagingFile: filepath.Join(t.TempDir(), "missing.jsonl")}
	_, err := NewStagingSource(cfg, zap.NewNop()).Load(context.Background())
	assert.Error(t, err)
}
