package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/StephanBK/sloth/models"
)

func TestCatalogWriterDryRun(t *testing.T) {
	w := NewCatalogWriter(nil, 2, true, zap.NewNop())

	for i := 0; i < 5; i++ {
		require.NoError(t, w.Add(&models.Product{ID: "p", Name: "Testprodukt"}))
	}
	w.AddLink(&models.ProductSourceLink{ID: "l1"})
	require.NoError(t, w.Flush())

	assert.Equal(t, 5, w.Inserted())
	assert.Equal(t, 1, w.LinksWritten())
}

func TestCatalogWriterDefaultBatchSize(t *testing.T) {
	w := NewCatalogWriter(nil, 0, true, zap.NewNop())
	assert.Equal(t, 5000, w.batchSize)
}
