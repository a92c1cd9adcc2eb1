package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/StephanBK/sloth/models"
)

func TestComputeConfidence(t *testing.T) {
	t.Run("manual always outranks everything", func(t *testing.T) {
		assert.Equal(t, 1.0, ComputeConfidence(models.SourceManual, 0))
		assert.Equal(t, 1.0, ComputeConfidence(models.SourceManual, 1.0))
	})

	t.Run("bls is fixed regardless of completeness", func(t *testing.T) {
		assert.Equal(t, 0.95, ComputeConfidence(models.SourceBLS, 0))
		assert.Equal(t, 0.95, ComputeConfidence(models.SourceBLS, 1.0))
	})

	t.Run("off is tiered by completeness", func(t *testing.T) {
		assert.Equal(t, 0.8, ComputeConfidence(models.SourceOFF, 0.9))
		assert.Equal(t, 0.8, ComputeConfidence(models.SourceOFF, 0.8))
		assert.Equal(t, 0.5, ComputeConfidence(models.SourceOFF, 0.79))
		assert.Equal(t, 0.5, ComputeConfidence(models.SourceOFF, 0.5))
		assert.Equal(t, 0.3, ComputeConfidence(models.SourceOFF, 0.49))
	})

	t.Run("best crowd data never reaches bls level", func(t *testing.T) {
		assert.Less(t, ComputeConfidence(models.SourceOFF, 1.0), ComputeConfidence(models.SourceBLS, 0))
	})

	t.Run("unknown source gets floor confidence", func(t *testing.T) {
		assert.Equal(t, 0.3, ComputeConfidence("scraper", 1.0))
	})
}
