package off

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloatUnmarshal(t *testing.T) {
	var n Nutriments

	t.Run("plain number", func(t *testing.T) {
		require.NoError(t, json.Unmarshal([]byte(`{"energy-kcal_100g": 67.5}`), &n))
		assert.True(t, n.EnergyKcal100g.Valid)
		assert.Equal(t, 67.5, n.EnergyKcal100g.Value)
	})

	t.Run("number as string", func(t *testing.T) {
		require.NoError(t, json.Unmarshal([]byte(`{"proteins_100g": "12.3"}`), &n))
		assert.True(t, n.Proteins100g.Valid)
		assert.Equal(t, 12.3, n.Proteins100g.Value)
	})

	t.Run("null and garbage stay invalid without failing the record", func(t *testing.T) {
		var m Nutriments
		require.NoError(t, json.Unmarshal([]byte(`{"fat_100g": null, "fiber_100g": "n/a"}`), &m))
		assert.False(t, m.Fat100g.Valid)
		assert.False(t, m.Fiber100g.Valid)
	})
}

func TestFlexFloatPtr(t *testing.T) {
	assert.Nil(t, FlexFloat{}.Ptr())

	p := FlexFloat{Value: 3.14159, Valid: true}.Ptr()
	require.NotNil(t, p)
	assert.Equal(t, 3.14, *p)
}
