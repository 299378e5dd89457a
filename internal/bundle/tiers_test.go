package bundle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundle-admin/internal/models"
)

func TestNormalizeTiersSortsDedupesAndClamps(t *testing.T) {
	input := []models.Tier{
		{MinQty: 5, Type: "fixed", Value: 2},
		{MinQty: 0, Type: "percentage", Value: 10},
		{MinQty: 5, Type: "percentage", Value: 7},
		{MinQty: 2000, Type: "fixed", Value: 1},
	}

	got := NormalizeTiers(input)

	require.Len(t, got, 3)
	assert.Equal(t, models.Tier{MinQty: 1, Type: "percentage", Value: 10}, got[0])
	// Última escritura gana para minQty repetido
	assert.Equal(t, models.Tier{MinQty: 5, Type: "percentage", Value: 7}, got[1])
	assert.Equal(t, models.Tier{MinQty: 999, Type: "fixed", Value: 1}, got[2])

	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].MinQty, got[i-1].MinQty)
	}
}

func TestNormalizeTiersDropsInvalid(t *testing.T) {
	input := []models.Tier{
		{MinQty: 2, Type: "bogus", Value: 10},
		{MinQty: 3, Type: "percentage", Value: -1},
		{MinQty: 4, Type: "fixed", Value: math.NaN()},
		{MinQty: 5, Type: "fixed", Value: math.Inf(1)},
		{MinQty: 6, Type: "percentage", Value: 15},
	}

	got := NormalizeTiers(input)

	require.Len(t, got, 1)
	assert.Equal(t, 6, got[0].MinQty)
}

func TestNormalizeTiersEmptyTypeDefaultsToPercentage(t *testing.T) {
	got := NormalizeTiers([]models.Tier{{MinQty: 3, Value: 5}})

	require.Len(t, got, 1)
	assert.Equal(t, models.RuleTypePercentage, got[0].Type)
}

func TestAddTierNeverCollides(t *testing.T) {
	ladder := NewTierLadder([]models.Tier{
		{MinQty: 2, Type: "percentage", Value: 10},
		{MinQty: 5, Type: "fixed", Value: 3},
	})

	ladder.AddTier()

	tiers := ladder.Tiers()
	require.Len(t, tiers, 3)
	assert.Equal(t, models.Tier{MinQty: 6, Type: "percentage", Value: 10}, tiers[2])

	// Post-normalización no hay minQty duplicado
	normalized := ladder.Normalized()
	assert.Len(t, normalized, 3)
}

func TestAddTierOnEmptyLadder(t *testing.T) {
	ladder := NewTierLadder(nil)

	ladder.AddTier()

	tiers := ladder.Tiers()
	require.Len(t, tiers, 1)
	assert.Equal(t, 2, tiers[0].MinQty)
}

func TestAddTierClampsAtCeiling(t *testing.T) {
	ladder := NewTierLadder([]models.Tier{{MinQty: 999, Type: "fixed", Value: 1}})

	ladder.AddTier()

	tiers := ladder.Tiers()
	require.Len(t, tiers, 2)
	assert.Equal(t, 999, tiers[1].MinQty)
}

func TestRemoveTierKeepsAtLeastOne(t *testing.T) {
	ladder := NewTierLadder([]models.Tier{{MinQty: 2, Type: "percentage", Value: 10}})

	ladder.RemoveTier(0)

	assert.Len(t, ladder.Tiers(), 1)
}

func TestRemoveTier(t *testing.T) {
	ladder := NewTierLadder([]models.Tier{
		{MinQty: 2, Type: "percentage", Value: 10},
		{MinQty: 5, Type: "fixed", Value: 3},
	})

	ladder.RemoveTier(0)

	tiers := ladder.Tiers()
	require.Len(t, tiers, 1)
	assert.Equal(t, 5, tiers[0].MinQty)

	// Índice fuera de rango es no-op
	ladder.RemoveTier(7)
	assert.Len(t, ladder.Tiers(), 1)
}

func TestUpdateAtClampsMinQty(t *testing.T) {
	ladder := NewTierLadder([]models.Tier{{MinQty: 2, Type: "percentage", Value: 10}})

	minQty := 5000
	ladder.UpdateAt(0, TierPatch{MinQty: &minQty})
	assert.Equal(t, 999, ladder.Tiers()[0].MinQty)

	minQty = -3
	ladder.UpdateAt(0, TierPatch{MinQty: &minQty})
	assert.Equal(t, 1, ladder.Tiers()[0].MinQty)
}

func TestTiersFullyValid(t *testing.T) {
	assert.False(t, TiersFullyValid(nil))
	assert.False(t, TiersFullyValid([]models.Tier{{MinQty: 2, Type: "bogus", Value: 1}}))
	assert.False(t, TiersFullyValid([]models.Tier{
		{MinQty: 2, Type: "percentage", Value: 10},
		{MinQty: 3, Type: "fixed", Value: -1},
	}))
	assert.True(t, TiersFullyValid([]models.Tier{
		{MinQty: 2, Type: "percentage", Value: 10},
		{MinQty: 5, Type: "fixed", Value: 3},
	}))
}

func TestEffectiveMinQty(t *testing.T) {
	normalized := NormalizeTiers([]models.Tier{
		{MinQty: 7, Type: "fixed", Value: 1},
		{MinQty: 3, Type: "percentage", Value: 10},
	})

	assert.Equal(t, 3, EffectiveMinQty(normalized))
	assert.Equal(t, 1, EffectiveMinQty(nil))
}
