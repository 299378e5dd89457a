package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundle-admin/internal/cache"
	"bundle-admin/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestMergeItemsDedupesAndSorts(t *testing.T) {
	merged := MergeItems([]models.CartItem{
		{Ref: "v9", Quantity: 1},
		{Ref: "v1", Quantity: 2},
		{Ref: "v1", Quantity: 3},
		{Ref: "  ", Quantity: 4},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, models.CartItem{Ref: "v1", Quantity: 5}, merged[0])
	assert.Equal(t, models.CartItem{Ref: "v9", Quantity: 1}, merged[1])
}

func TestMergeItemsClampsQuantity(t *testing.T) {
	merged := MergeItems([]models.CartItem{{Ref: "v1", Quantity: 0}, {Ref: "v1", Quantity: -2}})

	require.Len(t, merged, 1)
	assert.Equal(t, 2, merged[0].Quantity)
}

func TestSubtotalSkipsUnknownPrice(t *testing.T) {
	store := cache.NewVariantStore()
	store.Put(models.VariantMetadata{Ref: "v1", Name: "Remera", Price: floatPtr(10)})
	store.Put(models.VariantMetadata{Ref: "v2", Name: "Gorra"}) // precio desconocido

	summary := Reconcile([]models.CartItem{
		{Ref: "v1", Quantity: 2},
		{Ref: "v2", Quantity: 1},
	}, store, nil)

	assert.Equal(t, 20.0, summary.Subtotal)

	require.Len(t, summary.Lines, 2)
	require.NotNil(t, summary.Lines[0].LineTotal)
	assert.Equal(t, 20.0, *summary.Lines[0].LineTotal)
	assert.Nil(t, summary.Lines[1].UnitPrice)
	assert.False(t, summary.Lines[1].Loading)
}

func TestTotalNeverNegative(t *testing.T) {
	store := cache.NewVariantStore()
	store.Put(models.VariantMetadata{Ref: "v1", Price: floatPtr(5)})

	eval := &models.EvaluationResult{Applied: models.AppliedSummary{TotalDiscount: 100}}
	summary := Reconcile([]models.CartItem{{Ref: "v1", Quantity: 1}}, store, eval)

	assert.Equal(t, 5.0, summary.Subtotal)
	assert.Equal(t, 100.0, summary.TotalDiscount)
	assert.Equal(t, 0.0, summary.Total)
}

func TestTotalsWithDiscount(t *testing.T) {
	store := cache.NewVariantStore()
	store.Put(models.VariantMetadata{Ref: "v1", Price: floatPtr(30), Stock: intPtr(10)})

	eval := &models.EvaluationResult{Applied: models.AppliedSummary{TotalDiscount: 12.5}}
	summary := Reconcile([]models.CartItem{{Ref: "v1", Quantity: 2}}, store, eval)

	assert.Equal(t, 60.0, summary.Subtotal)
	assert.Equal(t, 47.5, summary.Total)
}

func TestLineFlagsAreIndependent(t *testing.T) {
	store := cache.NewVariantStore()
	store.Put(models.VariantMetadata{Ref: "v2", Price: floatPtr(8), Stock: intPtr(1)})

	eval := &models.EvaluationResult{Missing: []string{"v1"}}
	summary := Reconcile([]models.CartItem{
		{Ref: "v1", Quantity: 1},
		{Ref: "v2", Quantity: 3},
	}, store, eval)

	require.Len(t, summary.Lines, 2)

	// v1: sin metadata local y reportada como irresoluble a la vez
	assert.True(t, summary.Lines[0].Loading)
	assert.True(t, summary.Lines[0].Missing)
	assert.False(t, summary.Lines[0].InsufficientStock)

	// v2: metadata conocida pero stock insuficiente
	assert.False(t, summary.Lines[1].Loading)
	assert.False(t, summary.Lines[1].Missing)
	assert.True(t, summary.Lines[1].InsufficientStock)
}

func TestStockUnknownIsNotInsufficient(t *testing.T) {
	store := cache.NewVariantStore()
	store.Put(models.VariantMetadata{Ref: "v1", Price: floatPtr(8)})

	summary := Reconcile([]models.CartItem{{Ref: "v1", Quantity: 99}}, store, nil)

	assert.False(t, summary.Lines[0].InsufficientStock)
}
