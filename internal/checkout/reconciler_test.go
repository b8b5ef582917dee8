package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumea_back_end/internal/models"
)

func testProduct(id string, basePrice float64) models.Product {
	return models.Product{
		ID:        id,
		Name:      "Produit " + id,
		BasePrice: basePrice,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}

func testVariation(id, productID, color, size string, qty int, adj float64) models.ProductVariation {
	return models.ProductVariation{
		ID:              id,
		ProductID:       productID,
		Color:           color,
		Size:            size,
		Quantity:        qty,
		PriceAdjustment: adj,
		SKU:             "SKU-" + id,
		IsActive:        true,
	}
}

func TestReconcileRecomputesPriceFromCatalog(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 1000), testVariation("v1", "p1", "rouge", "M", 5, 200))

	r := NewReconciler(catalog)
	// Le panier porte un prix périmé (999) — il doit être ignoré
	lines := r.Reconcile(context.Background(), []SelectionLine{
		{ProductID: "p1", VariationID: "v1", RequestedQuantity: 2, CartUnitPrice: 999},
	})

	require.Len(t, lines, 1)
	assert.Equal(t, 1200.0, lines[0].UnitPrice)
	assert.Equal(t, "v1", lines[0].VariationID)
	assert.Equal(t, "SKU-v1", lines[0].SKU)
	assert.False(t, lines[0].Unverified)
}

func TestReconcileVariationResolution(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 100),
		testVariation("v1", "p1", "rouge", "M", 0, 0),
		testVariation("v2", "p1", "bleu", "L", 3, 50),
		testVariation("v3", "p1", "noir", "XL", 7, 80),
	)
	r := NewReconciler(catalog)

	tests := []struct {
		name string
		line SelectionLine
		want string
	}{
		{"id explicite prioritaire", SelectionLine{ProductID: "p1", VariationID: "v3", Color: "rouge", Size: "M", RequestedQuantity: 1}, "v3"},
		{"correspondance couleur+taille", SelectionLine{ProductID: "p1", Color: "bleu", Size: "L", RequestedQuantity: 1}, "v2"},
		{"repli première variation en stock", SelectionLine{ProductID: "p1", Color: "vert", Size: "S", RequestedQuantity: 1}, "v2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := r.Reconcile(context.Background(), []SelectionLine{tt.line})
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].VariationID)
		})
	}
}

func TestReconcileFallsBackToFirstVariationWhenAllOutOfStock(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 100),
		testVariation("v1", "p1", "rouge", "M", 0, 0),
		testVariation("v2", "p1", "bleu", "L", 0, 0),
	)
	r := NewReconciler(catalog)

	lines := r.Reconcile(context.Background(), []SelectionLine{
		{ProductID: "p1", RequestedQuantity: 1},
	})
	require.Len(t, lines, 1)
	assert.Equal(t, "v1", lines[0].VariationID)
	assert.Equal(t, 0, lines[0].AvailableQuantity)
}

func TestReconcileBatchesCatalogFetches(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 100),
		testVariation("v1", "p1", "rouge", "M", 5, 0),
		testVariation("v2", "p1", "bleu", "L", 5, 0),
	)
	r := NewReconciler(catalog)

	// Deux lignes sur le même produit → un seul fetch produit + variations
	r.Reconcile(context.Background(), []SelectionLine{
		{ProductID: "p1", VariationID: "v1", RequestedQuantity: 1},
		{ProductID: "p1", VariationID: "v2", RequestedQuantity: 1},
	})
	assert.Equal(t, 1, catalog.productCalls["p1"])
	assert.Equal(t, 1, catalog.variationCalls["p1"])
}

func TestReconcileDegradedLineOnCatalogFailure(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 100), testVariation("v1", "p1", "rouge", "M", 5, 0))
	catalog.failProducts["p2"] = true
	r := NewReconciler(catalog)

	lines := r.Reconcile(context.Background(), []SelectionLine{
		{ProductID: "p1", VariationID: "v1", RequestedQuantity: 1},
		{ProductID: "p2", VariationID: "vX", ProductName: "Produit fantôme", RequestedQuantity: 2, CartUnitPrice: 42},
	})
	require.Len(t, lines, 2)

	// La ligne saine passe normalement
	assert.False(t, lines[0].Unverified)

	// La ligne dégradée garde les données du panier et est marquée non vérifiée
	assert.True(t, lines[1].Unverified)
	assert.Equal(t, 42.0, lines[1].UnitPrice)
	assert.Equal(t, "Produit fantôme", lines[1].ProductName)
}

func TestReconcileVerifiedRetriesTransientFailure(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 1000), testVariation("v1", "p1", "rouge", "M", 5, 200))
	catalog.failOnce["p1"] = true
	r := NewReconciler(catalog)

	// Le premier fetch échoue, la relecture réussit : la ligne doit sortir
	// vérifiée et re-tarifée, jamais en mode dégradé
	lines, err := r.ReconcileVerified(context.Background(), []SelectionLine{
		{ProductID: "p1", VariationID: "v1", RequestedQuantity: 2, CartUnitPrice: 999},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.False(t, lines[0].Unverified)
	assert.Equal(t, 1200.0, lines[0].UnitPrice)
	assert.Equal(t, 2, catalog.productCalls["p1"])
}

func TestReconcileVerifiedFailsWhenCatalogStaysDown(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 100), testVariation("v1", "p1", "rouge", "M", 5, 0))
	catalog.failProducts["p2"] = true
	r := NewReconciler(catalog)

	lines, err := r.ReconcileVerified(context.Background(), []SelectionLine{
		{ProductID: "p1", VariationID: "v1", RequestedQuantity: 1},
		{ProductID: "p2", VariationID: "vX", RequestedQuantity: 2, CartUnitPrice: 42},
	})
	require.Error(t, err)
	assert.Nil(t, lines)

	var pErr *PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.False(t, pErr.OutcomeUnknown)
}

func TestReconcileVerifiedNoRetryWhenHealthy(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 100), testVariation("v1", "p1", "rouge", "M", 5, 0))
	r := NewReconciler(catalog)

	lines, err := r.ReconcileVerified(context.Background(), []SelectionLine{
		{ProductID: "p1", VariationID: "v1", RequestedQuantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, catalog.productCalls["p1"])
}

func TestReconcileClampsDisplayQuantity(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addProduct(testProduct("p1", 100), testVariation("v1", "p1", "rouge", "M", 2, 0))
	r := NewReconciler(catalog)

	lines := r.Reconcile(context.Background(), []SelectionLine{
		{ProductID: "p1", VariationID: "v1", RequestedQuantity: 5},
	})
	require.Len(t, lines, 1)
	// La borne ne touche que l'affichage, la quantité demandée reste intacte
	assert.Equal(t, 5, lines[0].RequestedQuantity)
	assert.Equal(t, 2, lines[0].DisplayQuantity)
	assert.Equal(t, 2, lines[0].AvailableQuantity)
}
