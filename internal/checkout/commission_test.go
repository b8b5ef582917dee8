package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumea_back_end/internal/models"
)

func affiliateItem(id, affiliate string, unitPrice float64, qty int) models.OrderItem {
	item := models.OrderItem{ID: id, OrderID: "o1", UnitPrice: unitPrice, Quantity: qty}
	if affiliate != "" {
		item.AffiliateID = &affiliate
	}
	return item
}

func TestAttributeComputesCommission(t *testing.T) {
	// Taux 0.08 sur un total de ligne de 1000 → 80, statut pending
	store := newFakeCommissionStore()
	attributor := NewAttributor(store, 0.08)

	order := &models.Order{
		ID:    "o1",
		Items: []models.OrderItem{affiliateItem("i1", "AFF1", 500, 2)},
	}
	recorded := attributor.Attribute(context.Background(), order)

	require.Len(t, recorded, 1)
	assert.Equal(t, 80.0, recorded[0].Amount)
	assert.Equal(t, "AFF1", recorded[0].AffiliateID)
	assert.Equal(t, models.CommissionStatusPending, recorded[0].Status)
	assert.Equal(t, "i1", recorded[0].OrderItemID)
}

func TestAttributeSkipsLinesWithoutAffiliate(t *testing.T) {
	store := newFakeCommissionStore()
	attributor := NewAttributor(store, 0.08)

	order := &models.Order{
		ID: "o1",
		Items: []models.OrderItem{
			affiliateItem("i1", "", 500, 1),
			affiliateItem("i2", "AFF2", 100, 1),
		},
	}
	recorded := attributor.Attribute(context.Background(), order)

	require.Len(t, recorded, 1)
	assert.Equal(t, "i2", recorded[0].OrderItemID)
	assert.Len(t, store.entries, 1)
}

func TestAttributeFailureNeverFatal(t *testing.T) {
	// L'échec d'une écriture est loggé, les autres lignes passent quand même
	store := newFakeCommissionStore()
	store.failedAffiliate = "AFF1"
	attributor := NewAttributor(store, 0.10)

	order := &models.Order{
		ID: "o1",
		Items: []models.OrderItem{
			affiliateItem("i1", "AFF1", 100, 1),
			affiliateItem("i2", "AFF2", 200, 1),
		},
	}
	recorded := attributor.Attribute(context.Background(), order)

	require.Len(t, recorded, 1)
	assert.Equal(t, "AFF2", recorded[0].AffiliateID)
}

func TestAttributeItemRetryIsIdempotent(t *testing.T) {
	store := newFakeCommissionStore()
	attributor := NewAttributor(store, 0.08)
	item := affiliateItem("i1", "AFF1", 1000, 1)

	_, err := attributor.AttributeItem(context.Background(), item)
	require.NoError(t, err)
	_, err = attributor.AttributeItem(context.Background(), item)
	require.NoError(t, err)

	// Une seule entrée malgré la reprise
	assert.Len(t, store.entries, 1)
	assert.Equal(t, 80.0, store.entries["i1"].Amount)
}

func TestAttributeItemRejectsNonAffiliateLine(t *testing.T) {
	attributor := NewAttributor(newFakeCommissionStore(), 0.08)

	_, err := attributor.AttributeItem(context.Background(), affiliateItem("i1", "", 100, 1))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}
