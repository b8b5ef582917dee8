package checkout

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLine() ReconciledLine {
	return ReconciledLine{
		ProductID:         "p1",
		ProductName:       "Produit p1",
		VariationID:       "v1",
		Color:             "rouge",
		Size:              "M",
		SKU:               "SKU-v1",
		UnitPrice:         1200,
		RequestedQuantity: 2,
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	gateway := newFakeGateway(map[string]int{"v1": 10})
	builder := NewOrderBuilder(gateway, testPolicy)
	ctx := context.Background()

	tests := []struct {
		name  string
		user  string
		phone string
		lines []ReconciledLine
	}{
		{"utilisateur manquant", "", "+32470123456", []ReconciledLine{validLine()}},
		{"téléphone vide", "u1", "", []ReconciledLine{validLine()}},
		{"téléphone invalide", "u1", "pas-un-numéro", []ReconciledLine{validLine()}},
		{"sélection vide", "u1", "+32470123456", nil},
		{"quantité nulle", "u1", "+32470123456", []ReconciledLine{{VariationID: "v1", RequestedQuantity: 0}}},
		{"variation absente", "u1", "+32470123456", []ReconciledLine{{RequestedQuantity: 1}}},
		{"ligne non vérifiée", "u1", "+32470123456", []ReconciledLine{{VariationID: "v1", RequestedQuantity: 1, Unverified: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := builder.PlaceOrder(ctx, tt.user, tt.phone, tt.lines)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			// Rejet local : la passerelle n'est jamais sollicitée
			assert.Empty(t, gateway.orders)
		})
	}
}

func TestPlaceOrderComputesTotals(t *testing.T) {
	gateway := newFakeGateway(map[string]int{"v1": 10, "v2": 10})
	builder := NewOrderBuilder(gateway, testPolicy)

	// Sous-total 4500 (sous le seuil de 5000) → total 4800
	lines := []ReconciledLine{
		{ProductID: "p1", VariationID: "v1", UnitPrice: 1500, RequestedQuantity: 2},
		{ProductID: "p2", VariationID: "v2", UnitPrice: 750, RequestedQuantity: 2},
	}
	order, err := builder.PlaceOrder(context.Background(), "u1", "+32470123456", lines)
	require.NoError(t, err)
	assert.Equal(t, 4800.0, order.TotalAmount)

	// L'invariant du total : Σ(prix × quantité) + livraison, exactement
	var sum float64
	for _, item := range order.Items {
		sum += item.UnitPrice * float64(item.Quantity)
	}
	assert.Equal(t, order.TotalAmount, sum+ShippingCost(sum, testPolicy))
}

func TestPlaceOrderFreeShippingAtThreshold(t *testing.T) {
	gateway := newFakeGateway(map[string]int{"v1": 10})
	builder := NewOrderBuilder(gateway, testPolicy)

	lines := []ReconciledLine{{ProductID: "p1", VariationID: "v1", UnitPrice: 3000, RequestedQuantity: 2}}
	order, err := builder.PlaceOrder(context.Background(), "u1", "+32470123456", lines)
	require.NoError(t, err)
	assert.Equal(t, 6000.0, order.TotalAmount)
}

func TestPlaceOrderInsufficientStockPassthrough(t *testing.T) {
	gateway := newFakeGateway(map[string]int{"v1": 1})
	builder := NewOrderBuilder(gateway, testPolicy)

	_, err := builder.PlaceOrder(context.Background(), "u1", "+32470123456", []ReconciledLine{validLine()})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortfalls, 1)
	assert.Equal(t, 2, stockErr.Shortfalls[0].Requested)
	assert.Equal(t, 1, stockErr.Shortfalls[0].CurrentStock)
}

func TestPlaceOrderWrapsGatewayFailure(t *testing.T) {
	gateway := newFakeGateway(map[string]int{"v1": 10})
	gateway.failWith = fmt.Errorf("connexion perdue")
	builder := NewOrderBuilder(gateway, testPolicy)

	_, err := builder.PlaceOrder(context.Background(), "u1", "+32470123456", []ReconciledLine{validLine()})
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.False(t, persistErr.OutcomeUnknown)
}

func TestPlaceOrderTimeoutMeansUnknownOutcome(t *testing.T) {
	gateway := newFakeGateway(map[string]int{"v1": 10})
	gateway.failWith = context.DeadlineExceeded
	builder := NewOrderBuilder(gateway, testPolicy)

	_, err := builder.PlaceOrder(context.Background(), "u1", "+32470123456", []ReconciledLine{validLine()})
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	// Sur timeout, impossible de savoir si le commit a abouti
	assert.True(t, persistErr.OutcomeUnknown)
}

// Le test de la propriété centrale : N acheteurs concurrents sur un stock de
// k < N unités → exactement k commits réussis, jamais de stock négatif.
func TestPlaceOrderConcurrentCommits(t *testing.T) {
	const n = 10
	const k = 3

	gateway := newFakeGateway(map[string]int{"v1": k})
	builder := NewOrderBuilder(gateway, testPolicy)

	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(buyer int) {
			defer wg.Done()
			line := validLine()
			line.RequestedQuantity = 1
			_, err := builder.PlaceOrder(context.Background(),
				fmt.Sprintf("u%d", buyer), "+32470123456", []ReconciledLine{line})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var successes, rejections int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		rejections++
	}

	assert.Equal(t, k, successes)
	assert.Equal(t, n-k, rejections)
	assert.Equal(t, 0, gateway.stock["v1"])
	assert.GreaterOrEqual(t, gateway.stock["v1"], 0)
}
