package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lumea_back_end/internal/models"
)

var testPolicy = models.ShippingPolicy{FlatFee: 300, FreeThreshold: 5000}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name       string
		base       float64
		adjustment float64
		want       float64
	}{
		{"ajustement positif", 1000, 200, 1200},
		{"ajustement négatif", 1000, -150, 850},
		{"sans ajustement", 499.90, 0, 499.90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnitPrice(tt.base, tt.adjustment))
		})
	}
}

func TestShippingCost(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		want     float64
	}{
		{"sous le seuil", 4500, 300},
		{"au seuil exact", 5000, 0},
		{"au-dessus du seuil", 6000, 0},
		{"panier minuscule", 1, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShippingCost(tt.subtotal, testPolicy))
		})
	}
}

func TestOrderTotal(t *testing.T) {
	// Prix de base 1000, ajustement +200, quantité 2 → ligne à 2400
	line := ReconciledLine{UnitPrice: UnitPrice(1000, 200), RequestedQuantity: 2}
	assert.Equal(t, 2400.0, Subtotal([]ReconciledLine{line}))

	// Deux lignes, sous-total 4500 → livraison 300, total 4800
	lines := []ReconciledLine{
		{UnitPrice: 1500, RequestedQuantity: 2},
		{UnitPrice: 750, RequestedQuantity: 2},
	}
	assert.Equal(t, 4500.0, Subtotal(lines))
	assert.Equal(t, 4800.0, OrderTotal(lines, testPolicy))

	// Sous-total 6000 → livraison offerte, total 6000
	lines = []ReconciledLine{{UnitPrice: 3000, RequestedQuantity: 2}}
	assert.Equal(t, 6000.0, OrderTotal(lines, testPolicy))
}
