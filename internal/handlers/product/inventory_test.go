package product

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lumea_back_end/internal/models"
)

func TestMovementProductIDs(t *testing.T) {
	movements := []models.StockMovement{
		{ID: "m-1", ProductID: "p-1"},
		{ID: "m-2", ProductID: "p-2"},
		{ID: "m-3", ProductID: "p-1"},
		{ID: "m-4", ProductID: "p-3"},
		{ID: "m-5", ProductID: "p-2"},
	}

	// Chaque produit apparaît une seule fois, dans l'ordre de première rencontre
	assert.Equal(t, []string{"p-1", "p-2", "p-3"}, movementProductIDs(movements))
}

func TestMovementProductIDsEmpty(t *testing.T) {
	assert.Empty(t, movementProductIDs(nil))
	assert.Empty(t, movementProductIDs([]models.StockMovement{}))
}
