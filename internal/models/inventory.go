package models

import "time"

// StockMovement : trace d'audit de chaque variation de stock (vente, réassort,
// ajustement). Le commit d'une commande en écrit une par ligne.
type StockMovement struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	VariationID string    `json:"variation_id"`
	Type        string    `json:"type"` // "sale", "restock", "adjustment", "return"
	Quantity    int       `json:"quantity"`
	PrevStock   int       `json:"prev_stock"`
	NewStock    int       `json:"new_stock"`
	Reason      string    `json:"reason"`
	OrderID     *string   `json:"order_id,omitempty"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type InventoryStats struct {
	TotalProducts        int     `json:"total_products"`
	TotalVariations      int     `json:"total_variations"`
	LowStockVariations   int     `json:"low_stock_variations"`
	OutOfStockVariations int     `json:"out_of_stock_variations"`
	TotalValue           float64 `json:"total_value"`
}
