package models

import "time"

// Statuts d'une commande (le cycle de vie complet est géré côté fulfillment,
// une commande naît toujours en "paid").
const (
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	PhoneNumber string    `json:"phone_number"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem : snapshot immuable d'une ligne au moment du commit.
// Le prix unitaire est figé ici et n'est jamais recalculé ensuite.
type OrderItem struct {
	ID               string  `json:"id"`
	OrderID          string  `json:"order_id"`
	ProductID        string  `json:"product_id"`
	ProductName      string  `json:"product_name"`
	VariationID      string  `json:"variation_id"`
	Color            string  `json:"color"`
	Size             string  `json:"size"`
	SKU              string  `json:"sku"`
	UnitPrice        float64 `json:"unit_price"`
	Quantity         int     `json:"quantity"`
	AffiliateID      *string `json:"affiliate_id,omitempty"`
	CommissionEarned float64 `json:"commission_earned"`
}

// Statuts d'une écriture de commission (indépendants du statut de la commande).
const (
	CommissionStatusPending = "pending"
	CommissionStatusPaid    = "paid"
	CommissionStatusFailed  = "failed"
)

type CommissionEntry struct {
	ID          string    `json:"id"`
	OrderItemID string    `json:"order_item_id"`
	AffiliateID string    `json:"affiliate_id"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
