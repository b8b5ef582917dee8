package models

import "time"

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	BasePrice     float64   `json:"base_price"`
	OriginalPrice float64   `json:"original_price"`
	Category      string    `json:"category"`
	ImageURLs     []string  `json:"image_urls"`
	Tags          []string  `json:"tags"`
	IsActive      bool      `json:"is_active"`
	HasVariations bool      `json:"has_variations"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductVariation : une déclinaison achetable d'un produit (couleur + taille).
// Le champ quantity est le stock autoritatif — décrémenté uniquement par le
// commit d'une commande ou par un ajustement admin.
type ProductVariation struct {
	ID              string    `json:"variation_id"`
	ProductID       string    `json:"product_id"`
	Color           string    `json:"color"`
	Size            string    `json:"size"`
	Quantity        int       `json:"quantity"`
	PriceAdjustment float64   `json:"price_adjustment"` // delta signé sur le prix de base
	SKU             string    `json:"sku"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
