package models

// CartItem : une ligne du panier Redis. Le prix porté ici n'est qu'une
// indication d'affichage — il est toujours recalculé depuis le catalogue au
// moment du checkout, jamais pris pour argent comptant.
type CartItem struct {
	ProductID   string  `json:"productId"`
	VariationID string  `json:"variationId,omitempty"`
	Name        string  `json:"name"`
	Color       string  `json:"color,omitempty"`
	Size        string  `json:"size,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"image_url"`
	AffiliateID string  `json:"affiliateId,omitempty"` // code de parrainage éventuel
}

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}
