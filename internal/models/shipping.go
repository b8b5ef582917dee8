package models

type ShippingPolicy struct {
	FlatFee       float64 `json:"flat_fee"`
	FreeThreshold float64 `json:"free_threshold"`
}

type ShippingCalculation struct {
	Subtotal      float64 `json:"subtotal"`
	ShippingCost  float64 `json:"shipping_cost"`
	FreeThreshold float64 `json:"free_threshold"`
	IsFree        bool    `json:"is_free"`
	Total         float64 `json:"total"`
}
