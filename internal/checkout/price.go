package checkout

import "lumea_back_end/internal/models"

// UnitPrice calcule le prix unitaire canonique d'une ligne : prix de base du
// produit + ajustement signé de la variation. Seule source de vérité pour le
// prix — la valeur du panier n'est jamais utilisée.
func UnitPrice(basePrice, priceAdjustment float64) float64 {
	return basePrice + priceAdjustment
}

// Subtotal : somme des prix de lignes (prix unitaire × quantité).
func Subtotal(lines []ReconciledLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.UnitPrice * float64(l.RequestedQuantity)
	}
	return total
}

// ShippingCost : frais forfaitaires, offerts à partir du seuil. Fonction pure
// du sous-total, la politique vient de la configuration.
func ShippingCost(subtotal float64, policy models.ShippingPolicy) float64 {
	if subtotal >= policy.FreeThreshold {
		return 0
	}
	return policy.FlatFee
}

// OrderTotal : sous-total + livraison.
func OrderTotal(lines []ReconciledLine, policy models.ShippingPolicy) float64 {
	sub := Subtotal(lines)
	return sub + ShippingCost(sub, policy)
}
