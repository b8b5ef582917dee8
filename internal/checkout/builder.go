package checkout

import (
	"context"
	"errors"
	"regexp"

	"lumea_back_end/internal/models"
)

// Format volontairement permissif : indicatif international optionnel,
// 8 à 20 chiffres avec séparateurs usuels.
var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 ./-]{6,18}[0-9]$`)

// OrderBuilder convertit une sélection réconciliée et disponible en commande
// immuable, via un commit atomique unique contre la passerelle de persistance.
type OrderBuilder struct {
	Gateway  Gateway
	Shipping models.ShippingPolicy
}

func NewOrderBuilder(gateway Gateway, shipping models.ShippingPolicy) *OrderBuilder {
	return &OrderBuilder{Gateway: gateway, Shipping: shipping}
}

// PlaceOrder valide localement (aucun appel réseau avant validation), calcule
// les montants puis délègue le commit tout-ou-rien à la passerelle. Le stock de
// chaque variation est re-vérifié DANS la transaction — le verdict antérieur du
// vérificateur de disponibilité ne fait jamais foi.
func (b *OrderBuilder) PlaceOrder(ctx context.Context, userID, phoneNumber string, lines []ReconciledLine) (*models.Order, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Message: "utilisateur manquant"}
	}
	if !phoneRe.MatchString(phoneNumber) {
		return nil, &ValidationError{Field: "phone_number", Message: "numéro de téléphone invalide"}
	}
	if len(lines) == 0 {
		return nil, &ValidationError{Field: "items", Message: "sélection vide"}
	}
	for _, line := range lines {
		if line.Unverified {
			return nil, &ValidationError{Field: "items", Message: "ligne non vérifiée, relancer la vérification de disponibilité"}
		}
		if line.VariationID == "" {
			return nil, &ValidationError{Field: "items", Message: "aucune variation sélectionnée"}
		}
		if line.RequestedQuantity <= 0 {
			return nil, &ValidationError{Field: "items", Message: "quantité invalide"}
		}
	}

	subtotal := Subtotal(lines)
	shipping := ShippingCost(subtotal, b.Shipping)

	draft := OrderDraft{
		UserID:       userID,
		PhoneNumber:  phoneNumber,
		Lines:        lines,
		Subtotal:     subtotal,
		ShippingCost: shipping,
		TotalAmount:  subtotal + shipping,
	}

	order, err := b.Gateway.CommitOrder(ctx, draft)
	if err != nil {
		var stockErr *InsufficientStockError
		var persistErr *PersistenceError
		if errors.As(err, &stockErr) || errors.As(err, &persistErr) {
			return nil, err
		}
		// Erreur inattendue de la passerelle : on la classe transport/stockage.
		// Sur timeout le résultat est inconnu — l'appelant ne doit surtout pas
		// supposer l'échec et re-décrémenter en aveugle.
		return nil, &PersistenceError{
			Op:             "commit commande",
			OutcomeUnknown: errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled),
			Err:            err,
		}
	}
	return order, nil
}
