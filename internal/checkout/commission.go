package checkout

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"lumea_back_end/internal/models"
)

// Attributor écrit les commissions affilié après un commit réussi. Effet de
// bord best-effort : un échec ici est loggé et re-tentable par order_item_id,
// il ne remet jamais en cause la commande déjà commitée.
type Attributor struct {
	Store CommissionStore
	Rate  float64
}

func NewAttributor(store CommissionStore, rate float64) *Attributor {
	return &Attributor{Store: store, Rate: rate}
}

// Attribute parcourt les lignes de la commande et enregistre une entrée
// "pending" pour chaque ligne portant un code affilié. Retourne les entrées
// effectivement écrites.
func (a *Attributor) Attribute(ctx context.Context, order *models.Order) []models.CommissionEntry {
	var recorded []models.CommissionEntry
	for _, item := range order.Items {
		if item.AffiliateID == nil || *item.AffiliateID == "" {
			continue
		}
		entry, err := a.AttributeItem(ctx, item)
		if err != nil {
			log.Printf("⚠️ Commission non enregistrée pour la ligne %s (commande %s): %v — re-tentable", item.ID, order.ID, err)
			continue
		}
		recorded = append(recorded, *entry)
	}
	return recorded
}

// AttributeItem calcule et enregistre la commission d'une seule ligne.
// C'est aussi le point d'entrée de la reprise (job de réconciliation admin).
func (a *Attributor) AttributeItem(ctx context.Context, item models.OrderItem) (*models.CommissionEntry, error) {
	if item.AffiliateID == nil || *item.AffiliateID == "" {
		return nil, &ValidationError{Field: "affiliate_id", Message: "ligne sans affilié"}
	}

	entry := models.CommissionEntry{
		ID:          uuid.NewString(),
		OrderItemID: item.ID,
		AffiliateID: *item.AffiliateID,
		Amount:      item.UnitPrice * float64(item.Quantity) * a.Rate,
		Status:      models.CommissionStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := a.Store.RecordCommission(ctx, entry); err != nil {
		return nil, err
	}

	log.Printf("💰 Commission %.2f enregistrée pour l'affilié %s (ligne %s)", entry.Amount, entry.AffiliateID, item.ID)
	return &entry, nil
}
