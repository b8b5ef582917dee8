package checkout

import (
	"context"
	"fmt"
	"log"
)

// AvailabilityChecker relit le stock courant de chaque ligne juste avant le
// commit. Ce contrôle est purement consultatif : il permet un refus précoce et
// lisible pour l'acheteur, mais ne pose aucun verrou ni réservation. La seule
// garantie d'invariant vient du décrément conditionnel exécuté dans la
// transaction de commit.
type AvailabilityChecker struct {
	Catalog Catalog
}

func NewAvailabilityChecker(catalog Catalog) *AvailabilityChecker {
	return &AvailabilityChecker{Catalog: catalog}
}

// Check produit un verdict par ligne. AllAvailable n'est vrai que si chaque
// verdict l'est. Une ligne non vérifiée est indisponible tant qu'une lecture
// fraîche du stock n'a pas réussi.
func (a *AvailabilityChecker) Check(ctx context.Context, lines []ReconciledLine) (AvailabilityReport, error) {
	report := AvailabilityReport{AllAvailable: true}

	for _, line := range lines {
		verdict := AvailabilityVerdict{
			VariationID: line.VariationID,
			Color:       line.Color,
			Size:        line.Size,
			Requested:   line.RequestedQuantity,
		}

		if line.VariationID == "" {
			// Ligne jamais résolue : refus prudent
			verdict.Available = false
			verdict.Message = "variation introuvable, merci de resélectionner l'article"
			report.AllAvailable = false
			report.Verdicts = append(report.Verdicts, verdict)
			continue
		}

		stock, err := a.Catalog.VariationStock(ctx, line.VariationID)
		if err != nil {
			if line.Unverified {
				// Déjà en mode dégradé : on reste prudent sans bloquer le rapport
				log.Printf("⚠️ Stock illisible pour la variation %s (ligne dégradée): %v", line.VariationID, err)
				verdict.Available = false
				verdict.Message = "stock invérifiable pour le moment"
				report.AllAvailable = false
				report.Verdicts = append(report.Verdicts, verdict)
				continue
			}
			// Ligne saine mais catalogue en panne : on interrompt le checkout
			return AvailabilityReport{}, &PersistenceError{Op: "lecture stock", Err: err}
		}

		verdict.CurrentStock = stock
		verdict.Available = stock >= line.RequestedQuantity
		if !verdict.Available {
			verdict.Message = fmt.Sprintf("%s %s : plus que %d en stock", line.Color, line.Size, stock)
			report.AllAvailable = false
		}
		report.Verdicts = append(report.Verdicts, verdict)
	}

	return report, nil
}
