package checkout

import (
	"context"
	"fmt"
	"log"

	"lumea_back_end/internal/models"
)

// Reconciler transforme la sélection du panier (potentiellement périmée) en
// lignes normalisées, liées à une variation précise et re-tarifées depuis le
// catalogue courant.
type Reconciler struct {
	Catalog Catalog
}

func NewReconciler(catalog Catalog) *Reconciler {
	return &Reconciler{Catalog: catalog}
}

type productData struct {
	product    *models.Product
	variations []models.ProductVariation
	failed     bool
}

// Reconcile regroupe les lignes par produit (un seul fetch produit + variations
// par produit, même si plusieurs lignes le référencent), résout une variation
// pour chaque ligne et recalcule le prix unitaire. Si le catalogue est
// injoignable pour un produit, les lignes concernées retombent sur les données
// du panier et sont marquées Unverified — le checkout continue, le vérificateur
// de disponibilité les traitera prudemment.
func (r *Reconciler) Reconcile(ctx context.Context, lines []SelectionLine) []ReconciledLine {
	return r.buildLines(lines, r.fetchCatalog(ctx, lines))
}

// ReconcileVerified réconcilie comme Reconcile mais refuse le mode dégradé :
// les produits injoignables sont relus une fois, et si le catalogue reste
// muet l'appel échoue au lieu de transmettre des lignes non vérifiées. C'est
// la variante du placement de commande — la réponse consultative de
// disponibilité, elle, peut vivre avec des lignes dégradées.
func (r *Reconciler) ReconcileVerified(ctx context.Context, lines []SelectionLine) ([]ReconciledLine, error) {
	cache := r.fetchCatalog(ctx, lines)

	retry := []SelectionLine{}
	seen := map[string]bool{}
	for _, line := range lines {
		if cache[line.ProductID].failed && !seen[line.ProductID] {
			seen[line.ProductID] = true
			retry = append(retry, line)
		}
	}

	if len(retry) > 0 {
		log.Printf("⚠️ %d produit(s) injoignable(s), relecture du catalogue", len(retry))
		for id, data := range r.fetchCatalog(ctx, retry) {
			if !data.failed {
				cache[id] = data
			}
		}
		for id, data := range cache {
			if data.failed {
				return nil, &PersistenceError{
					Op:  "réconciliation catalogue",
					Err: fmt.Errorf("produit %s injoignable", id),
				}
			}
		}
	}

	return r.buildLines(lines, cache), nil
}

// fetchCatalog fait un seul aller-retour catalogue par produit distinct.
func (r *Reconciler) fetchCatalog(ctx context.Context, lines []SelectionLine) map[string]*productData {
	cache := make(map[string]*productData)
	for _, line := range lines {
		if _, ok := cache[line.ProductID]; ok {
			continue
		}
		data := &productData{}
		product, err := r.Catalog.ProductDetails(ctx, line.ProductID)
		if err != nil {
			log.Printf("⚠️ Produit %s injoignable, ligne dégradée: %v", line.ProductID, err)
			data.failed = true
			cache[line.ProductID] = data
			continue
		}
		variations, err := r.Catalog.ProductVariations(ctx, line.ProductID)
		if err != nil {
			log.Printf("⚠️ Variations de %s injoignables, ligne dégradée: %v", line.ProductID, err)
			data.failed = true
			cache[line.ProductID] = data
			continue
		}
		data.product = product
		data.variations = variations
		cache[line.ProductID] = data
	}
	return cache
}

func (r *Reconciler) buildLines(lines []SelectionLine, cache map[string]*productData) []ReconciledLine {
	out := make([]ReconciledLine, 0, len(lines))
	for _, line := range lines {
		data := cache[line.ProductID]
		if data.failed {
			// Mode dégradé : on garde les valeurs du panier, mais la ligne est
			// marquée non vérifiée
			out = append(out, ReconciledLine{
				ProductID:         line.ProductID,
				ProductName:       line.ProductName,
				VariationID:       line.VariationID,
				Color:             line.Color,
				Size:              line.Size,
				UnitPrice:         line.CartUnitPrice,
				RequestedQuantity: line.RequestedQuantity,
				DisplayQuantity:   line.RequestedQuantity,
				AffiliateID:       line.AffiliateID,
				Unverified:        true,
			})
			continue
		}

		variation := resolveVariation(line, data.variations)
		if variation == nil {
			// Produit sans variation : impossible de lier la ligne
			out = append(out, ReconciledLine{
				ProductID:         line.ProductID,
				ProductName:       data.product.Name,
				VariationID:       line.VariationID,
				Color:             line.Color,
				Size:              line.Size,
				UnitPrice:         line.CartUnitPrice,
				RequestedQuantity: line.RequestedQuantity,
				DisplayQuantity:   line.RequestedQuantity,
				AffiliateID:       line.AffiliateID,
				Unverified:        true,
			})
			continue
		}

		// Quantité bornée au stock courant pour l'affichage uniquement — la
		// vérification autoritative a lieu dans la transaction de commit
		display := line.RequestedQuantity
		if display > variation.Quantity {
			display = variation.Quantity
		}

		out = append(out, ReconciledLine{
			ProductID:         line.ProductID,
			ProductName:       data.product.Name,
			VariationID:       variation.ID,
			Color:             variation.Color,
			Size:              variation.Size,
			SKU:               variation.SKU,
			UnitPrice:         UnitPrice(data.product.BasePrice, variation.PriceAdjustment),
			RequestedQuantity: line.RequestedQuantity,
			DisplayQuantity:   display,
			AvailableQuantity: variation.Quantity,
			AffiliateID:       line.AffiliateID,
		})
	}
	return out
}

// resolveVariation choisit la variation d'une ligne : l'ID explicite d'abord,
// sinon le couple (couleur, taille), sinon la première variation en stock,
// sinon la première tout court.
func resolveVariation(line SelectionLine, variations []models.ProductVariation) *models.ProductVariation {
	if len(variations) == 0 {
		return nil
	}

	if line.VariationID != "" {
		for i := range variations {
			if variations[i].ID == line.VariationID {
				return &variations[i]
			}
		}
	}

	if line.Color != "" || line.Size != "" {
		for i := range variations {
			if variations[i].Color == line.Color && variations[i].Size == line.Size {
				return &variations[i]
			}
		}
	}

	for i := range variations {
		if variations[i].Quantity > 0 {
			return &variations[i]
		}
	}
	return &variations[0]
}
