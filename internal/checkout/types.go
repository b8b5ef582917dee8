package checkout

import (
	"context"
	"fmt"
	"strings"

	"lumea_back_end/internal/models"
)

// SelectionLine : une ligne choisie par l'acheteur, pas encore validée.
// Le prix porté ici vient du panier et peut être périmé — il ne sert qu'à
// l'affichage dégradé, jamais au calcul du montant.
type SelectionLine struct {
	ProductID         string  `json:"product_id"`
	VariationID       string  `json:"variation_id,omitempty"`
	Color             string  `json:"color,omitempty"`
	Size              string  `json:"size,omitempty"`
	RequestedQuantity int     `json:"quantity"`
	CartUnitPrice     float64 `json:"cart_unit_price,omitempty"`
	ProductName       string  `json:"name,omitempty"`
	AffiliateID       string  `json:"affiliate_id,omitempty"`
}

// ReconciledLine : sortie du réconciliateur. Le prix unitaire est recalculé
// depuis le catalogue (prix de base + ajustement de la variation).
type ReconciledLine struct {
	ProductID         string  `json:"product_id"`
	ProductName       string  `json:"product_name"`
	VariationID       string  `json:"variation_id"`
	Color             string  `json:"color"`
	Size              string  `json:"size"`
	SKU               string  `json:"sku"`
	UnitPrice         float64 `json:"unit_price"`
	RequestedQuantity int     `json:"requested_quantity"`
	DisplayQuantity   int     `json:"display_quantity"` // borné au stock, affichage uniquement
	AvailableQuantity int     `json:"available_quantity"`
	AffiliateID       string  `json:"affiliate_id,omitempty"`

	// Unverified : le catalogue n'a pas pu être consulté pour cette ligne, les
	// valeurs proviennent du panier. Le vérificateur la traitera comme
	// indisponible tant qu'une lecture fraîche n'a pas réussi.
	Unverified bool `json:"unverified,omitempty"`
}

// AvailabilityVerdict : verdict de stock pour une ligne, éphémère (jamais persisté).
type AvailabilityVerdict struct {
	VariationID  string `json:"variation_id"`
	Color        string `json:"color"`
	Size         string `json:"size"`
	Requested    int    `json:"requested"`
	CurrentStock int    `json:"current_stock"`
	Available    bool   `json:"available"`
	Message      string `json:"message,omitempty"`
}

type AvailabilityReport struct {
	AllAvailable bool                  `json:"all_available"`
	Verdicts     []AvailabilityVerdict `json:"availability"`
}

// OrderDraft : ce que le constructeur de commande envoie au commit atomique.
type OrderDraft struct {
	UserID       string
	PhoneNumber  string
	Lines        []ReconciledLine
	Subtotal     float64
	ShippingCost float64
	TotalAmount  float64
}

// =============================================
// BORNES EXTERNES
// =============================================

// Catalog : lecture seule du catalogue (produits, variations, stock courant).
type Catalog interface {
	ProductDetails(ctx context.Context, productID string) (*models.Product, error)
	ProductVariations(ctx context.Context, productID string) ([]models.ProductVariation, error)
	VariationStock(ctx context.Context, variationID string) (int, error)
}

// Gateway : le store transactionnel. CommitOrder est tout-ou-rien : décrément
// conditionnel du stock de chaque variation (re-vérifié dans la transaction),
// insertion de la commande et de ses lignes, un seul commit.
type Gateway interface {
	CommitOrder(ctx context.Context, draft OrderDraft) (*models.Order, error)
}

// CommissionStore : écriture d'une entrée de commission, idempotente par
// order_item_id (les re-tentatives ne doublent jamais une écriture).
type CommissionStore interface {
	RecordCommission(ctx context.Context, entry models.CommissionEntry) error
}

// =============================================
// TAXONOMIE D'ERREURS
// =============================================

// ValidationError : entrée malformée, rejetée avant tout appel réseau.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s (%s)", e.Message, e.Field)
}

// InsufficientStockError : un acheteur concurrent a gagné la course depuis la
// dernière vérification. Porte le détail par ligne pour l'affichage.
type InsufficientStockError struct {
	Shortfalls []AvailabilityVerdict
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s %s: %d demandés, %d en stock", s.Color, s.Size, s.Requested, s.CurrentStock))
	}
	return "stock insuffisant: " + strings.Join(parts, "; ")
}

// PersistenceError : échec transport/stockage. Si OutcomeUnknown est vrai, le
// commit a peut-être abouti — l'appelant doit vérifier l'existence de la
// commande plutôt que réessayer aveuglément.
type PersistenceError struct {
	Op             string
	OutcomeUnknown bool
	Err            error
}

func (e *PersistenceError) Error() string {
	if e.OutcomeUnknown {
		return fmt.Sprintf("persistence: %s a échoué, résultat inconnu: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence: %s a échoué: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
