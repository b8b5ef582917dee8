package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lumea_back_end/internal/models"
)

// PGStore : implémentation PostgreSQL du catalogue et de la passerelle de
// persistance. C'est ici que vit la seule vraie garantie du système : le
// décrément de stock est conditionnel (WHERE quantity >= demandé) et exécuté
// dans la même transaction que l'insertion de la commande.
type PGStore struct {
	Pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{Pool: pool}
}

// --- Catalog ---

func (s *PGStore) ProductDetails(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	err := s.Pool.QueryRow(ctx, `
		SELECT product_id, name, description, base_price, original_price, category, image_urls, tags, is_active, has_variations, created_at, updated_at
		FROM products WHERE product_id = $1`, productID).
		Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.OriginalPrice, &p.Category,
			&p.ImageURLs, &p.Tags, &p.IsActive, &p.HasVariations, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PGStore) ProductVariations(ctx context.Context, productID string) ([]models.ProductVariation, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT variation_id, product_id, color, size, quantity, price_adjustment, sku, is_active, created_at, updated_at
		FROM product_variations WHERE product_id = $1 AND is_active = true
		ORDER BY created_at`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variations []models.ProductVariation
	for rows.Next() {
		var v models.ProductVariation
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Color, &v.Size, &v.Quantity,
			&v.PriceAdjustment, &v.SKU, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		variations = append(variations, v)
	}
	return variations, rows.Err()
}

func (s *PGStore) VariationStock(ctx context.Context, variationID string) (int, error) {
	var stock int
	err := s.Pool.QueryRow(ctx, `SELECT quantity FROM product_variations WHERE variation_id = $1`, variationID).Scan(&stock)
	return stock, err
}

// --- Gateway ---

// CommitOrder exécute le protocole de commit en une transaction :
//  1. décrément conditionnel du stock de chaque ligne (quantity >= demandé
//     re-vérifié par la clause WHERE — c'est la défense contre la course entre
//     la vérification consultative et ce commit)
//  2. insertion de l'en-tête de commande
//  3. insertion des lignes (prix figés) + mouvements de stock
//  4. commit — tout échec intermédiaire annule l'ensemble
func (s *PGStore) CommitOrder(ctx context.Context, draft OrderDraft) (*models.Order, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, wrapPersistence(ctx, "ouverture transaction", err)
	}
	defer tx.Rollback(ctx)

	// 1. Décrément conditionnel — RowsAffected == 0 signifie qu'un acheteur
	// concurrent a vidé le stock depuis la vérification consultative
	var shortfalls []AvailabilityVerdict
	for _, line := range draft.Lines {
		ct, err := tx.Exec(ctx, `
			UPDATE product_variations
			SET quantity = quantity - $1, updated_at = now()
			WHERE variation_id = $2 AND quantity >= $1`,
			line.RequestedQuantity, line.VariationID)
		if err != nil {
			return nil, wrapPersistence(ctx, "décrément stock", err)
		}
		if ct.RowsAffected() == 0 {
			var current int
			if err := tx.QueryRow(ctx, `SELECT quantity FROM product_variations WHERE variation_id = $1`,
				line.VariationID).Scan(&current); err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, wrapPersistence(ctx, "relecture stock", err)
			}
			shortfalls = append(shortfalls, AvailabilityVerdict{
				VariationID:  line.VariationID,
				Color:        line.Color,
				Size:         line.Size,
				Requested:    line.RequestedQuantity,
				CurrentStock: current,
				Available:    false,
			})
		}
	}
	if len(shortfalls) > 0 {
		// Rollback via defer : aucun décrément partiel ne survit
		return nil, &InsufficientStockError{Shortfalls: shortfalls}
	}

	// 2. En-tête de commande
	order := &models.Order{
		ID:          uuid.NewString(),
		UserID:      draft.UserID,
		PhoneNumber: draft.PhoneNumber,
		Status:      models.OrderStatusPaid,
		TotalAmount: draft.TotalAmount,
		CreatedAt:   time.Now(),
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (order_id, user_id, phone_number, status, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		order.ID, order.UserID, order.PhoneNumber, order.Status, order.TotalAmount, order.CreatedAt); err != nil {
		return nil, wrapPersistence(ctx, "insertion commande", err)
	}

	// 3. Lignes (snapshot immuable) + traçage des mouvements de stock
	for _, line := range draft.Lines {
		item := models.OrderItem{
			ID:          uuid.NewString(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			VariationID: line.VariationID,
			Color:       line.Color,
			Size:        line.Size,
			SKU:         line.SKU,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.RequestedQuantity,
		}
		if line.AffiliateID != "" {
			aff := line.AffiliateID
			item.AffiliateID = &aff
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_item_id, order_id, product_id, product_name, variation_id, color, size, sku, unit_price, quantity, affiliate_id, commission_earned)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0)`,
			item.ID, item.OrderID, item.ProductID, item.ProductName, item.VariationID,
			item.Color, item.Size, item.SKU, item.UnitPrice, item.Quantity, item.AffiliateID); err != nil {
			return nil, wrapPersistence(ctx, "insertion ligne", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_movements (movement_id, product_id, variation_id, type, quantity, prev_stock, new_stock, reason, order_id, user_id, created_at)
			SELECT $1, $2, $3, 'sale', $4, quantity + $4, quantity, 'commande', $5, $6, now()
			FROM product_variations WHERE variation_id = $3`,
			uuid.NewString(), line.ProductID, line.VariationID, line.RequestedQuantity,
			order.ID, draft.UserID); err != nil {
			return nil, wrapPersistence(ctx, "insertion mouvement stock", err)
		}

		order.Items = append(order.Items, item)
	}

	// 4. Tout-ou-rien
	if err := tx.Commit(ctx); err != nil {
		// Le sort du commit est inconnu sur timeout : l'appelant doit vérifier
		// l'existence de la commande au lieu de réessayer en aveugle
		return nil, &PersistenceError{Op: "commit transaction", OutcomeUnknown: true, Err: err}
	}

	return order, nil
}

// --- CommissionStore ---

// RecordCommission écrit l'entrée de commission et fige le montant sur la
// ligne de commande. Idempotent : une reprise sur une ligne déjà créditée ne
// double jamais l'écriture.
func (s *PGStore) RecordCommission(ctx context.Context, entry models.CommissionEntry) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrapPersistence(ctx, "ouverture transaction commission", err)
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		INSERT INTO commission_entries (commission_id, order_item_id, affiliate_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_item_id) DO NOTHING`,
		entry.ID, entry.OrderItemID, entry.AffiliateID, entry.Amount, entry.Status, entry.CreatedAt)
	if err != nil {
		return wrapPersistence(ctx, "insertion commission", err)
	}
	if ct.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx, `UPDATE order_items SET commission_earned = $1 WHERE order_item_id = $2`,
			entry.Amount, entry.OrderItemID); err != nil {
			return wrapPersistence(ctx, "mise à jour ligne", err)
		}
	}

	return tx.Commit(ctx)
}

func wrapPersistence(ctx context.Context, op string, err error) error {
	return &PersistenceError{
		Op:             op,
		OutcomeUnknown: errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil,
		Err:            err,
	}
}
