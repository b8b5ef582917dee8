package checkout

import (
	"context"
	"fmt"
	"sync"

	"lumea_back_end/internal/models"
)

// fakeCatalog : catalogue en mémoire pour les tests, avec comptage des appels
// (pour vérifier le batching) et pannes simulables par produit/variation.
type fakeCatalog struct {
	mu             sync.Mutex
	products       map[string]*models.Product
	variations     map[string][]models.ProductVariation
	stock          map[string]int
	productCalls   map[string]int
	variationCalls map[string]int
	failProducts   map[string]bool
	failOnce       map[string]bool
	failStock      map[string]bool
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products:       map[string]*models.Product{},
		variations:     map[string][]models.ProductVariation{},
		stock:          map[string]int{},
		productCalls:   map[string]int{},
		variationCalls: map[string]int{},
		failProducts:   map[string]bool{},
		failOnce:       map[string]bool{},
		failStock:      map[string]bool{},
	}
}

func (c *fakeCatalog) addProduct(p models.Product, variations ...models.ProductVariation) {
	c.products[p.ID] = &p
	c.variations[p.ID] = variations
	for _, v := range variations {
		c.stock[v.ID] = v.Quantity
	}
}

func (c *fakeCatalog) ProductDetails(ctx context.Context, productID string) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.productCalls[productID]++
	if c.failOnce[productID] {
		// Panne transitoire : le prochain appel réussira
		delete(c.failOnce, productID)
		return nil, fmt.Errorf("catalogue indisponible")
	}
	if c.failProducts[productID] {
		return nil, fmt.Errorf("catalogue indisponible")
	}
	p, ok := c.products[productID]
	if !ok {
		return nil, fmt.Errorf("produit introuvable: %s", productID)
	}
	return p, nil
}

func (c *fakeCatalog) ProductVariations(ctx context.Context, productID string) ([]models.ProductVariation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variationCalls[productID]++
	if c.failProducts[productID] {
		return nil, fmt.Errorf("catalogue indisponible")
	}
	return c.variations[productID], nil
}

func (c *fakeCatalog) VariationStock(ctx context.Context, variationID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failStock[variationID] {
		return 0, fmt.Errorf("lecture stock impossible")
	}
	stock, ok := c.stock[variationID]
	if !ok {
		return 0, fmt.Errorf("variation introuvable: %s", variationID)
	}
	return stock, nil
}

// fakeGateway : passerelle en mémoire qui reproduit la sémantique du commit
// réel — vérification conditionnelle et décrément sous le même verrou, donc
// atomiques vis-à-vis des commits concurrents.
type fakeGateway struct {
	mu       sync.Mutex
	stock    map[string]int
	orders   []*models.Order
	failWith error
}

func newFakeGateway(stock map[string]int) *fakeGateway {
	return &fakeGateway{stock: stock}
}

func (g *fakeGateway) CommitOrder(ctx context.Context, draft OrderDraft) (*models.Order, error) {
	if g.failWith != nil {
		return nil, g.failWith
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var shortfalls []AvailabilityVerdict
	for _, line := range draft.Lines {
		if g.stock[line.VariationID] < line.RequestedQuantity {
			shortfalls = append(shortfalls, AvailabilityVerdict{
				VariationID:  line.VariationID,
				Color:        line.Color,
				Size:         line.Size,
				Requested:    line.RequestedQuantity,
				CurrentStock: g.stock[line.VariationID],
				Available:    false,
			})
		}
	}
	if len(shortfalls) > 0 {
		return nil, &InsufficientStockError{Shortfalls: shortfalls}
	}

	order := &models.Order{
		ID:          fmt.Sprintf("order-%d", len(g.orders)+1),
		UserID:      draft.UserID,
		PhoneNumber: draft.PhoneNumber,
		Status:      models.OrderStatusPaid,
		TotalAmount: draft.TotalAmount,
	}
	for i, line := range draft.Lines {
		g.stock[line.VariationID] -= line.RequestedQuantity
		item := models.OrderItem{
			ID:          fmt.Sprintf("%s-item-%d", order.ID, i+1),
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
		order.Items = append(order.Items, item)
	}
	g.orders = append(g.orders, order)
	return order, nil
}

// fakeCommissionStore : enregistre les entrées, idempotent par order_item_id,
// avec panne simulable pour un affilié donné.
type fakeCommissionStore struct {
	mu              sync.Mutex
	entries         map[string]models.CommissionEntry // par order_item_id
	failedAffiliate string
}

func newFakeCommissionStore() *fakeCommissionStore {
	return &fakeCommissionStore{entries: map[string]models.CommissionEntry{}}
}

func (s *fakeCommissionStore) RecordCommission(ctx context.Context, entry models.CommissionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failedAffiliate != "" && entry.AffiliateID == s.failedAffiliate {
		return fmt.Errorf("écriture commission refusée")
	}
	if _, exists := s.entries[entry.OrderItemID]; exists {
		return nil
	}
	s.entries[entry.OrderItemID] = entry
	return nil
}
