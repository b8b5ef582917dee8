package product

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lumea_back_end/internal/cache"
	"lumea_back_end/internal/database"
	"lumea_back_end/internal/models"
)

const lowStockThreshold = 5

//
// 🟡 PUT /api/admin/inventory/:variantId/stock
// Ajustement manuel du stock (réassort, correction, retour). Le stock ne peut
// jamais passer sous zéro, la condition est portée par l'UPDATE lui-même.
//
func UpdateStock(c *gin.Context) {
	variationID := c.Param("variantId")
	adminID := c.GetString("user_id")

	var input struct {
		Delta  int    `json:"delta"`
		Type   string `json:"type"` // "restock", "adjustment", "return"
		Reason string `json:"reason"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.Delta == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	switch input.Type {
	case "restock", "adjustment", "return":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de mouvement invalide"})
		return
	}

	ctx := context.Background()

	tx, err := database.PG.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	defer tx.Rollback(ctx)

	var productID string
	var prevStock int
	err = tx.QueryRow(ctx,
		`SELECT product_id, quantity FROM product_variations WHERE variation_id = $1 FOR UPDATE`,
		variationID).Scan(&productID, &prevStock)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Déclinaison introuvable"})
		return
	}

	newStock := prevStock + input.Delta
	if newStock < 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":         "Le stock ne peut pas devenir négatif",
			"current_stock": prevStock,
		})
		return
	}

	if _, err := tx.Exec(ctx,
		`UPDATE product_variations SET quantity = $1, updated_at = now() WHERE variation_id = $2`,
		newStock, variationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour stock"})
		return
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO stock_movements (movement_id, product_id, variation_id, type, quantity,
		                              prev_stock, new_stock, reason, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.New().String(), productID, variationID, input.Type, input.Delta,
		prevStock, newStock, input.Reason, adminID, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement mouvement"})
		return
	}

	if err := tx.Commit(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur commit"})
		return
	}

	if newStock <= lowStockThreshold {
		log.Printf("⚠️ Stock bas pour déclinaison %s: %d restant(s)", variationID, newStock)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Stock mis à jour",
		"prev_stock": prevStock,
		"new_stock":  newStock,
	})
}

//
// 🟢 GET /api/admin/inventory/movements
//
func GetStockMovements(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	variationID := c.Query("variationId")

	ctx := context.Background()

	query := `SELECT movement_id, product_id, variation_id, type, quantity, prev_stock,
	                 new_stock, reason, order_id, user_id, created_at
	          FROM stock_movements`
	args := []interface{}{}
	if variationID != "" {
		query += ` WHERE variation_id = $1`
		args = append(args, variationID)
	}
	query += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit)

	rows, err := database.PG.Query(ctx, query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération mouvements"})
		return
	}
	defer rows.Close()

	movements := []models.StockMovement{}
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.VariationID, &m.Type, &m.Quantity,
			&m.PrevStock, &m.NewStock, &m.Reason, &m.OrderID, &m.UserID, &m.CreatedAt); err != nil {
			continue
		}
		movements = append(movements, m)
	}

	// Les mouvements ne portent que l'ID produit — on résout les noms via le
	// cache Redis pour éviter une requête par ligne
	productNames := cache.GetProductNamesFromCache(movementProductIDs(movements))

	c.JSON(http.StatusOK, gin.H{
		"movements":     movements,
		"product_names": productNames,
	})
}

// movementProductIDs renvoie les IDs produit distincts d'une liste de mouvements.
func movementProductIDs(movements []models.StockMovement) []string {
	seen := map[string]bool{}
	ids := []string{}
	for _, m := range movements {
		if !seen[m.ProductID] {
			seen[m.ProductID] = true
			ids = append(ids, m.ProductID)
		}
	}
	return ids
}

//
// 🟢 GET /api/admin/inventory/low-stock
//
func GetLowStockAlerts(c *gin.Context) {
	ctx := context.Background()

	rows, err := database.PG.Query(ctx,
		`SELECT v.variation_id, v.product_id, p.name, v.color, v.size, v.quantity, v.sku
		 FROM product_variations v
		 JOIN products p ON p.product_id = v.product_id
		 WHERE v.is_active = true AND v.quantity <= $1
		 ORDER BY v.quantity ASC`, lowStockThreshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération alertes"})
		return
	}
	defer rows.Close()

	alerts := []gin.H{}
	for rows.Next() {
		var variationID, productID, name, color, size, sku string
		var quantity int
		if err := rows.Scan(&variationID, &productID, &name, &color, &size, &quantity, &sku); err != nil {
			continue
		}
		alerts = append(alerts, gin.H{
			"variation_id": variationID,
			"product_id":   productID,
			"product_name": name,
			"color":        color,
			"size":         size,
			"quantity":     quantity,
			"sku":          sku,
		})
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "threshold": lowStockThreshold})
}

//
// 🟢 GET /api/admin/inventory/stats
//
func GetInventoryStats(c *gin.Context) {
	ctx := context.Background()

	var stats models.InventoryStats
	err := database.PG.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM products WHERE is_active = true),
			COUNT(*),
			COUNT(*) FILTER (WHERE v.quantity > 0 AND v.quantity <= $1),
			COUNT(*) FILTER (WHERE v.quantity = 0),
			COALESCE(SUM(v.quantity * (p.base_price + v.price_adjustment)), 0)
		 FROM product_variations v
		 JOIN products p ON p.product_id = v.product_id
		 WHERE v.is_active = true`, lowStockThreshold).Scan(
		&stats.TotalProducts, &stats.TotalVariations, &stats.LowStockVariations,
		&stats.OutOfStockVariations, &stats.TotalValue)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul statistiques"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
