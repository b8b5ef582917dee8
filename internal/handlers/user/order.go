package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lumea_back_end/internal/database"
	"lumea_back_end/internal/models"
)

// ✅ Récupère toutes les commandes de l'utilisateur connecté
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := database.PG.Query(ctx,
		`SELECT order_id, user_id, phone_number, status, total_amount, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		log.Println("❌ Erreur récupération commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.PhoneNumber, &o.Status, &o.TotalAmount, &o.CreatedAt); err != nil {
			log.Println("❌ Erreur décodage commande:", err)
			continue
		}
		orders = append(orders, o)
	}

	// Charger les lignes de chaque commande
	for i := range orders {
		items, err := loadOrderItems(ctx, orders[i].ID)
		if err != nil {
			log.Println("❌ Erreur lignes commande:", err)
			continue
		}
		orders[i].Items = items
	}

	log.Printf("✅ %d commandes trouvées pour user %s", len(orders), userID)

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}

// ✅ Récupère une commande spécifique par ID
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("id")

	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.Order
	// ✅ Sécurité : on vérifie que la commande appartient bien à l'utilisateur
	err := database.PG.QueryRow(ctx,
		`SELECT order_id, user_id, phone_number, status, total_amount, created_at
		 FROM orders WHERE order_id = $1 AND user_id = $2`, orderID, userID).Scan(
		&order.ID, &order.UserID, &order.PhoneNumber, &order.Status, &order.TotalAmount, &order.CreatedAt)
	if err != nil {
		log.Println("❌ Commande introuvable:", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	items, err := loadOrderItems(ctx, order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération lignes"})
		return
	}
	order.Items = items

	c.JSON(http.StatusOK, order)
}

func loadOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := database.PG.Query(ctx,
		`SELECT order_item_id, order_id, product_id, product_name, variation_id,
		        color, size, sku, unit_price, quantity, affiliate_id, commission_earned
		 FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.VariationID,
			&it.Color, &it.Size, &it.SKU, &it.UnitPrice, &it.Quantity, &it.AffiliateID, &it.CommissionEarned); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
