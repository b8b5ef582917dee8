package admin

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lumea_back_end/internal/database"
	"lumea_back_end/internal/models"
)

// GetDashboardStats retourne les statistiques du dashboard admin
func GetDashboardStats(c *gin.Context) {
	ctx := context.Background()

	// Statistiques des commandes
	var totalOrders int
	var totalRevenue float64
	err := database.PG.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders`).Scan(&totalOrders, &totalRevenue)
	if err != nil {
		log.Printf("❌ Erreur lecture stats commandes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture statistiques"})
		return
	}

	statusCount := map[string]int{}
	rows, err := database.PG.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err == nil {
		for rows.Next() {
			var status string
			var count int
			if rows.Scan(&status, &count) == nil {
				statusCount[status] = count
			}
		}
		rows.Close()
	}

	// Statistiques des produits (stock au niveau des déclinaisons)
	var totalProducts, lowStockVariations, outOfStockVariations int
	err = database.PG.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM products WHERE is_active = true),
			COUNT(*) FILTER (WHERE quantity > 0 AND quantity < 10),
			COUNT(*) FILTER (WHERE quantity = 0)
		 FROM product_variations WHERE is_active = true`).Scan(
		&totalProducts, &lowStockVariations, &outOfStockVariations)
	if err != nil {
		log.Printf("❌ Erreur lecture produits: %v", err)
	}

	// Statistiques des utilisateurs
	var totalUsers int
	if err := database.PG.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&totalUsers); err != nil {
		log.Printf("❌ Erreur lecture utilisateurs: %v", err)
	}

	// Commissions en attente
	var pendingCommissions float64
	database.PG.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM commission_entries WHERE status = 'pending'`).Scan(&pendingCommissions)

	var averageOrderValue float64
	if totalOrders > 0 {
		averageOrderValue = totalRevenue / float64(totalOrders)
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": gin.H{
			"total":               totalOrders,
			"revenue":             totalRevenue,
			"average_order_value": averageOrderValue,
			"by_status":           statusCount,
		},
		"products": gin.H{
			"total":        totalProducts,
			"low_stock":    lowStockVariations,
			"out_of_stock": outOfStockVariations,
		},
		"users": gin.H{
			"total": totalUsers,
		},
		"commissions": gin.H{
			"pending_amount": pendingCommissions,
		},
	})
}

// GetRecentOrders retourne les dernières commandes pour le dashboard
func GetRecentOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := database.PG.Query(context.Background(),
		`SELECT order_id, user_id, phone_number, status, total_amount, created_at
		 FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if rows.Scan(&o.ID, &o.UserID, &o.PhoneNumber, &o.Status, &o.TotalAmount, &o.CreatedAt) == nil {
			orders = append(orders, o)
		}
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetTopProducts retourne les produits les plus vendus
func GetTopProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := database.PG.Query(context.Background(),
		`SELECT product_id, product_name, SUM(quantity) AS sold, SUM(unit_price * quantity) AS revenue
		 FROM order_items
		 GROUP BY product_id, product_name
		 ORDER BY sold DESC LIMIT $1`, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération top produits"})
		return
	}
	defer rows.Close()

	top := []gin.H{}
	for rows.Next() {
		var productID, name string
		var sold int
		var revenue float64
		if rows.Scan(&productID, &name, &sold, &revenue) == nil {
			top = append(top, gin.H{
				"product_id":   productID,
				"product_name": name,
				"sold":         sold,
				"revenue":      revenue,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"products": top})
}
