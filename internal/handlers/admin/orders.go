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

// GetAllOrders liste toutes les commandes, filtrables par statut
func GetAllOrders(c *gin.Context) {
	status := c.Query("status")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}

	ctx := context.Background()

	query := `SELECT order_id, user_id, phone_number, status, total_amount, created_at
	          FROM orders`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit)

	rows, err := database.PG.Query(ctx, query, args...)
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

// UpdateOrderStatus fait avancer une commande dans son cycle de vie
func UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	switch input.Status {
	case models.OrderStatusPaid, models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide"})
		return
	}

	ct, err := database.PG.Exec(context.Background(),
		`UPDATE orders SET status = $1 WHERE order_id = $2`, input.Status, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}
	if ct.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	log.Printf("✅ Commande %s → %s", orderID, input.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "status": input.Status})
}
