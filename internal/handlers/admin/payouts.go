package admin

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lumea_back_end/internal/checkout"
	"lumea_back_end/internal/config"
	"lumea_back_end/internal/database"
	"lumea_back_end/internal/models"
)

// GetCommissions liste les écritures de commission, filtrables par statut et
// par affilié
func GetCommissions(c *gin.Context) {
	status := c.Query("status")
	affiliateID := c.Query("affiliateId")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 1000 {
		limit = 100
	}

	query := `SELECT commission_id, order_item_id, affiliate_id, amount, status, created_at
	          FROM commission_entries WHERE 1=1`
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if affiliateID != "" {
		args = append(args, affiliateID)
		query += ` AND affiliate_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit)

	rows, err := database.PG.Query(context.Background(), query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commissions"})
		return
	}
	defer rows.Close()

	entries := []models.CommissionEntry{}
	for rows.Next() {
		var e models.CommissionEntry
		if rows.Scan(&e.ID, &e.OrderItemID, &e.AffiliateID, &e.Amount, &e.Status, &e.CreatedAt) == nil {
			entries = append(entries, e)
		}
	}

	c.JSON(http.StatusOK, gin.H{"commissions": entries})
}

// MarkCommissionPaid passe une écriture de pending à paid après versement
func MarkCommissionPaid(c *gin.Context) {
	commissionID := c.Param("id")

	ct, err := database.PG.Exec(context.Background(),
		`UPDATE commission_entries SET status = $1
		 WHERE commission_id = $2 AND status = $3`,
		models.CommissionStatusPaid, commissionID, models.CommissionStatusPending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commission"})
		return
	}
	if ct.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commission introuvable ou déjà traitée"})
		return
	}

	log.Printf("💰 Commission %s marquée comme versée", commissionID)
	c.JSON(http.StatusOK, gin.H{"message": "Commission versée"})
}

// RetryCommission rejoue l'attribution d'une ligne de commande dont la
// commission a échoué. L'écriture étant idempotente par ligne, rejouer une
// attribution déjà passée est sans effet.
func RetryCommission(c *gin.Context) {
	orderItemID := c.Param("orderItemId")
	ctx := context.Background()

	var item models.OrderItem
	err := database.PG.QueryRow(ctx,
		`SELECT order_item_id, order_id, product_id, product_name, variation_id,
		        color, size, sku, unit_price, quantity, affiliate_id, commission_earned
		 FROM order_items WHERE order_item_id = $1`, orderItemID).Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.VariationID,
		&item.Color, &item.Size, &item.SKU, &item.UnitPrice, &item.Quantity,
		&item.AffiliateID, &item.CommissionEarned)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ligne de commande introuvable"})
		return
	}

	store := checkout.NewPGStore(database.PG)
	entry, err := checkout.NewAttributor(store, config.CommissionRate()).AttributeItem(ctx, item)
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
			return
		}
		log.Printf("❌ Échec rejeu commission pour ligne %s: %v", orderItemID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement commission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Commission enregistrée",
		"commission": entry,
	})
}
