package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lumea_back_end/internal/cache"
	"lumea_back_end/internal/database"
	"lumea_back_end/internal/models"
)

// GetAllUsers liste les comptes pour le dashboard admin
func GetAllUsers(c *gin.Context) {
	rows, err := database.PG.Query(context.Background(),
		`SELECT user_id, name, email, role, affiliate_code, created_at
		 FROM users ORDER BY created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération utilisateurs"})
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.AffiliateCode, &u.CreatedAt) == nil {
			users = append(users, u)
		}
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// SetAffiliateCode attribue (ou retire) un code de parrainage à un utilisateur
func SetAffiliateCode(c *gin.Context) {
	userID := c.Param("id")

	var input struct {
		AffiliateCode *string `json:"affiliateCode"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ct, err := database.PG.Exec(context.Background(),
		`UPDATE users SET affiliate_code = $1 WHERE user_id = $2`, input.AffiliateCode, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}
	if ct.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	cache.InvalidateUserCache(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Code de parrainage mis à jour"})
}
