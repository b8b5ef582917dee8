package cache

import (
	"context"
	"encoding/json"
	"time"

	"lumea_back_end/internal/database"
	"lumea_back_end/internal/models"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis ou PostgreSQL
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de PostgreSQL
	var user models.User
	err = database.PG.QueryRow(ctx, `SELECT user_id, name, email, role, affiliate_code, created_at
		FROM users WHERE user_id = $1`, userID).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &user.AffiliateCode, &user.CreatedAt)
	if err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return &user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:"+userID)
}

// GetProductNamesFromCache récupère plusieurs noms de produits
func GetProductNamesFromCache(productIDs []string) map[string]string {
	ctx := context.Background()
	result := make(map[string]string)
	missingIDs := []string{}

	// 1. Essayer de récupérer depuis Redis
	for _, productID := range productIDs {
		key := "product_name:" + productID
		name, err := database.Redis.Get(ctx, key).Result()
		if err == nil {
			result[productID] = name
		} else {
			missingIDs = append(missingIDs, productID)
		}
	}

	// 2. Récupérer les produits manquants depuis PostgreSQL
	for _, productID := range missingIDs {
		var name string
		err := database.PG.QueryRow(ctx, "SELECT name FROM products WHERE product_id = $1", productID).Scan(&name)
		if err != nil {
			continue
		}
		result[productID] = name
		// Mettre en cache
		database.Redis.Set(ctx, "product_name:"+productID, name, ProductCacheTTL)
	}

	return result
}

// InvalidateProductCache invalide le cache d'un produit
func InvalidateProductCache(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID, "product_name:"+productID)
}
