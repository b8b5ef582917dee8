package user

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lumea_back_end/internal/database"
	"lumea_back_end/internal/models"
)

const cartTTL = 30 * 24 * time.Hour

// notifyCartChange publie sur le canal Redis du user pour la synchro WebSocket
func notifyCartChange(ctx context.Context, userID, event string) {
	database.Redis.Publish(ctx, "cart:"+userID, event)
}

func loadCart(ctx context.Context, userID string) []models.CartItem {
	data, err := database.RedisClient.Get(ctx, "cart:"+userID).Result()
	if err != nil || data == "" {
		return []models.CartItem{}
	}
	var cart []models.CartItem
	if json.Unmarshal([]byte(data), &cart) != nil {
		return []models.CartItem{}
	}
	return cart
}

func saveCart(ctx context.Context, userID string, cart []models.CartItem) {
	jsonData, _ := json.Marshal(cart)
	database.RedisClient.Set(ctx, "cart:"+userID, jsonData, cartTTL)
}

//
// 🟢 GET /api/cart
//
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	cart := loadCart(context.Background(), userID)
	c.JSON(http.StatusOK, gin.H{"items": cart})
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		ProductID   string `json:"productId"`
		VariationID string `json:"variationId"`
		Quantity    int    `json:"quantity"`
		AffiliateID string `json:"affiliateId"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	ctx := context.Background()

	// 🧩 Récupération du produit depuis PostgreSQL
	var product models.Product
	err := database.PG.QueryRow(ctx,
		`SELECT product_id, name, base_price, image_urls FROM products
		 WHERE product_id = $1 AND is_active = true`, input.ProductID).Scan(
		&product.ID, &product.Name, &product.BasePrice, &product.ImageURLs)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	// Déclinaison choisie (couleur/taille) si fournie — le prix reste indicatif,
	// il sera recalculé au checkout
	price := product.BasePrice
	color, size := "", ""
	if input.VariationID != "" {
		var adjustment float64
		err := database.PG.QueryRow(ctx,
			`SELECT color, size, price_adjustment FROM product_variations
			 WHERE variation_id = $1 AND product_id = $2 AND is_active = true`,
			input.VariationID, input.ProductID).Scan(&color, &size, &adjustment)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Déclinaison introuvable"})
			return
		}
		price += adjustment
	}

	// 🖼️ Première image pour l'aperçu panier
	imageURL := ""
	if len(product.ImageURLs) > 0 {
		imageURL = product.ImageURLs[0]
	}

	item := models.CartItem{
		ProductID:   input.ProductID,
		VariationID: input.VariationID,
		Name:        product.Name,
		Color:       color,
		Size:        size,
		Price:       price,
		Quantity:    input.Quantity,
		ImageURL:    imageURL,
		AffiliateID: input.AffiliateID,
	}

	cart := loadCart(ctx, userID)

	// 🔁 Met à jour ou ajoute l'item (même produit + même déclinaison)
	found := false
	for i := range cart {
		if cart[i].ProductID == item.ProductID && cart[i].VariationID == item.VariationID {
			cart[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, item)
	}

	saveCart(ctx, userID, cart)
	notifyCartChange(ctx, userID, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit ajouté au panier",
		"items":   cart,
	})
}

//
// 🟡 PUT /api/cart/quantity
//
func UpdateCartQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		ProductID   string `json:"productId"`
		VariationID string `json:"variationId"`
		Quantity    int    `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx := context.Background()
	cart := loadCart(ctx, userID)

	newCart := cart[:0]
	for _, item := range cart {
		if item.ProductID == input.ProductID && item.VariationID == input.VariationID {
			if input.Quantity == 0 {
				continue // quantité 0 = suppression
			}
			item.Quantity = input.Quantity
		}
		newCart = append(newCart, item)
	}

	saveCart(ctx, userID, newCart)
	notifyCartChange(ctx, userID, "updated")

	c.JSON(http.StatusOK, gin.H{"items": newCart})
}

//
// ❌ DELETE /api/cart/:productId
//
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID := c.Param("productId")
	variationID := c.Query("variationId")

	ctx := context.Background()
	cart := loadCart(ctx, userID)
	if len(cart) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Panier vide"})
		return
	}

	newCart := []models.CartItem{}
	for _, item := range cart {
		if item.ProductID == productID && (variationID == "" || item.VariationID == variationID) {
			continue
		}
		newCart = append(newCart, item)
	}

	saveCart(ctx, userID, newCart)
	notifyCartChange(ctx, userID, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit supprimé du panier",
		"items":   newCart,
	})
}

//
// 🧹 DELETE /api/cart/clear
//
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	ctx := context.Background()
	if err := database.RedisClient.Del(ctx, "cart:"+userID).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}

	notifyCartChange(ctx, userID, "cleared")

	c.JSON(http.StatusOK, gin.H{
		"message": "Panier vidé avec succès",
	})
}
