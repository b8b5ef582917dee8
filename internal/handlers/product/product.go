package product

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lumea_back_end/internal/cache"
	"lumea_back_end/internal/database"
	"lumea_back_end/internal/models"
	"lumea_back_end/internal/services"
)

func CreateProduct(c *gin.Context) {
	var p models.Product

	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if p.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}
	if p.BasePrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix de base invalide"})
		return
	}

	p.ID = uuid.New().String()
	p.IsActive = true
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	ctx := context.Background()
	_, err := database.PG.Exec(ctx,
		`INSERT INTO products (product_id, name, description, base_price, original_price,
		                       category, image_urls, tags, is_active, has_variations, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Name, p.Description, p.BasePrice, p.OriginalPrice,
		p.Category, p.ImageURLs, p.Tags, p.IsActive, p.HasVariations, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	// Invalider le cache de la liste
	database.RedisClient.Del(ctx, "products:all")

	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(p)

	c.JSON(http.StatusOK, p)
}

func GetAllProducts(c *gin.Context) {
	ctx := context.Background()
	cacheKey := "products:all"

	// ✅ Vérifie le cache Redis
	if val, err := database.RedisClient.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, signProductImages(ctx, cached))
			return
		}
	}

	rows, err := database.PG.Query(ctx,
		`SELECT product_id, name, description, base_price, original_price, category,
		        image_urls, tags, is_active, has_variations, created_at, updated_at
		 FROM products WHERE is_active = true ORDER BY created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produits"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.OriginalPrice, &p.Category,
			&p.ImageURLs, &p.Tags, &p.IsActive, &p.HasVariations, &p.CreatedAt, &p.UpdatedAt); err != nil {
			continue
		}
		products = append(products, p)
	}

	// ✅ Mise en cache (5 min) — URLs brutes, la signature se fait par requête
	if jsonData, err := json.Marshal(products); err == nil {
		database.RedisClient.Set(ctx, cacheKey, jsonData, 5*time.Minute)
	}

	c.JSON(http.StatusOK, signProductImages(ctx, products))
}

// GetProduct renvoie un produit avec toutes ses déclinaisons
func GetProduct(c *gin.Context) {
	productID := c.Param("id")
	ctx := context.Background()

	var p models.Product
	err := database.PG.QueryRow(ctx,
		`SELECT product_id, name, description, base_price, original_price, category,
		        image_urls, tags, is_active, has_variations, created_at, updated_at
		 FROM products WHERE product_id = $1`, productID).Scan(
		&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.OriginalPrice, &p.Category,
		&p.ImageURLs, &p.Tags, &p.IsActive, &p.HasVariations, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	variations, err := loadVariations(ctx, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération déclinaisons"})
		return
	}

	p.ImageURLs = services.SignImageURLs(ctx, p.ImageURLs)

	c.JSON(http.StatusOK, gin.H{
		"product":    p,
		"variations": variations,
	})
}

func GetProductsByCategory(c *gin.Context) {
	category := c.Param("category")
	ctx := context.Background()

	rows, err := database.PG.Query(ctx,
		`SELECT product_id, name, description, base_price, original_price, category,
		        image_urls, tags, is_active, has_variations, created_at, updated_at
		 FROM products WHERE category = $1 AND is_active = true ORDER BY created_at DESC`, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produits"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.OriginalPrice, &p.Category,
			&p.ImageURLs, &p.Tags, &p.IsActive, &p.HasVariations, &p.CreatedAt, &p.UpdatedAt); err != nil {
			continue
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, signProductImages(ctx, products))
}

// signProductImages signe les URLs d'images de chaque produit d'une liste.
func signProductImages(ctx context.Context, products []models.Product) []models.Product {
	for i := range products {
		products[i].ImageURLs = services.SignImageURLs(ctx, products[i].ImageURLs)
	}
	return products
}

func UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var input struct {
		Name          *string   `json:"name"`
		Description   *string   `json:"description"`
		BasePrice     *float64  `json:"base_price"`
		OriginalPrice *float64  `json:"original_price"`
		Category      *string   `json:"category"`
		ImageURLs     *[]string `json:"image_urls"`
		Tags          *[]string `json:"tags"`
		IsActive      *bool     `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.BasePrice != nil && *input.BasePrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix de base invalide"})
		return
	}

	ctx := context.Background()

	ct, err := database.PG.Exec(ctx,
		`UPDATE products SET
			name          = COALESCE($1, name),
			description   = COALESCE($2, description),
			base_price    = COALESCE($3, base_price),
			original_price= COALESCE($4, original_price),
			category      = COALESCE($5, category),
			image_urls    = COALESCE($6, image_urls),
			tags          = COALESCE($7, tags),
			is_active     = COALESCE($8, is_active),
			updated_at    = now()
		 WHERE product_id = $9`,
		input.Name, input.Description, input.BasePrice, input.OriginalPrice,
		input.Category, input.ImageURLs, input.Tags, input.IsActive, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}
	if ct.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	cache.InvalidateProductCache(productID)
	database.RedisClient.Del(ctx, "products:all")

	// Ré-indexer la version à jour
	var p models.Product
	err = database.PG.QueryRow(ctx,
		`SELECT product_id, name, description, base_price, original_price, category,
		        image_urls, tags, is_active, has_variations, created_at, updated_at
		 FROM products WHERE product_id = $1`, productID).Scan(
		&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.OriginalPrice, &p.Category,
		&p.ImageURLs, &p.Tags, &p.IsActive, &p.HasVariations, &p.CreatedAt, &p.UpdatedAt)
	if err == nil {
		if p.IsActive {
			go services.IndexProduct(p)
		} else {
			go services.RemoveProductFromIndex(p.ID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit mis à jour"})
}

// DeleteProduct désactive un produit (soft delete — les commandes passées y
// font toujours référence)
func DeleteProduct(c *gin.Context) {
	productID := c.Param("id")
	ctx := context.Background()

	ct, err := database.PG.Exec(ctx,
		`UPDATE products SET is_active = false, updated_at = now() WHERE product_id = $1`, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}
	if ct.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	cache.InvalidateProductCache(productID)
	database.RedisClient.Del(ctx, "products:all")
	go services.RemoveProductFromIndex(productID)

	c.JSON(http.StatusOK, gin.H{"message": "Produit désactivé"})
}

func loadVariations(ctx context.Context, productID string) ([]models.ProductVariation, error) {
	rows, err := database.PG.Query(ctx,
		`SELECT variation_id, product_id, color, size, quantity, price_adjustment, sku,
		        is_active, created_at, updated_at
		 FROM product_variations WHERE product_id = $1 AND is_active = true
		 ORDER BY color, size`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	variations := []models.ProductVariation{}
	for rows.Next() {
		var v models.ProductVariation
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Color, &v.Size, &v.Quantity, &v.PriceAdjustment,
			&v.SKU, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		variations = append(variations, v)
	}
	return variations, rows.Err()
}
