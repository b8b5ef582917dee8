package product

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lumea_back_end/internal/database"
	"lumea_back_end/internal/models"
)

func CreateProductVariant(c *gin.Context) {
	productID := c.Param("id")

	var v models.ProductVariation
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if v.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le stock ne peut pas être négatif"})
		return
	}

	ctx := context.Background()

	// Le produit doit exister
	var exists bool
	if err := database.PG.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE product_id = $1)`, productID).Scan(&exists); err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	v.ID = uuid.New().String()
	v.ProductID = productID
	v.IsActive = true
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := database.PG.Exec(ctx,
		`INSERT INTO product_variations (variation_id, product_id, color, size, quantity,
		                                 price_adjustment, sku, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		v.ID, v.ProductID, v.Color, v.Size, v.Quantity, v.PriceAdjustment, v.SKU, v.IsActive, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création déclinaison: " + err.Error()})
		return
	}

	// Marquer le produit comme décliné
	database.PG.Exec(ctx,
		`UPDATE products SET has_variations = true, updated_at = now() WHERE product_id = $1`, productID)

	c.JSON(http.StatusCreated, v)
}

func GetProductVariants(c *gin.Context) {
	productID := c.Param("id")

	variations, err := loadVariations(context.Background(), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération déclinaisons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"variations": variations})
}

func UpdateProductVariant(c *gin.Context) {
	variationID := c.Param("variantId")

	var input struct {
		Color           *string  `json:"color"`
		Size            *string  `json:"size"`
		PriceAdjustment *float64 `json:"price_adjustment"`
		SKU             *string  `json:"sku"`
		IsActive        *bool    `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	// Le stock ne se modifie pas ici : passer par l'endpoint d'inventaire qui
	// trace le mouvement
	ct, err := database.PG.Exec(context.Background(),
		`UPDATE product_variations SET
			color            = COALESCE($1, color),
			size             = COALESCE($2, size),
			price_adjustment = COALESCE($3, price_adjustment),
			sku              = COALESCE($4, sku),
			is_active        = COALESCE($5, is_active),
			updated_at       = now()
		 WHERE variation_id = $6`,
		input.Color, input.Size, input.PriceAdjustment, input.SKU, input.IsActive, variationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour déclinaison"})
		return
	}
	if ct.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Déclinaison introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Déclinaison mise à jour"})
}

func DeleteProductVariant(c *gin.Context) {
	variationID := c.Param("variantId")

	ct, err := database.PG.Exec(context.Background(),
		`UPDATE product_variations SET is_active = false, updated_at = now()
		 WHERE variation_id = $1`, variationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression déclinaison"})
		return
	}
	if ct.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Déclinaison introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Déclinaison désactivée"})
}

func GetVariantBySKU(c *gin.Context) {
	sku := c.Param("sku")

	var v models.ProductVariation
	err := database.PG.QueryRow(context.Background(),
		`SELECT variation_id, product_id, color, size, quantity, price_adjustment, sku,
		        is_active, created_at, updated_at
		 FROM product_variations WHERE sku = $1`, sku).Scan(
		&v.ID, &v.ProductID, &v.Color, &v.Size, &v.Quantity, &v.PriceAdjustment,
		&v.SKU, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "SKU introuvable"})
		return
	}

	c.JSON(http.StatusOK, v)
}
