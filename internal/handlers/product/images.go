package product

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lumea_back_end/internal/cache"
	"lumea_back_end/internal/database"
	"lumea_back_end/internal/services"
)

//
// 🖼️ POST /api/admin/products/:id/images
// Upload d'une image produit vers MinIO, l'URL est ajoutée à image_urls
//
func UploadProductImage(c *gin.Context) {
	productID := c.Param("id")

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' requis"})
		return
	}

	ctx := context.Background()

	var exists bool
	if err := database.PG.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE product_id = $1)`, productID).Scan(&exists); err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	url, err := services.UploadProductImage(ctx, productID, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image: " + err.Error()})
		return
	}

	_, err = database.PG.Exec(ctx,
		`UPDATE products SET image_urls = array_append(image_urls, $1), updated_at = now()
		 WHERE product_id = $2`, url, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement URL"})
		return
	}

	cache.InvalidateProductCache(productID)
	database.RedisClient.Del(ctx, "products:all")

	c.JSON(http.StatusOK, gin.H{
		"message": "Image ajoutée",
		"url":     url,
	})
}

//
// ❌ DELETE /api/admin/products/:id/images
// Retire une URL d'image du produit et supprime l'objet MinIO
//
func DeleteProductImage(c *gin.Context) {
	productID := c.Param("id")

	var input struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL requise"})
		return
	}

	ctx := context.Background()

	ct, err := database.PG.Exec(ctx,
		`UPDATE products SET image_urls = array_remove(image_urls, $1), updated_at = now()
		 WHERE product_id = $2 AND $1 = ANY(image_urls)`, input.URL, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression URL"})
		return
	}
	if ct.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image introuvable sur ce produit"})
		return
	}

	if err := services.DeleteProductImage(ctx, input.URL); err != nil {
		// l'URL est déjà retirée du produit, on ne fait que loguer
		c.JSON(http.StatusOK, gin.H{"message": "Image retirée (objet MinIO non supprimé)"})
		return
	}

	cache.InvalidateProductCache(productID)
	database.RedisClient.Del(ctx, "products:all")

	c.JSON(http.StatusOK, gin.H{"message": "Image supprimée"})
}
