package product

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lumea_back_end/internal/services"
)

//
// 🔍 GET /api/products/search?q=...
// Recherche plein texte via Elasticsearch
//
func SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre 'q' requis"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recherche indisponible"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}
