package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"lumea_back_end/internal/config"
	"lumea_back_end/internal/database"
	"lumea_back_end/internal/routes"
)

func main() {
	config.Load()

	database.ConnectDatabases()
	defer database.ClosePostgres()

	// ✅ Pré-chauffer le cache Redis
	warmupRedisCache()

	r := gin.Default()
	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Lumea lancé sur le port", port)
	r.Run(":" + port)
}

// warmupRedisCache pré-chauffe le cache Redis pour éviter la latence du premier appel
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
