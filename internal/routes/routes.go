package routes

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lumea_back_end/internal/handlers/admin"
	checkouthandlers "lumea_back_end/internal/handlers/checkout"
	"lumea_back_end/internal/handlers/product"
	"lumea_back_end/internal/handlers/user"
	"lumea_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	// CORS pour le front
	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.APIRateLimit())

	api := r.Group("/api")

	// Authentification
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.GET("/me", middleware.AuthRequired(), user.Me)
	}

	// Catalogue public
	products := api.Group("/products")
	{
		products.GET("", product.GetAllProducts)
		products.GET("/search", middleware.SearchRateLimit(), product.SearchProducts)
		products.GET("/category/:category", product.GetProductsByCategory)
		products.GET("/sku/:sku", product.GetVariantBySKU)
		products.GET("/:id", product.GetProduct)
		products.GET("/:id/variants", product.GetProductVariants)
	}

	// Panier (authentifié)
	cart := api.Group("/cart", middleware.AuthRequired())
	{
		cart.GET("", user.GetCart)
		cart.GET("/ws", user.CartWebSocket)
		cart.POST("/add", middleware.CartRateLimit(), user.AddToCart)
		cart.PUT("/quantity", user.UpdateCartQuantity)
		cart.DELETE("/clear", user.ClearCart)
		cart.DELETE("/:productId", user.RemoveFromCart)
	}

	// Checkout (authentifié)
	checkout := api.Group("/checkout", middleware.AuthRequired())
	{
		checkout.GET("/shipping", checkouthandlers.ShippingQuote)
		checkout.POST("/availability", checkouthandlers.CheckAvailability)
		checkout.POST("/order", middleware.CheckoutRateLimit(), checkouthandlers.PlaceOrder)
	}

	// Commandes de l'utilisateur connecté
	orders := api.Group("/orders", middleware.AuthRequired())
	{
		orders.GET("", user.GetMyOrders)
		orders.GET("/:id", user.GetOrderByID)
	}

	// Administration
	adminGroup := api.Group("/admin", middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.GET("/dashboard", admin.GetDashboardStats)
		adminGroup.GET("/dashboard/recent-orders", admin.GetRecentOrders)
		adminGroup.GET("/dashboard/top-products", admin.GetTopProducts)

		adminGroup.GET("/orders", admin.GetAllOrders)
		adminGroup.PUT("/orders/:id/status", admin.UpdateOrderStatus)

		adminGroup.GET("/users", admin.GetAllUsers)
		adminGroup.PUT("/users/:id/affiliate-code", admin.SetAffiliateCode)

		adminGroup.POST("/products", product.CreateProduct)
		adminGroup.PUT("/products/:id", product.UpdateProduct)
		adminGroup.DELETE("/products/:id", product.DeleteProduct)
		adminGroup.POST("/products/:id/variants", product.CreateProductVariant)
		adminGroup.PUT("/products/:id/variants/:variantId", product.UpdateProductVariant)
		adminGroup.DELETE("/products/:id/variants/:variantId", product.DeleteProductVariant)
		adminGroup.POST("/products/:id/images", product.UploadProductImage)
		adminGroup.DELETE("/products/:id/images", product.DeleteProductImage)

		adminGroup.PUT("/inventory/:variantId/stock", product.UpdateStock)
		adminGroup.GET("/inventory/movements", product.GetStockMovements)
		adminGroup.GET("/inventory/low-stock", product.GetLowStockAlerts)
		adminGroup.GET("/inventory/stats", product.GetInventoryStats)

		adminGroup.GET("/commissions", admin.GetCommissions)
		adminGroup.PUT("/commissions/:id/paid", admin.MarkCommissionPaid)
		adminGroup.POST("/commissions/retry/:orderItemId", admin.RetryCommission)
	}
}
