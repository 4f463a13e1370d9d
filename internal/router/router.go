// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nhtrieuvy/ecommerce-api/internal/config"
	"github.com/nhtrieuvy/ecommerce-api/internal/handlers"
	"github.com/nhtrieuvy/ecommerce-api/internal/middleware"
	"github.com/nhtrieuvy/ecommerce-api/internal/services"
	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg, notificationService)
	productService := services.NewProductService(db)
	comparisonService := services.NewComparisonService(productService)
	storeService := services.NewStoreService(db)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db, cartService, notificationService)
	paymentService := services.NewPaymentService(db, cfg, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, storeService, storageService)
	comparisonHandler := handlers.NewComparisonHandler(comparisonService)
	storeHandler := handlers.NewStoreHandler(storeService, storageService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, storeService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/verify-email/:token", authHandler.VerifyEmail)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/popular", productHandler.GetPopularProducts)
			products.GET("/latest", productHandler.GetLatestProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)

			// Authenticated routes
			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.SellerRequired(), productHandler.CreateProduct)
				protected.PUT("/:id", middleware.SellerRequired(), productHandler.UpdateProduct)
				protected.DELETE("/:id", middleware.SellerRequired(), productHandler.DeleteProduct)
				protected.POST("/:id/images", middleware.SellerRequired(), middleware.UploadRateLimit(), productHandler.UploadProductImages)
				protected.POST("/:id/reviews", productHandler.CreateReview)
			}
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", productHandler.GetCategories)
			categories.GET("/:id/products", middleware.OptionalAuth(), productHandler.GetProducts)
		}

		// Comparison routes (public)
		comparisons := v1.Group("/comparison")
		{
			comparisons.POST("", comparisonHandler.Compare)
			comparisons.GET("/categories/:id", comparisonHandler.CompareCategory)
			comparisons.GET("/categories/:id/candidates", comparisonHandler.FilterCandidates)
			comparisons.GET("/products/:id", comparisonHandler.CompareToProduct)
		}

		// Store routes
		stores := v1.Group("/stores")
		{
			stores.GET("", storeHandler.GetStores)
			stores.GET("/:id", storeHandler.GetStore)

			protected := stores.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", storeHandler.CreateStore)
				protected.PUT("/:id", middleware.SellerRequired(), storeHandler.UpdateStore)
				protected.POST("/:id/logo", middleware.SellerRequired(), middleware.UploadRateLimit(), storeHandler.UploadLogo)
			}
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("/checkout", orderHandler.Checkout)
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", middleware.SellerRequired(), orderHandler.UpdateOrderStatus)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
		}

		// Seller routes
		seller := v1.Group("/seller")
		seller.Use(middleware.AuthRequired(), middleware.SellerRequired())
		{
			seller.GET("/store", storeHandler.GetMyStore)
			seller.GET("/store/stats", storeHandler.GetMyStoreStats)
			seller.GET("/orders", orderHandler.GetStoreOrders)
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			// Gateway callbacks are unauthenticated; the signature is the auth
			payments.GET("/momo/return", paymentHandler.MoMoReturn)
			payments.POST("/momo/ipn", paymentHandler.MoMoIPN)

			protected := payments.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/momo/:orderId", paymentHandler.CreateMoMoPayment)
				protected.POST("/stripe/:orderId", paymentHandler.CreateStripePayment)
				protected.POST("/stripe/:orderId/confirm", paymentHandler.ConfirmStripePayment)
				protected.GET("/:orderId", paymentHandler.GetPayment)
			}
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.PUT("/stores/:id/status", storeHandler.SetStoreStatus)
			admin.POST("/payments/refund", paymentHandler.ProcessRefund)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
