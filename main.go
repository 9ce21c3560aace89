package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/marco-deluca/pizza-orders-api/config"
	"github.com/marco-deluca/pizza-orders-api/controllers"
	"github.com/marco-deluca/pizza-orders-api/middleware"
	"github.com/marco-deluca/pizza-orders-api/models"
)

func main() {
	// Basic logging
	log.Println("Starting Pizza Orders API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.User{}, &models.Order{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize Gin router
	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all middleware and routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)
	}

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/signup", controllers.SignUp)
		auth.POST("/login", controllers.Login)
		auth.GET("/", middleware.EnsureValidToken(cfg), middleware.RequireAccessToken(), controllers.HelloAuth)
		auth.GET("/refresh", middleware.EnsureValidToken(cfg), middleware.RequireRefreshToken(), controllers.Refresh)
		auth.GET("/me", middleware.EnsureValidToken(cfg), middleware.RequireAccessToken(), controllers.GetMe)
	}

	// Order routes, all behind a valid access token
	order := router.Group("/order", middleware.EnsureValidToken(cfg), middleware.RequireAccessToken())
	{
		order.POST("/order", controllers.PlaceOrder)
		order.GET("/orders-list", controllers.ListAllOrders)
		order.GET("/order/:id", controllers.GetOrder)
		order.DELETE("/order/:id", controllers.DeleteOrder)
		order.GET("/users/orders", controllers.GetMyOrders)
		order.GET("/users/:id", controllers.GetMyOrder)
		order.PUT("/update/:id", controllers.UpdateOrder)
		order.PATCH("/update/:id", controllers.UpdateOrderStatus)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pizza Orders API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get database instance"})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database connection failed"})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to query tables"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
