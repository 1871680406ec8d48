package main

import (
	"os"
	"time"

	"multibill-pos/internal/database"
	"multibill-pos/internal/handlers"
	"multibill-pos/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found")
	}

	db, err := database.Connect(log)
	if err != nil {
		log.WithError(err).Fatal("database setup failed")
	}

	h := handlers.New(db, log)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", h.Login)

	// Only open registration when explicitly allowed in .env.
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", h.Register)
		log.Warn("registration route is OPEN, disable this in production")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// Staff and admin: billing flow.
		api.GET("/companies", h.GetCompanies)
		api.GET("/godowns", h.GetGodowns)
		api.GET("/customers", h.GetCustomers)
		api.GET("/items", h.GetItems)
		api.GET("/items/:id/stock", h.GetItemStock)

		api.GET("/cart", h.GetCart)
		api.POST("/cart/items", h.AddCartItem)
		api.PUT("/cart/items/:index", h.UpdateCartItem)
		api.DELETE("/cart/items/:index", h.RemoveCartItem)
		api.DELETE("/cart", h.ClearCart)
		api.POST("/checkout", h.Checkout)

		api.GET("/sales", h.GetSales)
		api.GET("/sales/:id", h.GetSale)
		api.POST("/returns", h.ReturnItem)

		// Admin only: master data and reports.
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/companies", h.AddCompany)
			admin.PUT("/companies/:id", h.UpdateCompany)
			admin.POST("/godowns", h.AddGodown)
			admin.DELETE("/godowns/:id", h.DeleteGodown)
			admin.POST("/customers", h.AddCustomer)
			admin.POST("/items", h.AddItem)
			admin.PUT("/items/:id", h.UpdateItem)
			admin.DELETE("/items/:id", h.DeleteItem)
			admin.GET("/items/:id/movements", h.GetItemMovements)
			admin.GET("/reports", h.GetSalesReport)
			admin.GET("/reports/low-stock", h.GetLowStock)
			admin.GET("/reports/range", h.GetSalesRange)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server failed to start")
	}
}
