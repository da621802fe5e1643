package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"shopbackend/internal/config"
	"shopbackend/internal/database"
	"shopbackend/internal/handlers"
	"shopbackend/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}
	if err := database.EnsureCheckoutIndexes(db); err != nil {
		log.Printf("checkout index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	r := gin.Default()

	r.GET("/health", handlers.Health(db))
	r.GET("/products/:id", handlers.GetProduct(db))

	cart := r.Group("/cart")
	{
		cart.POST("", handlers.AddToCart(db))
		cart.PUT("", handlers.UpdateCartItem(db))
		cart.DELETE("", handlers.RemoveCartItem(db))
		cart.GET("", handlers.GetCart(db))
		cart.POST("/merge", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.MergeCarts(db))
	}

	checkout := r.Group("/checkout")
	checkout.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		checkout.POST("", handlers.CreateCheckout(db))
		checkout.PUT("/:id/pay", handlers.PayCheckout(db))
		checkout.POST("/:id/finalize", handlers.FinalizeCheckout(db))
	}

	orders := r.Group("/orders")
	orders.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		orders.GET("/my-orders", handlers.GetMyOrders(db))
		orders.GET("/:id", handlers.GetOrder(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.PUT("/orders/:id", handlers.UpdateOrderStatus(db))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))
	}

	r.Run(":" + config.AppEnv.Port)
}
