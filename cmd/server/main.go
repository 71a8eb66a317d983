package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"orders-query-service/internal/config"
	"orders-query-service/internal/controller"
	"orders-query-service/internal/middleware"
	"orders-query-service/internal/rabbit"
	"orders-query-service/internal/repository"
	"orders-query-service/internal/service"
)

func main() {
	cfg := config.Load()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)

	// Repositorios y servicios
	statusRepo := repository.NewMongoStatusRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	statusService := service.NewOrderStatusService(statusRepo)
	orderService := service.NewOrderService(orderRepo, statusRepo)
	authService := service.NewAuthService(cfg.AuthURL)

	// Handlers
	statusCtrl := controller.NewStatusController(statusService)
	orderCtrl := controller.NewOrderController(orderService)

	// Router
	r := gin.Default()

	// Rutas protegidas (requieren token)
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(authService))

	auth.GET("/order-statuses", statusCtrl.List)
	auth.GET("/order-statuses/search", statusCtrl.Search)
	auth.GET("/order-statuses/:id", statusCtrl.GetByID)
	auth.GET("/order-statuses/:id/validate", statusCtrl.Validate)

	auth.GET("/orders/mine", orderCtrl.GetMyOrders)
	auth.GET("/orders/in-progress", orderCtrl.GetMyInProgress)
	auth.GET("/orders/:orderId", orderCtrl.GetOrder)

	// Rutas admin
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.POST("/order-statuses", statusCtrl.Create)
	admin.PUT("/order-statuses/:id", statusCtrl.Update)
	admin.DELETE("/order-statuses/:id", statusCtrl.Delete)
	admin.GET("/orders", orderCtrl.GetAllOrders)
	admin.GET("/reports/sales-by-status", orderCtrl.SalesByStatus)
	admin.GET("/reports/avg-sales-by-user", orderCtrl.AvgSalesByUser)
	admin.GET("/reports/orders-by-status", orderCtrl.OrdersByStatus)

	// Conexión a RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("Error conectando a RabbitMQ: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Error creando canal en RabbitMQ: %v", err)
	}

	rabbit.SetupConsumers(ch, orderService)

	// Ejecutar servidor
	log.Printf("Orders Query Service ejecutándose en puerto %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
