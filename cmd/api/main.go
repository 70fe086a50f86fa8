package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-seedstock/internal/handler"
	"go-seedstock/internal/model"
	"go-seedstock/internal/repository"
	"go-seedstock/internal/service"
	"go-seedstock/internal/ws"
	"go-seedstock/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(&model.Product{}, &model.Customer{}, &model.InventoryBatch{}, &model.Order{}, &model.OrderItem{}); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	// 3. Setup WebSocket Hub (dashboards subscribe to data-change events)
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	reportRepo := repository.NewReportRepo(db)

	guardMode := service.GuardModeFrom(os.Getenv("ORDER_STATUS_GUARD"))
	log.Info().Str("mode", string(guardMode)).Msg("order status guard")

	invService := service.NewInventoryService(productRepo, batchRepo, orderRepo, db, wsHub)
	customerService := service.NewCustomerService(customerRepo, orderRepo, wsHub)
	orderService := service.NewOrderService(orderRepo, productRepo, customerRepo, batchRepo, db, wsHub, guardMode)
	reportService := service.NewReportService(reportRepo)

	productHandler := handler.NewProductHandler(invService)
	batchHandler := handler.NewBatchHandler(invService)
	customerHandler := handler.NewCustomerHandler(customerService)
	orderHandler := handler.NewOrderHandler(orderService)
	reportHandler := handler.NewReportHandler(reportService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Seedstock v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// Product Routes
	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Post("/products", productHandler.CreateProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Delete("/products/:id", productHandler.DeleteProduct)

	// Customer Routes
	api.Get("/customers", customerHandler.GetCustomers)
	api.Get("/customers/:id", customerHandler.GetCustomer)
	api.Post("/customers", customerHandler.CreateCustomer)
	api.Put("/customers/:id", customerHandler.UpdateCustomer)
	api.Delete("/customers/:id", customerHandler.DeleteCustomer)

	// Inventory Batch Routes
	api.Get("/batches", batchHandler.GetBatches)
	api.Get("/batches/:id", batchHandler.GetBatch)
	api.Post("/batches", batchHandler.CreateBatch)
	api.Put("/batches/:id", batchHandler.UpdateBatch)
	api.Delete("/batches/:id", batchHandler.DeleteBatch)
	api.Post("/batches/:id/add-stock", batchHandler.AddStock)
	api.Post("/batches/:id/remove-stock", batchHandler.RemoveStock)

	// Order Routes
	api.Get("/orders", orderHandler.GetOrders)
	api.Get("/orders/:id", orderHandler.GetOrder)
	api.Post("/orders", orderHandler.PlaceOrder)
	api.Put("/orders/:id/status", orderHandler.UpdateStatus)

	// Report Routes
	api.Get("/reports/overview", reportHandler.GetOverview)
	api.Get("/reports/daily-revenue", reportHandler.GetDailyRevenue)
	api.Get("/reports/sales-by-product", reportHandler.GetSalesByProduct)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic().Err(err).Msg("server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
