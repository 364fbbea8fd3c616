package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-farm-inventory/internal/config"
	"go-farm-inventory/internal/handler"
	"go-farm-inventory/internal/metrics"
	"go-farm-inventory/internal/middleware"
	"go-farm-inventory/internal/model"
	"go-farm-inventory/internal/repository"
	"go-farm-inventory/internal/service"
	"go-farm-inventory/internal/ws"
	"go-farm-inventory/pkg/database"
	"go-farm-inventory/pkg/jwt"
	applog "go-farm-inventory/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log := applog.Get()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found, relying on system env")
	}
	cfg := config.Load()
	applog.SetLevel(cfg.LogLevel)
	jwt.SetSecret(cfg.JWTSecret)

	// 2. Setup Database
	db := database.ConnectDB(database.Options{
		Driver:     cfg.DBDriver,
		DSN:        cfg.DatabaseURL,
		Host:       cfg.DBHost,
		User:       cfg.DBUser,
		Password:   cfg.DBPassword,
		Name:       cfg.DBName,
		Port:       cfg.DBPort,
		SQLitePath: cfg.SQLitePath,
	})
	if err := model.Migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	// 3. Repositories and seed data
	counterRepo := repository.NewCounterRepo()
	lookupRepo := repository.NewLookupRepo(db)
	productRepo := repository.NewProductRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	plotRepo := repository.NewPlotRepo(db)
	operationRepo := repository.NewOperationRepo(db)
	seedlingRepo := repository.NewSeedlingRepo(db)
	harvestRepo := repository.NewHarvestRepo(db)
	dashboardRepo := repository.NewDashboardRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := lookupRepo.SeedDefaults(); err != nil {
		log.WithError(err).Fatal("failed to seed lookup tables")
	}
	if cfg.AuthEnabled {
		if err := service.SeedAccess(privilegeRepo, roleRepo, userRepo, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.WithError(err).Warn("failed to seed roles and manager account")
		}
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	codes := service.NewCodeAllocator(counterRepo)
	intake := service.NewBatchIntake(codes, batchRepo, seedlingRepo)
	ledger := service.NewLedger(batchRepo)

	productService := service.NewProductService(db, productRepo, batchRepo, seedlingRepo, operationRepo, supplierRepo, lookupRepo, codes, intake, wsHub)
	batchService := service.NewBatchService(db, batchRepo, productRepo, supplierRepo, lookupRepo, intake, wsHub, cfg.TraceMaxDepth)
	supplierService := service.NewSupplierService(db, supplierRepo, codes)
	plotService := service.NewPlotService(plotRepo)
	operationService := service.NewOperationService(db, operationRepo, lookupRepo, plotRepo, seedlingRepo, harvestRepo, ledger, wsHub,
		service.OperationOptions{StrictSeedlingStock: cfg.StrictSeedlingStock})
	dashService := service.NewDashboardService(dashboardRepo, operationRepo, harvestRepo, lookupRepo, seedlingRepo)
	reportService := service.NewReportService(batchRepo, harvestRepo)
	authService := service.NewAuthService(userRepo)

	productHandler := handler.NewProductHandler(productService)
	batchHandler := handler.NewBatchHandler(batchService, reportService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	plotHandler := handler.NewPlotHandler(plotService)
	operationHandler := handler.NewOperationHandler(operationService)
	dashHandler := handler.NewDashboardHandler(dashService)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Farm Inventory v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(metrics.Middleware())

	app.Get("/metrics", metrics.Handler())

	// 7. Routes
	guard := middleware.NewGuard(cfg.AuthEnabled, userRepo)
	api := app.Group("/api")

	if guard.Enabled() {
		auth := api.Group("/auth")
		auth.Post("/login", authHandler.Login)
		auth.Post("/change-password", authHandler.ChangePassword)
		auth.Post("/validate-token", authHandler.ValidateToken)
	}

	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.Get)
	api.Post("/products/with-purchase", with(guard.Require(model.PrivProductCreate), productHandler.CreateWithPurchase)...)
	api.Post("/products", with(guard.Require(model.PrivProductCreate), productHandler.Create)...)
	api.Put("/products/:id", with(guard.Require(model.PrivProductUpdate), productHandler.Update)...)
	api.Delete("/products/:id", with(guard.Require(model.PrivProductDelete), productHandler.Delete)...)
	api.Get("/products-with-stock", productHandler.WithStock)
	api.Get("/seedlings-available", dashHandler.SeedlingsAvailable)

	api.Get("/batches", batchHandler.List)
	api.Get("/batches/:id", batchHandler.Get)
	api.Get("/batches/:id/trace", batchHandler.Trace)
	api.Get("/batches/:id/label", batchHandler.Label)
	api.Post("/batches", with(guard.Require(model.PrivBatchCreate), batchHandler.Create)...)

	api.Get("/plots", plotHandler.List)
	api.Post("/plots", with(guard.Require(model.PrivPlotWrite), plotHandler.Create)...)

	api.Get("/suppliers", supplierHandler.List)
	api.Get("/suppliers/:id", supplierHandler.Get)
	api.Post("/suppliers", with(guard.Require(model.PrivSupplierWrite), supplierHandler.Create)...)
	api.Put("/suppliers/:id", with(guard.Require(model.PrivSupplierWrite), supplierHandler.Update)...)

	api.Get("/operations", operationHandler.List)
	api.Get("/operations/:id", operationHandler.Get)
	api.Post("/operations", with(guard.Require(model.PrivOperationCreate), operationHandler.Record)...)
	api.Put("/operations/:id", with(guard.Require(model.PrivOperationUpdate), operationHandler.Update)...)
	api.Delete("/operations/:id", with(guard.Require(model.PrivOperationDelete), operationHandler.Delete)...)

	api.Get("/harvests", operationHandler.ListHarvests)
	api.Post("/harvests", with(guard.Require(model.PrivHarvestCreate), operationHandler.RecordHarvest)...)

	api.Get("/categories", dashHandler.Categories)
	api.Get("/units", dashHandler.Units)
	api.Get("/operation-types", dashHandler.OperationTypes)
	api.Get("/dashboard", dashHandler.GetDashboard)

	api.Get("/reports/stock.xlsx", with(guard.Require(model.PrivReportExport), reportHandler.Stock)...)
	api.Get("/reports/harvests.xlsx", with(guard.Require(model.PrivReportExport), reportHandler.Harvests)...)

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

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Panic("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("Server exited")
}

// with appends the route handler after its guards.
func with(guards []fiber.Handler, h fiber.Handler) []fiber.Handler {
	return append(guards, h)
}
