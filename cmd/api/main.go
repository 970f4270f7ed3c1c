package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-ricemill-api/internal/config"
	"go-ricemill-api/internal/handler"
	"go-ricemill-api/internal/middleware"
	"go-ricemill-api/internal/model"
	"go-ricemill-api/internal/repository"
	"go-ricemill-api/internal/scheduler"
	"go-ricemill-api/internal/service"
	"go-ricemill-api/internal/ws"
	"go-ricemill-api/pkg/database"
	applogger "go-ricemill-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	log := applogger.Must(applogger.New(cfg.Server.Env))
	defer log.Sync()

	// 2. Setup Database
	db := database.ConnectDB(cfg.Database.URL)
	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Transaction{},
		&model.CashWithdrawal{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal("auto-migration failed", zap.Error(err))
	}

	// 3. Seed default admin user
	seedAdmin(db, log)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(applogger.Named(log, "ws"))
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	withdrawalRepo := repository.NewWithdrawalRepo(db)
	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	invService := service.NewInventoryService(productRepo, txRepo, auditRepo, db, wsHub, applogger.Named(log, "inventory"))
	reportService := service.NewReportService(productRepo, txRepo, withdrawalRepo)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo, auditRepo, applogger.Named(log, "withdrawal"))
	authService := service.NewAuthService(userRepo, auditRepo, applogger.Named(log, "auth"))

	invHandler := handler.NewInventoryHandler(invService)
	reportHandler := handler.NewReportHandler(reportService)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Low-stock sweep
	sweep := scheduler.NewScheduler(cfg.Sweep, productRepo, wsHub, applogger.Named(log, "scheduler"))
	sweep.Start()
	defer sweep.Stop()

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Rice Mill Inventory API v1.0",
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Product Routes
	protected.Get("/products", invHandler.GetProducts)
	protected.Get("/products/:id", invHandler.GetProduct)
	protected.Post("/products", invHandler.CreateProduct)
	protected.Put("/products/:id", invHandler.UpdateProduct)
	protected.Delete("/products/:id", invHandler.DeleteProduct)
	protected.Get("/products/:id/ledger", invHandler.VerifyLedger)

	// Transaction Routes
	protected.Get("/transactions", invHandler.GetTransactions)
	protected.Get("/transactions/:id", invHandler.GetTransaction)
	protected.Post("/transactions", invHandler.CreateTransaction)
	protected.Delete("/transactions/:id", middleware.RequireRole(model.RoleAdmin), invHandler.DeleteTransaction)

	// Cash Withdrawal Routes
	protected.Get("/cash-withdrawals", withdrawalHandler.GetWithdrawals)
	protected.Get("/cash-withdrawals/summary", withdrawalHandler.GetSummary)
	protected.Post("/cash-withdrawals", withdrawalHandler.CreateWithdrawal)
	protected.Delete("/cash-withdrawals/:id", middleware.RequireRole(model.RoleAdmin), withdrawalHandler.DeleteWithdrawal)

	// Report Routes
	protected.Get("/reports/dashboard", reportHandler.Dashboard)
	protected.Get("/reports/stock-value", reportHandler.StockValue)
	protected.Get("/reports/movement", reportHandler.Movement)
	protected.Get("/reports/bi-analytics", reportHandler.BIAnalytics)
	protected.Get("/reports/profit-analysis", reportHandler.ProfitAnalysis)

	// User Routes (admin only)
	protected.Post("/auth/register", middleware.RequireRole(model.RoleAdmin), authHandler.Register)
	protected.Get("/users", middleware.RequireRole(model.RoleAdmin), authHandler.GetUsers)

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

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// seedAdmin creates the default admin user if none exists yet
func seedAdmin(db *gorm.DB, log *zap.Logger) {
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}

	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Warn("using default admin password, set ADMIN_PASSWORD to override")
	}

	admin := &model.User{
		Email:    email,
		Name:     "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Error("failed to hash admin password", zap.Error(err))
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Error("failed to create admin user", zap.Error(err))
		return
	}
	log.Info("admin user created", zap.String("email", email))
}
