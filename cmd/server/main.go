package main

import (
	"strings"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/catalog"
	"dagitim-backend/internal/config"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/export"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/repository"
	"dagitim-backend/internal/round"
	"dagitim-backend/internal/rounds"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	repo := repository.NewGormRepository(database.DB, cfg.AllowClosedRoundWrites)
	svc := round.NewService(repo)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logrus.WithError(err).Error("beklenmeyen hata")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Personel yönetimi
	adminRoutes.Post("/users", auth.CreateStaffHandler())

	// Ürün yönetimi
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())

	// Şube yönetimi
	adminRoutes.Post("/shops", catalog.CreateShopHandler())
	adminRoutes.Put("/shops/:id", catalog.UpdateShopHandler())
	adminRoutes.Delete("/shops/:id", catalog.DeleteShopHandler())

	// Müşteri yönetimi
	adminRoutes.Post("/customers", catalog.CreateCustomerHandler())
	adminRoutes.Put("/customers/:id", catalog.UpdateCustomerHandler())
	adminRoutes.Delete("/customers/:id", catalog.DeleteCustomerHandler())

	// Undo sadece super admin
	adminRoutes.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler(repo))

	// Ortak (auth gerektiren) route'lar

	// Master listeleri
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/shops", catalog.ListShopsHandler())
	protected.Get("/shops/:id", catalog.GetShopHandler())
	protected.Get("/customers", catalog.ListCustomersHandler())

	// Tur yaşam döngüsü
	protected.Post("/rounds", rounds.CreateRoundHandler())
	protected.Get("/rounds", rounds.ListRoundsHandler())
	protected.Get("/rounds/:id", rounds.GetRoundHandler())
	protected.Put("/rounds/:id", rounds.UpdateRoundHandler())
	protected.Post("/rounds/:id/mark-reportable", rounds.MarkReportableHandler(svc))
	protected.Post("/rounds/:id/close", rounds.CloseRoundHandler(svc))
	protected.Post("/rounds/:id/reopen", rounds.ReopenRoundHandler(svc))
	protected.Get("/rounds/:id/integrity", rounds.IntegrityCheckHandler(svc))

	// Siparişler
	protected.Post("/orders", rounds.CreateOrderHandler())
	protected.Get("/orders/:id", rounds.GetOrderHandler())
	protected.Post("/orders/:id/confirm", rounds.ConfirmOrderHandler())
	protected.Delete("/orders/:id", rounds.DeleteOrderHandler())
	protected.Get("/rounds/:id/orders", rounds.ListOrdersHandler())
	protected.Get("/rounds/:id/order-summary", rounds.OrderSummaryHandler(svc))

	// Mal kabuller
	protected.Post("/receipts", rounds.CreateReceiptHandler(svc))
	protected.Delete("/receipts/:id", rounds.DeleteReceiptHandler(repo))
	protected.Get("/rounds/:id/receipts", rounds.ListReceiptsHandler())
	protected.Get("/rounds/:id/inventory", rounds.RoundInventoryHandler(repo))

	// Dağıtımlar: önce doğrula, sonra kaydet
	protected.Post("/distributions/validate", rounds.ValidateAllocationHandler(svc))
	protected.Post("/distributions", rounds.CommitDistributionHandler(svc))
	protected.Get("/rounds/:id/distributions", rounds.ListDistributionsHandler())

	// Raporlar
	protected.Get("/rounds/:id/financials", rounds.RoundFinancialsHandler(svc))
	protected.Get("/rounds/:id/shop-allocations", rounds.ShopAllocationsHandler(svc))

	// Excel dışa aktarımlar
	protected.Get("/rounds/:id/export/orders", export.ExportOrderSummaryHandler(svc))
	protected.Get("/rounds/:id/export/financials", export.ExportFinancialsHandler(svc))
	protected.Get("/receipts/:id/export", export.ExportReceiptHandler())
	protected.Get("/distributions/:id/export", export.ExportDistributionHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	logrus.Info("Server çalışıyor port: ", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
