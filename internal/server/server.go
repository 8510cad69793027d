package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/meritrix/meritrix-backend/internal/config"
	"github.com/meritrix/meritrix-backend/internal/handler"
	"github.com/meritrix/meritrix-backend/internal/metrics"
	"github.com/meritrix/meritrix-backend/internal/middleware"
	"github.com/meritrix/meritrix-backend/internal/models"
	"go.uber.org/zap"
)

// Handlers uygulamanın tüm HTTP uç noktaları
type Handlers struct {
	Auth        *handler.AuthHandler
	Content     *handler.ContentHandler
	Payment     *handler.PaymentHandler
	Pass        *handler.PassHandler
	Booking     *handler.BookingHandler
	LiveSession *handler.LiveSessionHandler
	User        *handler.UserHandler
	Package     *handler.PackageHandler
	Admin       *handler.AdminHandler
}

func New(cfg *config.Config, log *zap.Logger, auth middleware.Authenticator, h *Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    25 << 20,
		ErrorHandler: errorHandler,
	})

	// Global Middleware'ler önce tanımlanmalı
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE",
		AllowCredentials: !strings.Contains(cfg.HTTP.CORSOrigins, "*"),
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Webhook'lar rate limit ve auth dışında kalır; yalnızca seçili sağlayıcının yolu açılır
	api.Post("/webhooks/"+cfg.ActiveProvider(), h.Payment.Webhook)

	if cfg.HTTP.RateLimitMax > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        cfg.HTTP.RateLimitMax,
			Expiration: cfg.HTTP.RateLimitWindow,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/api/webhooks")
			},
		}))
	}

	requireAuth := middleware.AuthMiddleware(auth)

	// Public routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/logout", h.Auth.Logout)
	authGroup.Get("/me", requireAuth, h.Auth.Me)

	api.Get("/public/offerings", h.Content.Offerings)
	api.Get("/packages/list", h.Content.Packages)
	api.Get("/payments/health", h.Payment.Health)
	api.Get("/passes/vedic/product", h.Pass.Product)

	// Protected routes
	worksheets := api.Group("/worksheets", requireAuth)
	worksheets.Get("/grades", h.Content.Grades)
	worksheets.Get("/subjects", h.Content.Subjects)
	worksheets.Get("/subject/:id", h.Content.SubjectTree)
	worksheets.Post("/progress", h.Content.SetCompletion)
	api.Get("/dashboard", requireAuth, h.Content.Dashboard)

	payments := api.Group("/payments", requireAuth)
	payments.Post("/subject/create-order", h.Payment.CreateSubjectOrder)
	payments.Post("/subject/verify", h.Payment.VerifySubjectPayment)
	payments.Post("/package/create-order", h.Payment.CreatePackageOrder)
	payments.Post("/package/verify", h.Payment.VerifyPackagePayment)

	passes := api.Group("/passes/vedic", requireAuth)
	passes.Get("/status", h.Pass.Status)
	passes.Post("/create-order", h.Pass.CreateOrder)
	passes.Post("/verify", h.Pass.Verify)

	vedic := api.Group("/vedic", requireAuth)
	vedic.Get("/sessions", h.Booking.VedicSessions)
	vedic.Post("/book", h.Booking.Book)

	api.Get("/sessions", requireAuth, h.Booking.ListSessions)
	bookings := api.Group("/bookings", requireAuth)
	bookings.Get("/", h.Booking.MyBookings)
	bookings.Get("/:id/qr", h.Booking.QRCode)

	registerAdmin(api.Group("/admin", requireAuth, middleware.RequireRole(models.RoleAdmin)), h)

	return app
}

func registerAdmin(admin fiber.Router, h *Handlers) {
	admin.Get("/stats", h.Admin.Stats)

	users := admin.Group("/users")
	users.Get("/", h.User.List)
	users.Patch("/:id/block", h.User.SetBlocked)
	users.Post("/:id/reset-password", h.User.ResetPassword)
	users.Delete("/:id", h.User.Delete)

	coupons := admin.Group("/coupons")
	coupons.Get("/", h.Admin.ListCoupons)
	coupons.Post("/", h.Admin.CreateCoupon)
	coupons.Put("/:id", h.Admin.UpdateCoupon)
	coupons.Delete("/:id", h.Admin.DeleteCoupon)

	packages := admin.Group("/packages")
	packages.Get("/", h.Package.GetAllPackages)
	packages.Get("/:id", h.Package.GetPackage)
	packages.Post("/", h.Package.CreatePackage)
	packages.Put("/:id", h.Package.UpdatePackage)
	packages.Delete("/:id", h.Package.DeletePackage)

	grades := admin.Group("/grades")
	grades.Get("/", h.Content.Grades)
	grades.Post("/", h.Admin.CreateGrade)
	grades.Put("/:id", h.Admin.UpdateGrade)
	grades.Delete("/:id", h.Admin.DeleteGrade)

	subjects := admin.Group("/subjects")
	subjects.Get("/", h.Content.Subjects)
	subjects.Post("/", h.Admin.CreateSubject)
	subjects.Put("/:id", h.Admin.UpdateSubject)
	subjects.Delete("/:id", h.Admin.DeleteSubject)
	subjects.Get("/:id/chapters", h.Admin.ListChapters)

	chapters := admin.Group("/chapters")
	chapters.Post("/", h.Admin.CreateChapter)
	chapters.Put("/:id", h.Admin.UpdateChapter)
	chapters.Delete("/:id", h.Admin.DeleteChapter)
	chapters.Get("/:id/worksheets", h.Admin.ListWorksheets)

	worksheets := admin.Group("/worksheets")
	worksheets.Post("/", h.Admin.CreateWorksheet)
	worksheets.Put("/:id", h.Admin.UpdateWorksheet)
	worksheets.Delete("/:id", h.Admin.DeleteWorksheet)
	worksheets.Post("/:id/pdf", h.Admin.UploadWorksheetPDF)

	sessions := admin.Group("/sessions")
	sessions.Get("/", h.LiveSession.List)
	sessions.Post("/", h.LiveSession.Create)
	sessions.Put("/:id", h.LiveSession.Update)
	sessions.Patch("/:id/active", h.LiveSession.SetActive)
	sessions.Delete("/:id", h.LiveSession.Delete)

	passes := admin.Group("/passes")
	passes.Get("/products", h.Pass.ListProducts)
	passes.Patch("/products/:id", h.Pass.UpdateProduct)
}

// errorHandler fiber hatalarını ortak yanıt biçimine çevirir
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	return c.Status(code).JSON(models.ErrorResponse(message))
}
