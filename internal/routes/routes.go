package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/dealerdesk/crm-backend/internal/auth"
	"github.com/dealerdesk/crm-backend/internal/handlers"
	"github.com/dealerdesk/crm-backend/internal/metrics"
	"github.com/dealerdesk/crm-backend/internal/middleware"
	"github.com/dealerdesk/crm-backend/internal/ws"
)

// Deps carries everything the router wires together. Media, QR and
// presence are optional; their routes are skipped when nil.
type Deps struct {
	JWT       *auth.Manager
	RateLimit *middleware.RateLimiter

	WS *ws.Handler

	Auth          *handlers.AuthHandler
	Customers     *handlers.CustomerHandler
	Scans         *handlers.ScanHandler
	Appointments  *handlers.AppointmentHandler
	Notifications *handlers.NotificationHandler
	Media         *handlers.MediaHandler
	QR            *handlers.QRHandler
	Presence      *handlers.PresenceHandler
}

func Register(app *fiber.App, d Deps) {
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Realtime socket. Association with a user happens in-band via the
	// init message, so the upgrade itself is unauthenticated.
	app.Use("/v1/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/v1/ws", websocket.New(d.WS.Serve()))

	v1 := app.Group("/v1")

	// Public endpoints reached from the QR check-in and booking pages.
	public := v1.Group("/public", d.RateLimit.ByIP())
	public.Post("/check-in", d.Scans.CheckIn)
	public.Post("/appointments", d.Appointments.Book)
	if d.QR != nil {
		public.Get("/qr", d.QR.CheckInCode)
	}

	v1.Post("/auth/login", d.Auth.Login)

	api := v1.Group("/", middleware.JWTAuth(d.JWT))
	api.Post("/auth/register", d.Auth.Register)

	api.Get("/customers", d.Customers.List)
	api.Get("/customers/:id", d.Customers.Get)
	api.Patch("/customers/:id", d.Customers.Update)
	api.Post("/customers/:id/reassign", d.Customers.Reassign)
	api.Get("/customers/:id/comments", d.Customers.ListComments)
	api.Post("/customers/:id/comments", d.Customers.AddComment)
	api.Get("/customers/:id/scans", d.Scans.ListByCustomer)

	api.Get("/scans", d.Scans.ListMine)

	api.Get("/appointments", d.Appointments.ListMine)
	api.Patch("/appointments/:id/status", d.Appointments.UpdateStatus)

	api.Get("/notifications", d.Notifications.List)
	api.Get("/notifications/unread-count", d.Notifications.UnreadCount)
	api.Post("/notifications", d.Notifications.Create)
	api.Patch("/notifications/:id/read", d.Notifications.MarkRead)
	api.Post("/notifications/read-all", d.Notifications.MarkAllRead)

	if d.Media != nil {
		api.Post("/media/photos", d.Media.UploadPhoto)
		api.Get("/media/presign", d.Media.PresignUpload)
	}
	if d.Presence != nil {
		api.Get("/presence/:userId", d.Presence.Get)
	}
}
