package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/crm-backend/internal/middleware"
	"github.com/dealerdesk/crm-backend/internal/models"
	"github.com/dealerdesk/crm-backend/internal/service"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	notifs, err := h.notifications.List(c.Context(), middleware.UserID(c),
		c.QueryBool("unread"), queryInt64(c, "limit", 50), queryInt64(c, "offset", 0))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, notifs)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.notifications.UnreadCount(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"unread": count})
}

// Create persists a notification; the change-stream consumer picks the
// insert up and pushes it to the target user's sockets.
func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var n models.Notification
	if err := c.BodyParser(&n); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.notifications.Create(c.Context(), &n); err != nil {
		return fail(c, err)
	}
	return created(c, n)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkRead(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"read": true})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkAllRead(c.Context(), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"read": true})
}
