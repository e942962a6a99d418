package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/crm-backend/internal/presence"
)

type PresenceHandler struct {
	store *presence.Store
}

func NewPresenceHandler(store *presence.Store) *PresenceHandler {
	return &PresenceHandler{store: store}
}

func (h *PresenceHandler) Get(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	status, err := h.store.Get(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, status)
}
