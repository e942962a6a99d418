package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/crm-backend/internal/qr"
)

type QRHandler struct {
	gen *qr.Generator
}

func NewQRHandler(gen *qr.Generator) *QRHandler {
	return &QRHandler{gen: gen}
}

// CheckInCode renders the printable check-in QR for a department desk.
func (h *QRHandler) CheckInCode(c *fiber.Ctx) error {
	dealership := c.Query("dealership")
	if dealership == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "dealership is required"})
	}
	size, err := strconv.Atoi(c.Query("size", "512"))
	if err != nil || size < 64 || size > 2048 {
		size = 512
	}
	png, err := h.gen.PNG(dealership, c.Query("brand"), c.Query("department"), size)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
