package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/crm-backend/internal/middleware"
	"github.com/dealerdesk/crm-backend/internal/service"
)

type ScanHandler struct {
	scans *service.ScanService
}

func NewScanHandler(scans *service.ScanService) *ScanHandler {
	return &ScanHandler{scans: scans}
}

// CheckIn is the public QR check-in endpoint hit by the booking site.
func (h *ScanHandler) CheckIn(c *fiber.Ctx) error {
	var in service.CheckInInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	res, err := h.scans.CheckIn(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return created(c, res)
}

func (h *ScanHandler) ListMine(c *fiber.Ctx) error {
	scans, err := h.scans.ListByConsultant(c.Context(), middleware.UserID(c), queryInt64(c, "limit", 50))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, scans)
}

func (h *ScanHandler) ListByCustomer(c *fiber.Ctx) error {
	scans, err := h.scans.ListByCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, scans)
}
