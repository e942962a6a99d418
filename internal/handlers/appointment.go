package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/crm-backend/internal/middleware"
	"github.com/dealerdesk/crm-backend/internal/models"
	"github.com/dealerdesk/crm-backend/internal/service"
)

type AppointmentHandler struct {
	appointments *service.AppointmentService
}

func NewAppointmentHandler(appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// Book is the public booking endpoint.
func (h *AppointmentHandler) Book(c *fiber.Ctx) error {
	var in service.BookInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	appt, err := h.appointments.Book(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return created(c, appt)
}

func (h *AppointmentHandler) ListMine(c *fiber.Ctx) error {
	appts, err := h.appointments.ListByConsultant(c.Context(), middleware.UserID(c),
		queryInt64(c, "limit", 50), queryInt64(c, "offset", 0))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, appts)
}

func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status models.AppointmentStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.appointments.UpdateStatus(c.Context(), c.Params("id"), body.Status); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"updated": true})
}
