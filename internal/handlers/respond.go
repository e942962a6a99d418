package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/crm-backend/internal/errs"
)

// fail maps service errors to HTTP statuses. Wrapped sentinel errors from
// internal/errs decide the code; anything else is a 500 with a generic body.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, errs.ErrBadRequest):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, errs.ErrUnauthorized):
		status, msg = fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, errs.ErrForbidden):
		status, msg = fiber.StatusForbidden, "forbidden"
	case errors.Is(err, errs.ErrNotFound):
		status, msg = fiber.StatusNotFound, "not found"
	case errors.Is(err, errs.ErrConflict):
		status, msg = fiber.StatusConflict, err.Error()
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"status": "success", "data": data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": data})
}
