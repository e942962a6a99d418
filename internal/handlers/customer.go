package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/crm-backend/internal/middleware"
	"github.com/dealerdesk/crm-backend/internal/service"
)

type CustomerHandler struct {
	customers *service.CustomerService
	comments  *service.CommentService
}

func NewCustomerHandler(customers *service.CustomerService, comments *service.CommentService) *CustomerHandler {
	return &CustomerHandler{customers: customers, comments: comments}
}

func queryInt64(c *fiber.Ctx, key string, def int64) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return def
	}
	return v
}

// List returns the caller's customers; ?consultant_id= lets managers view
// another consultant's book.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	consultantID := queryInt64(c, "consultant_id", middleware.UserID(c))
	customers, err := h.customers.List(c.Context(), consultantID,
		queryInt64(c, "limit", 50), queryInt64(c, "offset", 0))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, customers)
}

func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	customer, err := h.customers.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, customer)
}

func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in service.UpdateCustomerInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	customer, err := h.customers.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, customer)
}

func (h *CustomerHandler) Reassign(c *fiber.Ctx) error {
	var body struct {
		ConsultantID int64 `json:"consultantId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	customer, err := h.customers.Reassign(c.Context(), c.Params("id"), body.ConsultantID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, customer)
}

func (h *CustomerHandler) ListComments(c *fiber.Ctx) error {
	comments, err := h.comments.List(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, comments)
}

func (h *CustomerHandler) AddComment(c *fiber.Ctx) error {
	var body struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	comment, err := h.comments.Add(c.Context(), c.Params("id"), middleware.UserID(c), body.Body)
	if err != nil {
		return fail(c, err)
	}
	return created(c, comment)
}
