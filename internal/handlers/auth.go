package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/crm-backend/internal/auth"
	"github.com/dealerdesk/crm-backend/internal/middleware"
	"github.com/dealerdesk/crm-backend/internal/models"
	"github.com/dealerdesk/crm-backend/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authSvc}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	token, user, err := h.auth.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"token": token, "user": user})
}

// Register creates staff accounts; managers only.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	claims, _ := c.Locals(middleware.LocalsClaims).(*auth.Claims)
	if claims == nil || claims.Role != models.RoleManager {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}
	var in service.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	user, err := h.auth.Register(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return created(c, user)
}
