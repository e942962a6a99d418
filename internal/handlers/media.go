package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dealerdesk/crm-backend/internal/media"
	"github.com/dealerdesk/crm-backend/internal/storage"
)

type MediaHandler struct {
	media *media.Service
	store *storage.S3Store
}

func NewMediaHandler(svc *media.Service, store *storage.S3Store) *MediaHandler {
	return &MediaHandler{media: svc, store: store}
}

// UploadPhoto accepts a multipart photo, resizes it and stores the
// original plus a square thumbnail.
func (h *MediaHandler) UploadPhoto(c *fiber.Ctx) error {
	fh, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
	}
	defer f.Close()

	urls, err := h.media.StorePhoto(c.Context(), f)
	if err != nil {
		return fail(c, err)
	}
	return created(c, urls)
}

// PresignUpload hands the client a short-lived PUT URL for direct uploads.
func (h *MediaHandler) PresignUpload(c *fiber.Ctx) error {
	contentType := c.Query("content_type", "image/jpeg")
	key := fmt.Sprintf("uploads/%s", uuid.NewString())
	url, err := h.store.PresignPut(c.Context(), key, contentType, 15*time.Minute)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"url": url, "key": key})
}
