package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dealerdesk/crm-backend/internal/middleware"
	"github.com/dealerdesk/crm-backend/internal/models"
	"github.com/dealerdesk/crm-backend/internal/service"
)

type memNotifications struct {
	items []*models.Notification
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	m.items = append(m.items, n)
	return nil
}

func (m *memNotifications) ListByUser(_ context.Context, userID int64, unreadOnly bool, limit, offset int64) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range m.items {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *memNotifications) CountUnread(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, n := range m.items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id primitive.ObjectID, userID int64) error {
	for _, n := range m.items {
		if n.ID == id && n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (m *memNotifications) MarkAllRead(_ context.Context, userID int64) error {
	for _, n := range m.items {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func asUser(userID int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalsUserID, userID)
		return c.Next()
	}
}

func notificationApp(repo *memNotifications, userID int64) *fiber.App {
	h := NewNotificationHandler(service.NewNotificationService(repo))
	app := fiber.New()
	app.Use(asUser(userID))
	app.Get("/notifications", h.List)
	app.Get("/notifications/unread-count", h.UnreadCount)
	app.Post("/notifications", h.Create)
	app.Post("/notifications/read-all", h.MarkAllRead)
	return app
}

func TestListReturnsOnlyCallersNotifications(t *testing.T) {
	repo := &memNotifications{}
	repo.Create(context.Background(), &models.Notification{UserID: 7, Type: models.NotificationScan})
	repo.Create(context.Background(), &models.Notification{UserID: 8, Type: models.NotificationScan})

	app := notificationApp(repo, 7)
	resp, err := app.Test(httptest.NewRequest("GET", "/notifications", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Data []models.Notification `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].UserID != 7 {
		t.Fatalf("got %+v, want one notification for user 7", body.Data)
	}
}

func TestUnreadCountAfterMarkAllRead(t *testing.T) {
	repo := &memNotifications{}
	repo.Create(context.Background(), &models.Notification{UserID: 7})
	repo.Create(context.Background(), &models.Notification{UserID: 7})

	app := notificationApp(repo, 7)

	resp, err := app.Test(httptest.NewRequest("GET", "/notifications/unread-count", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var body struct {
		Data struct {
			Unread int64 `json:"unread"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Unread != 2 {
		t.Fatalf("unread = %d, want 2", body.Data.Unread)
	}

	if _, err := app.Test(httptest.NewRequest("POST", "/notifications/read-all", nil)); err != nil {
		t.Fatalf("read-all: %v", err)
	}
	resp, err = app.Test(httptest.NewRequest("GET", "/notifications/unread-count", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Unread != 0 {
		t.Fatalf("unread after read-all = %d, want 0", body.Data.Unread)
	}
}

func TestCreateRejectsMissingTarget(t *testing.T) {
	app := notificationApp(&memNotifications{}, 7)

	req := httptest.NewRequest("POST", "/notifications", strings.NewReader(`{"type":"scan"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreatePersistsNotification(t *testing.T) {
	repo := &memNotifications{}
	app := notificationApp(repo, 7)

	req := httptest.NewRequest("POST", "/notifications",
		strings.NewReader(`{"userId":9,"type":"reassignment","customerName":"Ann Ng"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if len(repo.items) != 1 || repo.items[0].UserID != 9 {
		t.Fatalf("stored %+v, want one notification for user 9", repo.items)
	}
}
