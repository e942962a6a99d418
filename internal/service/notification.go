package service

import (
	"context"
	"fmt"

	"github.com/dealerdesk/crm-backend/internal/errs"
	"github.com/dealerdesk/crm-backend/internal/models"
	"github.com/dealerdesk/crm-backend/internal/repository"
)

type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Create persists a notification record. Realtime delivery is a side effect
// of the insert being observed by the change-stream consumer, not of this
// call.
func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	if n.UserID <= 0 {
		return fmt.Errorf("notification requires a target user: %w", errs.ErrBadRequest)
	}
	if n.Type == "" {
		n.Type = models.NotificationOther
	}
	return s.notifications.Create(ctx, n)
}

func (s *NotificationService) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int64) ([]*models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string, userID int64) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	return s.notifications.MarkRead(ctx, oid, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notifications.MarkAllRead(ctx, userID)
}
