package ws

import (
	"encoding/json"

	"github.com/dealerdesk/crm-backend/internal/models"
)

// Client -> server message types.
const (
	TypeInit              = "init"
	TypeNotificationsRead = "notifications_read"
)

// Server -> client message types.
const (
	TypeConnected            = "connected"
	TypeInitialized          = "initialized"
	TypeNotification         = "notification"
	TypeNotificationsUpdated = "notifications_updated"
)

// Envelope is the shape of every inbound text frame. Fields beyond Type are
// populated only for the message types that carry them.
type Envelope struct {
	Type   string `json:"type"`
	UserID int64  `json:"userId,omitempty"`
	Token  string `json:"token,omitempty"`
}

func connectedMessage() []byte {
	b, _ := json.Marshal(map[string]any{"type": TypeConnected})
	return b
}

func initializedMessage(userID int64) []byte {
	b, _ := json.Marshal(map[string]any{"type": TypeInitialized, "userId": userID})
	return b
}

func notificationMessage(n *models.Notification) []byte {
	b, _ := json.Marshal(map[string]any{
		"type":         TypeNotification,
		"notification": n,
		"userId":       n.UserID,
	})
	return b
}

func notificationsUpdatedMessage(hasUnread bool) []byte {
	b, _ := json.Marshal(map[string]any{"type": TypeNotificationsUpdated, "hasUnread": hasUnread})
	return b
}
