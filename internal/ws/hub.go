package ws

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dealerdesk/crm-backend/internal/metrics"
	"github.com/dealerdesk/crm-backend/internal/models"
)

// TokenVerifier checks the bearer token a client presents on init and
// returns the user id the token was issued for.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// Presence is notified when a user's first connection associates and when
// their last one goes away.
type Presence interface {
	Online(ctx context.Context, userID int64) error
	Offline(ctx context.Context, userID int64) error
}

// Hub tracks which live connections belong to which user and fans incoming
// notification payloads out to them. All state is in-memory and lost on
// restart; clients re-associate on reconnect.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	byUser  map[int64]map[*Client]struct{}

	verifier TokenVerifier
	presence Presence
	log      *zap.SugaredLogger
}

type Option func(*Hub)

// WithVerifier makes the hub require a valid bearer token on init whose
// subject matches the claimed user id. Without it any connection may claim
// any user id, which mirrors the behavior of open deployments and keeps the
// hub constructible in tests.
func WithVerifier(v TokenVerifier) Option {
	return func(h *Hub) { h.verifier = v }
}

func WithPresence(p Presence) Option {
	return func(h *Hub) { h.presence = p }
}

func NewHub(log *zap.SugaredLogger, opts ...Option) *Hub {
	h := &Hub{
		clients: make(map[*Client]struct{}),
		byUser:  make(map[int64]map[*Client]struct{}),
		log:     log,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Register adds a freshly opened, unassociated connection.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	metrics.ActiveConnections.Inc()
}

// Associate binds a connection to a user id. With a verifier configured the
// token must parse and its subject must equal the claimed id.
func (h *Hub) Associate(c *Client, userID int64, token string) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id %d", userID)
	}
	if h.verifier != nil {
		tokenUser, err := h.verifier.Verify(token)
		if err != nil {
			return fmt.Errorf("verify init token: %w", err)
		}
		if tokenUser != userID {
			return fmt.Errorf("token user %d does not match claimed user %d", tokenUser, userID)
		}
	}

	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return fmt.Errorf("connection is not registered")
	}
	if c.associated {
		// re-init moves the connection to the new user id
		h.removeFromUserLocked(c)
	}
	c.userID = userID
	c.associated = true
	if _, ok := h.byUser[userID]; !ok {
		h.byUser[userID] = make(map[*Client]struct{})
	}
	h.byUser[userID][c] = struct{}{}
	first := len(h.byUser[userID]) == 1
	h.mu.Unlock()

	metrics.AssociatedConnections.Inc()
	if h.presence != nil && first {
		if err := h.presence.Online(context.Background(), userID); err != nil {
			h.log.Warnw("presence online update failed", "userId", userID, "error", err)
		}
	}
	return nil
}

// Unregister removes a connection entirely. Idempotent; a later Broadcast for
// the connection's user must not reach it.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	wasAssociated := c.associated
	userID := c.userID
	var last bool
	if wasAssociated {
		h.removeFromUserLocked(c)
		_, stillThere := h.byUser[userID]
		last = !stillThere
	}
	h.mu.Unlock()

	metrics.ActiveConnections.Dec()
	if wasAssociated {
		metrics.AssociatedConnections.Dec()
		if h.presence != nil && last {
			if err := h.presence.Offline(context.Background(), userID); err != nil {
				h.log.Warnw("presence offline update failed", "userId", userID, "error", err)
			}
		}
	}
}

// removeFromUserLocked drops c from the per-user index. Caller holds h.mu.
func (h *Hub) removeFromUserLocked(c *Client) {
	if set, ok := h.byUser[c.userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byUser, c.userID)
		}
	}
}

// Broadcast sends payload to every open connection associated with userID.
// Connections whose send queue is full or that are already closing are
// skipped silently; delivery is best-effort with no confirmation.
func (h *Hub) Broadcast(userID int64, payload []byte) {
	h.mu.RLock()
	set := h.byUser[userID]
	targets := make([]*Client, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if c.enqueue(payload) {
			metrics.BroadcastsDelivered.Inc()
		} else {
			metrics.BroadcastsDropped.Inc()
		}
	}
}

// BroadcastNotification pushes a newly created notification record to every
// connection of its target user.
func (h *Hub) BroadcastNotification(n *models.Notification) {
	h.Broadcast(n.UserID, notificationMessage(n))
}

// NotifyRead tells all of a user's connections, sender included, that the
// unread state changed.
func (h *Hub) NotifyRead(userID int64) {
	h.Broadcast(userID, notificationsUpdatedMessage(false))
}

// ConnectionCount reports registered connections, associated or not.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown force-closes every connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()
	for _, c := range targets {
		c.Close()
	}
}
