package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// fakeSocket stands in for a live websocket connection so hub and pump
// behavior can be exercised without a network listener.
type fakeSocket struct {
	mu          sync.Mutex
	inbound     chan []byte
	written     [][]byte
	pings       int
	pongHandler func(string) error
	autoPong    bool
	done        chan struct{}
	closeOnce   sync.Once
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		inbound: make(chan []byte, 16),
		done:    make(chan struct{}),
	}
}

func (f *fakeSocket) ReadMessage() (int, []byte, error) {
	select {
	case data := <-f.inbound:
		return websocket.TextMessage, data, nil
	case <-f.done:
		return 0, nil, errors.New("connection closed")
	}
}

func (f *fakeSocket) WriteMessage(_ int, data []byte) error {
	select {
	case <-f.done:
		return errors.New("connection closed")
	default:
	}
	f.mu.Lock()
	f.written = append(f.written, data)
	f.mu.Unlock()
	return nil
}

func (f *fakeSocket) WriteControl(mt int, _ []byte, _ time.Time) error {
	select {
	case <-f.done:
		return errors.New("connection closed")
	default:
	}
	if mt == websocket.PingMessage {
		f.mu.Lock()
		f.pings++
		h := f.pongHandler
		auto := f.autoPong
		f.mu.Unlock()
		if auto && h != nil {
			_ = h("")
		}
	}
	return nil
}

func (f *fakeSocket) SetReadLimit(int64)                {}
func (f *fakeSocket) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeSocket) SetPongHandler(h func(string) error) {
	f.mu.Lock()
	f.pongHandler = h
	f.mu.Unlock()
}

func (f *fakeSocket) Close() error {
	f.closeOnce.Do(func() { close(f.done) })
	return nil
}

func (f *fakeSocket) closedWithin(d time.Duration) bool {
	select {
	case <-f.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (f *fakeSocket) pingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

func testHub(t *testing.T, opts ...Option) *Hub {
	t.Helper()
	return NewHub(zap.NewNop().Sugar(), opts...)
}

func registerClient(t *testing.T, h *Hub) (*Client, *fakeSocket) {
	t.Helper()
	sock := newFakeSocket()
	c := newClient(sock, h, Options{}, zap.NewNop().Sugar())
	h.Register(c)
	return c, sock
}

func mustReceive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("expected a payload on the send queue")
		return nil
	}
}

func mustNotReceive(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected payload: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastReachesOnlyMatchingUser(t *testing.T) {
	h := testHub(t)
	a, _ := registerClient(t, h)
	b, _ := registerClient(t, h)

	if err := h.Associate(a, 7, ""); err != nil {
		t.Fatalf("associate a: %v", err)
	}
	if err := h.Associate(b, 8, ""); err != nil {
		t.Fatalf("associate b: %v", err)
	}

	h.Broadcast(7, []byte(`{"type":"notification"}`))

	if got := string(mustReceive(t, a)); got != `{"type":"notification"}` {
		t.Fatalf("client a got %q", got)
	}
	mustNotReceive(t, b)
}

func TestUnassociatedConnectionReceivesNoBroadcasts(t *testing.T) {
	h := testHub(t)
	c, _ := registerClient(t, h)

	h.Broadcast(7, []byte("payload"))
	mustNotReceive(t, c)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	h := testHub(t)
	c, _ := registerClient(t, h)
	if err := h.Associate(c, 7, ""); err != nil {
		t.Fatal(err)
	}

	h.Unregister(c)
	h.Unregister(c) // removal is idempotent

	h.Broadcast(7, []byte("payload"))
	mustNotReceive(t, c)
	if n := h.ConnectionCount(); n != 0 {
		t.Fatalf("connection count = %d, want 0", n)
	}
}

func TestNotifyReadReachesAllConnectionsIncludingSender(t *testing.T) {
	h := testHub(t)
	sender, _ := registerClient(t, h)
	sibling, _ := registerClient(t, h)
	other, _ := registerClient(t, h)

	for _, tc := range []struct {
		c    *Client
		user int64
	}{{sender, 7}, {sibling, 7}, {other, 8}} {
		if err := h.Associate(tc.c, tc.user, ""); err != nil {
			t.Fatal(err)
		}
	}

	h.NotifyRead(7)

	for _, c := range []*Client{sender, sibling} {
		var got struct {
			Type      string `json:"type"`
			HasUnread bool   `json:"hasUnread"`
		}
		if err := json.Unmarshal(mustReceive(t, c), &got); err != nil {
			t.Fatal(err)
		}
		if got.Type != TypeNotificationsUpdated || got.HasUnread {
			t.Fatalf("got %+v", got)
		}
	}
	mustNotReceive(t, other)
}

type staticVerifier struct {
	userID int64
	err    error
}

func (v staticVerifier) Verify(string) (int64, error) { return v.userID, v.err }

func TestAssociateRejectsMismatchedToken(t *testing.T) {
	h := testHub(t, WithVerifier(staticVerifier{userID: 9}))
	c, _ := registerClient(t, h)

	if err := h.Associate(c, 7, "token-for-9"); err == nil {
		t.Fatal("expected association to be refused")
	}

	h.Broadcast(7, []byte("payload"))
	mustNotReceive(t, c)
}

func TestAssociateAcceptsMatchingToken(t *testing.T) {
	h := testHub(t, WithVerifier(staticVerifier{userID: 7}))
	c, _ := registerClient(t, h)

	if err := h.Associate(c, 7, "token-for-7"); err != nil {
		t.Fatalf("associate: %v", err)
	}

	h.Broadcast(7, []byte("payload"))
	mustReceive(t, c)
}

func TestReassociateMovesConnection(t *testing.T) {
	h := testHub(t)
	c, _ := registerClient(t, h)

	if err := h.Associate(c, 7, ""); err != nil {
		t.Fatal(err)
	}
	if err := h.Associate(c, 8, ""); err != nil {
		t.Fatal(err)
	}

	h.Broadcast(7, []byte("old"))
	mustNotReceive(t, c)
	h.Broadcast(8, []byte("new"))
	mustReceive(t, c)
}
