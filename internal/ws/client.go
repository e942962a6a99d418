package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Options controls per-connection timing and limits.
type Options struct {
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	MaxMessageSize int64
}

func (o Options) withDefaults() Options {
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = 64 * 1024
	}
	return o
}

// Client is one live connection. It starts unassociated; the hub binds it to
// a user id when the client sends an init message. userID and associated are
// only written under the hub lock and only read from the connection's own
// read loop.
type Client struct {
	sock Socket
	hub  *Hub
	send chan []byte
	done chan struct{}
	opts Options
	log  *zap.SugaredLogger

	userID     int64
	associated bool

	awaitingPong atomic.Bool

	closeOnce sync.Once
}

func newClient(sock Socket, hub *Hub, opts Options, log *zap.SugaredLogger) *Client {
	return &Client{
		sock: sock,
		hub:  hub,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
		opts: opts.withDefaults(),
		log:  log,
	}
}

// enqueue hands a payload to the write loop without blocking. A full queue or
// a closed connection drops the payload; broadcasts are best-effort.
func (c *Client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Close force-terminates the connection. Safe to call more than once; closing
// the socket also unblocks the read loop.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.sock.Close()
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()
	c.sock.SetReadLimit(c.opts.MaxMessageSize)
	c.sock.SetPongHandler(func(string) error {
		c.awaitingPong.Store(false)
		return nil
	})

	for {
		mt, data, err := c.sock.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Debugw("discarding malformed frame", "error", err)
			continue
		}
		c.handle(env)
	}
}

func (c *Client) handle(env Envelope) {
	switch env.Type {
	case TypeInit:
		if err := c.hub.Associate(c, env.UserID, env.Token); err != nil {
			c.log.Warnw("init refused", "userId", env.UserID, "error", err)
			return
		}
		c.enqueue(initializedMessage(env.UserID))
	case TypeNotificationsRead:
		if c.associated {
			c.hub.NotifyRead(c.userID)
		}
	default:
		// unknown types are ignored
	}
}

// writePump owns all writes to the socket. A connection that has not answered
// the previous ping by the time the next one is due is force-closed.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case msg := <-c.send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.sock.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if c.awaitingPong.Load() {
				c.log.Debugw("liveness ping unanswered, terminating", "userId", c.userID)
				return
			}
			c.awaitingPong.Store(true)
			if err := c.sock.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.WriteTimeout)); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
