package ws

import (
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Handler upgrades HTTP requests and runs the per-connection pumps. Any
// upgrade request is accepted; association happens later via the init
// message.
type Handler struct {
	hub  *Hub
	opts Options
	log  *zap.SugaredLogger
}

func NewHandler(hub *Hub, opts Options, log *zap.SugaredLogger) *Handler {
	return &Handler{hub: hub, opts: opts.withDefaults(), log: log}
}

func (h *Handler) Serve() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		c := newClient(conn, h.hub, h.opts, h.log)
		h.hub.Register(c)
		c.enqueue(connectedMessage())
		go c.writePump()
		c.readPump()
	}
}
