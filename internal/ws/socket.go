package ws

import "time"

// Socket is the slice of the websocket connection the hub needs. Satisfied by
// *websocket.Conn from gofiber/websocket; tests use an in-memory fake so the
// hub is constructible without a network listener.
type Socket interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}
