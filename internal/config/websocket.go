package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket accepts any origin in development and falls back to the
// upgrader's same-origin check otherwise.
func NewWebSocket(c *Config) *WebSocket {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if c.Development() {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
	return &WebSocket{Upgrader: upgrader}
}
