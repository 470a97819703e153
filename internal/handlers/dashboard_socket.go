package handlers

import (
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"frontdesk/internal/services"
	"frontdesk/pkg/auth"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 90 * time.Second
	pingInterval = 30 * time.Second
)

// DashboardSocketHandler upgrades supervisor dashboards onto the live event
// stream. Each connection presents a room capability token; once verified,
// the connection receives every event the bridge pulls off the room topic.
type DashboardSocketHandler struct {
	connManager *services.ConnectionManager
	issuer      *auth.RoomTokenIssuer
}

// NewDashboardSocketHandler creates a new dashboard socket handler
func NewDashboardSocketHandler(connManager *services.ConnectionManager, issuer *auth.RoomTokenIssuer) *DashboardSocketHandler {
	return &DashboardSocketHandler{connManager: connManager, issuer: issuer}
}

// Handle handles a new dashboard WebSocket connection
func (h *DashboardSocketHandler) Handle(c *websocket.Conn) {
	claims, err := h.issuer.Verify(c.Query("token"))
	if err != nil {
		log.Printf("⚠️ Dashboard connection rejected: %v", err)
		c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid token"))
		c.Close()
		return
	}
	if !claims.Grants.RoomJoin || !claims.Grants.CanSubscribe {
		log.Printf("⚠️ Dashboard connection rejected: token for %s lacks subscribe grant", claims.Identity)
		c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "missing grant"))
		c.Close()
		return
	}

	conn := &services.DashboardConnection{
		ConnID:    uuid.New().String(),
		Identity:  claims.Identity,
		Room:      claims.Room,
		Conn:      c,
		WriteChan: make(chan []byte, 64),
	}

	h.connManager.Add(conn)
	done := make(chan struct{})
	defer func() {
		close(done)
		h.connManager.Remove(conn.ConnID)
	}()

	c.SetReadDeadline(time.Now().Add(pongTimeout))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	go h.writeLoop(conn, done)

	// Read loop: dashboards only listen, but reading drains control frames
	// and detects the close.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop forwards queued events and keeps the connection alive with pings
func (h *DashboardSocketHandler) writeLoop(conn *services.DashboardConnection, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case payload, ok := <-conn.WriteChan:
			if !ok {
				return
			}
			conn.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("⚠️ Failed to write to dashboard %s: %v", conn.ConnID, err)
				return
			}
		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
