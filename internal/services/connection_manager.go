package services

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// DashboardConnection is one connected supervisor dashboard
type DashboardConnection struct {
	ConnID    string
	Identity  string
	Room      string
	Conn      *websocket.Conn
	WriteChan chan []byte
}

// ConnectionManager tracks all active dashboard WebSocket connections and
// fans room events out to them.
type ConnectionManager struct {
	connections map[string]*DashboardConnection
	mutex       sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*DashboardConnection),
	}
}

// Add adds a new connection
func (cm *ConnectionManager) Add(conn *DashboardConnection) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.connections[conn.ConnID] = conn
	log.Printf("✅ Dashboard connected: %s (%s, total: %d)", conn.Identity, conn.ConnID, len(cm.connections))
}

// Remove removes a connection and closes its write channel
func (cm *ConnectionManager) Remove(connID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	if conn, exists := cm.connections[connID]; exists {
		close(conn.WriteChan)
		delete(cm.connections, connID)
		log.Printf("❌ Dashboard disconnected: %s (%s, total: %d)", conn.Identity, connID, len(cm.connections))
	}
}

// Count returns the number of active connections
func (cm *ConnectionManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.connections)
}

// Broadcast queues a payload for every connection subscribed to a room.
// Connections with a full write buffer are skipped rather than blocked:
// a slow dashboard recovers through the pending-requests pull endpoint.
func (cm *ConnectionManager) Broadcast(room string, payload []byte) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for _, conn := range cm.connections {
		if conn.Room != room {
			continue
		}
		select {
		case conn.WriteChan <- payload:
		default:
			log.Printf("⚠️ Dropping event for slow dashboard %s", conn.ConnID)
		}
	}
}
