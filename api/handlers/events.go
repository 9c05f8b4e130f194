package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// ReminderHub stores connected clients (clientId -> *websocket.Conn).
// Open app sessions subscribe here to hear about fired reminders,
// verification failures and sweep repairs as they happen.
type ReminderHub struct {
	clients map[string]*websocket.Conn
	mutex   sync.Mutex
}

var hub = &ReminderHub{
	clients: make(map[string]*websocket.Conn),
	mutex:   sync.Mutex{},
}

// HandleEventsWebSocket upgrades a connection and subscribes it to
// reminder events
func HandleEventsWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		conn.Close()
		return
	}

	// Register client
	hub.mutex.Lock()
	hub.clients[clientID] = conn
	hub.mutex.Unlock()
	zap.S().Infow("client connected to /ws/events", "clientId", clientID)

	// Handle disconnect
	conn.SetCloseHandler(func(code int, text string) error {
		hub.mutex.Lock()
		delete(hub.clients, clientID)
		hub.mutex.Unlock()
		zap.S().Infow("client disconnected from /ws/events", "clientId", clientID)
		return nil
	})

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}
}

// BroadcastReminderEvent pushes an event to every connected client
func BroadcastReminderEvent(eventType string, data interface{}) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for clientID, conn := range hub.clients {
		err := conn.WriteJSON(map[string]interface{}{
			"event": eventType,
			"data":  data,
		})
		if err != nil {
			zap.S().Warnw("failed to send reminder event, dropping client",
				"clientId", clientID,
				"event", eventType,
				"error", err,
			)
			delete(hub.clients, clientID)
			conn.Close()
		}
	}
}
