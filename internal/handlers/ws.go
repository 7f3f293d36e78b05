package handlers

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pollhub-dev/pollhub/internal/store"
	"github.com/pollhub-dev/pollhub/internal/types"
	"github.com/pollhub-dev/pollhub/internal/utils"
)

var (
	pollClients   = make(map[uint]map[*websocket.Conn]bool)
	pollClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type StreamHandler struct {
	store *store.Store
}

func NewStreamHandler(s *store.Store) *StreamHandler {
	return &StreamHandler{store: s}
}

// BroadcastResults pushes fresh results to every client watching the
// poll. Called after a vote is cast or removed.
func BroadcastResults(pollID uint, results PollResponse) {
	pollClientsMu.RLock()
	clients, exists := pollClients[pollID]
	if !exists || len(clients) == 0 {
		pollClientsMu.RUnlock()
		return
	}

	// Copy the client set so the lock is not held while writing.
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	pollClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]interface{}{
			"type":    "results",
			"poll_id": pollID,
			"poll":    results,
		})

		if err != nil {
			log.Printf("Failed to broadcast results to client: %v", err)
			pollClientsMu.Lock()
			if clients, exists := pollClients[pollID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(pollClients, pollID)
				}
			}
			pollClientsMu.Unlock()
			conn.Close()
		}
	}
}

// Watch upgrades the request to a WebSocket and streams live results for
// one poll until the client goes away.
func (h *StreamHandler) Watch(c *gin.Context) {
	pollID, err := utils.GetPollID(c)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.store.GetPoll(pollID, nil)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		} else {
			log.Printf("Failed to retrieve poll %d for stream: %v", pollID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve poll"})
		}
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	pollClientsMu.Lock()
	if pollClients[pollID] == nil {
		pollClients[pollID] = make(map[*websocket.Conn]bool)
	}
	pollClients[pollID][conn] = true
	pollClientsMu.Unlock()

	defer func() {
		pollClientsMu.Lock()

		if clients, exists := pollClients[pollID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(pollClients, pollID)
			}
		}

		pollClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for poll %d", pollID)
	}()

	// First frame is the current state so the client renders immediately.
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for initial results: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]interface{}{
		"type":    "results",
		"poll_id": pollID,
		"poll":    NewPollResponse(detail),
	})

	if err != nil {
		log.Printf("Failed to send initial results: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Failed to set write deadline for poll %d: %v", pollID, err)
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Ping failed for poll %d: %v", pollID, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for poll %d: %v", pollID, err)
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for poll %d: %v", pollID, err)
			}
			break
		}
	}
}
