// SPDX-License-Identifier: MIT
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"auragraph/internal/log"

	"github.com/gorilla/websocket"
)

// WebSocketTransport broadcasts every magnitude spectrum it receives to
// all connected clients over /fft, rate-limited so a fast analyzer
// doesn't flood slow browser-side consumers.
type WebSocketTransport struct {
	clients      map[*websocket.Conn]bool
	clientsMutex sync.Mutex
	upgrader     websocket.Upgrader
	server       *http.Server

	lastSend        time.Time
	minSendInterval time.Duration
}

// NewWebSocketTransport starts an HTTP server on addr (e.g. ":8080")
// serving a single /fft websocket endpoint, rate-limited to
// minSendInterval between broadcasts.
func NewWebSocketTransport(addr string, minSendInterval time.Duration) *WebSocketTransport {
	t := &WebSocketTransport{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		minSendInterval: minSendInterval,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/fft", t.handleWebSocket)
	t.server = &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Infof("monitor: websocket server listening on %s", addr)
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("monitor: websocket server error: %v", err)
		}
	}()

	return t
}

func (t *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("monitor: websocket upgrade error: %v", err)
		return
	}

	t.clientsMutex.Lock()
	t.clients[conn] = true
	t.clientsMutex.Unlock()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				t.clientsMutex.Lock()
				delete(t.clients, conn)
				t.clientsMutex.Unlock()
				conn.Close()
				return
			}
		}
	}()
}

// Send implements Transport, broadcasting the magnitudes as a JSON
// array to every connected client, subject to the rate limit.
func (t *WebSocketTransport) Send(magnitudes []float64) error {
	now := time.Now()
	if now.Sub(t.lastSend) < t.minSendInterval {
		return nil
	}
	t.lastSend = now

	data, err := json.Marshal(magnitudes)
	if err != nil {
		return err
	}

	t.clientsMutex.Lock()
	defer t.clientsMutex.Unlock()
	for client := range t.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(t.clients, client)
		}
	}
	return nil
}

// Close disconnects every client and shuts down the HTTP server.
func (t *WebSocketTransport) Close() error {
	t.clientsMutex.Lock()
	for client := range t.clients {
		client.Close()
		delete(t.clients, client)
	}
	t.clientsMutex.Unlock()
	return t.server.Close()
}
