package archive

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

type feedConn struct {
	conn    *websocket.Conn
	send    chan []byte
	archive *Archive
}

func (a *Archive) startHTTP(ctx context.Context) error {
	a.server = &http.Server{
		Addr:    a.config.HTTPAddr,
		Handler: a.Router(),
	}

	go func() {
		if err := a.server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	return a.server.Shutdown(context.Background())
}

// Router builds the transcript API routes.
func (a *Archive) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/transcripts", a.handleListTranscripts).Methods("GET")
	router.HandleFunc("/api/transcripts/{id}", a.handleGetTranscript).Methods("GET")
	router.HandleFunc("/ws", a.handleFeed)
	return router
}

// handleListTranscripts returns all archived transcripts in arrival order.
func (a *Archive) handleListTranscripts(w http.ResponseWriter, r *http.Request) {
	a.orderMu.Lock()
	ids := make([]string, len(a.order))
	copy(ids, a.order)
	a.orderMu.Unlock()

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		if value, ok := a.entries.Load(id); ok {
			entries = append(entries, *value.(*Entry))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (a *Archive) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	value, ok := a.entries.Load(vars["id"])
	if !ok {
		http.Error(w, "Transcript not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value.(*Entry)); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (a *Archive) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	fc := &feedConn{
		conn:    conn,
		send:    make(chan []byte, 256),
		archive: a,
	}
	a.subscribers.Store(fc, struct{}{})

	go fc.writePump()
	go fc.readPump()
}

func (c *feedConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *feedConn) readPump() {
	defer func() {
		c.archive.subscribers.Delete(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "error", err)
			}
			break
		}
	}
}
