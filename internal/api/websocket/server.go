package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fortuna/augur/internal/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Server pushes new edge sheets to subscribed clients the moment a
// run finishes.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
}

// NewServer creates a new WebSocket server
func NewServer() *Server {
	return &Server{hub: NewHub()}
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.port = port

	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/edges", s.handleEdges)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleEdges handles WebSocket connections for edge sheet updates
func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// BroadcastEdgeSheet sends a finished pick sheet to all connected clients
func (s *Server) BroadcastEdgeSheet(runDate time.Time, sheet []*store.Edge) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":     "edge_sheet",
		"run_date": runDate.Format("2006-01-02"),
		"count":    len(sheet),
		"edges":    sheet,
	})
	if err != nil {
		log.Printf("[websocket] Failed to marshal edge sheet: %v", err)
		return
	}

	s.hub.Broadcast(payload)
}

// Shutdown gracefully shuts down the server and stops the hub
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
