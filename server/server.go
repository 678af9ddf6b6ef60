// Package server exposes the turn pipeline over HTTP and WebSocket for
// web front ends: POST /api/arthur for one-shot requests, GET /ws for a
// conversational socket, GET /health for liveness.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Thinker is the slice of the agent the server needs.
type Thinker interface {
	Think(ctx context.Context, userMessage string) (string, error)
}

// Config configures the server.
type Config struct {
	// Agent processes each inbound message.
	Agent Thinker

	// TurnTimeout bounds one pipeline execution (default: 2m).
	TurnTimeout time.Duration
}

// Server serves the chat surface.
type Server struct {
	agent       Thinker
	turnTimeout time.Duration
	upgrader    websocket.Upgrader
	mux         *http.ServeMux
}

// New creates the server and registers its routes.
func New(cfg Config) *Server {
	if cfg.TurnTimeout == 0 {
		cfg.TurnTimeout = 2 * time.Minute
	}

	s := &Server{
		agent:       cfg.Agent,
		turnTimeout: cfg.TurnTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The web UI is served from a different origin in
			// development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/arthur", s.handleChat)
	s.mux.HandleFunc("/ws", s.handleWS)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run listens on addr until the listener fails.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("[SERVER] Listening on %s", addr)
	return srv.ListenAndServe()
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleChat processes one message per request.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "message is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.turnTimeout)
	defer cancel()

	response, err := s.agent.Think(ctx, req.Message)
	if err != nil {
		log.Printf("[SERVER] Turn failed: %v", err)
		writeJSON(w, http.StatusBadGateway, chatResponse{Error: "the agent could not process this message"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: response})
}

// handleWS runs a conversational socket: each inbound text frame is one
// turn, each outbound frame the JSON-encoded result. Turn errors are
// reported on the socket and the session continues.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[SERVER] WebSocket read error: %v", err)
			}
			return
		}

		message := string(data)
		if strings.TrimSpace(message) == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.turnTimeout)
		response, err := s.agent.Think(ctx, message)
		cancel()

		reply := chatResponse{Response: response}
		if err != nil {
			log.Printf("[SERVER] Turn failed: %v", err)
			reply = chatResponse{Error: "the agent could not process this message"}
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("[SERVER] WebSocket write error: %v", err)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
