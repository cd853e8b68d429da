package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The web UI is served from the same origin; everything else is a
	// local tool talking to a local server.
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsInbound struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type wsOutbound struct {
	Type      string `json:"type"`
	Tool      string `json:"tool,omitempty"`
	Text      string `json:"text,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
	Error     string `json:"error,omitempty"`
}

// handleWS upgrades the connection and serves chat turns over it. Tool
// invocations stream back as status frames before the final reply.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Gorilla connections allow one concurrent writer; progress callbacks
	// fire from the turn goroutine, so serialize writes.
	var writeMu sync.Mutex
	send := func(msg wsOutbound) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		return conn.WriteMessage(websocket.TextMessage, payload)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket closed unexpectedly", "error", err)
			}
			return
		}

		var in wsInbound
		if err := json.Unmarshal(data, &in); err != nil || in.Message == "" {
			_ = send(wsOutbound{Type: "error", Error: "expected {user_id, message}"})
			continue
		}
		if in.UserID == "" {
			in.UserID = "web:default"
		}

		onProgress := func(tool string) {
			_ = send(wsOutbound{Type: "status", Tool: tool})
		}

		reply, err := s.chat.HandleTurn(r.Context(), in.UserID, in.Message, onProgress)
		if err != nil {
			s.logger.Error("websocket turn failed", "user", in.UserID, "error", err)
			_ = send(wsOutbound{Type: "error", Error: "the model is unavailable right now"})
			continue
		}
		if err := send(wsOutbound{Type: "reply", Text: reply.Text, Truncated: reply.Truncated}); err != nil {
			return
		}
	}
}
