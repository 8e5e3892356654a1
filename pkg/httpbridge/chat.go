package httpbridge

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/npash/officemgr/pkg/agent"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// wsMessage is the websocket chat frame, both directions.
type wsMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text,omitempty"`
	Error     string `json:"error,omitempty"`
}

// handleChatSocket upgrades the connection and serves chat turns until
// the client disconnects. Messages: {"type":"message","session_id":...,
// "text":...} runs one agent turn; {"type":"reset","session_id":...}
// discards the session history.
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}
		s.handleSocketMessage(r.Context(), conn, msg)
	}
}

func (s *Server) handleSocketMessage(ctx context.Context, conn *websocket.Conn, msg wsMessage) {
	switch msg.Type {
	case "message":
		if msg.SessionID == "" || msg.Text == "" {
			s.sendSocketError(conn, "session_id and text are required")
			return
		}
		reply, err := s.runAgentTurn(ctx, msg.SessionID, msg.Text)
		if err != nil {
			s.sendSocketError(conn, err.Error())
			return
		}
		s.sendSocketMessage(conn, wsMessage{Type: "reply", SessionID: msg.SessionID, Text: reply})
	case "reset":
		s.app.Sessions.Reset(msg.SessionID)
		s.sendSocketMessage(conn, wsMessage{Type: "reset_ok", SessionID: msg.SessionID})
	default:
		s.sendSocketError(conn, fmt.Sprintf("unknown message type: %s", msg.Type))
	}
}

func (s *Server) sendSocketMessage(conn *websocket.Conn, msg wsMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("websocket write error: %v", err)
	}
}

func (s *Server) sendSocketError(conn *websocket.Conn, errMsg string) {
	s.sendSocketMessage(conn, wsMessage{Type: "error", Error: errMsg})
}

// runAgentTurn appends the user message to the session, runs the agent
// tool loop, stores the produced turns, and returns the final text reply.
// Shared by the websocket and plain-HTTP chat endpoints.
func (s *Server) runAgentTurn(ctx context.Context, sessionID, text string) (string, error) {
	userMsg := agent.Message{Role: "user", Content: text}
	history := append(s.app.Sessions.History(sessionID), userMsg)

	produced, err := s.app.Agent.Respond(ctx, history)
	if err != nil {
		return "", err
	}

	s.app.Sessions.Append(sessionID, userMsg)
	s.app.Sessions.Append(sessionID, produced...)

	final := produced[len(produced)-1]
	return final.Content, nil
}
