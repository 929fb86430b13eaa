package coach

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/dasgddadqw231/shindy-backend/internal/model/chat"
	"github.com/dasgddadqw231/shindy-backend/internal/service/session"
)

// WebSocketHandler carries the coach conversation over a websocket: the
// client sends turn text, the server pushes both turns when the reply
// lands. Persona selection stays on the HTTP surface where entitlement is
// checked.
type WebSocketHandler struct {
	sessions *session.Manager
	upgrader websocket.Upgrader
}

// NewWebSocket creates the websocket chat handler.
func NewWebSocket(sessions *session.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes registers the websocket route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/coach/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] coach chat connection opened")

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}

		switch msg.Type {
		case "message":
			h.handleTurn(r, conn, msg.Text)
		default:
			h.writeError(conn, "unsupported message type")
		}
	}
}

func (h *WebSocketHandler) handleTurn(r *http.Request, conn *websocket.Conn, text string) {
	userTurn, reply, err := h.sessions.SubmitTurn(r.Context(), text)
	switch {
	case errors.Is(err, session.ErrSessionSuperseded):
		// The user switched coaches while this reply was in flight; the
		// user turn stands in the old transcript, the reply is gone.
		h.writeTurn(conn, userTurn)
		h.writeError(conn, err.Error())
		return
	case err != nil:
		h.writeError(conn, err.Error())
		return
	}

	h.writeTurn(conn, userTurn)
	h.writeTurn(conn, reply)
}

func (h *WebSocketHandler) writeTurn(conn *websocket.Conn, turn chat.Turn) {
	h.write(conn, outgoingMessage{
		Type:      "turn",
		Data:      turn,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *WebSocketHandler) writeError(conn *websocket.Conn, message string) {
	h.write(conn, outgoingMessage{
		Type:      "error",
		Error:     message,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *WebSocketHandler) write(conn *websocket.Conn, msg outgoingMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}
