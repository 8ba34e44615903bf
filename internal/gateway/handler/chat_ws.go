package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preethiayinampudi/LexiGuard/internal/chat"
	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

const chatWSWriteWait = 10 * time.Second

var chatWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type chatWSInbound struct {
	Content string `json:"content"`
}

type chatWSOutbound struct {
	Type    string     `json:"type"` // "message" or "error"
	Role    types.Role `json:"role,omitempty"`
	Content string     `json:"content,omitempty"`
	Message string     `json:"message,omitempty"`
}

// ChatWS handles GET /api/chat. Opening the socket opens one chat session
// for the active document; every text frame is one turn; closing the
// socket discards the session and its transcript.
func (h *Handler) ChatWS(w http.ResponseWriter, r *http.Request) {
	session, err := h.app.OpenChat(r.Context())
	if err != nil {
		writeError(w, http.StatusConflict, "no_active_analysis", err.Error())
		return
	}

	conn, err := chatWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.app.CloseChat()
		return
	}
	defer func() {
		h.app.CloseChat()
		conn.Close()
	}()

	// Replay the seeded transcript (the greeting on a fresh session).
	for _, msg := range session.Messages() {
		if !writeChatWS(conn, chatWSOutbound{Type: "message", Role: msg.Role, Content: msg.Content}) {
			return
		}
	}

	for {
		var in chatWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("chat ws read failed: %v", err)
			}
			return
		}

		reply, err := session.Send(r.Context(), in.Content)
		switch {
		case err == nil:
			if !writeChatWS(conn, chatWSOutbound{Type: "message", Role: reply.Role, Content: reply.Content}) {
				return
			}
		case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrTurnInFlight):
			if !writeChatWS(conn, chatWSOutbound{Type: "error", Message: err.Error()}) {
				return
			}
		default:
			// Session torn down underneath the connection.
			return
		}
	}
}

func writeChatWS(conn *websocket.Conn, out chatWSOutbound) bool {
	if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
		return false
	}
	if err := conn.WriteJSON(out); err != nil {
		log.Printf("chat ws write failed: %v", err)
		return false
	}
	return true
}
