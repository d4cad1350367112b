package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/Monikarana27/ChatBud/middleware"
	"github.com/Monikarana27/ChatBud/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// Handler upgrades HTTP requests to websocket connections and dispatches
// inbound events to the coordinator.
type Handler struct {
	hub       *Hub
	coord     *Coordinator
	jwtSecret string
}

func NewHandler(hub *Hub, coord *Coordinator, jwtSecret string) *Handler {
	return &Handler{hub: hub, coord: coord, jwtSecret: jwtSecret}
}

// HandleConnection handles websocket connections
func (h *Handler) HandleConnection(c *gin.Context) {
	sessionID := h.sessionIDFromRequest(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("error upgrading connection: %v", err)
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		id:        uuid.NewString(),
		sessionID: sessionID,
		ip:        c.ClientIP(),
		userAgent: c.Request.UserAgent(),
		onMessage: h.dispatch,
	}

	client.hub.register <- client

	go client.readPump()
	go client.writePump()
}

// sessionIDFromRequest derives an opaque session identifier from a valid
// identity token on the handshake. The token signature is stable for the
// lifetime of a login, so reconnects within one session reuse the same row.
// Anonymous connections get no session id and fall back to the connection id.
func (h *Handler) sessionIDFromRequest(c *gin.Context) string {
	token := middleware.TokenFromRequest(c)
	if token == "" {
		return ""
	}
	if _, err := utils.ParseToken(token, h.jwtSecret); err != nil {
		return ""
	}
	parts := strings.Split(token, ".")
	sig := parts[len(parts)-1]
	if len(sig) > 64 {
		sig = sig[:64]
	}
	return sig
}

// dispatch routes one inbound frame to the matching coordinator operation.
func (h *Handler) dispatch(client *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("error unmarshaling message: %v", err)
		return
	}

	switch env.Event {
	case EventJoinRoom:
		var req JoinRoomRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			h.hub.ToConnection(client.id, EventRoomJoinError, "Username and room are required")
			return
		}
		h.coord.Join(client.id, client.sessionID, req.Username, req.Room, client.ip, client.userAgent)
	case EventChatMessage:
		var data interface{}
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &data); err != nil {
				log.Printf("error unmarshaling chat payload: %v", err)
			}
		}
		h.coord.Send(client.id, data)
	case EventTyping:
		h.coord.Typing(client.id, true)
	case EventStopTyping:
		h.coord.Typing(client.id, false)
	default:
		log.Printf("unknown event %q from connection %s", env.Event, client.id)
	}
}
