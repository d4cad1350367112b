package websocket

import (
	"encoding/json"
	"time"

	"github.com/Monikarana27/ChatBud/models"
)

// Client to server events
const (
	EventJoinRoom    = "joinRoom"
	EventChatMessage = "chatMessage"
	EventTyping      = "typing"
	EventStopTyping  = "stopTyping"
)

// Server to client events
const (
	EventRoomJoined    = "roomJoined"
	EventRoomJoinError = "roomJoinError"
	EventLoadMessages  = "loadMessages"
	EventMessage       = "message"
	EventMessageError  = "messageError"
	EventRoomUsers     = "roomUsers"
	EventTypingNotice  = "typing"
)

// Envelope is the wire frame for every websocket event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinRoomRequest struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type RoomJoinedPayload struct {
	Room string      `json:"room"`
	User UserSummary `json:"user"`
}

// OutgoingMessage is the shape clients render. Live messages carry only
// username/text/time; history entries additionally carry the message kind and
// the author's avatar.
type OutgoingMessage struct {
	Username    string `json:"username"`
	Text        string `json:"text"`
	Time        string `json:"time"`
	MessageType string `json:"messageType,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

type RosterEntry struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Online   bool   `json:"online"`
	Avatar   string `json:"avatar"`
}

type RoomUsersPayload struct {
	Room  string        `json:"room"`
	Users []RosterEntry `json:"users"`
}

type TypingNotice struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

const clockFormat = "3:04 PM"

func formatClock(t time.Time) string {
	return t.Format(clockFormat)
}

// FormatMessages converts stored history rows into the client message shape,
// rendering the persisted timestamp rather than the current time.
func FormatMessages(messages []models.Message) []OutgoingMessage {
	out := make([]OutgoingMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, OutgoingMessage{
			Username:    m.User.Username,
			Text:        m.Content,
			Time:        formatClock(m.CreatedAt),
			MessageType: m.Kind,
			Avatar:      m.User.AvatarURL,
		})
	}
	return out
}
