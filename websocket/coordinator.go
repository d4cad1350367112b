package websocket

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Monikarana27/ChatBud/models"
	"github.com/Monikarana27/ChatBud/store"
)

// Coordinator owns the join/leave/send flows: it couples the in-memory
// presence registry to the persistence layer and drives room broadcasts
// through the Notifier. All dependencies are injected.
type Coordinator struct {
	users    *store.Users
	rooms    *store.Rooms
	messages *store.Messages
	sessions *store.Sessions
	presence *Registry
	roster   *Roster
	notify   Notifier
	botID    uint
}

func NewCoordinator(
	users *store.Users,
	rooms *store.Rooms,
	messages *store.Messages,
	sessions *store.Sessions,
	presence *Registry,
	roster *Roster,
	notify Notifier,
	botID uint,
) *Coordinator {
	return &Coordinator{
		users:    users,
		rooms:    rooms,
		messages: messages,
		sessions: sessions,
		presence: presence,
		roster:   roster,
		notify:   notify,
		botID:    botID,
	}
}

// Join resolves or creates the user, upserts the session row, registers
// presence, subscribes the connection to the room group, and emits the
// confirmation, history, welcome, join notice and roster refresh events.
func (co *Coordinator) Join(connectionID, sessionID, username, room, ip, userAgent string) {
	username = strings.TrimSpace(username)
	room = strings.TrimSpace(room)
	if username == "" || room == "" {
		co.notify.ToConnection(connectionID, EventRoomJoinError, "Username and room are required")
		return
	}

	user, err := co.users.GetOrCreateGuest(username)
	if err != nil {
		log.Printf("join: resolving user %q failed: %v", username, err)
		co.notify.ToConnection(connectionID, EventRoomJoinError, "Failed to join room")
		return
	}

	roomRow, err := co.rooms.GetOrCreate(room, user.ID)
	if err != nil {
		log.Printf("join: resolving room %q failed: %v", room, err)
		co.notify.ToConnection(connectionID, EventRoomJoinError, "Failed to join room")
		return
	}

	if sessionID == "" {
		sessionID = connectionID
	}
	if err := co.sessions.Upsert(&models.ActiveSession{
		SessionID:    sessionID,
		UserID:       user.ID,
		ConnectionID: connectionID,
		Room:         room,
		IPAddress:    ip,
		UserAgent:    userAgent,
	}); err != nil {
		log.Printf("join: session upsert for %q failed: %v", username, err)
		co.notify.ToConnection(connectionID, EventRoomJoinError, "Failed to join room")
		return
	}

	if err := co.users.SetOnline(user.ID, true); err != nil {
		log.Printf("join: marking %q online failed: %v", username, err)
	}

	// A connection holds one presence record; re-joining moves it.
	if prev, ok := co.presence.Get(connectionID); ok && prev.Room != room {
		co.notify.Unsubscribe(connectionID, prev.Room)
	}
	co.presence.Add(connectionID, PresenceRecord{
		UserID:    user.ID,
		SessionID: sessionID,
		Username:  user.Username,
		Room:      room,
		JoinedAt:  time.Now(),
	})
	co.notify.Subscribe(connectionID, room)

	co.notify.ToConnection(connectionID, EventRoomJoined, RoomJoinedPayload{
		Room: room,
		User: UserSummary{ID: user.ID, Username: user.Username},
	})

	// History and the system record are best effort: a persistence failure
	// degrades the join, it does not fail it.
	history, err := co.messages.RecentForRoom(roomRow.ID, store.DefaultHistoryLimit)
	if err != nil {
		log.Printf("join: loading history for %q failed: %v", room, err)
		history = nil
	}
	co.notify.ToConnection(connectionID, EventLoadMessages, FormatMessages(history))

	co.notify.ToConnection(connectionID, EventMessage, co.botMessage(
		fmt.Sprintf("Welcome to %s, %s!", room, user.Username)))

	joinNotice := fmt.Sprintf("%s has joined the chat", user.Username)
	co.notify.ToRoomExcept(room, connectionID, EventMessage, co.botMessage(joinNotice))

	if _, err := co.messages.Save(co.botID, roomRow.ID, joinNotice, models.MessageKindSystem); err != nil {
		log.Printf("join: recording system message failed: %v", err)
	}

	co.broadcastRoster(room)
}

// Leave reverses a join for a disconnecting connection. It is a no-op for
// connections that never joined a room.
func (co *Coordinator) Leave(connectionID string) {
	rec, ok := co.presence.Remove(connectionID)
	if !ok {
		return
	}
	co.notify.Unsubscribe(connectionID, rec.Room)

	if err := co.users.SetOnline(rec.UserID, false); err != nil {
		log.Printf("leave: marking %q offline failed: %v", rec.Username, err)
	}
	if err := co.sessions.DeleteByConnection(connectionID); err != nil {
		log.Printf("leave: deleting session for %q failed: %v", rec.Username, err)
	}

	leaveNotice := fmt.Sprintf("%s has left the chat", rec.Username)
	if roomRow, err := co.rooms.FindByName(rec.Room); err != nil {
		log.Printf("leave: resolving room %q failed: %v", rec.Room, err)
	} else if _, err := co.messages.Save(co.botID, roomRow.ID, leaveNotice, models.MessageKindSystem); err != nil {
		log.Printf("leave: recording system message failed: %v", err)
	}

	co.notify.ToRoom(rec.Room, EventMessage, co.botMessage(leaveNotice))
	co.broadcastRoster(rec.Room)
}

// Send validates and relays a chat message to the sender's room, persisting
// it in the background. Delivery never waits on the database write.
func (co *Coordinator) Send(connectionID string, data interface{}) {
	rec, ok := co.presence.Get(connectionID)
	if !ok {
		co.notify.ToConnection(connectionID, EventMessageError, "You must join a room before sending messages")
		return
	}

	raw, ok := data.(string)
	if !ok {
		co.notify.ToConnection(connectionID, EventMessageError, "Invalid message")
		return
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		co.notify.ToConnection(connectionID, EventMessageError, "Message cannot be empty")
		return
	}

	co.notify.ToRoom(rec.Room, EventMessage, OutgoingMessage{
		Username: rec.Username,
		Text:     text,
		Time:     formatClock(time.Now()),
	})

	go co.persistMessage(rec, text)
}

// persistMessage is the fire-and-forget half of Send. Failures are logged and
// never surfaced to any client.
func (co *Coordinator) persistMessage(rec PresenceRecord, text string) {
	roomRow, err := co.rooms.GetOrCreate(rec.Room, rec.UserID)
	if err != nil {
		log.Printf("send: resolving room %q failed: %v", rec.Room, err)
		return
	}
	if _, err := co.messages.Save(rec.UserID, roomRow.ID, text, models.MessageKindText); err != nil {
		log.Printf("send: persisting message from %q failed: %v", rec.Username, err)
	}
	if err := co.sessions.Touch(rec.SessionID); err != nil {
		log.Printf("send: refreshing session activity for %q failed: %v", rec.Username, err)
	}
}

// Typing relays a typing indicator to everyone else in the sender's room.
// Stateless: the client decides when to stop.
func (co *Coordinator) Typing(connectionID string, isTyping bool) {
	rec, ok := co.presence.Get(connectionID)
	if !ok {
		return
	}
	co.notify.ToRoomExcept(rec.Room, connectionID, EventTypingNotice, TypingNotice{
		Username: rec.Username,
		IsTyping: isTyping,
	})
}

// RoomUsers resolves the roster for a room.
func (co *Coordinator) RoomUsers(room string) []RosterEntry {
	return co.roster.Resolve(room)
}

func (co *Coordinator) broadcastRoster(room string) {
	co.notify.ToRoom(room, EventRoomUsers, RoomUsersPayload{
		Room:  room,
		Users: co.roster.Resolve(room),
	})
}

func (co *Coordinator) botMessage(text string) OutgoingMessage {
	return OutgoingMessage{
		Username: store.BotUsername,
		Text:     text,
		Time:     formatClock(time.Now()),
	}
}
