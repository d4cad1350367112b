package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of active clients and the room broadcast groups.
// Coordinators talk to it through the Notifier interface so the broadcast
// side can be faked in tests.
type Hub struct {
	// connection id -> client
	clients map[string]*Client

	// room name -> connection id -> client
	rooms map[string]map[string]*Client

	mu sync.RWMutex

	// Register requests from new connections
	register chan *Client

	// Unregister requests from closing connections
	unregister chan *Client

	// Called after a connection is torn down, with the connection id.
	// Set once during wiring, before Run starts.
	onDisconnect func(connectionID string)
}

// Notifier is the broadcast surface the coordinator uses: broadcast group
// membership and event delivery to a connection, a room, or a room minus one
// connection.
type Notifier interface {
	Subscribe(connectionID, room string)
	Unsubscribe(connectionID, room string)
	ToConnection(connectionID, event string, data interface{})
	ToRoom(room, event string, data interface{})
	ToRoomExcept(room, exceptConnectionID, event string, data interface{})
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
	}
}

// SetDisconnectHandler wires the leave path that runs after a connection is
// removed. Must be called before Run.
func (h *Hub) SetDisconnectHandler(fn func(connectionID string)) {
	h.onDisconnect = fn
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			_, known := h.clients[client.id]
			if known {
				delete(h.clients, client.id)
				close(client.send)
				for room, members := range h.rooms {
					if _, ok := members[client.id]; ok {
						delete(members, client.id)
						if len(members) == 0 {
							delete(h.rooms, room)
						}
					}
				}
			}
			h.mu.Unlock()

			// The leave path broadcasts to the room, so it must run
			// after the lock is released and after the connection is
			// gone from the group.
			if known && h.onDisconnect != nil {
				h.onDisconnect(client.id)
			}
		}
	}
}

// Subscribe adds a connection to a room broadcast group.
func (h *Hub) Subscribe(connectionID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connectionID]
	if !ok {
		return
	}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][connectionID] = client
}

// Unsubscribe removes a connection from a room broadcast group.
func (h *Hub) Unsubscribe(connectionID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// ToConnection sends an event to a single connection.
func (h *Hub) ToConnection(connectionID, event string, data interface{}) {
	frame, ok := marshalEvent(event, data)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if client, ok := h.clients[connectionID]; ok {
		h.deliver(client, frame)
	}
}

// ToRoom sends an event to every connection in a room.
func (h *Hub) ToRoom(room, event string, data interface{}) {
	h.toRoom(room, "", event, data)
}

// ToRoomExcept sends an event to every connection in a room except one.
func (h *Hub) ToRoomExcept(room, exceptConnectionID, event string, data interface{}) {
	h.toRoom(room, exceptConnectionID, event, data)
}

func (h *Hub) toRoom(room, except, event string, data interface{}) {
	frame, ok := marshalEvent(event, data)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for connID, client := range h.rooms[room] {
		if connID == except {
			continue
		}
		h.deliver(client, frame)
	}
}

// deliver queues a frame on a client's send channel, kicking the client when
// its buffer is full. Caller must hold at least a read lock.
func (h *Hub) deliver(client *Client, frame []byte) {
	select {
	case client.send <- frame:
	default:
		// Slow consumer; unregistering tears the connection down.
		go func() { h.unregister <- client }()
	}
}

func marshalEvent(event string, data interface{}) ([]byte, bool) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("error marshaling %s payload: %v", event, err)
		return nil, false
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		log.Printf("error marshaling %s frame: %v", event, err)
		return nil, false
	}
	return frame, true
}
