package websocket

import (
	"sync"
	"time"
)

// PresenceRecord is the in-memory fact that a connection is associated with a
// user, in a room, since some time.
type PresenceRecord struct {
	UserID    uint
	SessionID string
	Username  string
	Room      string
	JoinedAt  time.Time
}

// Registry maps connection ids to presence records for the lifetime of the
// process. It is built empty on every restart; the database session rows are
// the only thing that survives, and they age out on their own.
//
// The registry is constructed in main and handed to the coordinator and the
// handlers explicitly. It is never a package global.
type Registry struct {
	mu      sync.RWMutex
	records map[string]PresenceRecord
}

func NewRegistry() *Registry {
	return &Registry{records: make(map[string]PresenceRecord)}
}

// Add registers the record for a connection. A connection holds at most one
// record: joining another room replaces the previous one.
func (r *Registry) Add(connectionID string, rec PresenceRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[connectionID] = rec
}

// Get returns the record for a connection, if any.
func (r *Registry) Get(connectionID string) (PresenceRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[connectionID]
	return rec, ok
}

// Remove deletes and returns the record for a connection. The second return
// is false when the connection never joined a room.
func (r *Registry) Remove(connectionID string) (PresenceRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[connectionID]
	if ok {
		delete(r.records, connectionID)
	}
	return rec, ok
}

// InRoom returns the records of every connection currently in the room.
func (r *Registry) InRoom(room string) []PresenceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []PresenceRecord
	for _, rec := range r.records {
		if rec.Room == room {
			out = append(out, rec)
		}
	}
	return out
}

// Len reports how many connections currently hold a record.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
