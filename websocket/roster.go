package websocket

import (
	"log"
	"sort"

	"github.com/Monikarana27/ChatBud/store"
)

// RosterProvider computes the users considered present in a room.
type RosterProvider interface {
	RoomUsers(room string) ([]RosterEntry, error)
}

// Roster resolves a room roster from a prioritized list of providers. Later
// providers are consulted only when an earlier one errors or comes back
// empty; the fallback path trades accuracy for availability and the two
// sources can disagree after partial failures.
type Roster struct {
	providers []RosterProvider
}

func NewRoster(providers ...RosterProvider) *Roster {
	return &Roster{providers: providers}
}

// Resolve returns the first non-empty roster the providers produce, or an
// empty list when every provider fails.
func (r *Roster) Resolve(room string) []RosterEntry {
	for _, p := range r.providers {
		users, err := p.RoomUsers(room)
		if err != nil {
			log.Printf("roster provider failed for room %q: %v", room, err)
			continue
		}
		if len(users) > 0 {
			return users
		}
	}
	return []RosterEntry{}
}

// SessionRoster is the primary provider: active-session rows joined to users,
// filtered to the one-hour activity window, ordered by username.
type SessionRoster struct {
	sessions *store.Sessions
}

func NewSessionRoster(sessions *store.Sessions) *SessionRoster {
	return &SessionRoster{sessions: sessions}
}

func (p *SessionRoster) RoomUsers(room string) ([]RosterEntry, error) {
	rows, err := p.sessions.ActiveInRoom(room, store.RosterWindow)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	entries := make([]RosterEntry, 0, len(rows))
	for _, row := range rows {
		if seen[row.UserID] {
			continue
		}
		seen[row.UserID] = true
		entries = append(entries, RosterEntry{
			ID:       row.User.ID,
			Username: row.User.Username,
			Online:   row.User.Online,
			Avatar:   row.User.AvatarURL,
		})
	}
	return entries, nil
}

// PresenceRoster is the fallback provider: the in-memory registry filtered by
// room, with every present connection treated as online.
type PresenceRoster struct {
	registry *Registry
}

func NewPresenceRoster(registry *Registry) *PresenceRoster {
	return &PresenceRoster{registry: registry}
}

func (p *PresenceRoster) RoomUsers(room string) ([]RosterEntry, error) {
	records := p.registry.InRoom(room)

	seen := make(map[uint]bool)
	entries := make([]RosterEntry, 0, len(records))
	for _, rec := range records {
		if seen[rec.UserID] {
			continue
		}
		seen[rec.UserID] = true
		entries = append(entries, RosterEntry{
			ID:       rec.UserID,
			Username: rec.Username,
			Online:   true,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Username < entries[j].Username })
	return entries, nil
}
