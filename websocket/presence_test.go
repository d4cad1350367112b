package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_AddGetRemove(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Get("c1")
	assert.False(t, ok)

	rec := PresenceRecord{UserID: 1, Username: "alice", Room: "general", JoinedAt: time.Now()}
	reg.Add("c1", rec)

	got, ok := reg.Get("c1")
	assert.True(t, ok)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, 1, reg.Len())

	removed, ok := reg.Remove("c1")
	assert.True(t, ok)
	assert.Equal(t, "alice", removed.Username)
	assert.Equal(t, 0, reg.Len())

	_, ok = reg.Remove("c1")
	assert.False(t, ok)
}

func TestRegistry_OneRecordPerConnection(t *testing.T) {
	reg := NewRegistry()
	reg.Add("c1", PresenceRecord{UserID: 1, Username: "alice", Room: "general"})
	reg.Add("c1", PresenceRecord{UserID: 1, Username: "alice", Room: "random"})

	assert.Equal(t, 1, reg.Len())
	got, _ := reg.Get("c1")
	assert.Equal(t, "random", got.Room)
}

func TestRegistry_InRoom(t *testing.T) {
	reg := NewRegistry()
	reg.Add("c1", PresenceRecord{UserID: 1, Username: "alice", Room: "general"})
	reg.Add("c2", PresenceRecord{UserID: 2, Username: "bob", Room: "general"})
	reg.Add("c3", PresenceRecord{UserID: 3, Username: "carol", Room: "random"})

	assert.Len(t, reg.InRoom("general"), 2)
	assert.Len(t, reg.InRoom("random"), 1)
	assert.Empty(t, reg.InRoom("nowhere"))
}
