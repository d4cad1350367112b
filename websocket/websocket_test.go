package websocket

import (
	"sync"
	"testing"

	"github.com/Monikarana27/ChatBud/models"
	"github.com/Monikarana27/ChatBud/store"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	models.BcryptCost = bcrypt.MinCost
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Room{}, &models.Message{}, &models.ActiveSession{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// notifierCall records one delivery through the fake notifier.
type notifierCall struct {
	Kind   string // "conn", "room", "roomExcept", "subscribe", "unsubscribe"
	ConnID string
	Room   string
	Except string
	Event  string
	Data   interface{}
}

// fakeNotifier stands in for the hub so coordinator flows can be asserted
// without websocket plumbing.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifierCall
}

func (f *fakeNotifier) Subscribe(connID, room string) {
	f.record(notifierCall{Kind: "subscribe", ConnID: connID, Room: room})
}

func (f *fakeNotifier) Unsubscribe(connID, room string) {
	f.record(notifierCall{Kind: "unsubscribe", ConnID: connID, Room: room})
}

func (f *fakeNotifier) ToConnection(connID, event string, data interface{}) {
	f.record(notifierCall{Kind: "conn", ConnID: connID, Event: event, Data: data})
}

func (f *fakeNotifier) ToRoom(room, event string, data interface{}) {
	f.record(notifierCall{Kind: "room", Room: room, Event: event, Data: data})
}

func (f *fakeNotifier) ToRoomExcept(room, except, event string, data interface{}) {
	f.record(notifierCall{Kind: "roomExcept", Room: room, Except: except, Event: event, Data: data})
}

func (f *fakeNotifier) record(c notifierCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeNotifier) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeNotifier) all() []notifierCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notifierCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// toConnection returns the events sent to one connection, in order.
func (f *fakeNotifier) toConnection(connID string) []notifierCall {
	var out []notifierCall
	for _, c := range f.all() {
		if c.Kind == "conn" && c.ConnID == connID {
			out = append(out, c)
		}
	}
	return out
}

// roomEvents returns the room-wide broadcasts (including except-one) for a room.
func (f *fakeNotifier) roomEvents(room string) []notifierCall {
	var out []notifierCall
	for _, c := range f.all() {
		if (c.Kind == "room" || c.Kind == "roomExcept") && c.Room == room {
			out = append(out, c)
		}
	}
	return out
}

type testEnv struct {
	db       *gorm.DB
	users    *store.Users
	rooms    *store.Rooms
	messages *store.Messages
	sessions *store.Sessions
	presence *Registry
	notify   *fakeNotifier
	coord    *Coordinator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	users := store.NewUsers(db)
	rooms := store.NewRooms(db)
	messages := store.NewMessages(db)
	sessions := store.NewSessions(db)
	presence := NewRegistry()
	roster := NewRoster(NewSessionRoster(sessions), NewPresenceRoster(presence))
	notify := &fakeNotifier{}

	bot, err := users.EnsureBot()
	if err != nil {
		t.Fatalf("failed to create bot account: %v", err)
	}

	coord := NewCoordinator(users, rooms, messages, sessions, presence, roster, notify, bot.ID)
	return &testEnv{
		db:       db,
		users:    users,
		rooms:    rooms,
		messages: messages,
		sessions: sessions,
		presence: presence,
		notify:   notify,
		coord:    coord,
	}
}
