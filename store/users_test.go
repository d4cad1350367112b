package store

import (
	"testing"

	"github.com/Monikarana27/ChatBud/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateGuest_CreatesOnce(t *testing.T) {
	db := setupTestDB(t)
	users := NewUsers(db)

	first, err := users.GetOrCreateGuest("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, "alice@"+guestEmailDomain, first.Email)

	second, err := users.GetOrCreateGuest("alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateGuest_ResolvesExistingRegisteredUser(t *testing.T) {
	db := setupTestDB(t)
	users := NewUsers(db)

	registered := models.User{Username: "bob", Email: "bob@example.com", Password: "secret123"}
	require.NoError(t, users.Create(&registered))

	resolved, err := users.GetOrCreateGuest("bob")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resolved.ID)
	assert.Equal(t, "bob@example.com", resolved.Email)
}

func TestNextAvailableUsername(t *testing.T) {
	db := setupTestDB(t)
	users := NewUsers(db)

	name, err := users.NextAvailableUsername("carol")
	require.NoError(t, err)
	assert.Equal(t, "carol", name)

	require.NoError(t, users.Create(&models.User{Username: "carol", Email: "carol@example.com", Password: "secret123"}))
	name, err = users.NextAvailableUsername("carol")
	require.NoError(t, err)
	assert.Equal(t, "carol1", name)

	require.NoError(t, users.Create(&models.User{Username: "carol1", Email: "carol1@example.com", Password: "secret123"}))
	name, err = users.NextAvailableUsername("carol")
	require.NoError(t, err)
	assert.Equal(t, "carol2", name)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	users := NewUsers(db)

	require.NoError(t, users.Create(&models.User{Username: "dave", Email: "dave@example.com", Password: "secret123"}))

	err := users.Create(&models.User{Username: "dave2", Email: "dave@example.com", Password: "secret123"})
	require.Error(t, err)
}

func TestFindByEmailOrUsername(t *testing.T) {
	db := setupTestDB(t)
	users := NewUsers(db)

	require.NoError(t, users.Create(&models.User{Username: "erin", Email: "erin@example.com", Password: "secret123"}))

	byEmail, err := users.FindByEmailOrUsername("erin@example.com")
	require.NoError(t, err)
	byName, err := users.FindByEmailOrUsername("erin")
	require.NoError(t, err)
	assert.Equal(t, byEmail.ID, byName.ID)
}

func TestSetOnline(t *testing.T) {
	db := setupTestDB(t)
	users := NewUsers(db)

	user := models.User{Username: "frank", Email: "frank@example.com", Password: "secret123"}
	require.NoError(t, users.Create(&user))

	require.NoError(t, users.SetOnline(user.ID, true))
	got, err := users.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.Online)
	assert.False(t, got.LastSeen.IsZero())

	require.NoError(t, users.SetOnline(user.ID, false))
	got, err = users.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, got.Online)
}

func TestSetOnline_KeepsPasswordValid(t *testing.T) {
	db := setupTestDB(t)
	users := NewUsers(db)

	user := models.User{Username: "grace", Email: "grace@example.com", Password: "secret123"}
	require.NoError(t, users.Create(&user))
	require.NoError(t, users.SetOnline(user.ID, true))

	got, err := users.FindByID(user.ID)
	require.NoError(t, err)
	assert.NoError(t, got.ValidatePassword("secret123"))
}

func TestEnsureBot_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	users := NewUsers(db)

	first, err := users.EnsureBot()
	require.NoError(t, err)
	assert.Equal(t, BotUsername, first.Username)

	second, err := users.EnsureBot()
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
