package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/Monikarana27/ChatBud/models"
	"gorm.io/gorm"
)

const (
	// BotUsername is the identity that authors join/leave system messages.
	BotUsername = "ChatBud Bot"

	guestEmailDomain = "guest.chatbud.local"
	guestPassword    = "guest-account"
)

type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (s *Users) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Users) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailOrUsername resolves a login identity. The login form has a single
// identity field that accepts either value.
func (s *Users) FindByEmailOrUsername(identity string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? OR username = ?", identity, identity).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Users) Create(user *models.User) error {
	return s.db.Create(user).Error
}

// GetOrCreateGuest resolves a user by username, creating a guest account with
// a placeholder email and password when none exists. Creation is
// insert-first: a uniqueness conflict from a racing connection is resolved by
// re-fetching the existing row rather than failing the join.
func (s *Users) GetOrCreateGuest(username string) (*models.User, error) {
	user, err := s.FindByUsername(username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	guest := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@%s", username, guestEmailDomain),
		Password: guestPassword,
		LastSeen: time.Now(),
	}
	if err := s.db.Create(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.FindByUsername(username)
		}
		return nil, err
	}
	return &guest, nil
}

// NextAvailableUsername returns base unchanged if it is free, otherwise the
// first base<N> (N starting at 1) not yet taken.
func (s *Users) NextAvailableUsername(base string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		var count int64
		if err := s.db.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

// SetOnline flips the online flag and stamps last seen.
func (s *Users) SetOnline(id uint, online bool) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"online": online, "last_seen": time.Now()}).Error
}

// EnsureBot makes sure the bot account that authors system messages exists.
func (s *Users) EnsureBot() (*models.User, error) {
	bot, err := s.FindByUsername(BotUsername)
	if err == nil {
		return bot, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := models.User{
		Username: BotUsername,
		Email:    "bot@chatbud.local",
		Password: guestPassword,
		LastSeen: time.Now(),
	}
	if err := s.db.Create(&created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.FindByUsername(BotUsername)
		}
		return nil, err
	}
	return &created, nil
}
