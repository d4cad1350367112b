package store

import (
	"github.com/Monikarana27/ChatBud/models"
	"gorm.io/gorm"
)

const (
	// DefaultHistoryLimit is used when a caller does not ask for a specific
	// amount of history.
	DefaultHistoryLimit = 50

	maxHistoryLimit = 1000
)

type Messages struct {
	db *gorm.DB
}

func NewMessages(db *gorm.DB) *Messages {
	return &Messages{db: db}
}

// Save persists a message. Kind is "text" for user chat and "system" for
// join/leave records authored by the bot.
func (s *Messages) Save(userID, roomID uint, content, kind string) (*models.Message, error) {
	message := models.Message{
		Content: content,
		Kind:    kind,
		RoomID:  roomID,
		UserID:  userID,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// RecentForRoom returns the most recent messages for a room in chronological
// (oldest-first) order. The limit is clamped to [1, 1000]; soft-deleted rows
// are excluded.
func (s *Messages) RecentForRoom(roomID uint, limit int) ([]models.Message, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	var messages []models.Message
	if err := s.db.Where("room_id = ? AND deleted = ?", roomID, false).
		Order("created_at DESC").
		Limit(limit).
		Preload("User").
		Find(&messages).Error; err != nil {
		return nil, err
	}

	// Storage order is newest-first; callers want chronological.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
