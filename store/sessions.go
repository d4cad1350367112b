package store

import (
	"time"

	"github.com/Monikarana27/ChatBud/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// RosterWindow bounds how stale a session row may be and still count
	// toward a room roster.
	RosterWindow = time.Hour

	// SessionMaxAge is the cutoff for the periodic cleanup sweep.
	SessionMaxAge = 24 * time.Hour
)

type Sessions struct {
	db *gorm.DB
}

func NewSessions(db *gorm.DB) *Sessions {
	return &Sessions{db: db}
}

// Upsert inserts or refreshes the row for a live connection, keyed by the
// opaque session identifier.
func (s *Sessions) Upsert(sess *models.ActiveSession) error {
	sess.LastActivity = time.Now()
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "connection_id", "room", "ip_address", "user_agent", "last_activity",
		}),
	}).Create(sess).Error
}

// Touch refreshes the activity stamp that the staleness windows key off.
func (s *Sessions) Touch(sessionID string) error {
	return s.db.Model(&models.ActiveSession{}).
		Where("session_id = ?", sessionID).
		Update("last_activity", time.Now()).Error
}

func (s *Sessions) DeleteByConnection(connectionID string) error {
	return s.db.Where("connection_id = ?", connectionID).Delete(&models.ActiveSession{}).Error
}

// ActiveInRoom returns session rows for a room whose last activity falls
// within the window, joined to their users and ordered by username.
func (s *Sessions) ActiveInRoom(room string, window time.Duration) ([]models.ActiveSession, error) {
	cutoff := time.Now().Add(-window)
	var sessions []models.ActiveSession
	if err := s.db.Joins("User").
		Where("active_sessions.room = ? AND active_sessions.last_activity > ?", room, cutoff).
		Order(`"User".username ASC`).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// PurgeStale removes session rows idle for longer than maxAge and returns how
// many were deleted. Users whose last session was purged are marked offline.
func (s *Sessions) PurgeStale(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)

	var userIDs []uint
	if err := s.db.Model(&models.ActiveSession{}).
		Where("last_activity < ?", cutoff).
		Distinct().Pluck("user_id", &userIDs).Error; err != nil {
		return 0, err
	}

	result := s.db.Where("last_activity < ?", cutoff).Delete(&models.ActiveSession{})
	if result.Error != nil {
		return 0, result.Error
	}

	if len(userIDs) > 0 {
		remaining := s.db.Model(&models.ActiveSession{}).Select("user_id")
		if err := s.db.Model(&models.User{}).
			Where("id IN ?", userIDs).
			Where("id NOT IN (?)", remaining).
			Update("online", false).Error; err != nil {
			return result.RowsAffected, err
		}
	}
	return result.RowsAffected, nil
}
