package models

import (
	"time"
)

// ActiveSession is the persisted record of a live connection. One row per
// connection, keyed by an opaque session identifier; rows age out instead of
// being tied to the process lifetime.
type ActiveSession struct {
	SessionID    string    `gorm:"primaryKey;size:64" json:"session_id"`
	UserID       uint      `gorm:"index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ConnectionID string    `gorm:"size:64;index" json:"connection_id"`
	Room         string    `gorm:"size:255;index" json:"room"`
	IPAddress    string    `gorm:"size:64" json:"ip_address"`
	UserAgent    string    `gorm:"size:512" json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `gorm:"index" json:"last_activity"`
}
