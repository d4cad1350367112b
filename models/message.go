package models

import (
	"time"
)

const (
	MessageKindText   = "text"
	MessageKindSystem = "system"
)

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Kind      string    `gorm:"size:20;default:'text'" json:"kind"`
	Deleted   bool      `gorm:"default:false" json:"-"`
	RoomID    uint      `gorm:"index" json:"room_id"`
	UserID    uint      `json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
