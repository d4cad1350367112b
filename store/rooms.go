package store

import (
	"errors"

	"github.com/Monikarana27/ChatBud/models"
	"gorm.io/gorm"
)

type Rooms struct {
	db *gorm.DB
}

func NewRooms(db *gorm.DB) *Rooms {
	return &Rooms{db: db}
}

// GetOrCreate resolves a room by name, creating it lazily the first time a
// join or message targets a not-yet-seen name. Insert conflicts from racing
// connections fall back to re-fetching the winner's row.
func (s *Rooms) GetOrCreate(name string, creatorID uint) (*models.Room, error) {
	var room models.Room
	err := s.db.Where("name = ?", name).First(&room).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room = models.Room{Name: name, CreatedBy: creatorID}
	if err := s.db.Create(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Room
			if ferr := s.db.Where("name = ?", name).First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &room, nil
}

func (s *Rooms) FindByName(name string) (*models.Room, error) {
	var room models.Room
	if err := s.db.Where("name = ?", name).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}
