package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Размерный класс парковочного места.
type SizeClass string

const (
	SizeSmall  SizeClass = "SMALL"
	SizeMedium SizeClass = "MEDIUM"
	SizeLarge  SizeClass = "LARGE"
)

// Valid сообщает, является ли значение одним из известных классов.
func (c SizeClass) Valid() bool {
	switch c {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// parking_slots
type Slot struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	LocationID int64     `gorm:"not null;index;uniqueIndex:idx_slots_location_label,priority:1"`
	SizeClass  SizeClass `gorm:"type:varchar(16);not null;index"`

	Floor  int    `gorm:"not null;default:1"`
	Number int    `gorm:"not null"`
	Label  string `gorm:"type:varchar(32);not null;uniqueIndex:idx_slots_location_label,priority:2"`

	Occupied  bool `gorm:"not null;default:false;index"`
	Available bool `gorm:"not null;default:true"`

	// Невладеющая ссылка на бронирование, которое сейчас держит место.
	CurrentBookingID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Location *Location `gorm:"foreignKey:LocationID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (s *Slot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
