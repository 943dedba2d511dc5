package model

import "time"

// parking_locations
type Location struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
	City string `gorm:"type:varchar(255);not null"`

	CreatedAt time.Time `gorm:"not null"`

	Slots []Slot `gorm:"foreignKey:LocationID"`
}
