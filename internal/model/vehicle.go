package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// vehicles
type Vehicle struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Номер хранится в верхнем регистре.
	LicensePlate string `gorm:"type:varchar(32);not null;uniqueIndex"`
	VehicleType  string `gorm:"type:varchar(32);not null"`
	OwnerName    string `gorm:"type:varchar(255)"`
	PhoneNumber  string `gorm:"type:varchar(32)"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
