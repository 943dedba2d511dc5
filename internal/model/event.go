package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Тип события жизненного цикла брони.
type EventType string

const (
	EventTypeBookingOpened EventType = "booking_opened"
	EventTypeBookingClosed EventType = "booking_closed"
)

// booking_events — журнал переходов брони, пишется в той же транзакции.
type BookingEvent struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	BookingID uuid.UUID `gorm:"type:uuid;not null;index"`
	VehicleID uuid.UUID `gorm:"type:uuid;not null"`
	SlotID    uuid.UUID `gorm:"type:uuid;not null"`

	Details datatypes.JSON `gorm:"type:jsonb"`

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (e *BookingEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
